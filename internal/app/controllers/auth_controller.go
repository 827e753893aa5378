package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/empdesk/internal/app/models/dto"
	"github.com/yigit/empdesk/internal/app/services"
	"github.com/yigit/empdesk/internal/middleware"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
)

// AuthController handles admin login sessions
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Login handles admin login
// @Summary Admin login
// @Description Checks the admin credentials and opens a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		middleware.HandleBindingError(ctx, err)
		return
	}

	username, password := req.Credentials()
	result, err := c.authService.Login(ctx.Request.Context(), username, password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Message:   "Login successful",
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresAt: result.ExpiresAt,
		Username:  result.Username,
	})
}

// Logout revokes the caller's session
// @Summary Admin logout
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse "Logout successful"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	session, ok := middleware.GetSession(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenNotFound)
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), session.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logout successful"})
}

// GetSession describes the caller's session
// @Summary Current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionResponse "Session"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /session [get]
func (c *AuthController) GetSession(ctx *gin.Context) {
	session, ok := middleware.GetSession(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenNotFound)
		return
	}

	ctx.JSON(http.StatusOK, dto.SessionResponse{
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
	})
}
