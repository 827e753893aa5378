package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/empdesk/internal/app/controllers"
	"github.com/yigit/empdesk/internal/middleware"
)

// SetupRouter configures all API routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	employeeController *controllers.EmployeeController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public Auth routes ---
	api.POST("/login", authController.Login)

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.SessionAuth())
	{
		authenticated.POST("/logout", authController.Logout)
		authenticated.GET("/session", authController.GetSession)

		employees := authenticated.Group("/employees")
		{
			employees.POST("", employeeController.CreateEmployee)
			employees.GET("", employeeController.GetAllEmployees)
			employees.GET("/search", employeeController.SearchEmployees)
			employees.GET("/:id", employeeController.GetEmployeeByID)
			employees.PUT("/:id", employeeController.UpdateEmployee)
			employees.DELETE("/:id", employeeController.DeleteEmployee)
		}
	}
}
