package dto

import "time"

// LoginRequest represents login credentials.
// f_userName and f_Pwd are accepted for clients of the older admin UI.
type LoginRequest struct {
	Username       string `json:"username" binding:"required_without=LegacyUsername" example:"admin"`
	Password       string `json:"password" binding:"required_without=LegacyPassword" example:"admin123"`
	LegacyUsername string `json:"f_userName,omitempty" swaggerignore:"true"`
	LegacyPassword string `json:"f_Pwd,omitempty" swaggerignore:"true"`
}

// Credentials returns the username and password, preferring the current field names
func (r *LoginRequest) Credentials() (username, password string) {
	username, password = r.Username, r.Password
	if username == "" {
		username = r.LegacyUsername
	}
	if password == "" {
		password = r.LegacyPassword
	}
	return username, password
}

// LoginResponse is returned on a successful login
type LoginResponse struct {
	Message   string    `json:"message" example:"Login successful"`
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType" example:"Bearer"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username" example:"admin"`
}

// SessionResponse describes the caller's session
type SessionResponse struct {
	Username  string    `json:"username" example:"admin"`
	ExpiresAt time.Time `json:"expiresAt"`
}
