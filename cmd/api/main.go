package main

import (
	"os"

	"github.com/yigit/empdesk/internal/pkg/logger"
)

// @title Employee Admin API
// @version 1.0
// @description Admin backend for employee records with photo uploads.

// @host localhost:5000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
