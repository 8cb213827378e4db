package router

import (
	"mhhf/internal/adapter/api/handler"
	"mhhf/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")
	auth.POST("/login", authHandler.Login, middleware.AuthRateLimit())
	auth.POST("/session", authHandler.Session, middleware.AuthRateLimit())
	auth.POST("/logout", authHandler.Logout, authMiddleware.Authenticate)
}
