package router

import (
	"mhhf/internal/adapter/api/handler"
	"mhhf/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupMediaRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	publicHandler := handler.GetPublicMediaHandler()
	adminHandler := handler.GetAdminMediaHandler()

	// Public gallery snapshots
	e.GET("/v1/media/:kind", publicHandler.List)

	// Admin console CRUD
	admin := e.Group("/v1/admin/media")
	admin.Use(authMiddleware.Authenticate)

	admin.GET("/:kind", adminHandler.List)
	admin.POST("/:kind", adminHandler.Create)
	admin.PUT("/:kind/:id", adminHandler.Update)
	admin.DELETE("/:kind/:id", adminHandler.Delete)
}

func SetupConsoleRouter(e *echo.Echo, consoleHandler *handler.ConsoleHandler) {
	e.GET("/v1/admin/console/ws", consoleHandler.Connect)
}
