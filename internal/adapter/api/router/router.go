package router

import (
	"mhhf/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupAuthRouter(e, authMiddleware)
	SetupMediaRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
