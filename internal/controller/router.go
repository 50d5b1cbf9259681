package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"

	"auction-management-api/internal/service"
	"auction-management-api/pkg/logger"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	handler.Use(requestLoggerMiddleware)
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newAuctionRoutesHandler(api, services, validate)
	newBidRoutesHandler(api, services, validate)
}

// requestLoggerMiddleware logs every request with timing
func requestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		logger.Info("HTTP Request", map[string]any{
			"method":  c.Request().Method,
			"path":    c.Request().URL.Path,
			"status":  c.Response().Status,
			"latency": time.Since(start).String(),
		})

		return err
	}
}
