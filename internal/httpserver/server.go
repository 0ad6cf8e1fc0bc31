package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/kaii_store/internal/middleware/logging"
)

// NewEcho builds the echo instance with the shared middleware stack and
// registers every route from d.
func NewEcho(logger *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
	}
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	Register(e, d)
	return e
}
