package httpserver

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kaii_store/internal/db"
	"github.com/Skotchmaster/kaii_store/internal/metrics"
	"github.com/Skotchmaster/kaii_store/internal/middleware/auth"
	"github.com/Skotchmaster/kaii_store/internal/storage"
	"github.com/Skotchmaster/kaii_store/internal/upload"
)

// room for multipart framing around the largest accepted proof
const multipartOverhead = 1 << 20

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	OrderHandler   *OrderHTTP
	Authenticator  *auth.Authenticator
	Metrics        *metrics.Metrics
	UploadMaxBytes int64
	// UploadDir is served at /uploads when proofs live on local disk.
	UploadDir string
	StaticDir string
}

func uploadBodyLimit(maxBytes int64) string {
	if maxBytes <= 0 {
		maxBytes = upload.DefaultMaxBytes
	}
	return strconv.FormatInt(maxBytes+multipartOverhead, 10) + "B"
}

// proofTooLarge reports a body rejected by the size limit the same way
// as a proof rejected by the upload policy.
func proofTooLarge(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return echo.NewHTTPError(http.StatusBadRequest, "file is too large")
		}
		return err
	}
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	api := e.Group("/api")
	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)

	user := api.Group("", d.Authenticator.RequireAuth)
	user.GET("/products", d.CatalogHandler.AvailableProducts)
	user.GET("/payment-methods", d.CatalogHandler.ActivePaymentMethods)
	user.POST("/checkout", d.OrderHandler.Checkout)
	user.POST("/upload-proof/:orderId", d.OrderHandler.UploadProof, proofTooLarge, echomw.BodyLimit(uploadBodyLimit(d.UploadMaxBytes)))
	user.GET("/my-orders", d.OrderHandler.MyOrders)

	admin := api.Group("/admin", d.Authenticator.RequireAuth, d.Authenticator.RequireAdmin)
	admin.GET("/dashboard", d.OrderHandler.Dashboard)

	admin.GET("/products", d.CatalogHandler.AllProducts)
	admin.POST("/products", d.CatalogHandler.CreateProduct)
	admin.PUT("/products/:id", d.CatalogHandler.UpdateProduct)

	admin.GET("/payment-methods", d.CatalogHandler.AllPaymentMethods)
	admin.POST("/payment-methods", d.CatalogHandler.CreatePaymentMethod)
	admin.PUT("/payment-methods/:id", d.CatalogHandler.UpdatePaymentMethod)

	admin.GET("/orders", d.OrderHandler.AllOrders)
	admin.POST("/orders/:id/deliver", d.OrderHandler.Deliver)

	if d.UploadDir != "" {
		e.Static(storage.LocalURLPrefix, d.UploadDir)
	}
	if d.StaticDir != "" {
		if info, err := os.Stat(d.StaticDir); err == nil && info.IsDir() {
			e.Static("/", d.StaticDir)
		}
	}
}
