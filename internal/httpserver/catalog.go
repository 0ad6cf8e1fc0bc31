package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kaii_store/internal/logging"
	"github.com/Skotchmaster/kaii_store/internal/service"
	"github.com/Skotchmaster/kaii_store/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) AvailableProducts(c echo.Context) error {
	ctx := c.Request().Context()
	products, err := h.Svc.AvailableProducts(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) AllProducts(c echo.Context) error {
	ctx := c.Request().Context()
	products, err := h.Svc.AllProducts(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("create_product_success", "product_id", p.ID)
	return success(c, http.StatusOK)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_product")

	id, ok := parseID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.UpdateProduct(ctx, id, req); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("update_product_error", "status", 404, "product_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("update_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return success(c, http.StatusOK)
}

func (h *CatalogHTTP) ActivePaymentMethods(c echo.Context) error {
	ctx := c.Request().Context()
	methods, err := h.Svc.ActivePaymentMethods(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_payment_methods_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, methods)
}

func (h *CatalogHTTP) AllPaymentMethods(c echo.Context) error {
	ctx := c.Request().Context()
	methods, err := h.Svc.AllPaymentMethods(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_payment_methods_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, methods)
}

func (h *CatalogHTTP) CreatePaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_payment_method")

	var req transport.PaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_payment_method_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pm, err := h.Svc.CreatePaymentMethod(ctx, req)
	if err != nil {
		l.Error("create_payment_method_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("create_payment_method_success", "payment_method_id", pm.ID)
	return success(c, http.StatusOK)
}

func (h *CatalogHTTP) UpdatePaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_payment_method")

	id, ok := parseID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "payment method not found")
	}

	var req transport.PaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_payment_method_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.UpdatePaymentMethod(ctx, id, req); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("update_payment_method_error", "status", 404, "payment_method_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "payment method not found")
		}
		l.Error("update_payment_method_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return success(c, http.StatusOK)
}
