package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kaii_store/internal/logging"
	"github.com/Skotchmaster/kaii_store/internal/middleware/auth"
	"github.com/Skotchmaster/kaii_store/internal/service"
	"github.com/Skotchmaster/kaii_store/internal/transport"
	"github.com/Skotchmaster/kaii_store/internal/upload"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.Checkout(ctx, auth.UserID(c), req); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrOutOfStock):
			return echo.NewHTTPError(http.StatusBadRequest, "insufficient stock")
		case errors.Is(err, service.ErrProductRequired):
			return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
		case errors.Is(err, service.ErrInvalidQuantity):
			return echo.NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
		case errors.Is(err, service.ErrPaymentMethodUnavailable):
			return echo.NewHTTPError(http.StatusBadRequest, "payment method unavailable")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid checkout request")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	return success(c, http.StatusOK)
}

func (h *OrderHTTP) UploadProof(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.upload_proof")

	orderID, ok := parseID(c, "orderId")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	fh, err := c.FormFile(upload.FieldName)
	if err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return err
		}
		l.Debug("upload_proof_no_file", "error", err)
		fh = nil
	}

	if _, err := h.Svc.SubmitProof(ctx, auth.UserID(c), orderID, fh); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, upload.ErrNotImage):
			return echo.NewHTTPError(http.StatusBadRequest, "only images are allowed")
		case errors.Is(err, upload.ErrTooLarge):
			return echo.NewHTTPError(http.StatusBadRequest, "file is too large")
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "proof file is required")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	return success(c, http.StatusOK)
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	orders, err := h.Svc.ListMine(ctx, auth.UserID(c))
	if err != nil {
		logging.FromContext(ctx).Error("my_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) AllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	orders, err := h.Svc.ListAll(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("all_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) Deliver(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.deliver")

	id, ok := parseID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	var req transport.DeliverRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("deliver_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Deliver(ctx, id, req.OrderContent); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return success(c, http.StatusOK)
}

func (h *OrderHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	dash, err := h.Svc.Dashboard(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("dashboard_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, dash)
}
