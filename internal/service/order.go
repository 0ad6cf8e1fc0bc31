package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/Skotchmaster/kaii_store/internal/logging"
	"github.com/Skotchmaster/kaii_store/internal/metrics"
	"github.com/Skotchmaster/kaii_store/internal/models"
	"github.com/Skotchmaster/kaii_store/internal/mykafka"
	"github.com/Skotchmaster/kaii_store/internal/repo"
	"github.com/Skotchmaster/kaii_store/internal/storage"
	"github.com/Skotchmaster/kaii_store/internal/transport"
	"github.com/Skotchmaster/kaii_store/internal/upload"
)

type OrderService struct {
	Repo    *repo.GormRepo
	Disk    storage.Disk
	Policy  upload.ProofPolicy
	Events  mykafka.Publisher
	Metrics *metrics.Metrics
	// Now is overridden in tests.
	Now func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *OrderService) Checkout(ctx context.Context, userID uint, req transport.CheckoutRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.checkout", "product_id", req.ProductID)

	if req.ProductID == 0 {
		return nil, fmt.Errorf("%w: %w", ErrValidation, ErrProductRequired)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: %w", ErrValidation, ErrInvalidQuantity)
	}

	order, err := s.Repo.CreateOrderReservingStock(ctx, repo.NewOrder{
		UserID:          userID,
		ProductID:       req.ProductID,
		PaymentMethodID: req.PaymentMethodID,
		Quantity:        req.Quantity,
	})
	switch {
	case err == nil:
	case repo.IsNotFound(err):
		l.Warn("checkout_failed", "status", 404, "reason", "product not found")
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, req.ProductID)
	case errors.Is(err, repo.ErrOutOfStock):
		l.Warn("checkout_failed", "status", 400, "reason", "insufficient stock", "quantity", req.Quantity)
		return nil, ErrOutOfStock
	case errors.Is(err, repo.ErrPaymentMethodUnavailable):
		l.Warn("checkout_failed", "status", 400, "reason", "payment method unavailable", "payment_method_id", req.PaymentMethodID)
		return nil, fmt.Errorf("%w: %w", ErrValidation, ErrPaymentMethodUnavailable)
	default:
		l.Error("checkout_failed", "status", 500, "error", err)
		return nil, err
	}

	if s.Metrics != nil {
		s.Metrics.OrdersCreated.Inc()
	}
	publish(ctx, s.Events, mykafka.Key(order.ID), mykafka.NewEvent(mykafka.OrderCreated, map[string]any{
		"order_id":          order.ID,
		"user_id":           order.UserID,
		"product_id":        order.ProductID,
		"payment_method_id": order.PaymentMethodID,
		"quantity":          order.Quantity,
		"total":             order.Total,
	}))
	l.Info("checkout_success", "order_id", order.ID, "total", order.Total)
	return order, nil
}

// SubmitProof stores the payment proof and moves the order to
// pending_confirmation. Nothing is stored unless the order belongs to userID
// and the file passes the policy.
func (s *OrderService) SubmitProof(ctx context.Context, userID, orderID uint, fh *multipart.FileHeader) (string, error) {
	l := logging.FromContext(ctx).With("svc", "order.submit_proof", "order_id", orderID)

	if _, err := s.Repo.OrderForUser(ctx, orderID, userID); err != nil {
		if repo.IsNotFound(err) {
			l.Warn("submit_proof_failed", "status", 404, "reason", "order not found")
			return "", fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return "", err
	}

	if err := s.Policy.Validate(fh); err != nil {
		l.Warn("submit_proof_failed", "status", 400, "reason", "rejected file", "error", err)
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}

	f, err := upload.Open(fh)
	if err != nil {
		return "", fmt.Errorf("open proof: %w", err)
	}
	defer f.Close()

	name := upload.ProofName(s.now(), fh.Filename)
	if err := s.Disk.Put(ctx, name, f); err != nil {
		l.Error("submit_proof_failed", "status", 500, "reason", "cannot store file", "error", err)
		return "", err
	}

	url := s.Disk.URL(name)
	if err := s.Repo.AttachProof(ctx, orderID, userID, url); err != nil {
		l.Error("submit_proof_failed", "status", 500, "reason", "cannot update order", "error", err)
		if derr := s.Disk.Delete(ctx, name); derr != nil {
			l.Warn("orphaned_proof", "name", name, "error", derr)
		}
		if repo.IsNotFound(err) {
			return "", fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return "", err
	}

	if s.Metrics != nil {
		s.Metrics.ProofsSubmitted.Inc()
	}
	publish(ctx, s.Events, mykafka.Key(orderID), mykafka.NewEvent(mykafka.ProofSubmitted, map[string]any{
		"order_id":        orderID,
		"user_id":         userID,
		"proof_image_url": url,
	}))
	l.Info("submit_proof_success", "url", url)
	return url, nil
}

// Deliver completes the order from any prior status.
func (s *OrderService) Deliver(ctx context.Context, orderID uint, content string) error {
	l := logging.FromContext(ctx).With("svc", "order.deliver", "order_id", orderID)

	if err := s.Repo.DeliverOrder(ctx, orderID, content); err != nil {
		if repo.IsNotFound(err) {
			l.Warn("deliver_failed", "status", 404, "reason", "order not found")
			return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		l.Error("deliver_failed", "status", 500, "error", err)
		return err
	}

	if s.Metrics != nil {
		s.Metrics.OrdersDelivered.Inc()
	}
	publish(ctx, s.Events, mykafka.Key(orderID), mykafka.NewEvent(mykafka.OrderDelivered, map[string]any{
		"order_id": orderID,
	}))
	l.Info("deliver_success")
	return nil
}

func (s *OrderService) ListMine(ctx context.Context, userID uint) ([]models.OrderView, error) {
	return s.Repo.ListOrdersForUser(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.OrderView, error) {
	return s.Repo.ListAllOrders(ctx)
}

func (s *OrderService) Dashboard(ctx context.Context) (*transport.DashboardResponse, error) {
	total, err := s.Repo.CountOrders(ctx, "")
	if err != nil {
		return nil, err
	}
	pending, err := s.Repo.CountOrders(ctx, models.OrderStatusPendingConfirmation)
	if err != nil {
		return nil, err
	}
	return &transport.DashboardResponse{TotalOrders: total, PendingConfirmation: pending}, nil
}
