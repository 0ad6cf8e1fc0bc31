package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/kaii_store/internal/logging"
	"github.com/Skotchmaster/kaii_store/internal/mykafka"
)

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrConflict           = errors.New("conflict")            // 400, duplicate email
	ErrInvalidCredentials = errors.New("invalid credentials") // 401
	ErrNotFound           = errors.New("not found")           // 404
	ErrOutOfStock         = errors.New("insufficient stock")  // 400

	// checkout validation details, always wrapped together with ErrValidation
	ErrProductRequired          = errors.New("product_id is required")
	ErrInvalidQuantity          = errors.New("quantity must be at least 1")
	ErrPaymentMethodUnavailable = errors.New("payment method unavailable")
)

// publish never fails the caller; the write already happened.
func publish(ctx context.Context, pub mykafka.Publisher, key string, ev mykafka.Event) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(ctx, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", ev.Type, "key", key, "error", err)
	}
}
