package mykafka

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	UserRegistered EventType = "user_registered"
	OrderCreated   EventType = "order_created"
	ProofSubmitted EventType = "proof_submitted"
	OrderDelivered EventType = "order_delivered"
	ProductCreated EventType = "product_created"
	ProductUpdated EventType = "product_updated"
)

type Event struct {
	ID         string    `json:"event_id"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func NewEvent(t EventType, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

func Key(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
