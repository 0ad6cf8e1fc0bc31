package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginUser struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

type ProductRequest struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type PaymentMethodRequest struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Details  string   `json:"details"`
	LogoURL  string   `json:"logo_url"`
	IsActive FlexBool `json:"is_active"`
}

type CheckoutRequest struct {
	ProductID       uint  `json:"product_id"`
	Quantity        int64 `json:"quantity"`
	PaymentMethodID uint  `json:"payment_method_id"`
}

type DeliverRequest struct {
	OrderContent string `json:"order_content"`
}

type DashboardResponse struct {
	TotalOrders         int64 `json:"total_orders"`
	PendingConfirmation int64 `json:"pending_confirmation"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// FlexBool accepts true/false, 1/0 and their string forms, the way the admin
// console posts checkbox values.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case bool:
		*b = FlexBool(v)
	case float64:
		*b = v != 0
	case string:
		s := strings.TrimSpace(strings.ToLower(v))
		if s == "" {
			*b = false
			return nil
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			*b = n != 0
			return nil
		}
		parsed, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("is_active: %q is not a boolean", v)
		}
		*b = FlexBool(parsed)
	default:
		return fmt.Errorf("is_active: unsupported value %s", string(data))
	}
	return nil
}
