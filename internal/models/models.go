package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type OrderStatus string

const (
	OrderStatusPendingPayment      OrderStatus = "pending_payment"
	OrderStatusPendingConfirmation OrderStatus = "pending_confirmation"
	OrderStatusCompleted           OrderStatus = "completed"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email        string `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string `gorm:"column:password;not null"  json:"-"`
	Name         string `                                 json:"name"`
	Role         string `gorm:"not null;default:user"     json:"role"`
}

type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string `                                 json:"name"`
	Price       int64  `gorm:"not null"                  json:"price"`
	Stock       int64  `gorm:"not null"                  json:"stock"`
	Description string `                                 json:"description"`
	ImageURL    string `                                 json:"image_url"`
}

type PaymentMethod struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name     string `gorm:"index;not null"            json:"name"`
	Type     string `                                 json:"type"`
	Details  string `                                 json:"details"`
	LogoURL  string `                                 json:"logo_url"`
	IsActive bool   `gorm:"not null"                  json:"is_active"`
}

// Order references its buyer, product and payment method through real
// foreign keys; the association fields are only there for the migrator.
type Order struct {
	ID              uint        `gorm:"primaryKey;autoIncrement"                json:"id"`
	UserID          uint        `gorm:"index;not null"                          json:"user_id"`
	ProductID       uint        `gorm:"index;not null"                          json:"product_id"`
	Quantity        int64       `gorm:"not null"                                json:"quantity"`
	Total           int64       `gorm:"not null"                                json:"total"`
	PaymentMethodID uint        `gorm:"index;not null"                          json:"payment_method_id"`
	ProofImageURL   string      `                                               json:"proof_image_url"`
	Status          OrderStatus `gorm:"index;not null;default:pending_payment"  json:"status"`
	OrderContent    string      `                                               json:"order_content"`
	CreatedAt       time.Time   `gorm:"autoCreateTime;index"                    json:"created_at"`

	User          *User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Product       *Product       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	PaymentMethod *PaymentMethod `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (o *Order) PrimaryKey() uint { return o.ID }

func (u *User) PrimaryKey() uint { return u.ID }

func (p *Product) PrimaryKey() uint { return p.ID }

func (m *PaymentMethod) PrimaryKey() uint { return m.ID }

// OrderView is the joined projection returned by order listings.
type OrderView struct {
	ID              uint        `json:"id"`
	UserID          uint        `json:"user_id"`
	ProductID       uint        `json:"product_id"`
	Quantity        int64       `json:"quantity"`
	Total           int64       `json:"total"`
	PaymentMethodID uint        `json:"payment_method_id"`
	ProofImageURL   string      `json:"proof_image_url"`
	Status          OrderStatus `json:"status"`
	OrderContent    string      `json:"order_content"`
	CreatedAt       time.Time   `json:"created_at"`
	UserName        string      `json:"user_name,omitempty"`
	ProductName     string      `json:"product_name"`
	PaymentName     string      `json:"payment_name"`
}
