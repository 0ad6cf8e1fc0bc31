package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExist         = errors.New("user already exist")
	ErrOutOfStock               = errors.New("insufficient stock")
	ErrPaymentMethodUnavailable = errors.New("payment method unavailable")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
