package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kaii_store/internal/hash"
	"github.com/Skotchmaster/kaii_store/internal/logging"
	"github.com/Skotchmaster/kaii_store/internal/models"
)

const (
	DefaultPaymentName    = "Keris"
	DefaultPaymentType    = "e-wallet"
	DefaultPaymentDetails = "Nomor: 0812-3456-7890\nAtas Nama: KAII STORE"
)

type Admin struct {
	Email    string
	Name     string
	Password string
}

// Seeder inserts one group of rows. It must leave existing rows untouched.
type Seeder struct {
	Name string
	Run  func(ctx context.Context, db *gorm.DB) error
}

func Seeders(admin Admin) []Seeder {
	return []Seeder{
		{Name: "admin", Run: adminSeeder(admin)},
		{Name: "payment_methods", Run: paymentMethodSeeder},
	}
}

// RunAll executes the seeders in order and stops on the first error.
func RunAll(ctx context.Context, db *gorm.DB, seeders []Seeder) error {
	l := logging.FromContext(ctx).With("component", "seed")
	for _, s := range seeders {
		if err := s.Run(ctx, db); err != nil {
			l.Error("seed_failed", "seeder", s.Name, "error", err)
			return fmt.Errorf("seed %s: %w", s.Name, err)
		}
		l.Info("seeded", "seeder", s.Name)
	}
	return nil
}

func adminSeeder(admin Admin) func(ctx context.Context, db *gorm.DB) error {
	return func(ctx context.Context, db *gorm.DB) error {
		if admin.Email == "" || admin.Password == "" {
			return fmt.Errorf("admin email and password are required")
		}

		var count int64
		if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", admin.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := hash.HashPassword(admin.Password)
		if err != nil {
			return err
		}
		return db.WithContext(ctx).Create(&models.User{
			Email:        admin.Email,
			Name:         admin.Name,
			PasswordHash: hashed,
			Role:         models.RoleAdmin,
		}).Error
	}
}

func paymentMethodSeeder(ctx context.Context, db *gorm.DB) error {
	pm := models.PaymentMethod{
		Name:     DefaultPaymentName,
		Type:     DefaultPaymentType,
		Details:  DefaultPaymentDetails,
		IsActive: true,
	}
	return db.WithContext(ctx).
		Where(models.PaymentMethod{Name: DefaultPaymentName}).
		FirstOrCreate(&pm).Error
}
