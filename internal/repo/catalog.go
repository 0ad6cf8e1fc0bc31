package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kaii_store/internal/db"
	"github.com/Skotchmaster/kaii_store/internal/models"
)

func (r *GormRepo) ListProducts(ctx context.Context, inStockOnly bool) ([]models.Product, error) {
	if inStockOnly {
		return db.QueryRows[models.Product](ctx, r.DB, "SELECT * FROM products WHERE stock > 0 ORDER BY id ASC")
	}
	return db.QueryRows[models.Product](ctx, r.DB, "SELECT * FROM products ORDER BY id ASC")
}

func (r *GormRepo) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	if _, err := db.InsertRow(ctx, r.DB, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct replaces every editable column of product id.
func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, p *models.Product) (*models.Product, error) {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
		"name":        p.Name,
		"price":       p.Price,
		"stock":       p.Stock,
		"description": p.Description,
		"image_url":   p.ImageURL,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.ProductByID(ctx, id)
}

func (r *GormRepo) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]models.PaymentMethod, error) {
	q := r.DB.WithContext(ctx).Model(&models.PaymentMethod{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	methods := make([]models.PaymentMethod, 0)
	if err := q.Order("id ASC").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *GormRepo) PaymentMethodByID(ctx context.Context, id uint) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	if err := r.DB.WithContext(ctx).First(&pm, id).Error; err != nil {
		return nil, err
	}
	return &pm, nil
}

func (r *GormRepo) CreatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) (*models.PaymentMethod, error) {
	if _, err := db.InsertRow(ctx, r.DB, pm); err != nil {
		return nil, err
	}
	return pm, nil
}

func (r *GormRepo) UpdatePaymentMethod(ctx context.Context, id uint, pm *models.PaymentMethod) (*models.PaymentMethod, error) {
	res := r.DB.WithContext(ctx).Model(&models.PaymentMethod{}).Where("id = ?", id).Updates(map[string]any{
		"name":      pm.Name,
		"type":      pm.Type,
		"details":   pm.Details,
		"logo_url":  pm.LogoURL,
		"is_active": pm.IsActive,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.PaymentMethodByID(ctx, id)
}
