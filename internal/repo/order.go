package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kaii_store/internal/db"
	"github.com/Skotchmaster/kaii_store/internal/models"
)

const orderViewSelect = `
SELECT o.id, o.user_id, o.product_id, o.quantity, o.total, o.payment_method_id,
       o.proof_image_url, o.status, o.order_content, o.created_at,
       COALESCE(u.name, '') AS user_name,
       COALESCE(p.name, '') AS product_name,
       COALESCE(pm.name, '') AS payment_name
FROM orders o
LEFT JOIN users u ON u.id = o.user_id
LEFT JOIN products p ON p.id = o.product_id
LEFT JOIN payment_methods pm ON pm.id = o.payment_method_id`

type NewOrder struct {
	UserID          uint
	ProductID       uint
	PaymentMethodID uint
	Quantity        int64
}

// CreateOrderReservingStock decrements stock with a guarded update and inserts
// the order in the same transaction, so concurrent checkouts cannot oversell.
func (r *GormRepo) CreateOrderReservingStock(ctx context.Context, in NewOrder) (*models.Order, error) {
	var order *models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, in.ProductID).Error; err != nil {
			return err
		}

		var pm models.PaymentMethod
		if err := tx.First(&pm, in.PaymentMethodID).Error; err != nil {
			if IsNotFound(err) {
				return ErrPaymentMethodUnavailable
			}
			return err
		}
		if !pm.IsActive {
			return ErrPaymentMethodUnavailable
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", in.ProductID, in.Quantity).
			Update("stock", gorm.Expr("stock - ?", in.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOutOfStock
		}

		order = &models.Order{
			UserID:          in.UserID,
			ProductID:       in.ProductID,
			PaymentMethodID: in.PaymentMethodID,
			Quantity:        in.Quantity,
			Total:           product.Price * in.Quantity,
			Status:          models.OrderStatusPendingPayment,
		}
		_, err := db.InsertRow(ctx, tx, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// OrderForUser returns gorm.ErrRecordNotFound both for a missing order and for
// an order owned by someone else.
func (r *GormRepo) OrderForUser(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) OrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) AttachProof(ctx context.Context, orderID, userID uint, url string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND user_id = ?", orderID, userID).
		Updates(map[string]any{
			"proof_image_url": url,
			"status":          models.OrderStatusPendingConfirmation,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeliverOrder completes the order whatever its current status is.
func (r *GormRepo) DeliverOrder(ctx context.Context, orderID uint, content string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"order_content": content,
			"status":        models.OrderStatusCompleted,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListOrdersForUser(ctx context.Context, userID uint) ([]models.OrderView, error) {
	rows, err := db.QueryRows[models.OrderView](ctx, r.DB,
		orderViewSelect+" WHERE o.user_id = ? ORDER BY o.created_at DESC, o.id DESC", userID)
	if err != nil {
		return nil, err
	}
	// user_name is only exposed to admins
	for i := range rows {
		rows[i].UserName = ""
	}
	return rows, nil
}

func (r *GormRepo) ListAllOrders(ctx context.Context) ([]models.OrderView, error) {
	return db.QueryRows[models.OrderView](ctx, r.DB, orderViewSelect+" ORDER BY o.created_at DESC, o.id DESC")
}

// CountOrders counts every order, or only those in status when it is non-empty.
func (r *GormRepo) CountOrders(ctx context.Context, status models.OrderStatus) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
