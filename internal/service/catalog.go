package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/kaii_store/internal/logging"
	"github.com/Skotchmaster/kaii_store/internal/models"
	"github.com/Skotchmaster/kaii_store/internal/mykafka"
	"github.com/Skotchmaster/kaii_store/internal/repo"
	"github.com/Skotchmaster/kaii_store/internal/transport"
)

// CatalogService manages products and payment methods. Numeric fields are
// stored as given; negative prices and stock are accepted.
type CatalogService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
}

func (s *CatalogService) AvailableProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, true)
}

func (s *CatalogService) AllProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx, false)
}

func productFromRequest(req transport.ProductRequest) *models.Product {
	return &models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	p, err := s.Repo.CreateProduct(ctx, productFromRequest(req))
	if err != nil {
		logging.FromContext(ctx).Error("create_product_error", "error", err)
		return nil, err
	}
	publish(ctx, s.Events, mykafka.Key(p.ID), mykafka.NewEvent(mykafka.ProductCreated, p))
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.ProductRequest) (*models.Product, error) {
	p, err := s.Repo.UpdateProduct(ctx, id, productFromRequest(req))
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	publish(ctx, s.Events, mykafka.Key(p.ID), mykafka.NewEvent(mykafka.ProductUpdated, p))
	return p, nil
}

func (s *CatalogService) ActivePaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	return s.Repo.ListPaymentMethods(ctx, true)
}

func (s *CatalogService) AllPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	return s.Repo.ListPaymentMethods(ctx, false)
}

func paymentMethodFromRequest(req transport.PaymentMethodRequest) *models.PaymentMethod {
	return &models.PaymentMethod{
		Name:     req.Name,
		Type:     req.Type,
		Details:  req.Details,
		LogoURL:  req.LogoURL,
		IsActive: bool(req.IsActive),
	}
}

func (s *CatalogService) CreatePaymentMethod(ctx context.Context, req transport.PaymentMethodRequest) (*models.PaymentMethod, error) {
	return s.Repo.CreatePaymentMethod(ctx, paymentMethodFromRequest(req))
}

func (s *CatalogService) UpdatePaymentMethod(ctx context.Context, id uint, req transport.PaymentMethodRequest) (*models.PaymentMethod, error) {
	pm, err := s.Repo.UpdatePaymentMethod(ctx, id, paymentMethodFromRequest(req))
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: payment method %d", ErrNotFound, id)
		}
		return nil, err
	}
	return pm, nil
}
