package ports

import (
	"context"

	"github.com/pelyams/car_catalog_service/internal/domain"
)

type Repository interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByAvailability(ctx context.Context, availability domain.Availability) ([]domain.Product, error)
	GetProductsByAvailabilityPaged(ctx context.Context, availability domain.Availability, limit int64, offset int64) ([]domain.Product, error)
	GetProductsByCarType(ctx context.Context, carType string) ([]domain.Product, error)
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	StoreProduct(ctx context.Context, product domain.NewProduct) (*domain.Product, error)
	UpdateProductById(ctx context.Context, id int64, product domain.NewProduct) (*domain.Product, error)
	DeleteProductById(ctx context.Context, id int64) (*domain.Product, error)
	Ping(ctx context.Context) error
}
