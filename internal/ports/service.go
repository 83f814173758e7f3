package ports

import (
	"context"

	"github.com/pelyams/car_catalog_service/internal/domain"
)

type CatalogService interface {
	ListInStock(ctx context.Context) ([]domain.Product, *domain.ServiceError)
	ListInStockPaged(ctx context.Context, limit int64, offset int64) ([]domain.Product, *domain.ServiceError)
	ListFiltered(ctx context.Context, carType string) ([]domain.Product, *domain.ServiceError)
	GetProductById(ctx context.Context, id int64) (*domain.Product, *domain.ServiceError)
	CreateProduct(ctx context.Context, product domain.NewProduct) (*domain.Product, *domain.ServiceError)
	UpdateProductById(ctx context.Context, id int64, product domain.NewProduct) (*domain.Product, *domain.ServiceError)
	PatchProductById(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, *domain.ServiceError)
	DeleteProductById(ctx context.Context, id int64) *domain.ServiceError
}
