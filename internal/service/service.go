package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/pelyams/car_catalog_service/internal/domain"
	"github.com/pelyams/car_catalog_service/internal/ports"
)

const meterName = "github.com/pelyams/car_catalog_service/internal/service"

// CatalogService serves catalog reads straight from the store and clears the
// response cache after every successful write.
type CatalogService struct {
	db            ports.Repository
	cache         ports.ResponseCache
	assets        ports.AssetHost
	invalidations metric.Int64Counter
}

func NewCatalogService(db ports.Repository, cache ports.ResponseCache, assets ports.AssetHost) *CatalogService {
	invalidations, err := otel.Meter(meterName).Int64Counter(
		"catalog.cache.invalidations",
		metric.WithDescription("Response cache clears triggered by catalog writes"),
		metric.WithUnit("{clear}"),
	)
	if err != nil {
		invalidations = noop.Int64Counter{}
	}
	return &CatalogService{
		db:            db,
		cache:         cache,
		assets:        assets,
		invalidations: invalidations,
	}
}

func (s *CatalogService) ListInStock(ctx context.Context) ([]domain.Product, *domain.ServiceError) {
	products, err := s.db.GetProductsByAvailability(ctx, domain.InStock)
	if err != nil {
		return nil, domain.NewServiceError(err, nil)
	}
	return products, nil
}

func (s *CatalogService) ListInStockPaged(ctx context.Context, limit int64, offset int64) ([]domain.Product, *domain.ServiceError) {
	products, err := s.db.GetProductsByAvailabilityPaged(ctx, domain.InStock, limit, offset)
	if err != nil {
		return nil, domain.NewServiceError(err, nil)
	}
	return products, nil
}

// ListFiltered returns products of the given car type. Without a car type it
// returns the whole catalog, out-of-stock products included.
func (s *CatalogService) ListFiltered(ctx context.Context, carType string) ([]domain.Product, *domain.ServiceError) {
	var products []domain.Product
	var err error
	if carType != "" {
		products, err = s.db.GetProductsByCarType(ctx, carType)
	} else {
		products, err = s.db.GetAllProducts(ctx)
	}
	if err != nil {
		return nil, domain.NewServiceError(err, nil)
	}
	return products, nil
}

func (s *CatalogService) GetProductById(ctx context.Context, id int64) (*domain.Product, *domain.ServiceError) {
	product, err := s.db.GetProduct(ctx, id)
	if err != nil {
		return nil, domain.NewServiceError(err, nil)
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, product domain.NewProduct) (*domain.Product, *domain.ServiceError) {
	if err := product.Validate(); err != nil {
		return nil, domain.NewServiceError(err, nil)
	}
	stored, dbErr := s.db.StoreProduct(ctx, product)
	if dbErr != nil {
		return nil, domain.NewServiceError(dbErr, nil)
	}
	if cacheErr := s.invalidate(ctx); cacheErr != nil {
		return stored, domain.NewServiceError(cacheErr, nil)
	}
	return stored, nil
}

func (s *CatalogService) UpdateProductById(ctx context.Context, id int64, product domain.NewProduct) (*domain.Product, *domain.ServiceError) {
	if err := product.Validate(); err != nil {
		return nil, domain.NewServiceError(err, nil)
	}
	updated, dbErr := s.db.UpdateProductById(ctx, id, product)
	if dbErr != nil {
		return nil, domain.NewServiceError(dbErr, nil)
	}
	if cacheErr := s.invalidate(ctx); cacheErr != nil {
		return updated, domain.NewServiceError(cacheErr, nil)
	}
	return updated, nil
}

func (s *CatalogService) PatchProductById(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, *domain.ServiceError) {
	current, dbErr := s.db.GetProduct(ctx, id)
	if dbErr != nil {
		return nil, domain.NewServiceError(dbErr, nil)
	}
	return s.UpdateProductById(ctx, id, patch.Apply(current.Attributes()))
}

// DeleteProductById removes the product's image from the asset host before
// the record. If the image cannot be removed the record stays.
func (s *CatalogService) DeleteProductById(ctx context.Context, id int64) *domain.ServiceError {
	product, dbErr := s.db.GetProduct(ctx, id)
	if dbErr != nil {
		return domain.NewServiceError(dbErr, nil)
	}
	if product.ImagePublicID != "" {
		if assetErr := s.assets.DeleteAsset(ctx, product.ImagePublicID); assetErr != nil {
			return domain.NewServiceError(assetErr, nil)
		}
	}
	if _, dbErr := s.db.DeleteProductById(ctx, id); dbErr != nil {
		return domain.NewServiceError(dbErr, nil)
	}
	if cacheErr := s.invalidate(ctx); cacheErr != nil {
		return domain.NewServiceError(cacheErr, nil)
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return err
	}
	s.invalidations.Add(ctx, 1)
	return nil
}
