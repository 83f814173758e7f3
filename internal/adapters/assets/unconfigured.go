package assets

import (
	"context"
	"fmt"

	"github.com/pelyams/car_catalog_service/internal/domain"
)

// Unconfigured is used when no asset host is set up. Deleting a product that
// references an image then fails instead of orphaning the image.
type Unconfigured struct{}

func (Unconfigured) DeleteAsset(_ context.Context, publicID string) error {
	return fmt.Errorf("%w: no asset host configured to delete image %s", domain.ErrAssetHost, publicID)
}
