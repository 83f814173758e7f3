package ports

import "context"

// AssetHost removes product images stored outside the catalog.
// Failures are wrapped in domain.ErrAssetHost.
type AssetHost interface {
	DeleteAsset(ctx context.Context, publicID string) error
}
