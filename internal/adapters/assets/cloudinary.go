package assets

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/pelyams/car_catalog_service/internal/domain"
)

type destroyer interface {
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryHost deletes product images from Cloudinary. An image that is
// already gone ("not found") counts as deleted.
type CloudinaryHost struct {
	uploader destroyer
}

func NewCloudinaryHost(cloudinaryURL string) (*CloudinaryHost, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &CloudinaryHost{uploader: &cld.Upload}, nil
}

func (h *CloudinaryHost) DeleteAsset(ctx context.Context, publicID string) error {
	res, err := h.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("%w: failed to delete image %s from cloudinary: %s", domain.ErrAssetHost, publicID, err.Error())
	}
	if res == nil {
		return fmt.Errorf("%w: empty response deleting image %s from cloudinary", domain.ErrAssetHost, publicID)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("%w: failed to delete image %s from cloudinary: %s", domain.ErrAssetHost, publicID, res.Error.Message)
	}
	switch res.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("%w: unexpected cloudinary result %q for image %s", domain.ErrAssetHost, res.Result, publicID)
	}
}
