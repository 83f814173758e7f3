package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Availability string

const (
	InStock    Availability = "in_stock"
	OutOfStock Availability = "out_of_stock"
	PreOrder   Availability = "pre_order"
)

func (a Availability) Valid() bool {
	switch a {
	case InStock, OutOfStock, PreOrder:
		return true
	}
	return false
}

type Product struct {
	Id            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	CarType       string          `json:"car_type"`
	Availability  Availability    `json:"availability"`
	ImageURL      string          `json:"image_url"`
	ImagePublicID string          `json:"image_public_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewProduct holds the writable attributes of a product, used by create and
// full update.
type NewProduct struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	CarType       string          `json:"car_type"`
	Availability  Availability    `json:"availability"`
	ImageURL      string          `json:"image_url"`
	ImagePublicID string          `json:"image_public_id"`
}

// ProductPatch is a partial update: nil fields are left untouched.
type ProductPatch struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	CarType       *string          `json:"car_type"`
	Availability  *Availability    `json:"availability"`
	ImageURL      *string          `json:"image_url"`
	ImagePublicID *string          `json:"image_public_id"`
}

func (p NewProduct) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is empty"))
	}
	if strings.TrimSpace(p.CarType) == "" {
		errs = append(errs, errors.New("car_type is empty"))
	}
	if !p.Availability.Valid() {
		errs = append(errs, fmt.Errorf("availability %q is not one of %s, %s, %s", p.Availability, InStock, OutOfStock, PreOrder))
	}
	if p.Price.IsNegative() {
		errs = append(errs, fmt.Errorf("price %s is negative", p.Price))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// Attributes returns the writable part of a stored product.
func (p Product) Attributes() NewProduct {
	return NewProduct{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		CarType:       p.CarType,
		Availability:  p.Availability,
		ImageURL:      p.ImageURL,
		ImagePublicID: p.ImagePublicID,
	}
}

// Apply overlays the non-nil patch fields on top of p.
func (patch ProductPatch) Apply(p NewProduct) NewProduct {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.CarType != nil {
		p.CarType = *patch.CarType
	}
	if patch.Availability != nil {
		p.Availability = *patch.Availability
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.ImagePublicID != nil {
		p.ImagePublicID = *patch.ImagePublicID
	}
	return p
}

func (patch ProductPatch) Empty() bool {
	return patch == ProductPatch{}
}
