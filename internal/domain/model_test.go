package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validProduct() NewProduct {
	return NewProduct{
		Name:         "Civic",
		Price:        decimal.RequireFromString("21999.99"),
		CarType:      "sedan",
		Availability: InStock,
	}
}

func TestNewProductValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(p *NewProduct)
		wantErr bool
	}{
		{name: "valid product", mutate: func(p *NewProduct) {}},
		{name: "blank name", mutate: func(p *NewProduct) { p.Name = "  " }, wantErr: true},
		{name: "empty car type", mutate: func(p *NewProduct) { p.CarType = "" }, wantErr: true},
		{name: "unknown availability", mutate: func(p *NewProduct) { p.Availability = "sold" }, wantErr: true},
		{name: "missing availability", mutate: func(p *NewProduct) { p.Availability = "" }, wantErr: true},
		{name: "negative price", mutate: func(p *NewProduct) { p.Price = decimal.NewFromInt(-1) }, wantErr: true},
		{name: "zero price", mutate: func(p *NewProduct) { p.Price = decimal.Zero }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProduct()
			tc.mutate(&p)
			err := p.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProductPatchApply(t *testing.T) {
	base := validProduct()
	base.ImagePublicID = "cars/civic"

	name := "Accord"
	availability := OutOfStock
	patched := ProductPatch{Name: &name, Availability: &availability}.Apply(base)

	assert.Equal(t, "Accord", patched.Name)
	assert.Equal(t, OutOfStock, patched.Availability)
	assert.Equal(t, base.CarType, patched.CarType)
	assert.True(t, base.Price.Equal(patched.Price))
	assert.Equal(t, "cars/civic", patched.ImagePublicID)

	assert.True(t, ProductPatch{}.Empty())
	assert.False(t, ProductPatch{Name: &name}.Empty())
}

func TestErrorContainer(t *testing.T) {
	c := NewErrorContainer()
	c.Add(ErrNotFound, nil, ErrInternalCache)

	assert.Len(t, c.Unwrap(), 2)
	assert.Equal(t, "product not found;\ninternal cache error;\n", c.Error())
	assert.True(t, errors.Is(c, ErrInternalCache))
}

func TestServiceErrorUnwrap(t *testing.T) {
	se := NewServiceError(ErrAssetHost, []error{ErrInternalCache})

	assert.True(t, errors.Is(se, ErrAssetHost))
	assert.True(t, errors.Is(se, ErrInternalCache))
	assert.False(t, errors.Is(se, ErrNotFound))
	assert.Equal(t, "service error(s):\ninternal cache error\nasset host error\n", se.Error())
}
