package routing_test

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pelyams/car_catalog_service/internal/domain"
	"github.com/pelyams/car_catalog_service/internal/ports"
)

var _ ports.Repository = (*fakeRepository)(nil)

// fakeRepository is an in-memory catalog store. block, when set, is received
// from before every list query so tests can hold reads in flight; a list
// whose context ended meanwhile fails like a real driver would.
type fakeRepository struct {
	mu        sync.Mutex
	nextID    int64
	products  map[int64]domain.Product
	listCalls int
	entered   chan struct{}
	block     chan struct{}
	failWith  error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{nextID: 1, products: make(map[int64]domain.Product)}
}

func (r *fakeRepository) insert(p domain.NewProduct) domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	product := domain.Product{
		Id:            r.nextID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		CarType:       p.CarType,
		Availability:  p.Availability,
		ImageURL:      p.ImageURL,
		ImagePublicID: p.ImagePublicID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.products[product.Id] = product
	r.nextID++
	return product
}

func (r *fakeRepository) has(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.products[id]
	return ok
}

func (r *fakeRepository) lists() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls
}

func (r *fakeRepository) list(ctx context.Context, match func(domain.Product) bool) ([]domain.Product, error) {
	r.mu.Lock()
	r.listCalls++
	entered, block, failWith := r.entered, r.block, r.failWith
	r.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInternalDb, err)
	}
	if failWith != nil {
		return nil, failWith
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (r *fakeRepository) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: failed to find product %d", domain.ErrNotFound, id)
	}
	return &p, nil
}

func (r *fakeRepository) GetProductsByAvailability(ctx context.Context, availability domain.Availability) ([]domain.Product, error) {
	return r.list(ctx, func(p domain.Product) bool { return p.Availability == availability })
}

func (r *fakeRepository) GetProductsByAvailabilityPaged(ctx context.Context, availability domain.Availability, limit int64, offset int64) ([]domain.Product, error) {
	all, err := r.GetProductsByAvailability(ctx, availability)
	if err != nil {
		return nil, err
	}
	if offset >= int64(len(all)) {
		return []domain.Product{}, nil
	}
	end := offset + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[offset:end], nil
}

func (r *fakeRepository) GetProductsByCarType(ctx context.Context, carType string) ([]domain.Product, error) {
	return r.list(ctx, func(p domain.Product) bool { return p.CarType == carType })
}

func (r *fakeRepository) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, func(domain.Product) bool { return true })
}

func (r *fakeRepository) StoreProduct(_ context.Context, product domain.NewProduct) (*domain.Product, error) {
	p := r.insert(product)
	return &p, nil
}

func (r *fakeRepository) UpdateProductById(_ context.Context, id int64, product domain.NewProduct) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: failed to find product %d", domain.ErrNotFound, id)
	}
	current.Name = product.Name
	current.Description = product.Description
	current.Price = product.Price
	current.CarType = product.CarType
	current.Availability = product.Availability
	current.ImageURL = product.ImageURL
	current.ImagePublicID = product.ImagePublicID
	current.UpdatedAt = time.Now()
	r.products[id] = current
	return &current, nil
}

func (r *fakeRepository) DeleteProductById(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: failed to find product %d", domain.ErrNotFound, id)
	}
	delete(r.products, id)
	return &p, nil
}

func (r *fakeRepository) Ping(context.Context) error {
	return nil
}

type fakeAssetHost struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (h *fakeAssetHost) DeleteAsset(_ context.Context, publicID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return fmt.Errorf("%w: %s", domain.ErrAssetHost, h.err.Error())
	}
	h.deleted = append(h.deleted, publicID)
	return nil
}

func (h *fakeAssetHost) reset(err error) {
	h.mu.Lock()
	h.deleted = nil
	h.err = err
	h.mu.Unlock()
}

func (h *fakeAssetHost) calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.deleted...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type failingChecker struct{ err error }

func (c failingChecker) Ping(context.Context) error { return c.err }

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
