package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pelyams/car_catalog_service/internal/domain"
)

const productColumns = "id, name, description, price, car_type, availability, image_url, image_public_id, created_at, updated_at"

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id              BIGSERIAL PRIMARY KEY,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	price           NUMERIC(12, 2) NOT NULL DEFAULT 0,
	car_type        TEXT NOT NULL,
	availability    TEXT NOT NULL,
	image_url       TEXT NOT NULL DEFAULT '',
	image_public_id TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS products_car_type_idx ON products (car_type);
CREATE INDEX IF NOT EXISTS products_availability_idx ON products (availability);
`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate creates the products table when it does not exist yet.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: failed to migrate schema. %s", domain.ErrInternalDb, err.Error())
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping failed. %s", domain.ErrInternalDb, err.Error())
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*domain.Product, error) {
	var p domain.Product
	var availability string
	err := s.Scan(
		&p.Id,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.CarType,
		&availability,
		&p.ImageURL,
		&p.ImagePublicID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Availability = domain.Availability(availability)
	return &p, nil
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: failed to find product %d in DB", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to get product %d. %s", domain.ErrInternalDb, id, err.Error())
	}
	return product, nil
}

func (r *PostgresRepository) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	return r.queryProducts(ctx, "all products", "SELECT "+productColumns+" FROM products ORDER BY id")
}

func (r *PostgresRepository) GetProductsByAvailability(ctx context.Context, availability domain.Availability) ([]domain.Product, error) {
	return r.queryProducts(ctx, "products by availability",
		"SELECT "+productColumns+" FROM products WHERE availability = $1 ORDER BY id", string(availability))
}

func (r *PostgresRepository) GetProductsByAvailabilityPaged(ctx context.Context, availability domain.Availability, limit int64, offset int64) ([]domain.Product, error) {
	return r.queryProducts(ctx, "paginated products",
		"SELECT "+productColumns+" FROM products WHERE availability = $1 ORDER BY id LIMIT $2 OFFSET $3",
		string(availability), limit, offset)
}

func (r *PostgresRepository) GetProductsByCarType(ctx context.Context, carType string) ([]domain.Product, error) {
	return r.queryProducts(ctx, "products by car type",
		"SELECT "+productColumns+" FROM products WHERE car_type = $1 ORDER BY id", carType)
}

func (r *PostgresRepository) queryProducts(ctx context.Context, what string, query string, args ...any) ([]domain.Product, error) {
	var products = make([]domain.Product, 0)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get %s. %s", domain.ErrInternalDb, what, err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to convert row into go type. %s", domain.ErrInternalDb, err.Error())
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error while iterating over rows. %s", domain.ErrInternalDb, err.Error())
	}
	return products, nil
}

func (r *PostgresRepository) StoreProduct(ctx context.Context, product domain.NewProduct) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO products (name, description, price, car_type, availability, image_url, image_public_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		product.Name,
		product.Description,
		product.Price,
		product.CarType,
		string(product.Availability),
		product.ImageURL,
		product.ImagePublicID,
	)
	stored, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to store product. %s", domain.ErrInternalDb, err.Error())
	}
	return stored, nil
}

func (r *PostgresRepository) UpdateProductById(ctx context.Context, id int64, product domain.NewProduct) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE products SET name = $1, description = $2, price = $3, car_type = $4,
			availability = $5, image_url = $6, image_public_id = $7, updated_at = now()
		WHERE id = $8
		RETURNING `+productColumns,
		product.Name,
		product.Description,
		product.Price,
		product.CarType,
		string(product.Availability),
		product.ImageURL,
		product.ImagePublicID,
		id,
	)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: failed to find product %d in DB", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to update product %d. %s", domain.ErrInternalDb, id, err.Error())
	}
	return updated, nil
}

func (r *PostgresRepository) DeleteProductById(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, "DELETE FROM products WHERE id = $1 RETURNING "+productColumns, id)
	deleted, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: failed to find product %d in DB", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to delete product %d. %s", domain.ErrInternalDb, id, err.Error())
	}
	return deleted, nil
}
