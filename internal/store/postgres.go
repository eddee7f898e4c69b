package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tienda-gateway/internal/model"
)

// Postgres is a Store backed by a pgx connection pool. Schema lives in
// migrations/.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database and verifies the connection.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Postgres) Close() {
	s.pool.Close()
}

const productColumns = `id, name, price, category, description, image_url, stock, active, created_at`

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Description,
		&p.ImageURL, &p.Stock, &p.Active, &p.CreatedAt)
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// List implements Store.
func (s *Postgres) List(ctx context.Context) ([]model.Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return products, nil
}

// Get implements Store.
func (s *Postgres) Get(ctx context.Context, id int64) (model.Product, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND active`, id)

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, model.NewNotFoundError("product")
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("row.Scan: %w", err)
	}
	return p, nil
}

// Create implements Store.
func (s *Postgres) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	if err := in.Validate(); err != nil {
		return model.Product{}, err
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO products (name, price, category, description, image_url, stock)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+productColumns,
		in.Name, in.Price, in.Category, in.Description, in.ImageURL, in.Stock)

	p, err := scanProduct(row)
	if err != nil {
		return model.Product{}, fmt.Errorf("row.Scan: %w", err)
	}
	return p, nil
}

// Update implements Store.
func (s *Postgres) Update(ctx context.Context, id int64, in ProductInput) (model.Product, error) {
	if err := in.Validate(); err != nil {
		return model.Product{}, err
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE products
		 SET name = $2, price = $3, category = $4, description = $5, image_url = $6, stock = $7
		 WHERE id = $1 AND active
		 RETURNING `+productColumns,
		id, in.Name, in.Price, in.Category, in.Description, in.ImageURL, in.Stock)

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, model.NewNotFoundError("product")
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("row.Scan: %w", err)
	}
	return p, nil
}

// Delete implements Store. Soft delete.
func (s *Postgres) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE products SET active = FALSE WHERE id = $1 AND active`, id)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("product")
	}
	return nil
}

var _ Store = (*Postgres)(nil)
