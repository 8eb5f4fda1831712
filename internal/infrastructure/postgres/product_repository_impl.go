package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/sync/errgroup"

	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/repository"
)

type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	p := &entity.Product{}
	var owner pgtype.Text
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Rating,
		&owner, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if owner.Valid {
		uid := owner.String
		p.UserID = &uid
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, category, price, rating, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		p.Name, p.Description, p.Category, p.Price, p.Rating, p.UserID)

	created, err := scanProduct(row)
	if err != nil {
		if isValueRejected(err) {
			return fmt.Errorf("insert product: %w: %v", repository.ErrInvalidValue, err)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	*p = *created
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, f entity.ProductFilter) (*entity.ProductPage, error) {
	q := buildListQuery(f)
	page := &entity.ProductPage{Data: []*entity.Product{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.db.QueryRow(gctx, q.countSQL, q.countArgs...).Scan(&page.Total); err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		return nil
	})
	var data []*entity.Product
	g.Go(func() error {
		rows, err := r.db.Query(gctx, q.pageSQL, q.pageArgs...)
		if err != nil {
			return fmt.Errorf("query products: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return fmt.Errorf("scan product: %w", err)
			}
			data = append(data, p)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if data != nil {
		page.Data = data
	}
	return page, nil
}

func (r *ProductRepository) UpdateOwned(ctx context.Context, id, ownerID string, patch entity.ProductPatch) (*entity.Product, error) {
	sql, args := buildUpdate(id, ownerID, patch)
	p, err := scanProduct(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if isValueRejected(err) {
			return nil, fmt.Errorf("update product: %w: %v", repository.ErrInvalidValue, err)
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
