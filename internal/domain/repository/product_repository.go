package repository

import (
	"context"

	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
)

// ProductRepository persists products. Mutations take the acting owner id
// and apply only to rows that owner holds.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, f entity.ProductFilter) (*entity.ProductPage, error)
	UpdateOwned(ctx context.Context, id, ownerID string, patch entity.ProductPatch) (*entity.Product, error)
	DeleteOwned(ctx context.Context, id, ownerID string) error
}
