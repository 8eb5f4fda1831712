package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/repository"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]entity.Product
	now      func() time.Time
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]entity.Product),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func clone(p entity.Product) *entity.Product {
	if p.UserID != nil {
		uid := *p.UserID
		p.UserID = &uid
	}
	return &p
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now
	r.products[p.ID] = *clone(*p)
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(p), nil
}

func matches(p entity.Product, f entity.ProductFilter) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && !strings.Contains(strings.ToLower(p.Category), strings.ToLower(f.Category)) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MinRating != nil && p.Rating < *f.MinRating {
		return false
	}
	return true
}

// compare orders a before b by field, returning <0, 0 or >0.
func compare(a, b entity.Product, field entity.SortField) int {
	switch field {
	case entity.SortByName:
		return strings.Compare(a.Name, b.Name)
	case entity.SortByCategory:
		return strings.Compare(a.Category, b.Category)
	case entity.SortByPrice:
		return cmpFloat(a.Price, b.Price)
	case entity.SortByRating:
		return cmpFloat(a.Rating, b.Rating)
	case entity.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case entity.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r *ProductRepository) List(_ context.Context, f entity.ProductFilter) (*entity.ProductPage, error) {
	f.Normalize()

	r.mu.RLock()
	hits := make([]entity.Product, 0, len(r.products))
	for _, p := range r.products {
		if matches(p, f) {
			hits = append(hits, p)
		}
	}
	r.mu.RUnlock()

	desc := f.SortOrder == entity.SortDesc
	sort.SliceStable(hits, func(i, j int) bool {
		c := compare(hits[i], hits[j], f.SortBy)
		if c == 0 {
			c = strings.Compare(hits[i].ID, hits[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	page := &entity.ProductPage{Data: []*entity.Product{}, Total: int64(len(hits))}
	start := f.Offset()
	if start >= len(hits) {
		return page, nil
	}
	end := min(start+f.Limit, len(hits))
	for _, p := range hits[start:end] {
		page.Data = append(page.Data, clone(p))
	}
	return page, nil
}

func (r *ProductRepository) UpdateOwned(_ context.Context, id, ownerID string, patch entity.ProductPatch) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok || !p.OwnedBy(&entity.User{ID: ownerID}) {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&p)
	p.UpdatedAt = r.now()
	r.products[id] = p
	return clone(p), nil
}

func (r *ProductRepository) DeleteOwned(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok || !p.OwnedBy(&entity.User{ID: ownerID}) {
		return repository.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
