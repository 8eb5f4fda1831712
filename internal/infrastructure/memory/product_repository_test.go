package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/repository"
)

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T, r *ProductRepository, owner string, ps ...entity.Product) []*entity.Product {
	t.Helper()
	out := make([]*entity.Product, 0, len(ps))
	for i := range ps {
		p := ps[i]
		p.UserID = ptr(owner)
		require.NoError(t, r.Create(context.Background(), &p))
		out = append(out, &p)
	}
	return out
}

func TestListFiltersAreANDed(t *testing.T) {
	r := NewProductRepository()
	seed(t, r, "u1",
		entity.Product{Name: "Phone", Category: "Electronics", Price: 5, Rating: 4},
		entity.Product{Name: "Tablet", Category: "Electronics", Price: 25, Rating: 3},
		entity.Product{Name: "Laptop", Category: "Electronics", Price: 50, Rating: 5},
		entity.Product{Name: "Monitor", Category: "Electronics", Price: 80, Rating: 4},
		entity.Product{Name: "Hammer", Category: "Tools", Price: 20, Rating: 4},
	)

	page, err := r.List(context.Background(), entity.ProductFilter{MinPrice: ptr(10.0), MaxPrice: ptr(50.0)})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	for _, p := range page.Data {
		assert.True(t, p.Price >= 10 && p.Price <= 50, p.Name)
	}

	page, err = r.List(context.Background(), entity.ProductFilter{MinPrice: ptr(10.0), MaxPrice: ptr(50.0), Category: "electronics"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	for _, p := range page.Data {
		assert.Equal(t, "Electronics", p.Category)
	}

	page, err = r.List(context.Background(), entity.ProductFilter{Search: "LAP", MinRating: ptr(4.5)})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Laptop", page.Data[0].Name)
}

func TestListEmptyRangeIsNotAnError(t *testing.T) {
	r := NewProductRepository()
	seed(t, r, "u1", entity.Product{Name: "Phone", Category: "Electronics", Price: 5})

	page, err := r.List(context.Background(), entity.ProductFilter{MinPrice: ptr(50.0), MaxPrice: ptr(10.0)})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}

func TestListPagination(t *testing.T) {
	r := NewProductRepository()
	for i := 1; i <= 20; i++ {
		seed(t, r, "u1", entity.Product{Name: fmt.Sprintf("Item %02d", i), Category: "Misc", Price: float64(i)})
	}

	page, err := r.List(context.Background(), entity.ProductFilter{
		SortBy: entity.SortByPrice, SortOrder: entity.SortAsc, Page: 2, Limit: 8,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 20, page.Total)
	require.Len(t, page.Data, 8)
	for i, p := range page.Data {
		assert.Equal(t, float64(9+i), p.Price)
	}

	page, err = r.List(context.Background(), entity.ProductFilter{
		SortBy: entity.SortByPrice, SortOrder: entity.SortDesc, Page: 3, Limit: 8,
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 4)
	assert.Equal(t, 4.0, page.Data[0].Price)
	assert.Equal(t, 1.0, page.Data[3].Price)

	page, err = r.List(context.Background(), entity.ProductFilter{Page: 9, Limit: 8})
	require.NoError(t, err)
	assert.EqualValues(t, 20, page.Total)
	assert.Empty(t, page.Data)
}

func TestListDefaultsToEightRows(t *testing.T) {
	r := NewProductRepository()
	for i := 0; i < 10; i++ {
		seed(t, r, "u1", entity.Product{Name: fmt.Sprintf("Item %d", i), Price: 1})
	}
	page, err := r.List(context.Background(), entity.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Data, entity.DefaultLimit)
}

func TestLikeMetacharactersAreLiteral(t *testing.T) {
	r := NewProductRepository()
	seed(t, r, "u1",
		entity.Product{Name: "100% Cotton", Category: "Apparel"},
		entity.Product{Name: "Cotton", Category: "Apparel"},
	)
	page, err := r.List(context.Background(), entity.ProductFilter{Search: "%"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestUpdateAndDeleteRequireOwner(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepository()
	p := seed(t, r, "u1", entity.Product{Name: "Widget", Description: "x", Category: "Tools", Price: 9.99, Rating: 4.5})[0]

	_, err := r.UpdateOwned(ctx, p.ID, "u2", entity.ProductPatch{Price: ptr(1.0)})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, r.DeleteOwned(ctx, p.ID, "u2"), repository.ErrNotFound)

	got, err := r.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.99, got.Price)

	updated, err := r.UpdateOwned(ctx, p.ID, "u1", entity.ProductPatch{Price: ptr(1.0)})
	require.NoError(t, err)
	assert.Equal(t, 1.0, updated.Price)
	assert.Equal(t, "Widget", updated.Name)

	require.NoError(t, r.DeleteOwned(ctx, p.ID, "u1"))
	_, err = r.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, r.DeleteOwned(ctx, p.ID, "u1"), repository.ErrNotFound)
}

func TestReturnedProductsAreCopies(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepository()
	p := seed(t, r, "u1", entity.Product{Name: "Widget"})[0]

	got, err := r.GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Name = "Changed"
	*got.UserID = "u2"

	again, err := r.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", again.Name)
	assert.Equal(t, "u1", *again.UserID)
}
