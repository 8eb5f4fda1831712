package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	repo "github.com/jyotir-aditya/fullstackAssignment/internal/domain/repository"
	"github.com/jyotir-aditya/fullstackAssignment/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

var widget = CreateProductInput{Name: "Widget", Description: "x", Category: "Tools", Price: 9.99, Rating: 4.5}

func TestCreateThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(memory.NewProductRepository(), nil)
	u1 := &entity.User{ID: "u1"}

	created, err := svc.Create(ctx, widget, u1)
	require.NoError(t, err)
	require.NotNil(t, created.UserID)
	assert.Equal(t, "u1", *created.UserID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, widget.Name, got.Name)
	assert.Equal(t, widget.Description, got.Description)
	assert.Equal(t, widget.Category, got.Category)
	assert.Equal(t, widget.Price, got.Price)
	assert.Equal(t, widget.Rating, got.Rating)
}

func TestGetMissingProduct(t *testing.T) {
	svc := NewProductService(memory.NewProductRepository(), nil)
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestNonOwnerCannotMutate(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(memory.NewProductRepository(), nil)
	u1, u2 := &entity.User{ID: "u1"}, &entity.User{ID: "u2"}

	p, err := svc.Create(ctx, widget, u1)
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, entity.ProductPatch{Price: ptr(0.01), Name: ptr("Stolen")}, u2)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID, u2), ErrProductNotFound)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, 9.99, got.Price)
}

func TestOwnerUpdatesAndDeletes(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(memory.NewProductRepository(), nil)
	u1 := &entity.User{ID: "u1"}

	p, err := svc.Create(ctx, widget, u1)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, entity.ProductPatch{Rating: ptr(5.0)}, u1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.Rating)
	assert.Equal(t, "Widget", updated.Name)

	require.NoError(t, svc.Delete(ctx, p.ID, u1))
	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestEmptyPatch(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(memory.NewProductRepository(), nil)
	u1, u2 := &entity.User{ID: "u1"}, &entity.User{ID: "u2"}
	p, err := svc.Create(ctx, widget, u1)
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, entity.ProductPatch{}, u1)
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	_, err = svc.Update(ctx, p.ID, entity.ProductPatch{}, u2)
	assert.ErrorIs(t, err, ErrProductNotFound, "ownership is checked before the empty patch")

	_, err = svc.Update(ctx, "missing", entity.ProductPatch{}, u1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(memory.NewProductRepository(), nil)
	u1 := &entity.User{ID: "u1"}
	for i := 0; i < 10; i++ {
		_, err := svc.Create(ctx, widget, u1)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, entity.ProductFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 10, page.Total)
	assert.Len(t, page.Data, entity.DefaultLimit)
}

// rejectingRepo fails writes the way postgres does for out-of-range numbers.
type rejectingRepo struct {
	*memory.ProductRepository
}

func (rejectingRepo) Create(context.Context, *entity.Product) error {
	return fmt.Errorf("insert product: %w", repo.ErrInvalidValue)
}

func (rejectingRepo) UpdateOwned(context.Context, string, string, entity.ProductPatch) (*entity.Product, error) {
	return nil, fmt.Errorf("update product: %w", repo.ErrInvalidValue)
}

func TestRejectedValuesMapToInvalidProduct(t *testing.T) {
	ctx := context.Background()
	svc := NewProductService(rejectingRepo{memory.NewProductRepository()}, nil)
	u1 := &entity.User{ID: "u1"}

	_, err := svc.Create(ctx, widget, u1)
	assert.ErrorIs(t, err, ErrInvalidProduct)

	_, err = svc.Update(ctx, "p1", entity.ProductPatch{Price: ptr(1e9)}, u1)
	assert.ErrorIs(t, err, ErrInvalidProduct)
}
