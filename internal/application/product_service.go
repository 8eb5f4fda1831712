package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	repo "github.com/jyotir-aditya/fullstackAssignment/internal/domain/repository"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/helpers"
)

type ProductService struct {
	Repo   repo.ProductRepository
	Logger *logrus.Logger
}

func NewProductService(products repo.ProductRepository, logger *logrus.Logger) *ProductService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &ProductService{Repo: products, Logger: logger}
}

type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	Rating      float64
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput, owner *entity.User) (*entity.Product, error) {
	ownerID := owner.ID
	p := &entity.Product{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Rating:      in.Rating,
		UserID:      &ownerID,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		if errors.Is(err, repo.ErrInvalidValue) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
		}
		return nil, err
	}
	productsCreatedTotal.Add(1)
	s.Logger.WithFields(logrus.Fields{"product_id": p.ID, "user_id": ownerID}).Info("product created")
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, f entity.ProductFilter) (*entity.ProductPage, error) {
	f.Normalize()
	page, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return page, nil
}

// Update applies patch when actor owns the product. Missing and foreign
// products are both reported as ErrProductNotFound.
func (s *ProductService) Update(ctx context.Context, id string, patch entity.ProductPatch, actor *entity.User) (*entity.Product, error) {
	if patch.IsEmpty() {
		p, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !p.OwnedBy(actor) {
			return nil, ErrProductNotFound
		}
		return nil, ErrNothingToUpdate
	}

	p, err := s.Repo.UpdateOwned(ctx, id, actor.ID, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithFields(logrus.Fields{"product_id": id, "user_id": actor.ID}).Debug("update rejected: missing or not owned")
			return nil, ErrProductNotFound
		}
		if errors.Is(err, repo.ErrInvalidValue) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	productsUpdatedTotal.Add(1)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string, actor *entity.User) error {
	if err := s.Repo.DeleteOwned(ctx, id, actor.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithFields(logrus.Fields{"product_id": id, "user_id": actor.ID}).Debug("delete rejected: missing or not owned")
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete: %w", err)
	}
	productsDeletedTotal.Add(1)
	s.Logger.WithFields(logrus.Fields{"product_id": id, "user_id": actor.ID}).Info("product deleted")
	return nil
}
