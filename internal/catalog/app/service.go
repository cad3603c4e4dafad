package app

import (
	"context"
	"strings"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/catalog/domain"
)

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) CreateProduct(ctx context.Context, name, category string, cost int64, rating int, imageURL string) (domain.Product, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)

	if name == "" || cost < 0 {
		return domain.Product{}, apperr.Invalid("product needs a name and a non-negative cost")
	}
	if rating < 0 || rating > 5 {
		return domain.Product{}, apperr.Invalid("rating must be between 0 and 5")
	}

	p := domain.Product{
		Name:     name,
		Category: category,
		Cost:     cost,
		Rating:   rating,
		ImageURL: strings.TrimSpace(imageURL),
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Product{}, apperr.Invalid("product id is required")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, query, limit, cursor)
}
