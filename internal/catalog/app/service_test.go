package app

import (
	"context"
	"testing"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/catalog/domain"
)

type fakeRepo struct{}

func (fakeRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) { return p, nil }
func (fakeRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	return domain.Product{}, nil
}
func (fakeRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	return nil, "", nil
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(fakeRepo{})

	t.Run("empty name -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), "   ", "Fashion", 100, 4, "")
		if apperr.KindOf(err) != apperr.KindInvalid {
			t.Fatalf("expected invalid, got %v", err)
		}
	})

	t.Run("negative cost -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), "Sneakers", "Fashion", -1, 4, "")
		if apperr.KindOf(err) != apperr.KindInvalid {
			t.Fatalf("expected invalid, got %v", err)
		}
	})

	t.Run("rating out of range -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), "Sneakers", "Fashion", 100, 6, "")
		if apperr.KindOf(err) != apperr.KindInvalid {
			t.Fatalf("expected invalid, got %v", err)
		}
	})
}

func TestGetProductValidation(t *testing.T) {
	svc := NewService(fakeRepo{})

	_, err := svc.GetProduct(context.Background(), "   ")
	if apperr.KindOf(err) != apperr.KindInvalid {
		t.Fatalf("expected invalid, got %v", err)
	}
}
