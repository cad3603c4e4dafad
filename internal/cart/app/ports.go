package app

import (
	"context"

	"github.com/dwikikusuma/minikart/internal/cart/domain"
)

type CartRepo interface {
	// GetByUser returns apperr.NotFound when the user has no cart yet.
	GetByUser(ctx context.Context, userID string) (domain.Cart, error)
	Create(ctx context.Context, userID string) (domain.Cart, error)
	AddItem(ctx context.Context, cartID string, item domain.CartItem) error
	SetItemQuantity(ctx context.Context, cartID string, item domain.CartItem) error
	RemoveItem(ctx context.Context, cartID string, productID string) error
}

// Product is the slice of the catalog the cart workflow needs.
type Product struct {
	ID   string
	Name string
	Cost int64
}

type CatalogReader interface {
	// GetProduct returns apperr.NotFound for unknown products.
	GetProduct(ctx context.Context, productID string) (Product, error)
}
