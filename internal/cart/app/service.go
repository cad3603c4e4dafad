package app

import (
	"context"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/cart/domain"
)

type Service struct {
	repo    CartRepo
	catalog CatalogReader
}

func NewService(repo CartRepo, catalog CatalogReader) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
	}
}

func (s *Service) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	return s.repo.GetByUser(ctx, userID)
}

// AddItem puts a new product into the user's cart, creating the cart
// lazily on first use. Adding a product that is already present is
// rejected; quantity changes go through UpdateItem.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int32) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, apperr.Invalid("quantity must be greater than zero")
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return domain.Cart{}, apperr.Invalid("product doesn't exist in database")
		}
		return domain.Cart{}, err
	}

	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			return domain.Cart{}, err
		}
		cart, err = s.repo.Create(ctx, userID)
		if err != nil {
			return domain.Cart{}, err
		}
	}

	if cart.Has(productID) {
		return domain.Cart{}, apperr.Invalid("product already in cart")
	}

	// The unique constraint on (cart_id, product_id) turns a concurrent
	// duplicate add into the same invalid error.
	if err := s.repo.AddItem(ctx, cart.ID, domain.CartItem{ProductID: productID, Quantity: quantity}); err != nil {
		return domain.Cart{}, err
	}

	return s.repo.GetByUser(ctx, userID)
}

// UpdateItem replaces the quantity of a product already in the cart.
func (s *Service) UpdateItem(ctx context.Context, userID, productID string, quantity int32) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, apperr.Invalid("quantity must be greater than zero")
	}

	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return domain.Cart{}, apperr.Invalid("user does not have a cart; use POST to create cart and add a product")
		}
		return domain.Cart{}, err
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return domain.Cart{}, apperr.Invalid("product doesn't exist in database")
		}
		return domain.Cart{}, err
	}

	if !cart.Has(productID) {
		return domain.Cart{}, apperr.Invalid("product not in cart")
	}

	if err := s.repo.SetItemQuantity(ctx, cart.ID, domain.CartItem{ProductID: productID, Quantity: quantity}); err != nil {
		return domain.Cart{}, err
	}

	return s.repo.GetByUser(ctx, userID)
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (domain.Cart, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return domain.Cart{}, apperr.Invalid("user does not have a cart")
		}
		return domain.Cart{}, err
	}

	if !cart.Has(productID) {
		return domain.Cart{}, apperr.Invalid("product not in cart")
	}

	if err := s.repo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return domain.Cart{}, err
	}

	return s.repo.GetByUser(ctx, userID)
}
