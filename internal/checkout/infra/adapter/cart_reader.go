package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/minikart/internal/cart/app"
	checkoutapp "github.com/dwikikusuma/minikart/internal/checkout/app"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) GetCart(ctx context.Context, userID string) (checkoutapp.Cart, error) {
	cart, err := r.svc.GetCart(ctx, userID)
	if err != nil {
		return checkoutapp.Cart{}, err
	}

	items := make([]checkoutapp.CartItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, checkoutapp.CartItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return checkoutapp.Cart{ID: cart.ID, Items: items}, nil
}
