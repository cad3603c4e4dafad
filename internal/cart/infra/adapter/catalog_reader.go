package adapter

import (
	"context"

	cartapp "github.com/dwikikusuma/minikart/internal/cart/app"
	catalogapp "github.com/dwikikusuma/minikart/internal/catalog/app"
)

// CatalogServiceReader adapts the catalog service to the cart
// workflow's read port.
type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) GetProduct(ctx context.Context, productID string) (cartapp.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if err != nil {
		return cartapp.Product{}, err
	}

	return cartapp.Product{
		ID:   p.ID,
		Name: p.Name,
		Cost: p.Cost,
	}, nil
}
