package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/checkout/domain"
	"github.com/dwikikusuma/minikart/internal/messaging"
	"golang.org/x/sync/errgroup"
)

type CartItem struct {
	ProductID string
	Quantity  int32
}

type Cart struct {
	ID    string
	Items []CartItem
}

type CartReader interface {
	// GetCart returns apperr.NotFound when the user has no cart.
	GetCart(ctx context.Context, userID string) (Cart, error)
}

type Product struct {
	ID   string
	Name string
	Cost int64
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

// OrderDraft is what the store persists inside the checkout
// transaction.
type OrderDraft struct {
	Lines []domain.QuoteLine
	Total int64
}

type CompletedOrder struct {
	OrderID  string
	Balance  int64
	PlacedAt time.Time
}

// Store commits a checkout atomically: debit the wallet, clear the
// cart items and record the order in one transaction, or none of it.
type Store interface {
	Complete(ctx context.Context, userID, cartID string, draft OrderDraft) (CompletedOrder, error)
}

// Customer is the already-authenticated buyer; checkout never
// re-authenticates.
type Customer struct {
	ID                 string
	WalletBalance      int64
	HasShippingAddress bool
}

const (
	productReadAttempts = 3
	productReadBackoff  = 100 * time.Millisecond
)

type Service struct {
	cart      CartReader
	catalog   CatalogReader
	store     Store
	publisher messaging.Publisher

	maxConcurrent int
}

func NewService(cart CartReader, catalog CatalogReader, store Store, publisher messaging.Publisher, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}

	return &Service{
		cart:          cart,
		catalog:       catalog,
		store:         store,
		publisher:     publisher,
		maxConcurrent: maxConcurrent,
	}
}

type OrderPlacedEvent struct {
	OrderID  string    `json:"order_id"`
	UserID   string    `json:"user_id"`
	Total    int64     `json:"total"`
	PlacedAt time.Time `json:"placed_at"`
}

// Checkout prices the customer's cart against the live catalog, debits
// the wallet and empties the cart. The debit and the clear are one
// transaction; a failure anywhere leaves balance and cart untouched.
func (s *Service) Checkout(ctx context.Context, customer Customer) (domain.Receipt, error) {
	cart, err := s.cart.GetCart(ctx, customer.ID)
	if err != nil {
		return domain.Receipt{}, err
	}

	if !customer.HasShippingAddress {
		return domain.Receipt{}, apperr.Invalid("shipping address not set")
	}
	if len(cart.Items) == 0 {
		return domain.Receipt{}, apperr.Invalid("cart has no products")
	}

	quote, err := s.price(ctx, cart.Items)
	if err != nil {
		return domain.Receipt{}, err
	}

	// Early rejection; the store's conditional debit is the
	// authoritative check against concurrent spending.
	if quote.Total > customer.WalletBalance {
		return domain.Receipt{}, apperr.Invalid("insufficient wallet balance")
	}

	completed, err := s.store.Complete(ctx, customer.ID, cart.ID, OrderDraft{
		Lines: quote.Lines,
		Total: quote.Total,
	})
	if err != nil {
		return domain.Receipt{}, err
	}

	// The order is already committed; a publish failure is logged, not
	// surfaced.
	if err := s.publisher.PublishEvent(ctx, "orders.placed", completed.OrderID, OrderPlacedEvent{
		OrderID:  completed.OrderID,
		UserID:   customer.ID,
		Total:    quote.Total,
		PlacedAt: completed.PlacedAt,
	}); err != nil {
		slog.Error("publish orders.placed failed", "order_id", completed.OrderID, "err", err)
	}

	return domain.Receipt{
		OrderID:  completed.OrderID,
		Lines:    quote.Lines,
		Total:    quote.Total,
		Balance:  completed.Balance,
		PlacedAt: completed.PlacedAt,
	}, nil
}

// price fans out product lookups with a bounded group. Prices are read
// live; they are not snapshotted when items enter the cart.
func (s *Service) price(ctx context.Context, items []CartItem) (domain.Quote, error) {
	lines := make([]domain.QuoteLine, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for idx := range items {
		idx := idx
		g.Go(func() error {
			it := items[idx]
			if it.Quantity <= 0 {
				return apperr.Invalid("quantity must be greater than zero")
			}

			product, err := s.getProductRetry(ctx, it.ProductID)
			if err != nil {
				return err
			}

			lines[idx] = domain.QuoteLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  it.Quantity,
				UnitCost:  product.Cost,
				LineTotal: product.Cost * int64(it.Quantity),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.Quote{}, err
	}

	var total int64
	for _, line := range lines {
		total += line.LineTotal
	}

	return domain.Quote{Lines: lines, Total: total}, nil
}

// getProductRetry retries transient failures on this idempotent read.
// Only reads are retried; the debit never is.
func (s *Service) getProductRetry(ctx context.Context, productID string) (Product, error) {
	var lastErr error
	for attempt := 0; attempt < productReadAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Product{}, ctx.Err()
			case <-time.After(productReadBackoff):
			}
		}

		product, err := s.catalog.GetProduct(ctx, productID)
		if err == nil {
			return product, nil
		}
		if apperr.KindOf(err) != apperr.KindInternal {
			return Product{}, err
		}
		lastErr = err
	}
	return Product{}, lastErr
}
