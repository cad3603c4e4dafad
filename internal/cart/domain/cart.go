package domain

import "time"

type CartItem struct {
	ProductID string
	Quantity  int32
}

// Cart is keyed by user id, one active cart per user. It is emptied on
// checkout, never deleted.
type Cart struct {
	ID        string
	UserID    string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Cart) Has(productID string) bool {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
