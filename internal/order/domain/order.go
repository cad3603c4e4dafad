package domain

import "time"

// Order is an immutable record of a completed checkout. Rows are only
// ever written by the checkout transaction.
type Order struct {
	ID          string
	UserID      string
	TotalAmount int64
	Items       []OrderItem
	PlacedAt    time.Time
}

type OrderItem struct {
	ProductID       string
	Name            string
	UnitAmount      int64
	Quantity        int32
	LineTotalAmount int64
}
