package domain

import "time"

type QuoteLine struct {
	ProductID string
	Name      string
	Quantity  int32
	UnitCost  int64
	LineTotal int64
}

// Quote prices a cart against the live catalog at checkout time.
type Quote struct {
	Lines []QuoteLine
	Total int64
}

// Receipt is the outcome of a successful checkout.
type Receipt struct {
	OrderID  string
	Lines    []QuoteLine
	Total    int64
	Balance  int64
	PlacedAt time.Time
}
