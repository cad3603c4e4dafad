package app

import (
	"context"

	"github.com/dwikikusuma/minikart/internal/order/domain"
)

type OrderRepo interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error)
}
