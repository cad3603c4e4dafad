package app

import (
	"context"

	"github.com/dwikikusuma/minikart/internal/order/domain"
)

const defaultHistoryLimit = 50

type Service struct {
	repo OrderRepo
}

func NewService(repo OrderRepo) *Service {
	return &Service{repo: repo}
}

// History returns the user's past orders, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}
