package app

import (
	"context"

	"github.com/dwikikusuma/minikart/internal/identity/domain"
)

type UserRepo interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateAddress(ctx context.Context, id string, address string) (domain.User, error)
}
