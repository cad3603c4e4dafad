package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/identity/domain"
	"github.com/dwikikusuma/minikart/internal/messaging"
	"golang.org/x/crypto/bcrypt"
)

const minAddressLength = 20

type Service struct {
	repo      UserRepo
	publisher messaging.Publisher

	defaultBalance int64
}

func NewService(repo UserRepo, publisher messaging.Publisher, defaultBalance int64) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}

	return &Service{
		repo:           repo,
		publisher:      publisher,
		defaultBalance: defaultBalance,
	}
}

type RegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func (s *Service) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return domain.User{}, apperr.Invalid("name, email and password are required")
	}
	if len(password) < 8 {
		return domain.User{}, apperr.Invalid("password must be at least 8 characters long")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return domain.User{}, apperr.Conflict("email already taken")
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperr.Internal("hashing password", err)
	}

	user, err := s.repo.Create(ctx, domain.User{
		Name:          name,
		Email:         email,
		PasswordHash:  string(hash),
		WalletBalance: s.defaultBalance,
		Address:       domain.DefaultAddress,
	})
	if err != nil {
		return domain.User{}, err
	}

	if err := s.publisher.PublishEvent(ctx, "users.registered", user.ID, RegisteredEvent{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}); err != nil {
		slog.Error("publish users.registered failed", "user_id", user.ID, "err", err)
	}

	return user, nil
}

// Authenticate verifies credentials. Unknown email and wrong password
// produce the same error so callers cannot probe for accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return domain.User{}, apperr.Unauthorized("incorrect email or password")
		}
		return domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, apperr.Unauthorized("incorrect email or password")
	}

	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Address returns only the user's shipping address.
func (s *Service) Address(ctx context.Context, id string) (string, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Address, nil
}

func (s *Service) SetAddress(ctx context.Context, id, address string) (domain.User, error) {
	address = strings.TrimSpace(address)
	if len(address) < minAddressLength {
		return domain.User{}, apperr.Invalid("address must be at least 20 characters long")
	}
	return s.repo.UpdateAddress(ctx, id, address)
}
