package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/identity/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = "id, name, email, password_hash, wallet_balance, address, created_at, updated_at"

func (r *UserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password_hash, wallet_balance, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		user.Name, user.Email, user.PasswordHash, user.WalletBalance, user.Address,
	)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, apperr.Conflict("email already taken")
		}
		return domain.User{}, apperr.Internal("creating user", err)
	}
	return created, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return domain.User{}, apperr.NotFound("user not found")
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return domain.User{}, apperr.Internal("loading user", err)
	}
	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return domain.User{}, apperr.Internal("loading user by email", err)
	}
	return user, nil
}

func (r *UserRepo) UpdateAddress(ctx context.Context, id string, address string) (domain.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return domain.User{}, apperr.NotFound("user not found")
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET address = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns,
		address, userID,
	)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return domain.User{}, apperr.Internal("updating address", err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u  domain.User
		id uuid.UUID
	)
	err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.WalletBalance, &u.Address, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id.String()
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
