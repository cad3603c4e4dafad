package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/cart/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo {
	return &CartRepo{db: db}
}

func (r *CartRepo) GetByUser(ctx context.Context, userID string) (domain.Cart, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.Cart{}, apperr.NotFound("user does not have a cart")
	}

	var cart domain.Cart
	var cartID uuid.UUID

	err = r.db.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts WHERE user_id = $1`,
		userUUID,
	).Scan(&cartID, &userUUID, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{}, apperr.NotFound("user does not have a cart")
	}
	if err != nil {
		return domain.Cart{}, apperr.Internal("loading cart", err)
	}

	cart.ID = cartID.String()
	cart.UserID = userUUID.String()

	// Insertion order doubles as display order.
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, quantity
		FROM cart_items WHERE cart_id = $1
		ORDER BY id`,
		cartID,
	)
	if err != nil {
		return domain.Cart{}, apperr.Internal("loading cart items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID uuid.UUID
			item      domain.CartItem
		)
		if err := rows.Scan(&productID, &item.Quantity); err != nil {
			return domain.Cart{}, apperr.Internal("scanning cart item", err)
		}
		item.ProductID = productID.String()
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, apperr.Internal("loading cart items", err)
	}

	return cart, nil
}

func (r *CartRepo) Create(ctx context.Context, userID string) (domain.Cart, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.Cart{}, apperr.Internal("creating cart", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO carts (user_id) VALUES ($1)`, userUUID)
	if err != nil && !isUniqueViolation(err) {
		// A unique violation means a concurrent request created the
		// cart first; fall through and read it.
		return domain.Cart{}, apperr.Internal("creating cart", err)
	}

	return r.GetByUser(ctx, userID)
}

func (r *CartRepo) AddItem(ctx context.Context, cartID string, item domain.CartItem) error {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return apperr.Internal("adding cart item", err)
	}
	productUUID, err := uuid.Parse(item.ProductID)
	if err != nil {
		return apperr.Invalid("product doesn't exist in database")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)`,
		cartUUID, productUUID, item.Quantity,
	)
	if isUniqueViolation(err) {
		return apperr.Invalid("product already in cart")
	}
	if err != nil {
		return apperr.Internal("adding cart item", err)
	}
	return nil
}

func (r *CartRepo) SetItemQuantity(ctx context.Context, cartID string, item domain.CartItem) error {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return apperr.Internal("updating cart item", err)
	}
	productUUID, err := uuid.Parse(item.ProductID)
	if err != nil {
		return apperr.Invalid("product not in cart")
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items SET quantity = $1
		WHERE cart_id = $2 AND product_id = $3`,
		item.Quantity, cartUUID, productUUID,
	)
	if err != nil {
		return apperr.Internal("updating cart item", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.Invalid("product not in cart")
	}
	return nil
}

func (r *CartRepo) RemoveItem(ctx context.Context, cartID string, productID string) error {
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return apperr.Internal("removing cart item", err)
	}
	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return apperr.Invalid("product not in cart")
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2`,
		cartUUID, productUUID,
	)
	if err != nil {
		return apperr.Internal("removing cart item", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.Invalid("product not in cart")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
