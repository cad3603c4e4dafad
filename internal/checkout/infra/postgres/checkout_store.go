package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/checkout/app"
	"github.com/google/uuid"
)

// Store commits checkouts. Debit, cart clear and order insert share
// one transaction so a failure can never leave a partial checkout
// behind.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) execTX(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func (s *Store) Complete(ctx context.Context, userID, cartID string, draft app.OrderDraft) (app.CompletedOrder, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return app.CompletedOrder{}, apperr.Internal("completing checkout", err)
	}
	cartUUID, err := uuid.Parse(cartID)
	if err != nil {
		return app.CompletedOrder{}, apperr.Internal("completing checkout", err)
	}

	var completed app.CompletedOrder

	err = s.execTX(ctx, func(tx *sql.Tx) error {
		// Conditional debit: zero rows means the balance would have
		// gone negative, so nothing is committed.
		var balance int64
		err := tx.QueryRowContext(ctx, `
			UPDATE users
			SET wallet_balance = wallet_balance - $1, updated_at = NOW()
			WHERE id = $2 AND wallet_balance >= $1
			RETURNING wallet_balance`,
			draft.Total, userUUID,
		).Scan(&balance)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.Invalid("insufficient wallet balance")
		}
		if err != nil {
			return apperr.Internal("debiting wallet", err)
		}

		// Empty the cart but keep the cart row.
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartUUID); err != nil {
			return apperr.Internal("clearing cart", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartUUID); err != nil {
			return apperr.Internal("touching cart", err)
		}

		var (
			orderID  uuid.UUID
			placedAt time.Time
		)
		err = tx.QueryRowContext(ctx, `
			INSERT INTO orders (user_id, total_amount)
			VALUES ($1, $2)
			RETURNING id, placed_at`,
			userUUID, draft.Total,
		).Scan(&orderID, &placedAt)
		if err != nil {
			return apperr.Internal("recording order", err)
		}

		for i, line := range draft.Lines {
			productUUID, err := uuid.Parse(line.ProductID)
			if err != nil {
				return apperr.Internal(fmt.Sprintf("order line %d: bad product id", i), err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, product_id, name, unit_amount, quantity, line_total_amount)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				orderID, productUUID, line.Name, line.UnitCost, line.Quantity, line.LineTotal,
			)
			if err != nil {
				return apperr.Internal(fmt.Sprintf("recording order line %d", i), err)
			}
		}

		completed = app.CompletedOrder{
			OrderID:  orderID.String(),
			Balance:  balance,
			PlacedAt: placedAt,
		}
		return nil
	})
	if err != nil {
		return app.CompletedOrder{}, err
	}
	return completed, nil
}
