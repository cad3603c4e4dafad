package postgres

import (
	"context"
	"database/sql"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/order/domain"
	"github.com/google/uuid"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.Internal("listing orders", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.user_id, o.total_amount, o.placed_at,
		       i.product_id, i.name, i.unit_amount, i.quantity, i.line_total_amount
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		WHERE o.user_id = $1
		  AND o.id IN (
			SELECT id FROM orders
			WHERE user_id = $1
			ORDER BY placed_at DESC
			LIMIT $2
		  )
		ORDER BY o.placed_at DESC, i.id`,
		userUUID, limit,
	)
	if err != nil {
		return nil, apperr.Internal("listing orders", err)
	}
	defer rows.Close()

	var (
		orders []domain.Order
		byID   = make(map[string]int)
	)

	for rows.Next() {
		var (
			orderID   uuid.UUID
			ownerID   uuid.UUID
			productID uuid.UUID
			order     domain.Order
			item      domain.OrderItem
		)
		err := rows.Scan(
			&orderID, &ownerID, &order.TotalAmount, &order.PlacedAt,
			&productID, &item.Name, &item.UnitAmount, &item.Quantity, &item.LineTotalAmount,
		)
		if err != nil {
			return nil, apperr.Internal("scanning order", err)
		}

		item.ProductID = productID.String()

		idx, ok := byID[orderID.String()]
		if !ok {
			order.ID = orderID.String()
			order.UserID = ownerID.String()
			orders = append(orders, order)
			idx = len(orders) - 1
			byID[order.ID] = idx
		}
		orders[idx].Items = append(orders[idx].Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("listing orders", err)
	}

	return orders, nil
}
