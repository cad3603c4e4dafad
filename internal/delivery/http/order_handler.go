package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/order/domain"
)

type orderItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitCost  int64  `json:"unit_cost"`
	Quantity  int32  `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

type orderResponse struct {
	ID       string              `json:"id"`
	Items    []orderItemResponse `json:"items"`
	Total    int64               `json:"total"`
	PlacedAt time.Time           `json:"placed_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	resp := orderResponse{
		ID:       o.ID,
		Items:    make([]orderItemResponse, 0, len(o.Items)),
		Total:    o.TotalAmount,
		PlacedAt: o.PlacedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitCost:  it.UnitAmount,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotalAmount,
		})
	}
	return resp
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Unauthorized("please authenticate"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apperr.Invalid("limit must be a number"))
			return
		}
		limit = n
	}

	orders, err := h.orders.History(r.Context(), caller.ID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": resp})
}
