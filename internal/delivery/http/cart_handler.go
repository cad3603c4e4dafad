package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dwikikusuma/minikart/internal/apperr"
	cartdomain "github.com/dwikikusuma/minikart/internal/cart/domain"
	checkoutapp "github.com/dwikikusuma/minikart/internal/checkout/app"
	checkoutdomain "github.com/dwikikusuma/minikart/internal/checkout/domain"
	"github.com/go-chi/chi/v5"
)

type cartItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type cartResponse struct {
	ID    string             `json:"id"`
	Items []cartItemResponse `json:"items"`
}

func toCartResponse(c cartdomain.Cart) cartResponse {
	resp := cartResponse{ID: c.ID, Items: make([]cartItemResponse, 0, len(c.Items))}
	for _, it := range c.Items {
		resp.Items = append(resp.Items, cartItemResponse{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return resp
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Unauthorized("please authenticate"))
		return
	}

	cart, err := h.cart.GetCart(r.Context(), caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

func (h *Handler) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Unauthorized("please authenticate"))
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Invalid("invalid request body"))
		return
	}

	cart, err := h.cart.AddItem(r.Context(), caller.ID, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCartResponse(cart))
}

func (h *Handler) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Unauthorized("please authenticate"))
		return
	}

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Invalid("invalid request body"))
		return
	}

	cart, err := h.cart.UpdateItem(r.Context(), caller.ID, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *Handler) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Unauthorized("please authenticate"))
		return
	}

	cart, err := h.cart.RemoveItem(r.Context(), caller.ID, chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cart))
}

type receiptLineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	UnitCost  int64  `json:"unit_cost"`
	LineTotal int64  `json:"line_total"`
}

type receiptOrderResponse struct {
	ID       string                `json:"id"`
	Items    []receiptLineResponse `json:"items"`
	Total    int64                 `json:"total"`
	PlacedAt time.Time             `json:"placed_at"`
}

type checkoutResponse struct {
	Order   receiptOrderResponse `json:"order"`
	Balance int64                `json:"balance"`
}

func toCheckoutResponse(receipt checkoutdomain.Receipt) checkoutResponse {
	order := receiptOrderResponse{
		ID:       receipt.OrderID,
		Items:    make([]receiptLineResponse, 0, len(receipt.Lines)),
		Total:    receipt.Total,
		PlacedAt: receipt.PlacedAt,
	}
	for _, line := range receipt.Lines {
		order.Items = append(order.Items, receiptLineResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitCost:  line.UnitCost,
			LineTotal: line.LineTotal,
		})
	}
	return checkoutResponse{Order: order, Balance: receipt.Balance}
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	caller, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, apperr.Unauthorized("please authenticate"))
		return
	}

	receipt, err := h.checkout.Checkout(r.Context(), checkoutapp.Customer{
		ID:                 caller.ID,
		WalletBalance:      caller.WalletBalance,
		HasShippingAddress: caller.HasShippingAddress(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutResponse(receipt))
}
