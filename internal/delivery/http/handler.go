package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dwikikusuma/minikart/internal/auth"
	cartapp "github.com/dwikikusuma/minikart/internal/cart/app"
	catalogapp "github.com/dwikikusuma/minikart/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/minikart/internal/checkout/app"
	identityapp "github.com/dwikikusuma/minikart/internal/identity/app"
	orderapp "github.com/dwikikusuma/minikart/internal/order/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler wires the application services onto the HTTP surface.
type Handler struct {
	identity *identityapp.Service
	issuer   *auth.Issuer
	catalog  *catalogapp.Service
	cart     *cartapp.Service
	checkout *checkoutapp.Service
	orders   *orderapp.Service

	log *slog.Logger
}

func NewHandler(
	identity *identityapp.Service,
	issuer *auth.Issuer,
	catalog *catalogapp.Service,
	cart *cartapp.Service,
	checkout *checkoutapp.Service,
	orders *orderapp.Service,
	log *slog.Logger,
) *Handler {
	return &Handler{
		identity: identity,
		issuer:   issuer,
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
		orders:   orders,
		log:      log,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		r.Get("/products", h.handleListProducts)
		r.Get("/products/{productId}", h.handleGetProduct)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Post("/products", h.handleCreateProduct)

			r.Get("/users/{userId}", h.handleGetUser)
			r.Put("/users/{userId}", h.handleSetAddress)

			r.Get("/cart", h.handleGetCart)
			r.Post("/cart", h.handleAddCartItem)
			r.Put("/cart", h.handleUpdateCartItem)
			r.Delete("/cart/{productId}", h.handleRemoveCartItem)
			r.Post("/cart/checkout", h.handleCheckout)

			r.Get("/orders", h.handleListOrders)
		})
	})

	return r
}

// requestLogger emits one structured line per request.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		h.log.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
