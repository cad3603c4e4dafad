package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dwikikusuma/minikart/internal/apperr"
	"github.com/dwikikusuma/minikart/internal/auth"
	cartapp "github.com/dwikikusuma/minikart/internal/cart/app"
	cartdomain "github.com/dwikikusuma/minikart/internal/cart/domain"
	cartadapter "github.com/dwikikusuma/minikart/internal/cart/infra/adapter"
	catalogapp "github.com/dwikikusuma/minikart/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/minikart/internal/catalog/domain"
	checkoutapp "github.com/dwikikusuma/minikart/internal/checkout/app"
	checkoutadapter "github.com/dwikikusuma/minikart/internal/checkout/infra/adapter"
	identityapp "github.com/dwikikusuma/minikart/internal/identity/app"
	identitydomain "github.com/dwikikusuma/minikart/internal/identity/domain"
	orderapp "github.com/dwikikusuma/minikart/internal/order/app"
	orderdomain "github.com/dwikikusuma/minikart/internal/order/domain"
	"github.com/google/uuid"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]identitydomain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]identitydomain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user identitydomain.User) (identitydomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (identitydomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return identitydomain.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (identitydomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return identitydomain.User{}, apperr.NotFound("user not found")
}

func (r *memUserRepo) UpdateAddress(_ context.Context, id, address string) (identitydomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return identitydomain.User{}, apperr.NotFound("user not found")
	}
	user.Address = address
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return user, nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]catalogdomain.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]catalogdomain.Product)}
}

func (r *memProductRepo) Create(_ context.Context, p catalogdomain.Product) (catalogdomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.NewString()
	r.products[p.ID] = p
	return p, nil
}

func (r *memProductRepo) Get(_ context.Context, id string) (catalogdomain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return catalogdomain.Product{}, apperr.NotFound("product not found")
	}
	return p, nil
}

func (r *memProductRepo) List(_ context.Context, query string, limit int, _ string) ([]catalogdomain.Product, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalogdomain.Product
	for _, p := range r.products {
		if query == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, "", nil
}

type memCartRepo struct {
	mu    sync.Mutex
	carts map[string]cartdomain.Cart
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: make(map[string]cartdomain.Cart)}
}

func (r *memCartRepo) GetByUser(_ context.Context, userID string) (cartdomain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		return cartdomain.Cart{}, apperr.NotFound("user does not have a cart")
	}
	return cart, nil
}

func (r *memCartRepo) Create(_ context.Context, userID string) (cartdomain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart, ok := r.carts[userID]; ok {
		return cart, nil
	}
	cart := cartdomain.Cart{ID: uuid.NewString(), UserID: userID}
	r.carts[userID] = cart
	return cart, nil
}

func (r *memCartRepo) byCartID(cartID string) (string, cartdomain.Cart, bool) {
	for userID, cart := range r.carts {
		if cart.ID == cartID {
			return userID, cart, true
		}
	}
	return "", cartdomain.Cart{}, false
}

func (r *memCartRepo) AddItem(_ context.Context, cartID string, item cartdomain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, cart, ok := r.byCartID(cartID)
	if !ok {
		return apperr.NotFound("cart not found")
	}
	if cart.Has(item.ProductID) {
		return apperr.Invalid("product already in cart")
	}
	cart.Items = append(cart.Items, item)
	r.carts[userID] = cart
	return nil
}

func (r *memCartRepo) SetItemQuantity(_ context.Context, cartID string, item cartdomain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, cart, ok := r.byCartID(cartID)
	if !ok {
		return apperr.NotFound("cart not found")
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity = item.Quantity
			r.carts[userID] = cart
			return nil
		}
	}
	return apperr.Invalid("product not in cart")
}

func (r *memCartRepo) RemoveItem(_ context.Context, cartID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, cart, ok := r.byCartID(cartID)
	if !ok {
		return apperr.NotFound("cart not found")
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			r.carts[userID] = cart
			return nil
		}
	}
	return apperr.Invalid("product not in cart")
}

// memStore applies the whole checkout in one locked step, mirroring the
// real store's single transaction.
type memStore struct {
	users  *memUserRepo
	carts  *memCartRepo
	orders *memOrderRepo
}

func (s *memStore) Complete(_ context.Context, userID, cartID string, draft checkoutapp.OrderDraft) (checkoutapp.CompletedOrder, error) {
	s.users.mu.Lock()
	defer s.users.mu.Unlock()
	s.carts.mu.Lock()
	defer s.carts.mu.Unlock()

	user, ok := s.users.users[userID]
	if !ok {
		return checkoutapp.CompletedOrder{}, apperr.NotFound("user not found")
	}
	if user.WalletBalance < draft.Total {
		return checkoutapp.CompletedOrder{}, apperr.Invalid("insufficient wallet balance")
	}

	user.WalletBalance -= draft.Total
	s.users.users[userID] = user

	if ownerID, cart, ok := s.carts.byCartID(cartID); ok {
		cart.Items = nil
		s.carts.carts[ownerID] = cart
	}

	order := orderdomain.Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		TotalAmount: draft.Total,
		PlacedAt:    time.Now(),
	}
	for _, line := range draft.Lines {
		order.Items = append(order.Items, orderdomain.OrderItem{
			ProductID:       line.ProductID,
			Name:            line.Name,
			UnitAmount:      line.UnitCost,
			Quantity:        line.Quantity,
			LineTotalAmount: line.LineTotal,
		})
	}
	s.orders.add(order)

	return checkoutapp.CompletedOrder{
		OrderID:  order.ID,
		Balance:  user.WalletBalance,
		PlacedAt: order.PlacedAt,
	}, nil
}

type memOrderRepo struct {
	mu     sync.Mutex
	orders []orderdomain.Order
}

func (r *memOrderRepo) add(o orderdomain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
}

func (r *memOrderRepo) ListByUser(_ context.Context, userID string, limit int) ([]orderdomain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []orderdomain.Order
	for i := len(r.orders) - 1; i >= 0 && len(out) < limit; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	users := newMemUserRepo()
	products := newMemProductRepo()
	carts := newMemCartRepo()
	orders := &memOrderRepo{}

	identity := identityapp.NewService(users, nil, 500)
	issuer := auth.NewIssuer("test-secret", time.Hour)
	catalog := catalogapp.NewService(products)
	cart := cartapp.NewService(carts, cartadapter.NewCatalogServiceReader(catalog))
	checkout := checkoutapp.NewService(
		checkoutadapter.NewCartServiceReader(cart),
		checkoutadapter.NewCatalogServiceReader(catalog),
		&memStore{users: users, carts: carts, orders: orders},
		nil,
		4,
	)
	history := orderapp.NewService(orders)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(identity, issuer, catalog, cart, checkout, history, log)

	srv := httptest.NewServer(handler.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any, out any) int {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func registerUser(t *testing.T, srv *httptest.Server, name, email string) authResponse {
	t.Helper()

	var resp authResponse
	status := doJSON(t, srv, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "hunter2hunter2",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("register returned %d", status)
	}
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)

	reg := registerUser(t, srv, "Ana", "ana@example.com")
	if reg.User.ID == "" || reg.Tokens.Access.Token == "" {
		t.Fatalf("incomplete register response: %+v", reg)
	}
	if reg.User.WalletBalance != 500 {
		t.Fatalf("wallet balance = %d, want 500", reg.User.WalletBalance)
	}
	if reg.User.Address != identitydomain.DefaultAddress {
		t.Fatalf("address = %q", reg.User.Address)
	}

	t.Run("duplicate email", func(t *testing.T) {
		var body errorBody
		status := doJSON(t, srv, http.MethodPost, "/v1/auth/register", "", map[string]string{
			"name": "Ana", "email": "ana@example.com", "password": "hunter2hunter2",
		}, &body)
		if status != http.StatusConflict {
			t.Fatalf("status = %d, want 409", status)
		}
	})

	t.Run("login", func(t *testing.T) {
		var resp authResponse
		status := doJSON(t, srv, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"email": "ana@example.com", "password": "hunter2hunter2",
		}, &resp)
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if resp.User.ID != reg.User.ID {
			t.Fatalf("logged in as %s, want %s", resp.User.ID, reg.User.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		var body errorBody
		status := doJSON(t, srv, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"email": "ana@example.com", "password": "wrong-password",
		}, &body)
		if status != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", status)
		}
		if body.Message != "incorrect email or password" {
			t.Fatalf("message = %q", body.Message)
		}
	})
}

func TestAuthGuard(t *testing.T) {
	srv := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodGet, "/v1/cart", "", nil, nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", status)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		status := doJSON(t, srv, http.MethodGet, "/v1/cart", "not-a-jwt", nil, nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", status)
		}
	})

	t.Run("cannot read another user", func(t *testing.T) {
		ana := registerUser(t, srv, "Ana", "ana@example.com")
		bob := registerUser(t, srv, "Bob", "bob@example.com")

		status := doJSON(t, srv, http.MethodGet, "/v1/users/"+bob.User.ID, ana.Tokens.Access.Token, nil, nil)
		if status != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", status)
		}
	})
}

func TestShoppingFlow(t *testing.T) {
	srv := newTestServer(t)

	ana := registerUser(t, srv, "Ana", "ana@example.com")
	token := ana.Tokens.Access.Token

	var product productResponse
	status := doJSON(t, srv, http.MethodPost, "/v1/products", token, map[string]any{
		"name": "ceramic mug", "category": "kitchen", "cost": 300, "rating": 4,
	}, &product)
	if status != http.StatusCreated {
		t.Fatalf("create product returned %d", status)
	}

	var cart cartResponse
	status = doJSON(t, srv, http.MethodPost, "/v1/cart", token, map[string]any{
		"product_id": product.ID, "quantity": 1,
	}, &cart)
	if status != http.StatusCreated {
		t.Fatalf("add to cart returned %d", status)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != product.ID {
		t.Fatalf("cart = %+v", cart)
	}

	t.Run("checkout without address", func(t *testing.T) {
		var body errorBody
		status := doJSON(t, srv, http.MethodPost, "/v1/cart/checkout", token, nil, &body)
		if status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
		if body.Message != "shipping address not set" {
			t.Fatalf("message = %q", body.Message)
		}
	})

	status = doJSON(t, srv, http.MethodPut, "/v1/users/"+ana.User.ID, token, map[string]string{
		"address": "12 Long Enough Street, Springfield",
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("set address returned %d", status)
	}

	var checkout checkoutResponse
	status = doJSON(t, srv, http.MethodPost, "/v1/cart/checkout", token, nil, &checkout)
	if status != http.StatusOK {
		t.Fatalf("checkout returned %d", status)
	}
	if checkout.Order.Total != 300 {
		t.Fatalf("order total = %d, want 300", checkout.Order.Total)
	}
	if checkout.Balance != 200 {
		t.Fatalf("balance = %d, want 200", checkout.Balance)
	}

	t.Run("cart emptied", func(t *testing.T) {
		var after cartResponse
		status := doJSON(t, srv, http.MethodGet, "/v1/cart", token, nil, &after)
		if status != http.StatusOK {
			t.Fatalf("get cart returned %d", status)
		}
		if len(after.Items) != 0 {
			t.Fatalf("cart still has %d items", len(after.Items))
		}
	})

	t.Run("checkout again on empty cart", func(t *testing.T) {
		var body errorBody
		status := doJSON(t, srv, http.MethodPost, "/v1/cart/checkout", token, nil, &body)
		if status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
		if body.Message != "cart has no products" {
			t.Fatalf("message = %q", body.Message)
		}
	})

	t.Run("order history", func(t *testing.T) {
		var resp struct {
			Orders []orderResponse `json:"orders"`
		}
		status := doJSON(t, srv, http.MethodGet, "/v1/orders", token, nil, &resp)
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		if len(resp.Orders) != 1 {
			t.Fatalf("got %d orders, want 1", len(resp.Orders))
		}
		if resp.Orders[0].ID != checkout.Order.ID {
			t.Fatalf("order id = %s, want %s", resp.Orders[0].ID, checkout.Order.ID)
		}
	})
}

func TestGetUserAddressQuery(t *testing.T) {
	srv := newTestServer(t)

	ana := registerUser(t, srv, "Ana", "ana@example.com")
	token := ana.Tokens.Access.Token

	t.Run("address too short", func(t *testing.T) {
		var body errorBody
		status := doJSON(t, srv, http.MethodPut, "/v1/users/"+ana.User.ID, token, map[string]string{
			"address": "short",
		}, &body)
		if status != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", status)
		}
	})

	status := doJSON(t, srv, http.MethodPut, "/v1/users/"+ana.User.ID, token, map[string]string{
		"address": "221B Baker Street, London NW1",
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("set address returned %d", status)
	}

	var resp map[string]string
	status = doJSON(t, srv, http.MethodGet, "/v1/users/"+ana.User.ID+"?q=address", token, nil, &resp)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if resp["address"] != "221B Baker Street, London NW1" {
		t.Fatalf("address = %q", resp["address"])
	}
}
