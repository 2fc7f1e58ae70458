package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoshop/internal/events"
	"ecoshop/internal/metrics"
	"ecoshop/internal/model"
	"ecoshop/internal/service"
	"ecoshop/internal/store"
)

const (
	testSecret   = "test-secret"
	demoPassword = "demo"
)

type testServer struct {
	t      *testing.T
	router http.Handler
	store  *store.Store
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	hash, err := service.HashPassword(demoPassword)
	require.NoError(t, err)

	st := store.New()
	require.NoError(t, store.Seed(st, hash))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	outbox := events.NewOutbox(16)
	carts := service.NewCartService()
	processor := service.NewOrderProcessor(st, carts, service.FixedBonus(50), outbox, m)

	svc := Services{
		Store:       st,
		Auth:        service.NewAuthService(st),
		Catalog:     service.NewCatalogService(),
		Carts:       carts,
		Checkout:    service.NewCheckoutService(carts, processor),
		Balance:     service.NewBalanceService(st),
		Donations:   service.NewDonationService(st, outbox, m),
		Impact:      service.NewImpactService(st),
		Marketplace: service.NewMarketplaceService(),
	}
	return &testServer{t: t, router: NewRouter(svc, testSecret, metrics.Handler(reg)), store: st}
}

// do sends a request; headers are given as key/value pairs.
func (s *testServer) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(login string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/user/login", map[string]string{"login": login, "password": demoPassword})
	require.Equal(s.t, http.StatusOK, rec.Code)
	return rec.Header().Get("Authorization")
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestRegisterAndLogin(t *testing.T) {
	s := setupServer(t)

	rec := s.do(http.MethodPost, "/api/user/register", map[string]string{"login": "newbie", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Authorization"), "Bearer "))

	u := decode[model.User](t, rec)
	assert.Equal(t, "newbie", u.Login)
	assert.Zero(t, u.EcoPoints)

	rec = s.do(http.MethodPost, "/api/user/register", map[string]string{"login": "newbie", "password": "pw"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/user/register", map[string]string{"login": "", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/user/login", map[string]string{"login": "newbie", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/user/login", map[string]string{"login": "newbie", "password": "pw"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProducts(t *testing.T) {
	s := setupServer(t)

	rec := s.do(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Product](t, rec), 8)

	rec = s.do(http.MethodGet, "/api/products/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Stainless Steel Water Bottle", decode[model.Product](t, rec).Name)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/products/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/products/abc", nil).Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := setupServer(t)

	for _, path := range []string{"/api/user/balance", "/api/user/dashboard", "/api/user/donations", "/api/marketplace/notifications"} {
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, path, nil).Code, path)
	}
	assert.Equal(t, http.StatusUnauthorized,
		s.do(http.MethodGet, "/api/cart", nil, "Authorization", "Bearer garbage").Code)
}

func TestGuestCheckout(t *testing.T) {
	s := setupServer(t)
	before := s.store.Snapshot().Community

	rec := s.do(http.MethodPost, "/api/cart/items", map[string]any{"product_id": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	cartID := rec.Header().Get(CartIDHeader)
	require.NotEmpty(t, cartID)

	cart := decode[cartResponse](t, rec)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.InDelta(t, 998.0, cart.Quote.Subtotal, 1e-9)

	rec = s.do(http.MethodPost, "/api/checkout/pay", map[string]any{"delivery": "eco"}, CartIDHeader, cartID)
	assert.Equal(t, http.StatusConflict, rec.Code, "pay before begin")

	rec = s.do(http.MethodPost, "/api/checkout/begin", nil, CartIDHeader, cartID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.StepPayment, decode[service.CheckoutSession](t, rec).Step)

	rec = s.do(http.MethodPost, "/api/checkout/pay", map[string]any{"delivery": "eco"}, CartIDHeader, cartID)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[payResponse](t, rec)
	assert.Equal(t, 249, resp.Receipt.Points)
	assert.False(t, resp.Receipt.Credited)
	assert.Equal(t, service.StepConfirmation, resp.Session.Step)

	after := s.store.Snapshot().Community
	assert.InDelta(t, before.CO2Saved+0.54, after.CO2Saved, 1e-9)

	rec = s.do(http.MethodGet, "/api/cart", nil, CartIDHeader, cartID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[cartResponse](t, rec).Lines)
}

func TestMemberCheckoutCreditsUser(t *testing.T) {
	s := setupServer(t)
	token := s.login("Diana Soil")

	rec := s.do(http.MethodPost, "/api/cart/items", map[string]any{"product_id": 5}, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(CartIDHeader))

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/checkout/begin", nil, "Authorization", token).Code)

	rec = s.do(http.MethodPost, "/api/checkout/pay", map[string]any{"delivery": "standard", "offset_carbon": true}, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)
	receipt := decode[payResponse](t, rec).Receipt
	// 349 * 0.1 + 50
	assert.Equal(t, 84, receipt.Points)
	assert.True(t, receipt.Credited)
	assert.InDelta(t, 0.08, receipt.CO2Offset, 1e-9)

	rec = s.do(http.MethodGet, "/api/user/balance", nil, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 950+84, decode[service.Balance](t, rec).Current)

	rec = s.do(http.MethodPost, "/api/checkout/reset", nil, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.StepCart, decode[service.CheckoutSession](t, rec).Step)
}

func TestBeginWithEmptyCart(t *testing.T) {
	s := setupServer(t)
	rec := s.do(http.MethodPost, "/api/checkout/begin", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCartItemUpdates(t *testing.T) {
	s := setupServer(t)

	rec := s.do(http.MethodPost, "/api/cart/items", map[string]any{"product_id": 2, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	cartID := rec.Header().Get(CartIDHeader)

	rec = s.do(http.MethodPut, "/api/cart/items/2", map[string]any{"quantity": 4}, CartIDHeader, cartID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, decode[cartResponse](t, rec).Lines[0].Quantity)

	rec = s.do(http.MethodPut, "/api/cart/items/7", map[string]any{"quantity": 1}, CartIDHeader, cartID)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/cart/items/2", nil, CartIDHeader, cartID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[cartResponse](t, rec).Lines)

	rec = s.do(http.MethodPost, "/api/cart/items", map[string]any{"product_id": 42}, CartIDHeader, cartID)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/cart/items", map[string]any{"product_id": 1, "quantity": -1}, CartIDHeader, cartID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDonations(t *testing.T) {
	s := setupServer(t)
	token := s.login("Alex Green")

	rec := s.do(http.MethodGet, "/api/user/donations", nil, "Authorization", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodPost, "/api/user/balance/donate", map[string]int{"points": 200}, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[model.Donation](t, rec).Trees)

	rec = s.do(http.MethodPost, "/api/user/balance/donate", map[string]int{"points": 100000}, "Authorization", token)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	rec = s.do(http.MethodPost, "/api/user/balance/donate", map[string]int{"points": 0}, "Authorization", token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodGet, "/api/user/balance", nil, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.Balance{Current: 1050, Donated: 200, TreesPlanted: 2}, decode[service.Balance](t, rec))

	rec = s.do(http.MethodGet, "/api/user/donations", nil, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Donation](t, rec), 1)
}

func TestImpactViews(t *testing.T) {
	s := setupServer(t)

	rec := s.do(http.MethodGet, "/api/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[[]service.LeaderboardEntry](t, rec)
	require.Len(t, board, 6)
	assert.Equal(t, "Ethan Bloom", board[0].Login)

	rec = s.do(http.MethodGet, "/api/community", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 100.0, decode[service.Community](t, rec).GoalProgress, 1e-9)

	token := s.login("Beatrice Eco")
	rec = s.do(http.MethodGet, "/api/user/dashboard", nil, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[service.Dashboard](t, rec)
	assert.Equal(t, 2, d.Rank)
	assert.Equal(t, 2100, d.User.EcoPoints)
}

func TestMarketplace(t *testing.T) {
	s := setupServer(t)
	token := s.login("Carlos Verde")

	rec := s.do(http.MethodPost, "/api/marketplace/items", map[string]string{
		"type": "household", "title": "Glass bottles", "description": "Six of them", "condition": "Good",
	}, "Authorization", token)
	require.Equal(t, http.StatusCreated, rec.Code)
	listing := decode[model.Listing](t, rec)
	assert.Equal(t, "Carlos Verde", listing.Owner)

	rec = s.do(http.MethodPost, "/api/marketplace/items", map[string]string{"title": "No description"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodGet, "/api/marketplace/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Listing](t, rec), 4)

	claim := map[string]string{"name": "Fiona", "contact": "fiona@example.com"}
	rec = s.do(http.MethodPost, "/api/marketplace/items/"+listing.ID+"/claim", claim)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ListingClaimed, decode[model.Listing](t, rec).Status)

	rec = s.do(http.MethodPost, "/api/marketplace/items/"+listing.ID+"/claim", claim)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/marketplace/items/missing/claim", claim)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/marketplace/notifications", nil, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decode[[]model.Notification](t, rec)
	require.Len(t, notes, 1)
	assert.Equal(t, `Your item "Glass bottles" was claimed by Fiona. Contact: fiona@example.com`, notes[0].Message)
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupServer(t)

	rec := s.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ecoshop_outbox_depth")
}

func TestCartLockedDuringCheckout(t *testing.T) {
	s := setupServer(t)

	rec := s.do(http.MethodPost, "/api/cart/items", map[string]any{"product_id": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	cartID := rec.Header().Get(CartIDHeader)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/checkout/begin", nil, CartIDHeader, cartID).Code)

	rec = s.do(http.MethodPost, "/api/cart/items", map[string]any{"product_id": 3, "quantity": 3}, CartIDHeader, cartID)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(http.MethodPut, "/api/cart/items/1", map[string]any{"quantity": 9}, CartIDHeader, cartID)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(http.MethodDelete, "/api/cart/items/1", nil, CartIDHeader, cartID)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/checkout/pay", map[string]any{"delivery": "standard"}, CartIDHeader, cartID)
	require.Equal(t, http.StatusOK, rec.Code)
	// 499 * 0.1 + 50
	assert.Equal(t, 99, decode[payResponse](t, rec).Receipt.Points)

	rec = s.do(http.MethodPost, "/api/cart/items", map[string]any{"product_id": 3}, CartIDHeader, cartID)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotificationsNotReadableByNameSquatters(t *testing.T) {
	s := setupServer(t)

	rec := s.do(http.MethodPost, "/api/marketplace/items", map[string]string{
		"title": "Cardboard", "description": "Flat boxes", "condition": "Used",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	guestListing := decode[model.Listing](t, rec)
	assert.Equal(t, service.AnonymousOwner, guestListing.Owner)

	claim := map[string]string{"name": "Fiona", "contact": "fiona@example.com"}
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/marketplace/items/"+guestListing.ID+"/claim", claim).Code)

	for _, login := range []string{service.AnonymousOwner, "UserA"} {
		rec = s.do(http.MethodPost, "/api/user/register", map[string]string{"login": login, "password": "pw"})
		require.Equal(t, http.StatusOK, rec.Code)
		token := rec.Header().Get("Authorization")

		rec = s.do(http.MethodGet, "/api/marketplace/notifications", nil, "Authorization", token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]model.Notification](t, rec), login)
	}
}
