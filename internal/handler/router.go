package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ecoshop/internal/mw"
	"ecoshop/internal/service"
	"ecoshop/internal/store"
)

// Services groups everything the HTTP layer talks to.
type Services struct {
	Store       *store.Store
	Auth        *service.AuthService
	Catalog     *service.CatalogService
	Carts       *service.CartService
	Checkout    *service.CheckoutService
	Balance     *service.BalanceService
	Donations   *service.DonationService
	Impact      *service.ImpactService
	Marketplace *service.MarketplaceService
}

// NewRouter builds the API router. metricsHandler may be nil.
func NewRouter(svc Services, jwtSecret string, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", CartIDHeader},
		ExposedHeaders:   []string{"Authorization", CartIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Public routes
	r.Post("/api/user/register", RegisterHandler(svc.Auth, jwtSecret))
	r.Post("/api/user/login", LoginHandler(svc.Auth, jwtSecret))

	r.Get("/api/products", ListProductsHandler(svc.Catalog))
	r.Get("/api/products/{id}", GetProductHandler(svc.Catalog))

	r.Get("/api/leaderboard", LeaderboardHandler(svc.Impact))
	r.Get("/api/community", CommunityHandler(svc.Impact))

	r.Post("/api/marketplace/items/{id}/claim", ClaimListingHandler(svc.Marketplace))

	// Guests and members
	r.Group(func(r chi.Router) {
		r.Use(mw.OptionalAuth(jwtSecret))

		r.Get("/api/marketplace/items", ListListingsHandler(svc.Marketplace))
		r.Post("/api/marketplace/items", CreateListingHandler(svc.Marketplace, svc.Store))

		r.Get("/api/cart", GetCartHandler(svc.Carts))
		r.Post("/api/cart/items", AddCartItemHandler(svc.Carts, svc.Catalog))
		r.Put("/api/cart/items/{productID}", UpdateCartItemHandler(svc.Carts))
		r.Delete("/api/cart/items/{productID}", RemoveCartItemHandler(svc.Carts))

		r.Get("/api/checkout", GetCheckoutHandler(svc.Checkout))
		r.Post("/api/checkout/begin", BeginCheckoutHandler(svc.Checkout))
		r.Post("/api/checkout/back", BackCheckoutHandler(svc.Checkout))
		r.Post("/api/checkout/pay", PayHandler(svc.Checkout))
		r.Post("/api/checkout/reset", ResetCheckoutHandler(svc.Checkout))
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(jwtSecret))

		r.Get("/api/user/dashboard", DashboardHandler(svc.Impact))
		r.Get("/api/user/balance", GetBalanceHandler(svc.Balance))
		r.Post("/api/user/balance/donate", DonateHandler(svc.Donations))
		r.Get("/api/user/donations", ListDonationsHandler(svc.Donations))
		r.Get("/api/marketplace/notifications", NotificationsHandler(svc.Marketplace))
	})

	return r
}
