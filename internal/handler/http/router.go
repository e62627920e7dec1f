package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barisbll/influshop-backend-sub000/internal/auth"
	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/service"
	"github.com/barisbll/influshop-backend-sub000/pkg/health"
	"github.com/barisbll/influshop-backend-sub000/pkg/middleware"
)

// RouterDeps bundles the services and infrastructure the router wires together.
type RouterDeps struct {
	Accounts  *service.AccountService
	Profiles  *service.ProfileService
	Catalog   *service.CatalogService
	Ratings   *service.RatingService
	Comments  *service.CommentService
	Reports   *service.ReportService
	Carts     *service.CartService
	Favorites *service.FavoriteService

	JWTManager *auth.JWTManager
	Health     *health.Handler
	CORS       middleware.CORSConfig
	Logger     *slog.Logger
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger

	// Global middleware
	r.Use(middleware.CORS(deps.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing("influshop-backend"))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("influshop"))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(deps.Accounts, logger)
	profileHandler := NewProfileHandler(deps.Profiles, logger)
	catalogHandler := NewCatalogHandler(deps.Catalog, logger)
	engagementHandler := NewEngagementHandler(deps.Ratings, deps.Comments, logger)
	reportHandler := NewReportHandler(deps.Reports, logger)
	cartHandler := NewCartHandler(deps.Carts, deps.Favorites, logger)

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := deps.JWTManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			AccountID: claims.AccountID,
			Email:     claims.Email,
			Role:      claims.Role,
		}, nil
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/user/register", authHandler.RegisterUser)
			r.Post("/user/login", authHandler.LoginUser)
			r.Post("/influencer/register", authHandler.RegisterInfluencer)
			r.Post("/influencer/login", authHandler.LoginInfluencer)
			r.Post("/refresh", authHandler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(tokenValidator))

				r.Post("/logout", authHandler.Logout)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		// Public catalog and engagement reads
		r.Group(func(r chi.Router) {
			r.Get("/items/search", catalogHandler.SearchItems)
			r.Get("/items/{id}", catalogHandler.GetItem)
			r.Get("/items/{id}/comments", engagementHandler.ListComments)
			r.Get("/item-groups/{id}", catalogHandler.GetItemGroup)
			r.Get("/influencers/{id}", profileHandler.GetInfluencer)
			r.Get("/influencers/{id}/items", catalogHandler.ListInfluencerItems)
		})

		// User-facing endpoints
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequireRole(domain.RoleUser))

			r.Get("/users/me", profileHandler.GetMe)
			r.Delete("/users/me", profileHandler.DeleteMe)

			r.Get("/users/me/addresses", profileHandler.ListAddresses)
			r.Post("/users/me/addresses", profileHandler.CreateAddress)
			r.Delete("/users/me/addresses/{id}", profileHandler.DeleteAddress)
			r.Put("/users/me/addresses/{id}/default", profileHandler.SetDefaultAddress)

			r.Get("/users/me/payment-methods", profileHandler.ListPaymentMethods)
			r.Post("/users/me/payment-methods", profileHandler.CreatePaymentMethod)
			r.Delete("/users/me/payment-methods/{id}", profileHandler.DeletePaymentMethod)
			r.Put("/users/me/payment-methods/{id}/default", profileHandler.SetDefaultPaymentMethod)

			r.Post("/items/{id}/stars", engagementHandler.RateItem)
			r.Get("/items/{id}/stars/me", engagementHandler.GetOwnRating)

			r.Post("/items/{id}/comments", engagementHandler.CreateComment)
			r.Put("/comments/{id}", engagementHandler.UpdateComment)
			r.Delete("/comments/{id}", engagementHandler.DeleteComment)
			r.Post("/comments/{id}/votes", engagementHandler.VoteComment)

			r.Get("/cart", cartHandler.GetCart)
			r.Delete("/cart", cartHandler.ClearCart)
			r.Post("/cart/items", cartHandler.AddCartItem)
			r.Put("/cart/items/{itemID}", cartHandler.UpdateCartItem)
			r.Delete("/cart/items/{itemID}", cartHandler.RemoveCartItem)

			r.Get("/favorites", cartHandler.ListFavorites)
			r.Post("/favorites/{itemID}", cartHandler.AddFavorite)
			r.Delete("/favorites/{itemID}", cartHandler.RemoveFavorite)
		})

		// Influencer-facing endpoints
		r.Route("/influencer", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequireRole(domain.RoleInfluencer))

			r.Put("/profile", profileHandler.UpdateInfluencerProfile)
			r.Delete("/account", profileHandler.DeleteInfluencerAccount)

			r.Get("/item-groups", catalogHandler.ListOwnItemGroups)
			r.Post("/item-groups", catalogHandler.CreateItemGroup)
			r.Delete("/item-groups/{id}", catalogHandler.DeleteItemGroup)

			r.Post("/items", catalogHandler.CreateItem)
			r.Put("/items/{id}", catalogHandler.UpdateItem)
			r.Delete("/items/{id}", catalogHandler.DeleteItem)
		})

		// Reports can come from either account kind.
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequireRole(domain.RoleUser, domain.RoleInfluencer))

			r.Post("/reports", reportHandler.Submit)
		})

		// Moderation endpoints
		r.Route("/admin/reports", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Get("/", reportHandler.ListUncontrolled)
			r.Post("/{id}/control", reportHandler.MarkControlled)
		})
	})

	return r
}
