package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/satyam539813/farmappsample/api/controllers"
	"github.com/satyam539813/farmappsample/api/middleware"
	"github.com/satyam539813/farmappsample/internal/analysis"
	"github.com/satyam539813/farmappsample/internal/auth"
	"github.com/satyam539813/farmappsample/internal/cart"
	"github.com/satyam539813/farmappsample/internal/catalog"
	"github.com/satyam539813/farmappsample/internal/favorites"
	"github.com/satyam539813/farmappsample/internal/orders"
	"github.com/satyam539813/farmappsample/pkg/auth/session"
	"github.com/satyam539813/farmappsample/pkg/config"
	"github.com/satyam539813/farmappsample/pkg/db"
	"github.com/satyam539813/farmappsample/pkg/logger"
	"github.com/satyam539813/farmappsample/pkg/metrics"
	"github.com/satyam539813/farmappsample/pkg/redis"
)

// NewRouter assembles the storefront API. A nil gatherer disables /metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTP,
	cat *catalog.Catalog,
	authService auth.Service,
	ordersSvc orders.Service,
	cartManager *cart.Manager,
	favoritesManager *favorites.Manager,
	analysisService analysis.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	limits := cfg.RateLimit
	signInPolicy := middleware.NewRateLimitPolicy("signin", limits.SignInWindow).
		PerIP(limits.SignInIPLimit).
		PerEmail(limits.SignInEmailLimit)
	signUpPolicy := middleware.NewRateLimitPolicy("signup", limits.SignUpWindow).
		PerIP(limits.SignUpIPLimit).
		PerEmail(limits.SignUpEmailLimit)
	analysisPolicy := middleware.NewRateLimitPolicy("analysis", limits.AnalysisWindow).
		PerIP(limits.AnalysisIPLimit).
		PerDevice(limits.AnalysisDeviceLimit)
	signUpIdempotency := middleware.Idempotency(redisClient, middleware.IdempotencyOptions{TTL: cfg.Storefront.IdempotencyTTL}, logg)
	checkoutIdempotency := middleware.Idempotency(redisClient, middleware.IdempotencyOptions{TTL: cfg.Storefront.CheckoutIdempotencyTTL}, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisClient,
		}, logg))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.JWT, sessionChecker, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(cat, logg))
			r.Get("/featured", controllers.ProductFeatured(cat))
			r.Get("/{productId}", controllers.ProductDetail(cat, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(cat))
			r.Get("/{categoryId}", controllers.CategoryDetail(cat, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(signUpPolicy, redisClient, logg), signUpIdempotency).Post("/signup", controllers.AuthSignUp(authService, logg))
			r.With(middleware.RateLimit(signInPolicy, redisClient, logg)).Post("/signin", controllers.AuthSignIn(authService, logg))
			r.Post("/signout", controllers.AuthSignOut(authService, logg))
			r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersSvc, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersSvc, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartManager, logg))
			r.Delete("/", controllers.CartClear(cartManager, logg))
			r.Post("/items", controllers.CartAddItem(cartManager, logg))
			r.Patch("/items/{lineId}", controllers.CartUpdateItem(cartManager, logg))
			r.Delete("/items/{lineId}", controllers.CartRemoveItem(cartManager, logg))
			r.With(checkoutIdempotency).Post("/checkout", controllers.CartCheckout(cartManager, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(favoritesManager, logg))
			r.Post("/", controllers.FavoritesAdd(favoritesManager, logg))
			r.Delete("/", controllers.FavoritesClear(favoritesManager, logg))
			r.Get("/{productId}", controllers.FavoritesStatus(favoritesManager, logg))
			r.Delete("/{productId}", controllers.FavoritesRemove(favoritesManager, logg))
		})

		r.With(middleware.RateLimit(analysisPolicy, redisClient, logg)).
			Post("/analysis", controllers.AnalyzeImage(analysisService, analysisMaxBytes(cfg), logg))
	})

	return r
}

func analysisMaxBytes(cfg *config.Config) int64 {
	if cfg.Vision.MaxImageMB <= 0 {
		return 10 << 20
	}
	return int64(cfg.Vision.MaxImageMB) << 20
}
