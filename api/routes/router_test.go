package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyam539813/farmappsample/api/middleware"
	"github.com/satyam539813/farmappsample/internal/analysis"
	"github.com/satyam539813/farmappsample/internal/auth"
	"github.com/satyam539813/farmappsample/internal/cart"
	"github.com/satyam539813/farmappsample/internal/catalog"
	"github.com/satyam539813/farmappsample/internal/favorites"
	"github.com/satyam539813/farmappsample/internal/orders"
	"github.com/satyam539813/farmappsample/internal/session"
	"github.com/satyam539813/farmappsample/internal/users"
	authsession "github.com/satyam539813/farmappsample/pkg/auth/session"
	"github.com/satyam539813/farmappsample/pkg/config"
	"github.com/satyam539813/farmappsample/pkg/db"
	"github.com/satyam539813/farmappsample/pkg/db/dbtest"
	"github.com/satyam539813/farmappsample/pkg/metrics"
	"github.com/satyam539813/farmappsample/pkg/redis"
	"github.com/satyam539813/farmappsample/pkg/redis/redistest"
	"github.com/satyam539813/farmappsample/pkg/security"
)

const testDevice = "device-router-01"

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Port: "8080"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "farmfresh",
			ExpirationMinutes:      30,
			RefreshTokenTTLMinutes: 600,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		RateLimit: config.RateLimitConfig{
			SignInWindow:     time.Minute,
			SignInEmailLimit: 50,
			SignInIPLimit:    50,
			SignUpWindow:     time.Minute,
			SignUpEmailLimit: 50,
			SignUpIPLimit:    50,
		},
		Storefront: config.StorefrontConfig{
			DeviceStorageTTL: time.Hour,
			CartLockTTL:      time.Second,
			MaxLineQuantity:  99,
			IdempotencyTTL:   time.Hour,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	router, _, _ := newTestRouterWithRedis(t)
	return router
}

func newTestRouterWithRedis(t *testing.T) (http.Handler, *redis.Client, *redistest.Memory) {
	t.Helper()
	cfg := testConfig()
	conn := dbtest.Open(t)
	dbClient := db.NewFromGorm(conn)
	redisClient, mem := redistest.NewClient()
	reg := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefront(reg)
	cat := catalog.Default()

	sessions, err := authsession.NewManager(redisClient, cfg.JWT)
	require.NoError(t, err)
	locker, err := redis.NewLocker(redisClient, cfg.Storefront.CartLockTTL)
	require.NoError(t, err)

	ordersSvc, err := orders.NewService(orders.NewRepository(conn), dbClient, storefrontMetrics)
	require.NoError(t, err)
	cartManager, err := cart.NewManager(cart.ManagerParams{
		Remote:          cart.NewRemoteStore(conn),
		Local:           cart.NewLocalStore(redisClient, cfg.Storefront.DeviceStorageTTL),
		Catalog:         cat,
		Orders:          ordersSvc,
		Locker:          locker,
		Keys:            redisClient,
		MaxLineQuantity: cfg.Storefront.MaxLineQuantity,
		Metrics:         storefrontMetrics,
	})
	require.NoError(t, err)
	favoritesManager, err := favorites.NewManager(favorites.ManagerParams{
		Remote:  favorites.NewRemoteStore(conn),
		Local:   favorites.NewLocalStore(redisClient, cfg.Storefront.DeviceStorageTTL),
		Catalog: cat,
		Locker:  locker,
		Keys:    redisClient,
		Metrics: storefrontMetrics,
	})
	require.NoError(t, err)
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(conn),
		Hasher:         security.NewHasher(cfg.Password),
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		Hooks:          []session.TransitionHook{cartManager, favoritesManager},
	})
	require.NoError(t, err)

	router := NewRouter(
		cfg, nil, dbClient, redisClient, sessions, reg, metrics.NewHTTP(reg), cat,
		authService, ordersSvc, cartManager, favoritesManager,
		analysis.NewService(nil, 0, storefrontMetrics, nil),
	)
	return router, redisClient, mem
}

type apiResponse struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func call(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.DeviceIDHeader, testDevice)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp apiResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := call(t, router, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = call(t, router, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = call(t, router, http.MethodGet, "/api/v1/products/featured", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestAnonymousCartWithoutAccount(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := call(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id":1,"quantity":2}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, resp := call(t, router, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current cart.Cart
	require.NoError(t, json.Unmarshal(resp.Data, &current))
	assert.Equal(t, "local", string(current.Mode))
	assert.Equal(t, 2, current.ItemCount)
	assert.Equal(t, "9.98", current.Total.StringFixed(2))

	rec, resp = call(t, router, http.MethodPost, "/api/v1/cart/checkout", "", map[string]string{"Idempotency-Key": "k1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, resp.Error)
}

func TestSignInMergesDeviceCartAndCheckoutIsIdempotent(t *testing.T) {
	router := newTestRouter(t)
	const creds = `{"email":"grower@example.com","password":"secret1"}`

	rec, _ := call(t, router, http.MethodPost, "/api/v1/auth/signup", creds, map[string]string{"Idempotency-Key": "signup-1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = call(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id":1,"quantity":3}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = call(t, router, http.MethodPost, "/api/v1/favorites", `{"product_id":4}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := call(t, router, http.MethodPost, "/api/v1/auth/signin", creds, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var signIn struct {
		AccessToken string `json:"access_token"`
		Mode        string `json:"mode"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &signIn))
	assert.Equal(t, "remote", signIn.Mode)
	bearer := map[string]string{"Authorization": "Bearer " + signIn.AccessToken}

	rec, resp = call(t, router, http.MethodGet, "/api/v1/cart", "", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	var remote cart.Cart
	require.NoError(t, json.Unmarshal(resp.Data, &remote))
	assert.Equal(t, "remote", string(remote.Mode))
	assert.Equal(t, 3, remote.ItemCount)

	rec, resp = call(t, router, http.MethodGet, "/api/v1/favorites/4", "", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"is_favorite":true`)

	checkoutHeaders := map[string]string{"Authorization": bearer["Authorization"], "Idempotency-Key": "checkout-1"}
	first, _ := call(t, router, http.MethodPost, "/api/v1/cart/checkout", "", checkoutHeaders)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second, _ := call(t, router, http.MethodPost, "/api/v1/cart/checkout", "", checkoutHeaders)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())

	rec, resp = call(t, router, http.MethodGet, "/api/v1/orders", "", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []orders.OrderDTO
	require.NoError(t, json.Unmarshal(resp.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "14.97", history[0].Total.StringFixed(2))

	rec, _ = call(t, router, http.MethodPost, "/api/v1/auth/signout", "", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = call(t, router, http.MethodGet, "/api/v1/cart", "", bearer)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func signIn(t *testing.T, h http.Handler, creds string) map[string]string {
	t.Helper()
	rec, resp := call(t, h, http.MethodPost, "/api/v1/auth/signin", creds, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &tokens))
	return map[string]string{"Authorization": "Bearer " + tokens.AccessToken}
}

func fetchCart(t *testing.T, h http.Handler, headers map[string]string) cart.Cart {
	t.Helper()
	rec, resp := call(t, h, http.MethodGet, "/api/v1/cart", "", headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var current cart.Cart
	require.NoError(t, json.Unmarshal(resp.Data, &current))
	return current
}

func TestSignOutResumesDeviceCartAndNextSignInMerges(t *testing.T) {
	router, redisClient, mem := newTestRouterWithRedis(t)
	const creds = `{"email":"orchard@example.com","password":"secret1"}`

	rec, _ := call(t, router, http.MethodPost, "/api/v1/auth/signup", creds, map[string]string{"Idempotency-Key": "signup-2"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	bearer := signIn(t, router, creds)
	rec, _ = call(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id":2,"quantity":1}`, bearer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = call(t, router, http.MethodPost, "/api/v1/auth/signout", "", bearer)
	require.Equal(t, http.StatusOK, rec.Code)

	anonymous := fetchCart(t, router, nil)
	assert.Equal(t, "local", string(anonymous.Mode))
	assert.Empty(t, anonymous.Lines)

	rec, _ = call(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id":1,"quantity":2}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec, _ = call(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id":2,"quantity":1}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	anonymous = fetchCart(t, router, nil)
	assert.Equal(t, "local", string(anonymous.Mode))
	require.Len(t, anonymous.Lines, 2)
	assert.Equal(t, 3, anonymous.ItemCount)

	deviceKey := redisClient.DeviceKey(testDevice, "cart")
	_, held := mem.Value(deviceKey)
	require.True(t, held)

	bearer = signIn(t, router, creds)
	merged := fetchCart(t, router, bearer)
	assert.Equal(t, "remote", string(merged.Mode))
	require.Len(t, merged.Lines, 2)
	assert.Equal(t, 4, merged.ItemCount)
	quantities := map[int]int{}
	for _, line := range merged.Lines {
		quantities[line.ProductID] = line.Quantity
	}
	assert.Equal(t, map[int]int{1: 2, 2: 2}, quantities)

	_, held = mem.Value(deviceKey)
	assert.False(t, held)
	assert.Empty(t, fetchCart(t, router, nil).Lines)
}

func TestAnalysisWithoutProviderIsUnavailable(t *testing.T) {
	router := newTestRouter(t)
	body := `{"image":"` + analysis.EncodeDataURI("image/png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}) + `"}`

	rec, _ := call(t, router, http.MethodPost, "/api/v1/analysis", body, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}
