package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "FARMFRESH"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvAppEnv                 = "FARMFRESH_APP_ENV"
	EnvPort                   = "FARMFRESH_APP_PORT"
	EnvDBDSN                  = "FARMFRESH_DB_DSN"
	EnvDBHost                 = "FARMFRESH_DB_HOST"
	EnvDBUser                 = "FARMFRESH_DB_USER"
	EnvDBName                 = "FARMFRESH_DB_NAME"
	EnvRedisURL               = "FARMFRESH_REDIS_URL"
	EnvJWTSecret              = "FARMFRESH_JWT_SECRET"
	EnvJWTIssuer              = "FARMFRESH_JWT_ISSUER"
	EnvJWTExpMins             = "FARMFRESH_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FARMFRESH_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite              = "FARMFRESH_USE_SQLITE"
	EnvVisionAPIKey           = "FARMFRESH_VISION_API_KEY"
	EnvVisionModel            = "FARMFRESH_VISION_MODEL"
	EnvStorefrontDeviceTTL    = "FARMFRESH_DEVICE_STORAGE_TTL"
	EnvCORSAllowedOrigins     = "FARMFRESH_CORS_ALLOWED_ORIGINS"

	defaultVisionBaseURL   = "https://openrouter.ai/api/v1"
	defaultVisionModel     = "moonshotai/kimi-k2:free"
	defaultVisionMaxTokens = 300
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Storefront   StorefrontConfig
	Vision       VisionConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = "file:farmfresh.db?cache=shared"
		}
	} else if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	cfg.Vision.applyDefaults()
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FARMFRESH_APP_ENV" required:"true"`
	Port         string `envconfig:"FARMFRESH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FARMFRESH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FARMFRESH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FARMFRESH_DB_DSN"`
	Driver string `envconfig:"FARMFRESH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FARMFRESH_DB_HOST"`
	LegacyPort     int    `envconfig:"FARMFRESH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FARMFRESH_DB_USER"`
	LegacyPassword string `envconfig:"FARMFRESH_DB_PASSWORD"`
	LegacyName     string `envconfig:"FARMFRESH_DB_NAME"`
	LegacySSLMode  string `envconfig:"FARMFRESH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FARMFRESH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FARMFRESH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FARMFRESH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FARMFRESH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FARMFRESH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FARMFRESH_REDIS_ADDR"`
	Password     string        `envconfig:"FARMFRESH_REDIS_PASSWORD"`
	DB           int           `envconfig:"FARMFRESH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FARMFRESH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FARMFRESH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FARMFRESH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FARMFRESH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FARMFRESH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FARMFRESH_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FARMFRESH_JWT_ISSUER" default:"farmfresh"`
	ExpirationMinutes      int    `envconfig:"FARMFRESH_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"FARMFRESH_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// AccessTokenTTL returns the lifetime of a minted access token.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FARMFRESH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FARMFRESH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FARMFRESH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FARMFRESH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FARMFRESH_ARGON_KEY_LEN" default:"32"`
}

// RateLimitConfig holds the fixed-window limits for sign-in, sign-up and
// image analysis. A zero limit disables that rule.
type RateLimitConfig struct {
	SignInWindow        time.Duration `envconfig:"FARMFRESH_AUTH_RATE_LIMIT_SIGNIN_WINDOW" default:"1m"`
	SignInEmailLimit    int           `envconfig:"FARMFRESH_AUTH_RATE_LIMIT_SIGNIN_EMAIL_LIMIT" default:"5"`
	SignInIPLimit       int           `envconfig:"FARMFRESH_AUTH_RATE_LIMIT_SIGNIN_IP_LIMIT" default:"20"`
	SignUpWindow        time.Duration `envconfig:"FARMFRESH_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignUpEmailLimit    int           `envconfig:"FARMFRESH_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignUpIPLimit       int           `envconfig:"FARMFRESH_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
	AnalysisWindow      time.Duration `envconfig:"FARMFRESH_RATE_LIMIT_ANALYSIS_WINDOW" default:"1m"`
	AnalysisIPLimit     int           `envconfig:"FARMFRESH_RATE_LIMIT_ANALYSIS_IP_LIMIT" default:"10"`
	AnalysisDeviceLimit int           `envconfig:"FARMFRESH_RATE_LIMIT_ANALYSIS_DEVICE_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FARMFRESH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FARMFRESH_AUTO_MIGRATE" default:"false"`
}

// StorefrontConfig tunes the cart and favorites managers.
type StorefrontConfig struct {
	DeviceStorageTTL       time.Duration `envconfig:"FARMFRESH_DEVICE_STORAGE_TTL" default:"720h"`
	CartLockTTL            time.Duration `envconfig:"FARMFRESH_CART_LOCK_TTL" default:"5s"`
	MaxLineQuantity        int           `envconfig:"FARMFRESH_CART_MAX_LINE_QUANTITY" default:"99"`
	IdempotencyTTL         time.Duration `envconfig:"FARMFRESH_IDEMPOTENCY_TTL" default:"24h"`
	// CheckoutIdempotencyTTL outlives IdempotencyTTL so a retried checkout
	// days later still returns the original order.
	CheckoutIdempotencyTTL time.Duration `envconfig:"FARMFRESH_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

// VisionConfig points at an OpenAI-compatible chat completions endpoint.
type VisionConfig struct {
	APIKey     string        `envconfig:"FARMFRESH_VISION_API_KEY"`
	BaseURL    string        `envconfig:"FARMFRESH_VISION_BASE_URL"`
	Model      string        `envconfig:"FARMFRESH_VISION_MODEL"`
	MaxTokens  int           `envconfig:"FARMFRESH_VISION_MAX_TOKENS"`
	Timeout    time.Duration `envconfig:"FARMFRESH_VISION_TIMEOUT" default:"30s"`
	Referer    string        `envconfig:"FARMFRESH_VISION_REFERER"`
	MaxImageMB int           `envconfig:"FARMFRESH_VISION_MAX_IMAGE_MB" default:"10"`
}

func (v *VisionConfig) applyDefaults() {
	if strings.TrimSpace(v.BaseURL) == "" {
		v.BaseURL = defaultVisionBaseURL
	}
	if strings.TrimSpace(v.Model) == "" {
		v.Model = defaultVisionModel
	}
	if v.MaxTokens <= 0 {
		v.MaxTokens = defaultVisionMaxTokens
	}
}

// Enabled reports whether an API key was supplied.
func (v VisionConfig) Enabled() bool {
	return strings.TrimSpace(v.APIKey) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FARMFRESH_CORS_ALLOWED_ORIGINS" default:"*"`
}

// IsSQLite reports whether the embedded sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
