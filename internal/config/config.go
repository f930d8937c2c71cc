package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Env       string          `yaml:"env" env:"APP_ENV" env-default:"production"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Local     LocalConfig     `yaml:"local"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	AI        AIConfig        `yaml:"ai"`
	Speech    SpeechConfig    `yaml:"speech"`
	Recommend RecommendConfig `yaml:"recommend"`
	Cooking   CookingConfig   `yaml:"cooking"`
	Seed      SeedConfig      `yaml:"seed"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RateLimitPerMin int           `yaml:"rate_limit_per_min" env:"SERVER_RATE_LIMIT_PER_MIN" env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings. The DSN may be empty,
// in which case the service runs entirely on the embedded local store.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LocalConfig holds the embedded SQLite store used as the local persistence
// fallback. Session writes are mirrored here; when no PostgreSQL DSN is
// configured it becomes the primary store.
type LocalConfig struct {
	Path string `yaml:"path" env:"LOCAL_STORE_PATH" env-default:"./momsflavor.db"`
}

// AuthConfig holds JWT authentication settings.
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"         env:"AUTH_JWT_SECRET"         env-required:"true"`
	JWTIssuer        string        `yaml:"jwt_issuer"         env:"AUTH_JWT_ISSUER"         env-default:"momsflavor"`
	AccessTokenTTL   time.Duration `yaml:"access_token_ttl"   env:"AUTH_ACCESS_TOKEN_TTL"   env-default:"15m"`
	RefreshTokenTTL  time.Duration `yaml:"refresh_token_ttl"  env:"AUTH_REFRESH_TOKEN_TTL"  env-default:"720h"`
	PasswordHashCost int           `yaml:"password_hash_cost" env:"AUTH_PASSWORD_HASH_COST" env-default:"10"`
}

// StorageConfig holds object storage (S3-compatible) settings. Credentials
// are optional at startup; uploads fail with a descriptive error when absent.
type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"         env:"STORAGE_ENDPOINT"        env-default:"kr.object.ncloudstorage.com"`
	Region        string `yaml:"region"           env:"STORAGE_REGION"          env-default:"kr-standard"`
	AccessKey     string `yaml:"access_key"       env:"STORAGE_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key"       env:"STORAGE_SECRET_KEY"`
	Bucket        string `yaml:"bucket"           env:"STORAGE_BUCKET"`
	PublicBaseURL string `yaml:"public_base_url"  env:"STORAGE_PUBLIC_BASE_URL"`
	UseSSL        bool   `yaml:"use_ssl"          env:"STORAGE_USE_SSL"         env-default:"true"`
	MaxUploadSize int64  `yaml:"max_upload_size"  env:"STORAGE_MAX_UPLOAD_SIZE" env-default:"10485760"`
}

// Configured reports whether the object store can be used.
func (c StorageConfig) Configured() bool {
	return c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// AIConfig holds AI vendor settings for shopping-list generation, OCR and
// recipe analysis. The key is optional at startup; AI calls fail with a
// descriptive error when it is absent.
type AIConfig struct {
	APIKey    string        `yaml:"api_key"    env:"AI_API_KEY"`
	Model     string        `yaml:"model"      env:"AI_MODEL"      env-default:"claude-sonnet-4-5"`
	MaxTokens int64         `yaml:"max_tokens" env:"AI_MAX_TOKENS" env-default:"2048"`
	Timeout   time.Duration `yaml:"timeout"    env:"AI_TIMEOUT"    env-default:"60s"`
}

// SpeechConfig holds the speech-to-text vendor endpoint.
type SpeechConfig struct {
	Endpoint string        `yaml:"endpoint" env:"SPEECH_ENDPOINT"`
	APIKey   string        `yaml:"api_key"  env:"SPEECH_API_KEY"`
	Timeout  time.Duration `yaml:"timeout"  env:"SPEECH_TIMEOUT" env-default:"30s"`
}

// RecommendConfig holds the recommendation data-lake mirror settings.
// Mirroring is best-effort and disabled when the URL is empty.
type RecommendConfig struct {
	ServiceURL string        `yaml:"service_url" env:"RECOMMEND_SERVICE_URL"`
	Timeout    time.Duration `yaml:"timeout"     env:"RECOMMEND_TIMEOUT" env-default:"5s"`
}

// CookingConfig holds cooking-session settings.
type CookingConfig struct {
	TickInterval time.Duration `yaml:"tick_interval" env:"COOKING_TICK_INTERVAL" env-default:"1s"`
}

// SeedConfig guards the development seed route.
type SeedConfig struct {
	RouteEnabled bool `yaml:"route_enabled" env:"SEED_ROUTE_ENABLED" env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// IsProduction reports whether the app runs in production. Some error
// responses carry more detail outside production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsePostgres reports whether a remote document store is configured.
// The backend choice is made once at startup, not per call.
func (c *Config) UsePostgres() bool {
	return c.Database.DSN != ""
}
