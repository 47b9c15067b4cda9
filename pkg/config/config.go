package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cache        CacheConfig
	Search       SearchConfig
	Embedding    EmbeddingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Search.Weights().Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CATALOG_APP_ENV" required:"true"`
	Port         string `envconfig:"CATALOG_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CATALOG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CATALOG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"CATALOG_DB_DSN"`

	LegacyHost     string `envconfig:"CATALOG_DB_HOST"`
	LegacyPort     int    `envconfig:"CATALOG_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CATALOG_DB_USER"`
	LegacyPassword string `envconfig:"CATALOG_DB_PASSWORD"`
	LegacyName     string `envconfig:"CATALOG_DB_NAME"`
	LegacySSLMode  string `envconfig:"CATALOG_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CATALOG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CATALOG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CATALOG_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CATALOG_REDIS_ADDR"`
	Password     string        `envconfig:"CATALOG_REDIS_PASSWORD"`
	DB           int           `envconfig:"CATALOG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CATALOG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CATALOG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CATALOG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CATALOG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CATALOG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CacheConfig carries the TTL classes for the cache-aside layer.
type CacheConfig struct {
	SearchTTL   time.Duration `envconfig:"CATALOG_CACHE_SEARCH_TTL" default:"300s"`
	ProductTTL  time.Duration `envconfig:"CATALOG_CACHE_PRODUCT_TTL" default:"3600s"`
	SupplierTTL time.Duration `envconfig:"CATALOG_CACHE_SUPPLIER_TTL" default:"1800s"`
	CategoryTTL time.Duration `envconfig:"CATALOG_CACHE_CATEGORY_TTL" default:"1800s"`
}

// SearchConfig tunes the hybrid ranking fusion without touching ranking code.
type SearchConfig struct {
	SemanticWeight   float64 `envconfig:"CATALOG_SEARCH_W_SEMANTIC" default:"0.5"`
	LexicalWeight    float64 `envconfig:"CATALOG_SEARCH_W_LEXICAL" default:"0.3"`
	PopularityWeight float64 `envconfig:"CATALOG_SEARCH_W_POPULARITY" default:"0.2"`
}

// Weights is the validated fusion-weight triple.
type Weights struct {
	Semantic   float64
	Lexical    float64
	Popularity float64
}

func (s SearchConfig) Weights() Weights {
	return Weights{
		Semantic:   s.SemanticWeight,
		Lexical:    s.LexicalWeight,
		Popularity: s.PopularityWeight,
	}
}

// Validate requires non-negative weights summing to 1.
func (w Weights) Validate() error {
	if w.Semantic < 0 || w.Lexical < 0 || w.Popularity < 0 {
		return fmt.Errorf("search weights must be non-negative: %+v", w)
	}
	if sum := w.Semantic + w.Lexical + w.Popularity; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("search weights must sum to 1, got %g", sum)
	}
	return nil
}

type EmbeddingConfig struct {
	BaseURL string        `envconfig:"CATALOG_EMBEDDING_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"CATALOG_EMBEDDING_TIMEOUT" default:"2s"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"CATALOG_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	CatalogTopic        string `envconfig:"CATALOG_PUBSUB_CATALOG_TOPIC" default:"catalog-change-events"`
	CatalogSubscription string `envconfig:"CATALOG_PUBSUB_CATALOG_SUBSCRIPTION"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CATALOG_AUTO_MIGRATE" default:"false"`
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
