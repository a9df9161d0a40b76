package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting the widget engine and the devserver need.
type Config struct {
	AppName  string
	Version  string
	LogLevel string
	ENV      string

	Shop struct {
		Domain           string
		CollectionID     string
		CollectionSortBy string
		PriceHandle      string
		SearchTemplate   bool
		MoneyFormat      string
	}

	API struct {
		BaseURL        string
		ProductTimeout time.Duration
		FacetTimeout   time.Duration
	}

	Cache struct {
		Backend         string // "memory" or "redis"
		ProductTTL      time.Duration
		FacetTTL        time.Duration
		CleanupInterval time.Duration
	}

	Redis struct {
		Host         string
		Port         int
		Password     string
		DB           int
		PoolSize     int
		MinIdleConns int
		DialTimeout  time.Duration
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}

	Engine struct {
		Debounce time.Duration
	}

	Server struct {
		Host             string
		Port             int
		ReadTimeout      time.Duration
		WriteTimeout     time.Duration
		ShutdownTimeout  time.Duration
		CORSAllowOrigins []string
		MetricsEnabled   bool
	}
}

// Load reads the config file (yaml) and environment variables.
func Load(configPath string) (*Config, error) {
	configFile := "config"
	if configPath != "" {
		configFile = configPath
	}

	var cfg Config

	viper.SetConfigName(configFile)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("../config")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No file is fine; defaults plus environment take over.
	}

	setDefaults()
	bindEnvVariables()

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ENV = viper.GetString("env")
	if cfg.ENV == "" {
		cfg.ENV = "development"
		if envVar := os.Getenv("APP_ENV"); envVar != "" {
			cfg.ENV = envVar
		}
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("appName", "afs")
	viper.SetDefault("version", "1.0.0")
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("env", "development")

	viper.SetDefault("shop.domain", "")
	viper.SetDefault("shop.collectionID", "")
	viper.SetDefault("shop.collectionSortBy", "")
	viper.SetDefault("shop.priceHandle", "")
	viper.SetDefault("shop.searchTemplate", false)
	viper.SetDefault("shop.moneyFormat", "${{amount}}")

	viper.SetDefault("api.baseURL", "http://localhost:8080")
	viper.SetDefault("api.productTimeout", "8s")
	viper.SetDefault("api.facetTimeout", "15s")

	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.productTTL", "1m")
	viper.SetDefault("cache.facetTTL", "5m")
	viper.SetDefault("cache.cleanupInterval", "10m")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.poolSize", 10)
	viper.SetDefault("redis.minIdleConns", 2)
	viper.SetDefault("redis.dialTimeout", "3s")
	viper.SetDefault("redis.readTimeout", "2s")
	viper.SetDefault("redis.writeTimeout", "2s")

	viper.SetDefault("engine.debounce", "250ms")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", "10s")
	viper.SetDefault("server.writeTimeout", "10s")
	viper.SetDefault("server.shutdownTimeout", "5s")
	viper.SetDefault("server.corsAllowOrigins", []string{"*"})
	viper.SetDefault("server.metricsEnabled", true)
}

func bindEnvVariables() {
	viper.BindEnv("appName", "APP_NAME")
	viper.BindEnv("version", "APP_VERSION")
	viper.BindEnv("logLevel", "LOG_LEVEL")
	viper.BindEnv("env", "APP_ENV")

	viper.BindEnv("shop.domain", "SHOP_DOMAIN")
	viper.BindEnv("shop.collectionID", "SHOP_COLLECTION_ID")
	viper.BindEnv("shop.collectionSortBy", "SHOP_COLLECTION_SORT_BY")
	viper.BindEnv("shop.priceHandle", "SHOP_PRICE_HANDLE")
	viper.BindEnv("shop.searchTemplate", "SHOP_SEARCH_TEMPLATE")
	viper.BindEnv("shop.moneyFormat", "SHOP_MONEY_FORMAT")

	viper.BindEnv("api.baseURL", "API_BASE_URL")
	viper.BindEnv("api.productTimeout", "API_PRODUCT_TIMEOUT")
	viper.BindEnv("api.facetTimeout", "API_FACET_TIMEOUT")

	viper.BindEnv("cache.backend", "CACHE_BACKEND")
	viper.BindEnv("cache.productTTL", "CACHE_PRODUCT_TTL")
	viper.BindEnv("cache.facetTTL", "CACHE_FACET_TTL")
	viper.BindEnv("cache.cleanupInterval", "CACHE_CLEANUP_INTERVAL")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")
	viper.BindEnv("redis.poolSize", "REDIS_POOL_SIZE")
	viper.BindEnv("redis.minIdleConns", "REDIS_MIN_IDLE_CONNS")
	viper.BindEnv("redis.dialTimeout", "REDIS_DIAL_TIMEOUT")
	viper.BindEnv("redis.readTimeout", "REDIS_READ_TIMEOUT")
	viper.BindEnv("redis.writeTimeout", "REDIS_WRITE_TIMEOUT")

	viper.BindEnv("engine.debounce", "ENGINE_DEBOUNCE")

	viper.BindEnv("server.host", "SERVER_HOST")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.readTimeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.writeTimeout", "SERVER_WRITE_TIMEOUT")
	viper.BindEnv("server.shutdownTimeout", "SERVER_SHUTDOWN_TIMEOUT")
	viper.BindEnv("server.corsAllowOrigins", "CORS_ALLOW_ORIGINS")
	viper.BindEnv("server.metricsEnabled", "METRICS_ENABLED")
}
