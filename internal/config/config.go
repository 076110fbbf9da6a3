package config

import (
	"fmt"
	"strings"
	"time"

	"fintrack-go/pkg/logger"

	"github.com/spf13/viper"
)

const envPrefix = "FINTRACK"

type Config struct {
	HTTPPort      string
	CORSOrigins   []string
	Env           string
	Store         string
	Log           LogConfig
	DB            DBConfig
	Understanding UnderstandingConfig
	Cache         CacheConfig
	Auth          AuthConfig
	Identity      IdentityConfig
	Defaults      DefaultsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type UnderstandingConfig struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type CacheConfig struct {
	Backend       string
	CategoriesTTL time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type AuthConfig struct {
	JWTSecret     string
	WebhookSecret string
}

type IdentityConfig struct {
	CodeTTL  time.Duration
	CacheTTL time.Duration
}

type DefaultsConfig struct {
	Currency       string
	Language       string
	Timezone       string
	AutoCategorize bool
}

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromViper(newViper()), nil
}

// LoadFile is Load with an explicit config file (yaml, json or toml).
// Environment variables still take precedence over the file.
func LoadFile(log logger.Logger, path string) (Config, error) {
	if path == "" {
		return Load(log)
	}
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	log.Info("config: loaded file", "path", v.ConfigFileUsed())
	return FromViper(v), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.port", "8080")
	v.SetDefault("http.cors_origins", "http://localhost:5173")
	v.SetDefault("env", "development")
	v.SetDefault("store", StorePostgres)
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "text")

	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "fintrack")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("understanding.provider", "local")
	v.SetDefault("understanding.base_url", "")
	v.SetDefault("understanding.api_key", "")
	v.SetDefault("understanding.model", "")
	v.SetDefault("understanding.timeout", 20*time.Second)

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.categories_ttl", 5*time.Minute)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("webhook.secret", "")

	v.SetDefault("identity.code_ttl", 15*time.Minute)
	v.SetDefault("identity.cache_ttl", 10*time.Minute)

	v.SetDefault("defaults.currency", "IDR")
	v.SetDefault("defaults.language", "id")
	v.SetDefault("defaults.timezone", "Asia/Jakarta")
	v.SetDefault("defaults.auto_categorize", true)
	return v
}

// FromViper reads every setting from v; tests pass a viper instance with
// explicit values.
func FromViper(v *viper.Viper) Config {
	return Config{
		HTTPPort:    v.GetString("http.port"),
		CORSOrigins: splitList(v.GetString("http.cors_origins")),
		Env:         v.GetString("env"),
		Store:       strings.ToLower(v.GetString("store")),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		DB: DBConfig{
			DSN:             v.GetString("db.dsn"),
			Host:            v.GetString("db.host"),
			Port:            v.GetString("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			Name:            v.GetString("db.name"),
			SSLMode:         v.GetString("db.sslmode"),
			TimeZone:        v.GetString("db.timezone"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		},
		Understanding: UnderstandingConfig{
			Provider: strings.ToLower(v.GetString("understanding.provider")),
			BaseURL:  v.GetString("understanding.base_url"),
			APIKey:   v.GetString("understanding.api_key"),
			Model:    v.GetString("understanding.model"),
			Timeout:  v.GetDuration("understanding.timeout"),
		},
		Cache: CacheConfig{
			Backend:       strings.ToLower(v.GetString("cache.backend")),
			CategoriesTTL: v.GetDuration("cache.categories_ttl"),
			RedisAddr:     v.GetString("redis.addr"),
			RedisPassword: v.GetString("redis.password"),
			RedisDB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("auth.jwt_secret"),
			WebhookSecret: v.GetString("webhook.secret"),
		},
		Identity: IdentityConfig{
			CodeTTL:  v.GetDuration("identity.code_ttl"),
			CacheTTL: v.GetDuration("identity.cache_ttl"),
		},
		Defaults: DefaultsConfig{
			Currency:       strings.ToUpper(v.GetString("defaults.currency")),
			Language:       strings.ToLower(v.GetString("defaults.language")),
			Timezone:       v.GetString("defaults.timezone"),
			AutoCategorize: v.GetBool("defaults.auto_categorize"),
		},
	}
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
