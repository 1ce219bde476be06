package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the process configuration, read from the environment (and a
// .env file loaded by main).
type Config struct {
	Port    string
	GinMode string
	Env     string
	Domain  string

	StoreDriver string
	MongoURI    string
	MongoDB     string
	SQLiteDSN   string

	RedisAddress    string
	RedisPassword   string
	RedisDB         int
	RateLimitPrefix string
	RateLimitPerDay int

	JWTSecret   string
	CORSOrigins []string
	SeedDemo    bool
	LogLevel    string
}

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

func (c Config) IsProduction() bool { return c.Env == "production" }

// Load reads the configuration. Missing optional values fall back to
// development defaults; a missing JWT_SECRET is an error.
func Load() (Config, error) {
	cfg := Config{
		Port:            getenv("PORT", "8080"),
		GinMode:         getenv("GIN_MODE", "debug"),
		Env:             getenv("GO_ENV", "development"),
		Domain:          os.Getenv("DOMAIN"),
		StoreDriver:     strings.ToLower(getenv("STORE_DRIVER", DriverMongo)),
		MongoURI:        os.Getenv("MONGODB_URI"),
		MongoDB:         getenv("MONGODB_DB", "missingpersons"),
		SQLiteDSN:       getenv("SQLITE_DSN", "missingpersons.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),
		RedisAddress:    os.Getenv("REDIS_ADDRESS"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RateLimitPrefix: getenv("RATE_LIMIT_PREFIX", "submissions"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		CORSOrigins:     splitList(getenv("CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:        getenv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RedisDB, err = getint("REDIS_DB", 0); err != nil {
		return cfg, err
	}
	if cfg.RateLimitPerDay, err = getint("RATE_LIMIT_PER_DAY", 20); err != nil {
		return cfg, err
	}
	if cfg.SeedDemo, err = getbool("SEED_DEMO", false); err != nil {
		return cfg, err
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	switch cfg.StoreDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			return cfg, fmt.Errorf("please define the MONGODB_URI environment variable")
		}
	case DriverSQLite:
	default:
		return cfg, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverSQLite, cfg.StoreDriver)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getbool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
