package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time provides duration types for token lifetimes
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The types reflect how the values are used
// in the application: strings for identifiers and secrets, durations for
// token lifetimes, ints for costs.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port to listen on
	DBDriver         string        // database driver ("mysql" or "sqlite3")
	DBUser           string        // database username (mysql)
	DBPass           string        // database password (mysql, optional)
	DBHost           string        // database host address (mysql)
	DBPort           string        // database port number (mysql)
	DBName           string        // database name (mysql)
	DBPath           string        // database file path (sqlite3)
	JWTSecret        string        // secret used to sign access tokens
	JWTRefreshSecret string        // secret used to sign refresh tokens
	AccessTTL        time.Duration // access token time-to-live (default 7 days)
	RefreshTTL       time.Duration // refresh token time-to-live (default 30 days)
	ResetTTL         time.Duration // password-reset secret time-to-live (default 10 minutes)
	BcryptCost       int           // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Token lifetimes
// and the bcrypt cost fall back to sensible defaults when unset.
func Load() Config {
	cfg := Config{
		Env:              must("APP_ENV"),  // environment (dev/test/prod)
		Port:             must("APP_PORT"), // port to bind the HTTP server
		DBDriver:         envStr("DB_DRIVER", "mysql"),
		JWTSecret:        must("JWT_SECRET"),         // secret for signing access tokens
		JWTRefreshSecret: must("JWT_REFRESH_SECRET"), // independent secret for refresh tokens
		AccessTTL:        envDur("ACCESS_TOKEN_TTL", 7*24*time.Hour),
		RefreshTTL:       envDur("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		ResetTTL:         envDur("RESET_TOKEN_TTL", 10*time.Minute),
		BcryptCost:       envInt("BCRYPT_COST", 10),
	}
	switch cfg.DBDriver {
	case "mysql":
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	case "sqlite3":
		cfg.DBPath = envStr("DB_PATH", "./accounts.db")
	default:
		log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
