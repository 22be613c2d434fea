// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultDSN = "user=postgres dbname=postgres password=password sslmode=disable"

// MemoryDSN selects the in-process store instead of PostgreSQL.
const MemoryDSN = "memory"

type Config struct {
	Addr        string
	TLS         bool
	TLSCert     string
	TLSKey      string
	DatabaseURL string
	TokenKey    string
	Debug       bool

	SearchWorkers int
	SearchSlices  int
	SearchQuick   bool

	RateLimit float64
	RateBurst int
}

// Load reads the .env file at path (missing file is not an error) and then
// the process environment. Variables already set in the environment win over
// the file.
func Load(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	cfg := Config{
		Addr:        env("ADDR", ":443"),
		TLSCert:     env("TLS_CERT", "server.crt"),
		TLSKey:      env("TLS_KEY", "server.key"),
		DatabaseURL: DSN(env("DATABASE_URL", defaultDSN)),
		TokenKey:    os.Getenv("TOKEN_KEY"),
	}

	var err error
	if cfg.TLS, err = envBool("TLS", true); err != nil {
		return Config{}, err
	}
	if cfg.Debug, err = envBool("DEBUG", false); err != nil {
		return Config{}, err
	}
	if cfg.SearchQuick, err = envBool("SEARCH_QUICK", false); err != nil {
		return Config{}, err
	}
	if cfg.SearchWorkers, err = envInt("SEARCH_WORKERS", runtime.GOMAXPROCS(0)); err != nil {
		return Config{}, err
	}
	if cfg.SearchSlices, err = envInt("SEARCH_SLICES", 30); err != nil {
		return Config{}, err
	}
	if cfg.RateBurst, err = envInt("RATE_BURST", 3); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit, err = envFloat("RATE_LIMIT", 1); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN appends sslmode=require to connection strings that don't pick a mode.
func DSN(connStr string) string {
	if connStr == MemoryDSN || strings.Contains(connStr, "sslmode=") {
		return connStr
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if strings.Contains(connStr, "?") {
			return connStr + "&sslmode=require"
		}
		return connStr + "?sslmode=require"
	}
	return connStr + " sslmode=require"
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
