package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL         string
	MaxPages        int
	FetchTimeout    time.Duration
	CSVPath         string
	DatabaseURL     string
	PGTable         string
	SheetID         string
	SheetRange      string
	CredentialsPath string
	RedisURL        string
	PageCacheTTL    time.Duration
	MetricsPort     string
}

func Load() *Config {
	// Loads .env from the working directory; falls back to the process env.
	_ = godotenv.Load()

	return &Config{
		BaseURL:         getEnv("BASE_URL", "https://fashion-studio.dicoding.dev"),
		MaxPages:        getEnvInt("MAX_PAGES", 50),
		FetchTimeout:    time.Duration(getEnvInt("FETCH_TIMEOUT_SEC", 30)) * time.Second,
		CSVPath:         getEnv("CSV_PATH", "product.csv"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		PGTable:         getEnv("PG_TABLE", "products"),
		SheetID:         os.Getenv("SHEET_ID"),
		SheetRange:      getEnv("SHEET_RANGE", "Sheet1!A1"),
		CredentialsPath: getEnv("GOOGLE_CREDENTIALS", "sheet-api-key.json"),
		RedisURL:        os.Getenv("REDIS_URL"),
		PageCacheTTL:    time.Duration(getEnvInt("PAGE_CACHE_TTL_MIN", 30)) * time.Minute,
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}
