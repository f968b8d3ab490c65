package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port           string
	DatabaseURL    string
	TaxRate        decimal.Decimal
	TableCount     int
	AllowedOrigins []string
}

// Load reads configuration from the environment, with an optional .env file.
// An empty DATABASE_URL selects the in-memory backend.
func Load() *Config {
	// Missing .env is fine; env vars alone are enough.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8081"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		TaxRate:     getEnvDecimal("TAX_RATE", "0.11"),
		TableCount:  getEnvInt("TABLE_COUNT", 8),
		AllowedOrigins: []string{
			getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Printf("WARNING: invalid %s=%q, using %d", key, v, fallback)
			return fallback
		}
		return n
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	s := getEnv(key, fallback)
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		log.Printf("WARNING: invalid %s=%q, using %s", key, s, fallback)
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}
