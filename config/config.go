package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// G2B open-data provider. The service key is a credential and comes
	// from the environment, never from source.
	ServiceKey        string
	ListingURL        string
	RegionURL         string
	PriceURL          string
	WindowHours       int
	ListingRows       int
	DetailRows        int
	RequestTimeoutSec int

	// Downstream valuation collaborator.
	ValuationURL string

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int

	SnapshotDir string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "bid"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "bid123"),
		PostgresDB:       getEnv("POSTGRES_DB", "bid_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ServiceKey: getEnv("G2B_SERVICE_KEY", ""),
		ListingURL: getEnv("G2B_LISTING_URL",
			"http://apis.data.go.kr/1230000/ad/BidPublicInfoService/getBidPblancListInfoCnstwk"),
		RegionURL: getEnv("G2B_REGION_URL",
			"https://apis.data.go.kr/1230000/ad/BidPublicInfoService/getBidPblancListInfoPrtcptPsblRgn"),
		PriceURL: getEnv("G2B_PRICE_URL",
			"http://apis.data.go.kr/1230000/ad/BidPublicInfoService/getBidPblancListInfoCnstwkBsisAmount"),
		WindowHours:       getEnvInt("G2B_WINDOW_HOURS", 12),
		ListingRows:       getEnvInt("G2B_LISTING_ROWS", 200),
		DetailRows:        getEnvInt("G2B_DETAIL_ROWS", 10),
		RequestTimeoutSec: getEnvInt("G2B_TIMEOUT_SEC", 10),

		ValuationURL: getEnv("VALUATION_URL", "http://localhost:8000"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 50),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		SnapshotDir: getEnv("SNAPSHOT_DIR", "./output"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
