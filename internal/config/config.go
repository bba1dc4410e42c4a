package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	DatabaseURL             string
	DBMaxConns              int32
	DBMinConns              int32
	JWTSecret               string
	JWTAccessTTL            time.Duration
	JWTRefreshTTL           time.Duration
	CORSOrigins             []string
	RateLimitRPM            int
	AuthRateLimitRPM        int
	BootstrapAdminPassword  string

	// Sync process settings.
	SyncOrganizationID string
	SyncInterval       time.Duration
	SamsaraBaseURL     string
	SamsaraAPIToken    string
	CATBaseURL         string
	CATTokenURL        string
	CATClientID        string
	CATClientSecret    string
}

// DefaultOrganizationID is the organization seeded by the initial migration.
// Single-tenant installs run entirely under it.
const DefaultOrganizationID = "00000000-0000-0000-0000-000000000001"

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:              int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(getInt("DB_MIN_CONNS", 2)),
		JWTSecret:               strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTAccessTTL:            getDuration("JWT_ACCESS_TTL", 15*time.Minute),
		JWTRefreshTTL:           getDuration("JWT_REFRESH_TTL", 168*time.Hour),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:        getInt("AUTH_RATE_LIMIT_RPM", 10),
		BootstrapAdminPassword:  getEnv("BOOTSTRAP_ADMIN_PASSWORD", "admin123"),

		SyncOrganizationID: getEnv("SYNC_ORGANIZATION_ID", DefaultOrganizationID),
		SyncInterval:       getDuration("SYNC_INTERVAL", 0),
		SamsaraBaseURL:     getEnv("SAMSARA_BASE_URL", "https://api.samsara.com"),
		SamsaraAPIToken:    strings.TrimSpace(os.Getenv("SAMSARA_API_TOKEN")),
		CATBaseURL:         getEnv("CAT_BASE_URL", "https://api.cat.com"),
		CATTokenURL:        strings.TrimSpace(os.Getenv("CAT_TOKEN_URL")),
		CATClientID:        strings.TrimSpace(os.Getenv("CAT_CLIENT_ID")),
		CATClientSecret:    strings.TrimSpace(os.Getenv("CAT_CLIENT_SECRET")),
	}

	return cfg, nil
}

// ValidateServer checks everything cmd/server needs.
func (c *Config) ValidateServer() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MAX_CONNS/DB_MIN_CONNS are inconsistent")
	}

	return nil
}

// ValidateSync checks everything cmd/sync needs. At least one telematics
// provider must be configured or the process has nothing to do.
func (c *Config) ValidateSync() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if strings.TrimSpace(c.SyncOrganizationID) == "" {
		return fmt.Errorf("SYNC_ORGANIZATION_ID cannot be empty")
	}

	if c.SamsaraAPIToken == "" && (c.CATClientID == "" || c.CATClientSecret == "") {
		return fmt.Errorf("no telematics provider configured: set SAMSARA_API_TOKEN or CAT_CLIENT_ID/CAT_CLIENT_SECRET")
	}

	if c.CATClientID != "" && strings.TrimSpace(c.CATTokenURL) == "" {
		return fmt.Errorf("CAT_TOKEN_URL is required when CAT credentials are set")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
