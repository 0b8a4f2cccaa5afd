package infra

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret    string
	AuthJWKSURL  string
	AuthIssuer   string
	AuthAudience string

	StorageDriver     string
	StoragePath       string
	StorageBaseURL    string
	StorageEndpoint   string
	StorageServiceKey string
	StorageBucket     string

	GeminiAPIKey          string
	GeminiImageModel      string
	GeminiImageModelPro   string
	GeminiTextModel       string
	DebugRenderBypass     bool
	ImageSourceAllowlist  []string
	MaxReferenceImageSize int64

	SocialBaseURL    string
	SocialAPIKey     string
	SocialAPIVersion string

	GeoIPDBPath       string
	SignupCreditGrant int
	GenerationWorkers int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed.
func LoadConfig() (*Config, error) {
	appEnv := getEnv("APP_ENV", "development")
	port := getEnv("PORT", "8080")

	cfg := &Config{
		AppEnv:      appEnv,
		Port:        port,
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		AuthJWKSURL:  os.Getenv("AUTH_JWKS_URL"),
		AuthIssuer:   os.Getenv("AUTH_ISSUER"),
		AuthAudience: getEnv("AUTH_AUDIENCE", "authenticated"),

		StorageDriver:     getEnv("STORAGE_DRIVER", "filesystem"),
		StoragePath:       getEnv("STORAGE_PATH", "./data/storage"),
		StorageBaseURL:    getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		StorageEndpoint:   os.Getenv("STORAGE_ENDPOINT"),
		StorageServiceKey: os.Getenv("STORAGE_SERVICE_KEY"),
		StorageBucket:     getEnv("STORAGE_BUCKET", "business-assets"),

		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiImageModel:      getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiImageModelPro:   getEnv("GEMINI_IMAGE_MODEL_PRO", "gemini-3-pro-image-preview"),
		GeminiTextModel:       getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		MaxReferenceImageSize: int64(getEnvInt("MAX_REFERENCE_IMAGE_BYTES", 8<<20)),

		SocialBaseURL:    getEnv("SOCIAL_BASE_URL", "https://services.leadconnectorhq.com"),
		SocialAPIKey:     os.Getenv("SOCIAL_API_KEY"),
		SocialAPIVersion: getEnv("SOCIAL_API_VERSION", "2021-07-28"),

		GeoIPDBPath:       os.Getenv("GEOIP_DB_PATH"),
		SignupCreditGrant: getEnvInt("SIGNUP_CREDIT_GRANT", 10),
		GenerationWorkers: getEnvInt("GENERATION_WORKERS", 2),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	cfg.DebugRenderBypass = getEnvBool("DEBUG_RENDER_BYPASS", cfg.IsDevelopment())
	cfg.ImageSourceAllowlist = buildImageSourceAllowlist(cfg.StorageBaseURL, os.Getenv("IMAGE_SOURCE_HOST_ALLOWLIST"))
	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.AuthJWKSURL == "" {
		return nil, fmt.Errorf("JWT_SECRET or AUTH_JWKS_URL is required")
	}

	switch cfg.StorageDriver {
	case "filesystem":
	case "bucket":
		if cfg.StorageEndpoint == "" || cfg.StorageServiceKey == "" {
			return nil, fmt.Errorf("STORAGE_ENDPOINT and STORAGE_SERVICE_KEY are required for the bucket driver")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// buildImageSourceAllowlist merges the storage host with the explicit
// allowlist so locally stored references are always fetchable. The result is
// deduplicated and sorted.
func buildImageSourceAllowlist(storageBaseURL, explicit string) []string {
	hosts := map[string]struct{}{}
	if u, err := url.Parse(storageBaseURL); err == nil && u.Hostname() != "" {
		hosts[u.Hostname()] = struct{}{}
	}
	for _, h := range strings.Split(explicit, ",") {
		h = strings.TrimSpace(h)
		if h != "" {
			hosts[h] = struct{}{}
		}
	}
	out := make([]string, 0, len(hosts))
	for h := range hosts {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
