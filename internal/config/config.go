package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Credentials
	NewsAPIKey   string
	GeminiAPIKey string
	GeminiModel  string

	// Delivery
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	Recipients   []string

	// Curation
	SectionsConfigPath string
	DaysBack           int
	PoolSize           int
	SectionLimit       int
	PageSize           int

	// Context collaborators
	WeatherURL       string
	WeatherArea      string
	WeatherStorePath string
	TrendingFeedURL  string
	TrendingLimit    int

	// Budgets and timeouts
	MaxNewsAPIRequests int
	MaxGeminiRequests  int
	RequestTimeout     time.Duration
	RetryAttempts      int
	RetryDelay         time.Duration

	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		GeminiModel:        "gemini-1.5-flash",
		SMTPHost:           "smtp.gmail.com",
		SMTPPort:           587,
		SectionsConfigPath: "configs/sections.yaml",
		DaysBack:           1,
		PoolSize:           12,
		SectionLimit:       5,
		PageSize:           15,
		WeatherURL:         "http://www.bom.gov.au/fwo/IDN11051.xml",
		WeatherArea:        "Newcastle",
		WeatherStorePath:   "weather_fallback.json",
		TrendingFeedURL:    "https://www.reddit.com/r/all/top/.rss?t=day&limit=50",
		TrendingLimit:      5,
		MaxNewsAPIRequests: 0,
		MaxGeminiRequests:  0,
		RequestTimeout:     30 * time.Second,
		RetryAttempts:      3,
		RetryDelay:         5 * time.Second,
	}

	cfg.NewsAPIKey = os.Getenv("NEWSAPI_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.SMTPUser = os.Getenv("SMTP_USER")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	if v := os.Getenv("RECIPIENT_EMAILS"); v != "" {
		for _, r := range strings.Split(v, ",") {
			if r = strings.TrimSpace(r); r != "" {
				cfg.Recipients = append(cfg.Recipients, r)
			}
		}
	}

	cfg.GeminiModel = getEnvOrDefault("GEMINI_MODEL", cfg.GeminiModel)
	cfg.SMTPHost = getEnvOrDefault("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnvIntOrDefault("SMTP_PORT", cfg.SMTPPort)
	cfg.SectionsConfigPath = getEnvOrDefault("SECTIONS_CONFIG_PATH", cfg.SectionsConfigPath)
	cfg.DaysBack = getEnvIntOrDefault("DAYS_BACK", cfg.DaysBack)
	cfg.PoolSize = getEnvIntOrDefault("POOL_SIZE", cfg.PoolSize)
	cfg.SectionLimit = getEnvIntOrDefault("SECTION_LIMIT", cfg.SectionLimit)
	cfg.PageSize = getEnvIntOrDefault("PAGE_SIZE", cfg.PageSize)
	cfg.WeatherURL = getEnvOrDefault("WEATHER_URL", cfg.WeatherURL)
	cfg.WeatherArea = getEnvOrDefault("WEATHER_AREA", cfg.WeatherArea)
	cfg.WeatherStorePath = getEnvOrDefault("WEATHER_STORE_PATH", cfg.WeatherStorePath)
	cfg.TrendingFeedURL = getEnvOrDefault("TRENDING_FEED_URL", cfg.TrendingFeedURL)
	cfg.TrendingLimit = getEnvIntOrDefault("TRENDING_LIMIT", cfg.TrendingLimit)
	cfg.MaxNewsAPIRequests = getEnvIntOrDefault("MAX_NEWSAPI_REQUESTS", cfg.MaxNewsAPIRequests)
	cfg.MaxGeminiRequests = getEnvIntOrDefault("MAX_GEMINI_REQUESTS", cfg.MaxGeminiRequests)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate rejects incomplete configuration before any network activity.
func (c *Config) Validate() error {
	if c.NewsAPIKey == "" {
		return fmt.Errorf("NEWSAPI_KEY is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.SMTPUser == "" {
		return fmt.Errorf("SMTP_USER is required")
	}
	if c.SMTPPassword == "" {
		return fmt.Errorf("SMTP_PASSWORD is required")
	}
	if len(c.Recipients) == 0 {
		return fmt.Errorf("RECIPIENT_EMAILS is required")
	}
	if c.DaysBack < 1 {
		return fmt.Errorf("DAYS_BACK must be at least 1")
	}
	if c.PoolSize < 1 || c.SectionLimit < 1 {
		return fmt.Errorf("POOL_SIZE and SECTION_LIMIT must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1")
	}
	return nil
}
