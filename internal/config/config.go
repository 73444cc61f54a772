package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		CORSOrigins  string
	}

	Catalog struct {
		DataFile string
	}

	Providers struct {
		OpenWeatherAPIKey string
		OpenWeatherURL    string
		OpenMeteoURL      string
		TransportURL      string
		Timeout           time.Duration
		FetchConcurrency  int
	}

	LLM struct {
		Endpoint string
		APIKey   string
		Model    string
		Timeout  time.Duration
	}

	Recommend struct {
		StartLocation string
		DefaultLimit  int
	}

	Cache struct {
		Enabled       bool
		WeatherTTL    time.Duration
		SnowTTL       time.Duration
		TransportTTL  time.Duration
		SweepInterval time.Duration
	}

	Prewarm struct {
		Enabled  bool
		CronSpec string
	}

	CircuitBreaker struct {
		Timeout time.Duration
	}

	Retry struct {
		MaxRetries int
		Delay      time.Duration
		Multiplier float64
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("READ_TIMEOUT", "10s"))
	// Write timeout must outlast a full streamed recommendation run.
	cfg.Server.WriteTimeout = parseDuration(getEnv("WRITE_TIMEOUT", "2m"))
	cfg.Server.CORSOrigins = getEnv("CORS_ORIGINS", "*")

	// Catalog configuration
	cfg.Catalog.DataFile = getEnv("RESORT_DATA_FILE", "data/resorts.json")

	// Provider configuration
	cfg.Providers.OpenWeatherAPIKey = getEnv("OPENWEATHER_API_KEY", "")
	cfg.Providers.OpenWeatherURL = getEnv("OPENWEATHER_URL", "https://api.openweathermap.org/data/2.5")
	cfg.Providers.OpenMeteoURL = getEnv("OPENMETEO_URL", "https://api.open-meteo.com/v1")
	cfg.Providers.TransportURL = getEnv("TRANSPORT_URL", "http://transport.opendata.ch/v1")
	cfg.Providers.Timeout = parseDuration(getEnv("PROVIDER_TIMEOUT", "15s"))
	cfg.Providers.FetchConcurrency = parseInt(getEnv("FETCH_CONCURRENCY", "8"))

	// LLM configuration
	cfg.LLM.Endpoint = getEnv("LLM_ENDPOINT", "")
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", "")
	cfg.LLM.Model = getEnv("LLM_MODEL", "gpt-4.1-mini")
	cfg.LLM.Timeout = parseDuration(getEnv("LLM_TIMEOUT", "30s"))

	// Recommendation configuration
	cfg.Recommend.StartLocation = getEnv("START_LOCATION", "Geneva")
	cfg.Recommend.DefaultLimit = parseInt(getEnv("DEFAULT_LIMIT", "5"))

	// Cache configuration
	cfg.Cache.Enabled = getEnv("CACHE_ENABLED", "true") == "true"
	cfg.Cache.WeatherTTL = parseDuration(getEnv("WEATHER_CACHE_TTL", "6h"))
	cfg.Cache.SnowTTL = parseDuration(getEnv("SNOW_CACHE_TTL", "12h"))
	cfg.Cache.TransportTTL = parseDuration(getEnv("TRANSPORT_CACHE_TTL", "24h"))
	cfg.Cache.SweepInterval = parseDuration(getEnv("CACHE_SWEEP_INTERVAL", "10m"))

	// Prewarm configuration
	cfg.Prewarm.Enabled = getEnv("PREWARM_ENABLED", "true") == "true"
	cfg.Prewarm.CronSpec = getEnv("PREWARM_CRON", "0 */6 * * *")

	// Circuit breaker configuration
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	// Retry configuration
	cfg.Retry.MaxRetries = parseInt(getEnv("MAX_RETRIES", "2"))
	cfg.Retry.Delay = parseDuration(getEnv("RETRY_DELAY", "1s"))
	cfg.Retry.Multiplier = parseFloat(getEnv("RETRY_MULTIPLIER", "2"))

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}
