package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	Geocode  GeocodeConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
	Ingest   IngestConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	SQLitePath       string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr string
}

// OCRConfig holds recognition engine configuration
type OCRConfig struct {
	Engines        []string
	Tesseract      string
	TesseractLangs []string
	TessdataDir    string
	Pdftoppm       string
	HeicConverter  string
	DPI            int
	MaxPages       int
	RemoteURL      string
	RemoteHealth   string
	Timeout        time.Duration
}

// GeocodeConfig holds geocoding provider configuration
type GeocodeConfig struct {
	Enabled      bool
	NominatimURL string
	PhotonURL    string
	UserAgent    string
	Timeout      time.Duration
	MinInterval  time.Duration
}

// LLMConfig holds location normalizer configuration
type LLMConfig struct {
	Enabled     bool
	BaseURL     string
	Model       string
	APIKey      string
	Referer     string
	Title       string
	Temperature float32
	Timeout     time.Duration
}

// PipelineConfig holds page processing configuration
type PipelineConfig struct {
	PageWorkers int
	JobTimeout  time.Duration
}

// IngestConfig holds inbox watcher and queue configuration
type IngestConfig struct {
	InboxDirs   []string
	InitialScan bool
	Debounce    time.Duration
	Workers     int
	QueueSize   int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			SQLitePath:       getEnv("SQLITE_PATH", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 2),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr: getEnv("GRPC_ADDR", ":8080"),
		},
		OCR: OCRConfig{
			Engines:        getEnvAsList("OCR_ENGINES", []string{"remote", "gosseract", "tesseract"}),
			Tesseract:      getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLangs: getEnvAsList("TESSERACT_LANGS", []string{"ind", "eng"}),
			TessdataDir:    getEnv("TESSDATA_PREFIX", ""),
			Pdftoppm:       getEnv("PDFTOPPM_BIN", "pdftoppm"),
			HeicConverter:  getEnv("HEIC_CONVERTER", ""),
			DPI:            getEnvAsInt("PDF_DPI", 200),
			MaxPages:       getEnvAsInt("PDF_MAX_PAGES", 3),
			RemoteURL:      getEnv("OCR_REMOTE_URL", ""),
			RemoteHealth:   getEnv("OCR_REMOTE_HEALTH_URL", ""),
			Timeout:        getEnvAsDuration("OCR_TIMEOUT", 60*time.Second),
		},
		Geocode: GeocodeConfig{
			Enabled:      getEnvAsBool("GEOCODE_ENABLED", true),
			NominatimURL: getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
			PhotonURL:    getEnv("PHOTON_URL", "https://photon.komoot.io/api/"),
			UserAgent:    getEnv("GEOCODE_USER_AGENT", "docgeo geocoder (contact: local-dev)"),
			Timeout:      getEnvAsDuration("GEOCODE_TIMEOUT", 10*time.Second),
			MinInterval:  getEnvAsDuration("GEOCODE_MIN_INTERVAL", 1100*time.Millisecond),
		},
		LLM: LLMConfig{
			Enabled:     getEnvAsBool("LLM_ENABLED", true),
			BaseURL:     getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:       getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
			APIKey:      getEnv("OPENROUTER_API_KEY", ""),
			Referer:     getEnv("OPENROUTER_REFERER", ""),
			Title:       getEnv("OPENROUTER_TITLE", "docgeo"),
			Temperature: getEnvAsFloat32("OPENROUTER_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENROUTER_TIMEOUT", 30*time.Second),
		},
		Pipeline: PipelineConfig{
			PageWorkers: getEnvAsInt("PAGE_WORKERS", 2),
			JobTimeout:  getEnvAsDuration("JOB_TIMEOUT", 5*time.Minute),
		},
		Ingest: IngestConfig{
			InboxDirs:   getEnvAsList("INBOX_DIRS", nil),
			InitialScan: getEnvAsBool("INBOX_INITIAL_SCAN", false),
			Debounce:    getEnvAsDuration("INBOX_DEBOUNCE", 500*time.Millisecond),
			Workers:     getEnvAsInt("QUEUE_WORKERS", 2),
			QueueSize:   getEnvAsInt("QUEUE_SIZE", 128),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value, dropping empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if len(c.OCR.Engines) == 0 {
		return NewAppError("CONFIG_ERROR", "OCR_ENGINES must name at least one engine", ErrInvalidInput)
	}
	if c.OCR.MaxPages < 0 {
		return NewAppError("CONFIG_ERROR", "PDF_MAX_PAGES must not be negative", ErrInvalidInput)
	}
	if c.Geocode.MinInterval < 0 {
		return NewAppError("CONFIG_ERROR", "GEOCODE_MIN_INTERVAL must not be negative", ErrInvalidInput)
	}
	if c.Geocode.Enabled && c.Geocode.UserAgent == "" {
		return NewAppError("CONFIG_ERROR", "GEOCODE_USER_AGENT is required when geocoding is enabled", ErrInvalidInput)
	}
	if c.Pipeline.PageWorkers <= 0 {
		return NewAppError("CONFIG_ERROR", "PAGE_WORKERS must be positive", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	return nil
}
