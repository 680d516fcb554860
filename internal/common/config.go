package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	OCR       OCRConfig
	Estimator EstimatorConfig
	History   HistoryConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract     string
	Pdftoppm      string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
	TempDir       string
}

// EstimatorConfig holds generative-model configuration
type EstimatorConfig struct {
	Provider    string // "gemini" | "openai"
	Mode        string // "vision" | "text"
	Model       string
	BaseURL     string // openai only; override for proxies and tests
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// HistoryConfig holds the analysis history store configuration
type HistoryConfig struct {
	DBPath  string
	Enabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes:  getEnvAsInt64("MAX_UPLOAD_BYTES", 15<<20),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OCR: OCRConfig{
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 10),
			TempDir:       getEnv("OCR_TEMP_DIR", ""),
		},
		Estimator: EstimatorConfig{
			Provider:    getEnv("ESTIMATOR_PROVIDER", "gemini"),
			Mode:        getEnv("ESTIMATOR_MODE", "vision"),
			Model:       getEnv("ESTIMATOR_MODEL", ""),
			BaseURL:     getEnv("ESTIMATOR_BASE_URL", ""),
			APIKey:      firstEnv("GEMINI_API_KEY", "OPENAI_API_KEY"),
			Temperature: getEnvAsFloat32("ESTIMATOR_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("ESTIMATOR_TIMEOUT", 45*time.Second),
		},
		History: HistoryConfig{
			DBPath:  getEnv("HISTORY_DB_PATH", "./greenreceipt.db"),
			Enabled: getEnvAsBool("HISTORY_ENABLED", true),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", nil)
	}
	if c.Estimator.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY or OPENAI_API_KEY is required", nil)
	}
	switch c.Estimator.Provider {
	case "gemini", "openai":
	default:
		return NewAppError("CONFIG_ERROR", "ESTIMATOR_PROVIDER must be gemini or openai", nil)
	}
	switch c.Estimator.Mode {
	case "vision", "text":
	default:
		return NewAppError("CONFIG_ERROR", "ESTIMATOR_MODE must be vision or text", nil)
	}
	if c.Estimator.Mode == "vision" && c.Estimator.Provider != "gemini" {
		return NewAppError("CONFIG_ERROR", "vision mode requires the gemini provider", nil)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
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
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
