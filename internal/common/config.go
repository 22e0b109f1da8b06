package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	PDF      PDFConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // SQLite file path
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// PDFConfig holds page extraction and rasterization configuration
type PDFConfig struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	DPI       int    // rasterization DPI for OCR, default 400
	MaxPages  int    // 0 = no limit
}

// OCRConfig holds OCR collaborator configuration
type OCRConfig struct {
	BaseURL  string
	APIKey   string
	Language string
	Timeout  time.Duration
}

// LLMConfig holds language-model collaborator configuration
type LLMConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// PipelineConfig holds decision thresholds for the processing pipeline.
type PipelineConfig struct {
	MinTrustedChars   int     // native text below this length is untrusted
	MinKeywordScore   int     // classifier score below this yields UNKNOWN
	FallbackPenalty   float64 // confidence multiplier after OCR->native fallback
	ModelConfFloor    float64 // model self-report below this triggers a penalty
	ModelConfPenalty  float64 // confidence multiplier when below the floor
	StructureAttempts int     // total structuring attempts (1 + bounded retry)
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./extractbrowser.db"),
		},
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_MB", 20)) << 20,
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		PDF: PDFConfig{
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:  getEnv("PDFTOPPM_BIN", "pdftoppm"),
			DPI:       getEnvAsInt("OCR_DPI", 400),
			MaxPages:  getEnvAsInt("MAX_PAGES", 0),
		},
		OCR: OCRConfig{
			BaseURL:  getEnv("OCR_BASE_URL", ""),
			APIKey:   getEnv("OCR_API_KEY", ""),
			Language: getEnv("OCR_LANGUAGE", "por"),
			Timeout:  getEnvAsDuration("OCR_TIMEOUT", 30*time.Second),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 1500),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Pipeline: PipelineConfig{
			MinTrustedChars:   getEnvAsInt("MIN_TRUSTED_CHARS", 50),
			MinKeywordScore:   getEnvAsInt("MIN_KEYWORD_SCORE", 2),
			FallbackPenalty:   getEnvAsFloat64("FALLBACK_PENALTY", 0.75),
			ModelConfFloor:    getEnvAsFloat64("MODEL_CONF_FLOOR", 0.5),
			ModelConfPenalty:  getEnvAsFloat64("MODEL_CONF_PENALTY", 0.9),
			StructureAttempts: getEnvAsInt("STRUCTURE_ATTEMPTS", 2),
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

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Database.Path == "" {
		return NewAppError("CONFIG_ERROR", "DB_PATH is required", ErrInvalidInput)
	}
	return nil
}
