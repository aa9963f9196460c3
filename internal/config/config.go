package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"babinium/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Parser ParserConfig
	Upload UploadConfig
	Log    LogConfig
	CORS   CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserConfig holds settings for the AI vision provider that extracts tables.
type ParserConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	Endpoint     string `mapstructure:"endpoint"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	Locale       string `mapstructure:"locale"`
	StrictRows   bool   `mapstructure:"strict_rows"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// UploadConfig holds image upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload limit in bytes.
func (u UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the BABINIUM_ prefix.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BABINIUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.environment", "development")

	// Parser defaults
	v.SetDefault("parser.provider", "gemini")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "gemini-2.5-flash")
	v.SetDefault("parser.endpoint", "")
	v.SetDefault("parser.timeout_secs", 0)
	v.SetDefault("parser.locale", "en")
	v.SetDefault("parser.strict_rows", false)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	envBindings := map[string]string{
		"server.port":             "BABINIUM_SERVER_PORT",
		"server.read_timeout":     "BABINIUM_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "BABINIUM_SERVER_WRITE_TIMEOUT",
		"server.environment":      "BABINIUM_SERVER_ENVIRONMENT",
		"parser.provider":         "BABINIUM_PARSER_PROVIDER",
		"parser.api_key":          "BABINIUM_PARSER_API_KEY",
		"parser.default_model":    "BABINIUM_PARSER_DEFAULT_MODEL",
		"parser.endpoint":         "BABINIUM_PARSER_ENDPOINT",
		"parser.timeout_secs":     "BABINIUM_PARSER_TIMEOUT_SECS",
		"parser.locale":           "BABINIUM_PARSER_LOCALE",
		"parser.strict_rows":      "BABINIUM_PARSER_STRICT_ROWS",
		"upload.max_file_size_mb": "BABINIUM_UPLOAD_MAX_FILE_SIZE_MB",
		"log.level":               "BABINIUM_LOG_LEVEL",
		"log.format":              "BABINIUM_LOG_FORMAT",
		"cors.allowed_origins":    "BABINIUM_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BABINIUM_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BABINIUM_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}

	apiKey := v.GetString("parser.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cfg.Parser = ParserConfig{
		Provider:     v.GetString("parser.provider"),
		APIKey:       apiKey,
		DefaultModel: v.GetString("parser.default_model"),
		Endpoint:     v.GetString("parser.endpoint"),
		TimeoutSecs:  v.GetInt("parser.timeout_secs"),
		Locale:       v.GetString("parser.locale"),
		StrictRows:   v.GetBool("parser.strict_rows"),
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}

// Validate checks settings that must be present before anything starts.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Parser.APIKey) == "" {
		return &domain.ConfigurationError{Setting: "BABINIUM_PARSER_API_KEY", Err: domain.ErrMissingAPIKey}
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		return &domain.ConfigurationError{Setting: "BABINIUM_UPLOAD_MAX_FILE_SIZE_MB", Err: errInvalidUploadLimit}
	}
	return nil
}

var errInvalidUploadLimit = errors.New("upload limit must be positive")
