package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "BLOG_CONFIG"

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Database configuration
	Database DatabaseConfig `yaml:"database"`

	// WordPress site configuration
	WordPress WordPressConfig `yaml:"wordpress"`

	// OpenAI API configuration
	OpenAI OpenAIConfig `yaml:"openai"`

	// Content generation defaults
	Content ContentConfig `yaml:"content"`

	// Quality gate configuration
	Quality QualityConfig `yaml:"quality"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	Name         string        `yaml:"name"`
	SSLMode      string        `yaml:"sslMode"`
	MaxOpenConns int           `yaml:"maxOpenConns"`
	MaxIdleConns int           `yaml:"maxIdleConns"`
	MaxLifetime  time.Duration `yaml:"maxLifetime"`
}

// WordPressConfig holds the target site and its static credential pair
type WordPressConfig struct {
	BaseURL     string `yaml:"baseUrl"`
	Username    string `yaml:"username"`
	AppPassword string `yaml:"appPassword"`
}

// OpenAIConfig holds generation API settings
type OpenAIConfig struct {
	APIKey     string        `yaml:"apiKey"`
	Model      string        `yaml:"model"`
	ImageModel string        `yaml:"imageModel"`
	Endpoint   string        `yaml:"endpoint"`
	Timeout    time.Duration `yaml:"timeout"`
}

// ContentConfig holds pipeline defaults applied when a request omits them
type ContentConfig struct {
	DefaultCategory string   `yaml:"defaultCategory"`
	DefaultTags     []string `yaml:"defaultTags"`
	ImageDir        string   `yaml:"imageDir"`
}

// QualityConfig holds quality gate thresholds and toggles
type QualityConfig struct {
	MinWordCount           int           `yaml:"minWordCount"`
	MaxWordCount           int           `yaml:"maxWordCount"`
	SpellCheckEnabled      bool          `yaml:"spellCheckEnabled"`
	PlagiarismCheckEnabled bool          `yaml:"plagiarismCheckEnabled"`
	LinkCheckTimeout       time.Duration `yaml:"linkCheckTimeout"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "pretty"
}

// Load reads the optional YAML config file named by BLOG_CONFIG, then applies
// environment variable overrides on top of it.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    300 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Password:     "postgres",
			Name:         "wp_autopub",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
			MaxLifetime:  5 * time.Minute,
		},
		OpenAI: OpenAIConfig{
			Model:      "gpt-4",
			ImageModel: "dall-e-3",
			Endpoint:   "https://api.openai.com/v1",
			Timeout:    60 * time.Second,
		},
		Content: ContentConfig{
			DefaultCategory: "AI",
			DefaultTags:     []string{"ai", "automation", "blog"},
			ImageDir:        "./images",
		},
		Quality: QualityConfig{
			MinWordCount:           500,
			MaxWordCount:           3000,
			SpellCheckEnabled:      true,
			PlagiarismCheckEnabled: true,
			LinkCheckTimeout:       5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.ShutdownTimeout = getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnv("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.MaxOpenConns = getIntEnv("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	cfg.Database.MaxIdleConns = getIntEnv("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	cfg.Database.MaxLifetime = getDurationEnv("DB_MAX_LIFETIME", cfg.Database.MaxLifetime)

	cfg.WordPress.BaseURL = getEnv("WORDPRESS_URL", cfg.WordPress.BaseURL)
	cfg.WordPress.Username = getEnv("WORDPRESS_USERNAME", cfg.WordPress.Username)
	cfg.WordPress.AppPassword = getEnv("WORDPRESS_APP_PASSWORD", cfg.WordPress.AppPassword)

	cfg.OpenAI.APIKey = getEnv("OPENAI_API_KEY", cfg.OpenAI.APIKey)
	cfg.OpenAI.Model = getEnv("OPENAI_MODEL", cfg.OpenAI.Model)
	cfg.OpenAI.ImageModel = getEnv("OPENAI_IMAGE_MODEL", cfg.OpenAI.ImageModel)
	cfg.OpenAI.Endpoint = getEnv("OPENAI_ENDPOINT", cfg.OpenAI.Endpoint)
	cfg.OpenAI.Timeout = getDurationEnv("OPENAI_TIMEOUT", cfg.OpenAI.Timeout)

	cfg.Content.DefaultCategory = getEnv("DEFAULT_CATEGORY", cfg.Content.DefaultCategory)
	if tags := os.Getenv("DEFAULT_TAGS"); tags != "" {
		cfg.Content.DefaultTags = splitList(tags)
	}
	cfg.Content.ImageDir = getEnv("IMAGE_DIR", cfg.Content.ImageDir)

	cfg.Quality.MinWordCount = getIntEnv("MIN_WORD_COUNT", cfg.Quality.MinWordCount)
	cfg.Quality.MaxWordCount = getIntEnv("MAX_WORD_COUNT", cfg.Quality.MaxWordCount)
	cfg.Quality.SpellCheckEnabled = getBoolEnv("SPELL_CHECK_ENABLED", cfg.Quality.SpellCheckEnabled)
	cfg.Quality.PlagiarismCheckEnabled = getBoolEnv("PLAGIARISM_CHECK_ENABLED", cfg.Quality.PlagiarismCheckEnabled)
	cfg.Quality.LinkCheckTimeout = getDurationEnv("LINK_CHECK_TIMEOUT", cfg.Quality.LinkCheckTimeout)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.WordPress.BaseURL == "" {
		return fmt.Errorf("WORDPRESS_URL is required")
	}
	if c.WordPress.Username == "" || c.WordPress.AppPassword == "" {
		return fmt.Errorf("WORDPRESS_USERNAME and WORDPRESS_APP_PASSWORD are required")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Quality.MinWordCount > c.Quality.MaxWordCount {
		return fmt.Errorf("MIN_WORD_COUNT must not exceed MAX_WORD_COUNT")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
