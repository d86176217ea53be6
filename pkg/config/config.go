package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the pipeline
type Config struct {
	// Twitter API credentials and client settings
	Twitter TwitterConfig `yaml:"twitter" json:"twitter"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Retry behavior for transient API failures
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Output locations
	Output OutputConfig `yaml:"output" json:"output"`

	// Analyzer settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Plotter settings
	Plot PlotConfig `yaml:"plot" json:"plot"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TwitterConfig holds API-specific configuration. The bearer token is the
// only required credential; key/secret are kept for token generation flows.
type TwitterConfig struct {
	BearerToken string        `yaml:"bearer_token" json:"bearer_token"`
	APIKey      string        `yaml:"api_key" json:"api_key"`
	APISecret   string        `yaml:"api_secret" json:"api_secret"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// RetryConfig holds retry configuration for the collector
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier  float64       `yaml:"multiplier" json:"multiplier"`
}

// OutputConfig holds file locations for the three stages
type OutputConfig struct {
	PostsDir    string `yaml:"posts_dir" json:"posts_dir"`
	AnalysesDir string `yaml:"analyses_dir" json:"analyses_dir"`
	PlotsDir    string `yaml:"plots_dir" json:"plots_dir"`
	TopicsFile  string `yaml:"topics_file" json:"topics_file"`
	Overwrite   bool   `yaml:"overwrite" json:"overwrite"`
}

// AnalysisConfig holds analyzer settings
type AnalysisConfig struct {
	Language      string `yaml:"language" json:"language"`
	TopN          int    `yaml:"top_n" json:"top_n"`
	BlacklistFile string `yaml:"blacklist_file" json:"blacklist_file"`
}

// PlotConfig holds plotter settings
type PlotConfig struct {
	Charts     []string `yaml:"charts" json:"charts"`
	Theme      string   `yaml:"theme" json:"theme"`
	SinglePage bool     `yaml:"single_page" json:"single_page"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	Quiet bool   `yaml:"quiet" json:"quiet"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Twitter: TwitterConfig{
			UserAgent: "tweetpeek/1.0",
			Timeout:   15 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
			BurstSize:         1,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    60 * time.Second,
			Multiplier:  2.0,
		},
		Output: OutputConfig{
			PostsDir:    "outputs",
			AnalysesDir: "analyses",
			PlotsDir:    "plots",
			TopicsFile:  filepath.Join("assets", "topics.txt"),
			Overwrite:   false,
		},
		Analysis: AnalysisConfig{
			Language:      "en",
			TopN:          10,
			BlacklistFile: filepath.Join("assets", "word_blacklist.txt"),
		},
		Plot: PlotConfig{
			Charts: []string{"dates", "hashtags", "terms"},
			Theme:  "westeros",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("TWEETPEEK_BEARER_TOKEN"); token != "" {
		c.Twitter.BearerToken = token
	}
	if key := os.Getenv("TWEETPEEK_API_KEY"); key != "" {
		c.Twitter.APIKey = key
	}
	if secret := os.Getenv("TWEETPEEK_API_SECRET"); secret != "" {
		c.Twitter.APISecret = secret
	}
	if userAgent := os.Getenv("TWEETPEEK_USER_AGENT"); userAgent != "" {
		c.Twitter.UserAgent = userAgent
	}

	if rpm := os.Getenv("TWEETPEEK_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if dir := os.Getenv("TWEETPEEK_POSTS_DIR"); dir != "" {
		c.Output.PostsDir = dir
	}
	if dir := os.Getenv("TWEETPEEK_ANALYSES_DIR"); dir != "" {
		c.Output.AnalysesDir = dir
	}
	if dir := os.Getenv("TWEETPEEK_PLOTS_DIR"); dir != "" {
		c.Output.PlotsDir = dir
	}

	if lang := os.Getenv("TWEETPEEK_LANG"); lang != "" {
		c.Analysis.Language = lang
	}

	if logLevel := os.Getenv("TWEETPEEK_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".tweetpeek.yaml",
		".tweetpeek.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "tweetpeek", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "tweetpeek", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".tweetpeek.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Credentials are checked by
// the collector at call time, not here, because analyze and plot run without
// any credentials.
func (c *Config) Validate() error {
	var errs []error

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive"))
	}

	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("retry max attempts must be at least 1"))
	}
	if c.Retry.Multiplier < 1.0 {
		errs = append(errs, errors.New("retry multiplier must be >= 1.0"))
	}

	if c.Twitter.Timeout <= 0 {
		errs = append(errs, errors.New("API timeout must be positive"))
	}

	if c.Output.PostsDir == "" {
		errs = append(errs, errors.New("posts directory is required"))
	}
	if c.Output.AnalysesDir == "" {
		errs = append(errs, errors.New("analyses directory is required"))
	}
	if c.Output.PlotsDir == "" {
		errs = append(errs, errors.New("plots directory is required"))
	}

	if c.Analysis.TopN <= 0 {
		errs = append(errs, errors.New("analysis top_n must be positive"))
	}
	if c.Analysis.Language == "" {
		errs = append(errs, errors.New("analysis language is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["bearer-token"].(string); ok && token != "" {
		c.Twitter.BearerToken = token
	}
	if rpm, ok := flags["rate-limit"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if attempts, ok := flags["max-retries"].(int); ok && attempts > 0 {
		c.Retry.MaxAttempts = attempts
	}
	if dir, ok := flags["posts-dir"].(string); ok && dir != "" {
		c.Output.PostsDir = dir
	}
	if dir, ok := flags["plots-dir"].(string); ok && dir != "" {
		c.Output.PlotsDir = dir
	}
	if overwrite, ok := flags["overwrite"].(bool); ok {
		c.Output.Overwrite = overwrite
	}
	if lang, ok := flags["lang"].(string); ok && lang != "" {
		c.Analysis.Language = lang
	}
	if topN, ok := flags["top"].(int); ok && topN > 0 {
		c.Analysis.TopN = topN
	}
	if theme, ok := flags["theme"].(string); ok && theme != "" {
		c.Plot.Theme = theme
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if quiet, ok := flags["quiet"].(bool); ok {
		c.Logging.Quiet = quiet
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tweetpeek.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
