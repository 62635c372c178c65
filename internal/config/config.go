package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// EnvPrefix is prepended to every environment override, e.g. MINDGUARD_LLM_API_KEY
const EnvPrefix = "MINDGUARD"

// DefaultFile is read when no config path is given; it may be absent
const DefaultFile = "config.yaml"

// Config is the full runtime configuration
type Config struct {
	Log       LogConfig       `yaml:"log" envconfig:"LOG"`
	LLM       LLMConfig       `yaml:"llm" envconfig:"LLM"`
	Mood      MoodConfig      `yaml:"mood" envconfig:"MOOD"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Sentiment SentimentConfig `yaml:"sentiment" envconfig:"SENTIMENT"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level      string `yaml:"level" envconfig:"LEVEL"`
	Format     string `yaml:"format" envconfig:"FORMAT"`           // json, console
	Output     string `yaml:"output" envconfig:"OUTPUT"`           // stdout, stderr, file
	FilePath   string `yaml:"file_path" envconfig:"FILE_PATH"`     // used when output is file
	TimeFormat string `yaml:"time_format" envconfig:"TIME_FORMAT"` // rfc3339, unix, iso8601
}

// LLMConfig selects and tunes the remote reply model
type LLMConfig struct {
	Provider     string        `yaml:"provider" envconfig:"PROVIDER"` // openai, deepseek, ark, ollama
	APIKey       string        `yaml:"api_key" envconfig:"API_KEY"`
	BaseURL      string        `yaml:"base_url" envconfig:"BASE_URL"`
	Model        string        `yaml:"model" envconfig:"MODEL"`
	Region       string        `yaml:"region" envconfig:"REGION"` // ark only
	MaxTokens    int           `yaml:"max_tokens" envconfig:"MAX_TOKENS"`
	Temperature  float32       `yaml:"temperature" envconfig:"TEMPERATURE"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	HistoryTurns int           `yaml:"history_turns" envconfig:"HISTORY_TURNS"`
}

// MoodConfig selects the mood store backend
type MoodConfig struct {
	Backend     string `yaml:"backend" envconfig:"BACKEND"` // json, redis
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR"`
	FileName    string `yaml:"file_name" envconfig:"FILE_NAME"`
	RedisURL    string `yaml:"redis_url" envconfig:"REDIS_URL"`
	RedisPrefix string `yaml:"redis_prefix" envconfig:"REDIS_PREFIX"`
}

// FilePath is where the JSON backend keeps the mood document
func (m MoodConfig) FilePath() string {
	return filepath.Join(m.DataDir, m.FileName)
}

// ServerConfig holds HTTP boundary settings
type ServerConfig struct {
	Addr           string        `yaml:"addr" envconfig:"ADDR"`
	AllowedOrigins []string      `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	SessionTTL     time.Duration `yaml:"session_ttl" envconfig:"SESSION_TTL"`
}

// SentimentConfig points at an optional replacement lexicon
type SentimentConfig struct {
	LexiconFile string `yaml:"lexicon_file" envconfig:"LEXICON_FILE"`
}

// Providers accepted in llm.provider
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderArk      = "ark"
	ProviderOllama   = "ollama"
)

// Backends accepted in mood.backend
const (
	BackendJSON  = "json"
	BackendRedis = "redis"
)

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stderr",
			FilePath:   "logs/mindguard.log",
			TimeFormat: "rfc3339",
		},
		LLM: LLMConfig{
			Provider:     ProviderOpenAI,
			MaxTokens:    260,
			Temperature:  0.7,
			Timeout:      30 * time.Second,
			HistoryTurns: 4,
		},
		Mood: MoodConfig{
			Backend:     BackendJSON,
			DataDir:     "data",
			FileName:    "moods.json",
			RedisPrefix: "mindguard:mood",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
			SessionTTL:     40 * time.Minute,
		},
	}
}

// Validate checks enum fields and ranges
func (c *Config) Validate() error {
	if !oneOf(c.Log.Level, "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled") {
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	if !oneOf(c.Log.Format, "json", "console") {
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	if !oneOf(c.Log.Output, "stdout", "stderr", "file") {
		return fmt.Errorf("invalid log output: %q", c.Log.Output)
	}
	if c.Log.Output == "file" && c.Log.FilePath == "" {
		return fmt.Errorf("log file_path is required when output is file")
	}

	if !oneOf(c.LLM.Provider, ProviderOpenAI, ProviderDeepSeek, ProviderArk, ProviderOllama) {
		return fmt.Errorf("invalid llm provider: %q", c.LLM.Provider)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm temperature must be within [0, 2], got %v", c.LLM.Temperature)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive, got %s", c.LLM.Timeout)
	}
	if c.LLM.HistoryTurns < 0 {
		return fmt.Errorf("llm history_turns cannot be negative, got %d", c.LLM.HistoryTurns)
	}

	switch c.Mood.Backend {
	case BackendJSON:
		if c.Mood.FileName == "" {
			return fmt.Errorf("mood file_name cannot be empty")
		}
	case BackendRedis:
		if c.Mood.RedisURL == "" {
			return fmt.Errorf("mood redis_url (or REDIS_URL) is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid mood backend: %q", c.Mood.Backend)
	}

	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server session_ttl must be positive, got %s", c.Server.SessionTTL)
	}
	return nil
}

// normalize folds enum fields to the lower-case spelling consumers switch on
func (c *Config) normalize() {
	for _, v := range []*string{
		&c.Log.Level, &c.Log.Format, &c.Log.Output, &c.Log.TimeFormat,
		&c.LLM.Provider, &c.Mood.Backend,
	} {
		*v = strings.ToLower(strings.TrimSpace(*v))
	}
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
