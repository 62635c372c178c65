package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Load builds the configuration from defaults, the YAML file, .env and the environment.
// An empty path reads DefaultFile if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.mergeFile(path, explicit); err != nil {
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	cfg.applyLegacyEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mergeFile overlays the YAML file onto cfg; keys absent from the file keep their values
func (c *Config) mergeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error parsing YAML: %w", err)
	}
	return nil
}

// applyLegacyEnv honours the unprefixed variables older deployments set
func (c *Config) applyLegacyEnv() {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if c.Mood.RedisURL == "" {
		c.Mood.RedisURL = os.Getenv("REDIS_URL")
	}
}
