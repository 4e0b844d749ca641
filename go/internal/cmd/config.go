package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	PresetsFile string `yaml:"presets_file"`
	Market      struct {
		FreshFor time.Duration `yaml:"fresh_for"`
	} `yaml:"market"`
	Turnover struct {
		Workers int `yaml:"workers"`
	} `yaml:"turnover"`
	Outbox struct {
		PollInterval time.Duration `yaml:"poll_interval"`
		BatchSize    int           `yaml:"batch_size"`
		MaxRetries   int           `yaml:"max_retries"`
		RetryDelay   time.Duration `yaml:"retry_delay"`
	} `yaml:"outbox"`
	NATS struct {
		Enabled       bool   `yaml:"enabled"`
		URL           string `yaml:"url"`
		StreamName    string `yaml:"stream_name"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
	Feed struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"feed"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.Server.Port = getEnv("PORT", config.Server.Port)
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	config.NATS.URL = getEnv("NATS_URL", config.NATS.URL)
	return &config, nil
}
