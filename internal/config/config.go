package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	Host string
	Port string

	OtelExporterOTLPEndpoint string

	Extraction ExtractionConfig
}

// ExtractionConfig tunes the yt-dlp invocations. Timeouts are expressed
// in whole seconds in the YAML file.
type ExtractionConfig struct {
	BinaryPath            string `yaml:"binary_path"`
	ExtractTimeoutSeconds int    `yaml:"extract_timeout_seconds"`
	InfoTimeoutSeconds    int    `yaml:"info_timeout_seconds"`
	HealthTimeoutSeconds  int    `yaml:"health_timeout_seconds"`
}

func (e ExtractionConfig) ExtractTimeout() time.Duration {
	return time.Duration(e.ExtractTimeoutSeconds) * time.Second
}

func (e ExtractionConfig) InfoTimeout() time.Duration {
	return time.Duration(e.InfoTimeoutSeconds) * time.Second
}

func (e ExtractionConfig) HealthTimeout() time.Duration {
	return time.Duration(e.HealthTimeoutSeconds) * time.Second
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		Host:                     os.Getenv("HOST"),
		Port:                     os.Getenv("PORT"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	// Load from YAML file if available
	if err := cfg.LoadFromYAML("config.yaml"); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "youtube-audio-extractor"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "5000"
	}

	cfg.SetExtractionDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Extraction ExtractionConfig `yaml:"extraction"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlConfig.Extraction.BinaryPath != "" {
		c.Extraction.BinaryPath = yamlConfig.Extraction.BinaryPath
	}
	if yamlConfig.Extraction.ExtractTimeoutSeconds != 0 {
		c.Extraction.ExtractTimeoutSeconds = yamlConfig.Extraction.ExtractTimeoutSeconds
	}
	if yamlConfig.Extraction.InfoTimeoutSeconds != 0 {
		c.Extraction.InfoTimeoutSeconds = yamlConfig.Extraction.InfoTimeoutSeconds
	}
	if yamlConfig.Extraction.HealthTimeoutSeconds != 0 {
		c.Extraction.HealthTimeoutSeconds = yamlConfig.Extraction.HealthTimeoutSeconds
	}

	return nil
}

func (c *Config) SetExtractionDefaults() {
	if c.Extraction.BinaryPath == "" {
		c.Extraction.BinaryPath = "yt-dlp"
	}
	if c.Extraction.ExtractTimeoutSeconds == 0 {
		c.Extraction.ExtractTimeoutSeconds = 30
	}
	if c.Extraction.InfoTimeoutSeconds == 0 {
		c.Extraction.InfoTimeoutSeconds = 15
	}
	if c.Extraction.HealthTimeoutSeconds == 0 {
		c.Extraction.HealthTimeoutSeconds = 5
	}
}

func (c *Config) validate() error {
	if c.Extraction.ExtractTimeoutSeconds < 0 {
		return fmt.Errorf("extraction.extract_timeout_seconds must be positive")
	}
	if c.Extraction.InfoTimeoutSeconds < 0 {
		return fmt.Errorf("extraction.info_timeout_seconds must be positive")
	}
	if c.Extraction.HealthTimeoutSeconds < 0 {
		return fmt.Errorf("extraction.health_timeout_seconds must be positive")
	}
	return nil
}
