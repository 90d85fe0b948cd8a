package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Transferflow TransferflowConfig `yaml:"transferflow"`
	Fetch        FetchConfig        `yaml:"fetch"`
	Source       SourceConfig       `yaml:"source"`
	Output       OutputConfig       `yaml:"output"`
	Storage      StorageConfig      `yaml:"storage"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Logging      LoggingConfig      `yaml:"logging"`
}

type TransferflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type FetchConfig struct {
	LeagueID      string `yaml:"league_id"`
	Season        string `yaml:"season"`
	EnrichPlayers bool   `yaml:"enrich_players"`
}

type SourceConfig struct {
	Transfermarkt TransfermarktConfig `yaml:"transfermarkt"`
}

type TransfermarktConfig struct {
	BaseURL        string               `yaml:"base_url"`
	APIKey         string               `yaml:"api_key"`
	Timeout        Duration             `yaml:"timeout"`
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	Retry          RetryConfig          `yaml:"retry"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int      `yaml:"max_idle_conns"`
	MaxConnsPerHost int      `yaml:"max_conns_per_host"`
	IdleConnTimeout Duration `yaml:"idle_conn_timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	BurstSize         int `yaml:"burst_size"`
}

type RetryConfig struct {
	MaxAttempts       int      `yaml:"max_attempts"`
	BaseDelay         Duration `yaml:"base_delay"`
	MaxDelay          Duration `yaml:"max_delay"`
	BackoffMultiplier int      `yaml:"backoff_multiplier"`
}

type OutputConfig struct {
	Path    string        `yaml:"path"`
	Formats FormatsConfig `yaml:"formats"`
}

type FormatsConfig struct {
	Parquet ParquetConfig `yaml:"parquet"`
}

type ParquetConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Compression string `yaml:"compression"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type MetricsConfig struct {
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

// Duration is a time.Duration that decodes yaml values like "30s" or "500ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	if parsed, err := time.ParseDuration(s); err == nil {
		*d = Duration(parsed)
		return nil
	}
	// Bare integers are taken as nanoseconds.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	return fmt.Errorf("invalid duration %q", s)
}

// Std returns the wrapped standard library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func LoadConfig(path string) (*Config, error) {
	// Read configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Fetch: FetchConfig{
			LeagueID: "GB1",
			Season:   "2025",
		},
		Source: SourceConfig{
			Transfermarkt: TransfermarktConfig{
				BaseURL: "https://transfermarkt-api.vercel.app",
				Timeout: Duration(30 * time.Second),
				ConnectionPool: ConnectionPoolConfig{
					MaxIdleConns:    8,
					MaxConnsPerHost: 4,
					IdleConnTimeout: Duration(90 * time.Second),
				},
				RateLimit: RateLimitConfig{
					RequestsPerSecond: 5,
					BurstSize:         1,
				},
				Retry: RetryConfig{
					MaxAttempts:       3,
					BaseDelay:         Duration(500 * time.Millisecond),
					MaxDelay:          Duration(5 * time.Second),
					BackoffMultiplier: 2,
				},
			},
		},
		Output: OutputConfig{
			Path: "data/transfers_{league}_{season}.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override the API key from the environment if available
	if v := os.Getenv("TRANSFERMARKT_API_KEY"); v != "" {
		config.Source.Transfermarkt.APIKey = strings.TrimSpace(v)
	}

	// Override S3 settings from environment variables if available
	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}

	config.Storage.S3.Bucket = strings.TrimSpace(config.Storage.S3.Bucket)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Transferflow.Name == "" {
		return fmt.Errorf("transferflow.name is required")
	}

	if cfg.Transferflow.Version == "" {
		return fmt.Errorf("transferflow.version is required")
	}

	if cfg.Fetch.LeagueID == "" {
		return fmt.Errorf("fetch.league_id is required")
	}
	if cfg.Fetch.Season == "" {
		return fmt.Errorf("fetch.season is required")
	}

	if cfg.Source.Transfermarkt.BaseURL == "" {
		return fmt.Errorf("source.transfermarkt.base_url is required")
	}
	if cfg.Source.Transfermarkt.Timeout <= 0 {
		return fmt.Errorf("source.transfermarkt.timeout must be greater than 0")
	}
	if cfg.Source.Transfermarkt.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("source.transfermarkt.retry.max_attempts must be greater than 0")
	}
	if cfg.Source.Transfermarkt.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("source.transfermarkt.rate_limit.requests_per_second must be greater than 0")
	}

	if cfg.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when S3 is enabled")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when S3 is enabled")
		}
		if cfg.Storage.S3.AccessKeyID == "" || cfg.Storage.S3.SecretAccessKey == "" {
			return fmt.Errorf("storage.s3.access_key_id and storage.s3.secret_access_key are required when S3 is enabled")
		}
		if !isValidS3Bucket(cfg.Storage.S3.Bucket) {
			return fmt.Errorf("storage.s3.bucket '%s' is invalid", cfg.Storage.S3.Bucket)
		}
	}

	return nil
}

var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	return s3BucketRegexp.MatchString(name)
}
