package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// writeTempConfig creates a configuration file with the given content and
// returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return f.Name()
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeTempConfig(t, `transferflow:
  name: "TestApp"
  version: "1.0"
`)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Transferflow.Name != "TestApp" {
		t.Errorf("unexpected name: %s", cfg.Transferflow.Name)
	}
	if cfg.Fetch.LeagueID != "GB1" || cfg.Fetch.Season != "2025" {
		t.Errorf("unexpected fetch defaults: %+v", cfg.Fetch)
	}
	if cfg.Source.Transfermarkt.Timeout.Std() != 30*time.Second {
		t.Errorf("unexpected default timeout: %v", cfg.Source.Transfermarkt.Timeout.Std())
	}
	if cfg.Source.Transfermarkt.Retry.MaxAttempts != 3 {
		t.Errorf("unexpected default retry attempts: %d", cfg.Source.Transfermarkt.Retry.MaxAttempts)
	}
	if !strings.Contains(cfg.Output.Path, "{league}") {
		t.Errorf("unexpected default output path: %s", cfg.Output.Path)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeTempConfig(t, `transferflow:
  name: "TestApp"
  version: "1.0"
fetch:
  league_id: "ES1"
  season: "2024"
source:
  transfermarkt:
    base_url: "https://api.example.com"
    timeout: 5s
    retry:
      max_attempts: 2
      base_delay: 10ms
      max_delay: 100ms
      backoff_multiplier: 2
output:
  path: "out/snapshot.json"
`)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Fetch.LeagueID != "ES1" || cfg.Fetch.Season != "2024" {
		t.Errorf("unexpected fetch config: %+v", cfg.Fetch)
	}
	if cfg.Source.Transfermarkt.BaseURL != "https://api.example.com" {
		t.Errorf("unexpected base url: %s", cfg.Source.Transfermarkt.BaseURL)
	}
	if cfg.Source.Transfermarkt.Timeout.Std() != 5*time.Second {
		t.Errorf("unexpected timeout: %v", cfg.Source.Transfermarkt.Timeout.Std())
	}
	if cfg.Source.Transfermarkt.Retry.BaseDelay.Std() != 10*time.Millisecond {
		t.Errorf("unexpected base delay: %v", cfg.Source.Transfermarkt.Retry.BaseDelay.Std())
	}
	if cfg.Output.Path != "out/snapshot.json" {
		t.Errorf("unexpected output path: %s", cfg.Output.Path)
	}
}

func TestLoadConfigMissingName(t *testing.T) {
	path := writeTempConfig(t, `transferflow:
  version: "1.0"
`)
	defer os.Remove(path)

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for missing name")
	}
}

func TestLoadConfigS3Validation(t *testing.T) {
	path := writeTempConfig(t, `transferflow:
  name: "TestApp"
  version: "1.0"
storage:
  s3:
    enabled: true
    region: "eu-west-1"
`)
	defer os.Remove(path)

	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("S3_BUCKET", "")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error for S3 without bucket")
	}
}

func TestIsValidS3Bucket(t *testing.T) {
	valid := []string{"my-bucket", "logs.example.com", "abc"}
	invalid := []string{"ab", "Bad_Bucket", ".dots", "double..dots", strings.Repeat("a", 64)}

	for _, name := range valid {
		if !isValidS3Bucket(name) {
			t.Errorf("expected %q to be valid", name)
		}
	}
	for _, name := range invalid {
		if isValidS3Bucket(name) {
			t.Errorf("expected %q to be invalid", name)
		}
	}
}
