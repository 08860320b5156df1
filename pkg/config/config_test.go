package config

import (
    "os"
    "path/filepath"
    "testing"
)

const minimalYAML = `
environment: test
data:
  source: csv
  csv_path: testdata/daily.csv
model:
  backend: artifact
  artifact_path: testdata/model.json
  features_path: testdata/features.txt
`

func writeConfig(t *testing.T, body string) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), "config.yaml")
    if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
        t.Fatalf("write config: %v", err)
    }
    return path
}

func TestLoadDefaults(t *testing.T) {
    cfg, err := Load(writeConfig(t, minimalYAML))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.Server.Port != 8080 {
        t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
    }
    if cfg.Data.HistoryDays != 60 {
        t.Fatalf("expected default history_days 60, got %d", cfg.Data.HistoryDays)
    }
    if cfg.Data.Table != "sales_daily" {
        t.Fatalf("unexpected table %q", cfg.Data.Table)
    }
}

func TestValidateRejectsBadSource(t *testing.T) {
    body := `
environment: test
data:
  source: postgres
model:
  backend: artifact
  artifact_path: x.json
  features_path: f.txt
`
    if _, err := Load(writeConfig(t, body)); err == nil {
        t.Fatalf("expected validation error for data.source")
    }
}

func TestValidateHTTPBackendNeedsURL(t *testing.T) {
    body := `
environment: test
data:
  source: csv
  csv_path: daily.csv
model:
  backend: http
  features_path: f.txt
`
    if _, err := Load(writeConfig(t, body)); err == nil {
        t.Fatalf("expected validation error for missing scorer_url")
    }
}

func TestLoadWithEnvOverride(t *testing.T) {
    t.Setenv("DATA_CSV_PATH", "/tmp/override.csv")
    cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.Data.CSVPath != "/tmp/override.csv" {
        t.Fatalf("env override not applied: %q", cfg.Data.CSVPath)
    }
}
