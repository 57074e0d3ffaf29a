package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Endpoint string `split_words:"true" default:"http://localhost:8000"`
	Retries  int    `split_words:"true" default:"3"`
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("SUP_ENDPOINT", "http://agents.internal:9000")
	t.Setenv("SUP_RETRIES", "5")

	conf, err := New[testConfig]("SUP")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Endpoint != "http://agents.internal:9000" {
		t.Fatalf("unexpected endpoint: %q", conf.Endpoint)
	}
	if conf.Retries != 5 {
		t.Fatalf("unexpected retries: %d", conf.Retries)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	conf, err := New[testConfig]("UNSET_PREFIX")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Endpoint != "http://localhost:8000" {
		t.Fatalf("unexpected default endpoint: %q", conf.Endpoint)
	}
	if conf.Retries != 3 {
		t.Fatalf("unexpected default retries: %d", conf.Retries)
	}
}

func TestApplyEnvFileExportsKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("TESTCFG_ENDPOINT=http://from-file:7000\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	if err := applyEnvFile(path); err != nil {
		t.Fatalf("applyEnvFile() error = %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TESTCFG_ENDPOINT") })

	if got := os.Getenv("TESTCFG_ENDPOINT"); got != "http://from-file:7000" {
		t.Fatalf("env key not exported, got %q", got)
	}
}
