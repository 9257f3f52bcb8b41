package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnvMissingFileIsIgnored(t *testing.T) {
	t.Setenv("DOTENV_PATH", filepath.Join(t.TempDir(), "missing.env"))

	if err := loadDotEnv(); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestLoadDotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "CALCULATOR_DOTENV_FROM_FILE=file\nCALCULATOR_DOTENV_PRESET=file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing .env: %v", err)
	}

	t.Setenv("DOTENV_PATH", path)
	t.Setenv("CALCULATOR_DOTENV_PRESET", "process")
	t.Cleanup(func() { os.Unsetenv("CALCULATOR_DOTENV_FROM_FILE") })

	if err := loadDotEnv(); err != nil {
		t.Fatalf("loading .env: %v", err)
	}

	if got := os.Getenv("CALCULATOR_DOTENV_FROM_FILE"); got != "file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if got := os.Getenv("CALCULATOR_DOTENV_PRESET"); got != "process" {
		t.Fatalf("expected process value to win, got %q", got)
	}
}
