package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  s3cret \n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	secret, err := Load(Source{Name: "gemini api key", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "s3cret" {
		t.Fatalf("expected trimmed secret, got %q", secret)
	}
}

func TestLoadFilePrecedesEnvAndValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	t.Setenv("FUNDIHUB_TEST_SECRET", "from-env")

	secret, err := Load(Source{File: path, Env: "FUNDIHUB_TEST_SECRET", Value: "from-value"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "from-file" {
		t.Fatalf("expected file to win, got %q", secret)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FUNDIHUB_TEST_SECRET", " from-env ")

	secret, err := Load(Source{Env: "FUNDIHUB_TEST_SECRET", Value: "from-value"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "from-env" {
		t.Fatalf("expected env to win over value, got %q", secret)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(Source{Name: "api key"}); err == nil || !strings.Contains(err.Error(), "api key") {
		t.Fatalf("expected named error for unconfigured secret, got %v", err)
	}

	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("   "), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := Load(Source{File: empty}); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty-file error, got %v", err)
	}

	if _, err := Load(Source{File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
