package step

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMaterializeConfig(t *testing.T) {
	dir := t.TempDir()
	content := "version: 1\nsecrets:\n  - path: kv/app\n    key: DB_PASSWORD\n"

	if err := MaterializeConfig(dir, content); err != nil {
		t.Fatalf("MaterializeConfig failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}

	// verbatim, no normalization of the payload
	if string(data) != content {
		t.Errorf("Expected config %q, got %q", content, string(data))
	}
}

func TestMaterializeConfigOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	if err := os.WriteFile(path, []byte("stale"), 0o600); err != nil {
		t.Fatalf("Failed to seed stale config: %v", err)
	}

	if err := MaterializeConfig(dir, "fresh"); err != nil {
		t.Fatalf("MaterializeConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	if string(data) != "fresh" {
		t.Errorf("Expected overwritten config, got %q", string(data))
	}
}

func TestMaterializeConfigMalformedContentIsNotOurProblem(t *testing.T) {
	dir := t.TempDir()

	// not valid yaml; only the tool itself may reject it
	if err := MaterializeConfig(dir, "{{{ not: yaml"); err != nil {
		t.Fatalf("MaterializeConfig must not validate content, got %v", err)
	}
}
