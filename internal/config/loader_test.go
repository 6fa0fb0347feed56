package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agents.Defaults.Model != def.Agents.Defaults.Model {
		t.Errorf("expected default model %q, got %q", def.Agents.Defaults.Model, cfg.Agents.Defaults.Model)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"agents": map[string]any{
			"defaults": map[string]any{
				"model":     "openai/gpt-4o",
				"maxTokens": 2048,
			},
		},
		"rxn": map[string]any{
			"apiKey": "rxn-key",
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Agents.Defaults.Model != "openai/gpt-4o" {
		t.Errorf("expected model %q, got %q", "openai/gpt-4o", cfg.Agents.Defaults.Model)
	}
	if cfg.Agents.Defaults.MaxTokens != 2048 {
		t.Errorf("expected maxTokens 2048, got %d", cfg.Agents.Defaults.MaxTokens)
	}
	if cfg.RXN.APIKey != "rxn-key" {
		t.Errorf("expected rxn api key, got %q", cfg.RXN.APIKey)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error for invalid JSON (falls back to default), got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agents.Defaults.Model != def.Agents.Defaults.Model {
		t.Errorf("expected default model %q, got %q", def.Agents.Defaults.Model, cfg.Agents.Defaults.Model)
	}
}

func TestLoad_PartialConfig_UsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"pubchem": map[string]any{
			"timeoutSeconds": 10,
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := DefaultConfig()
	if cfg.PubChem.TimeoutSecs != 10 {
		t.Errorf("expected timeout 10, got %d", cfg.PubChem.TimeoutSecs)
	}
	// Unset fields keep their defaults.
	if cfg.PubChem.ViewBase != def.PubChem.ViewBase {
		t.Errorf("expected default viewBase %q, got %q", def.PubChem.ViewBase, cfg.PubChem.ViewBase)
	}
	if cfg.RXN.MaxAttempts != def.RXN.MaxAttempts {
		t.Errorf("expected default maxAttempts %d, got %d", def.RXN.MaxAttempts, cfg.RXN.MaxAttempts)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	original := DefaultConfig()
	original.Agents.Defaults.Model = "anthropic/claude-sonnet-4-0"
	original.RXN.ProjectName = "bench-42"

	if err := Save(&original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Agents.Defaults.Model != original.Agents.Defaults.Model {
		t.Errorf("model mismatch: got %q, want %q", loaded.Agents.Defaults.Model, original.Agents.Defaults.Model)
	}
	if loaded.RXN.ProjectName != original.RXN.ProjectName {
		t.Errorf("project mismatch: got %q, want %q", loaded.RXN.ProjectName, original.RXN.ProjectName)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "config.json")

	cfg := DefaultConfig()
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestMatchProvider_PrefixWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.OpenAI.APIKey = "sk-openai"
	cfg.Providers.OpenRouter.APIKey = "sk-or"

	res := cfg.MatchProvider("openai/gpt-4o")
	if res.Name != "openai" {
		t.Errorf("expected openai, got %q", res.Name)
	}
}

func TestMatchProvider_KeywordMatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.Anthropic.APIKey = "sk-ant"

	res := cfg.MatchProvider("claude-sonnet-4-0")
	if res.Name != "anthropic" {
		t.Errorf("expected anthropic, got %q", res.Name)
	}
}

func TestMatchProvider_FallbackFirstConfigured(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.Groq.APIKey = "gsk-x"

	res := cfg.MatchProvider("some-unknown-model")
	if res.Name != "groq" {
		t.Errorf("expected groq fallback, got %q", res.Name)
	}
}

func TestMatchProvider_NoneConfigured(t *testing.T) {
	cfg := DefaultConfig()
	res := cfg.MatchProvider("gpt-4o")
	if res.Provider != nil || res.Name != "" {
		t.Errorf("expected empty result, got %+v", res)
	}
}
