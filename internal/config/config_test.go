package config

import (
	"reflect"
	"testing"
)

// TestParseCSVEnv проверяет разбор списка email из ENV.
func TestParseCSVEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", " Admin@example.com, ,USER@Example.com ")

	got := parseCSVEnv("ADMIN_EMAILS")
	want := []string{"admin@example.com", "user@example.com"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestParseCSVEnvMissing проверяет поведение при отсутствии переменной.
func TestParseCSVEnvMissing(t *testing.T) {
	got := parseCSVEnv("MISSING_ENV")
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

// TestParseBoolEnv проверяет разбор булевых флагов.
func TestParseBoolEnv(t *testing.T) {
	t.Setenv("FLAG_ON", " true ")
	t.Setenv("FLAG_BAD", "maybe")

	value, err := parseBoolEnv("FLAG_ON", false)
	if err != nil || !value {
		t.Fatalf("expected true, got %v (err=%v)", value, err)
	}

	value, err = parseBoolEnv("FLAG_MISSING", true)
	if err != nil || !value {
		t.Fatalf("expected fallback true, got %v (err=%v)", value, err)
	}

	if _, err := parseBoolEnv("FLAG_BAD", false); err == nil {
		t.Fatal("expected error for invalid boolean")
	}
}

// TestNormalizeModelName проверяет удаление префикса models/.
func TestNormalizeModelName(t *testing.T) {
	if got := normalizeModelName("models/gemini-2.0-flash"); got != "gemini-2.0-flash" {
		t.Fatalf("unexpected model name: %s", got)
	}
	if got := normalizeModelName(" gemini-1.5-pro "); got != "gemini-1.5-pro" {
		t.Fatalf("unexpected model name: %s", got)
	}
}

// TestLoadDefaults проверяет значения по умолчанию для AI и планировщика.
func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "key-from-gemini")
	t.Setenv("GEMINI_MODEL", "models/gemini-2.0-flash")

	cfg, err := Load()
	if err == nil {
		t.Fatal("expected error for empty AI_PROVIDER")
	}

	t.Setenv("AI_PROVIDER", "Gemini")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.AI.Provider != ProviderGemini {
		t.Fatalf("expected gemini provider, got %s", cfg.AI.Provider)
	}
	if cfg.AI.APIKey != "key-from-gemini" {
		t.Fatalf("expected GEMINI_API_KEY fallback, got %q", cfg.AI.APIKey)
	}
	if cfg.AI.Model != "gemini-2.0-flash" {
		t.Fatalf("expected normalized model, got %s", cfg.AI.Model)
	}
	if cfg.Planner.DefaultLanguage != "es" || cfg.Planner.DefaultCurrency != "CLP" {
		t.Fatalf("unexpected planner defaults: %+v", cfg.Planner)
	}
}

// TestValidateRejectsUnknownLanguage проверяет проверку языка по умолчанию.
func TestValidateRejectsUnknownLanguage(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AI_PROVIDER", "groq")
	t.Setenv("PLAN_DEFAULT_LANGUAGE", "fr")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported language")
	}
}
