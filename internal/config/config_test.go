package config

import (
	"testing"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "hareru-test")
	t.Setenv("PORT", "")
	t.Setenv("USE_MEMORY_STORE", "")
	t.Setenv("ENV", "")
	t.Setenv("SKIP_AUTH", "")
	t.Setenv("SERVICE_TIMEZONE", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8111" {
		t.Errorf("Port = %q, want 8111", cfg.Port)
	}
	if cfg.UseMemoryStore || cfg.SkipAuth {
		t.Errorf("dev flags should default off, got %+v", cfg)
	}
	if cfg.Timezone.String() != "Asia/Tokyo" {
		t.Errorf("Timezone = %v, want Asia/Tokyo", cfg.Timezone)
	}
}

func TestLoadLocalEnvEnablesMemoryStore(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ENV", "local")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.UseMemoryStore {
		t.Error("ENV=local should enable the memory store")
	}
}

func TestLoadRequiresProjectForFirestore(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when GOOGLE_CLOUD_PROJECT is unset without memory store")
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when GEMINI_API_KEY is unset")
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SERVICE_TIMEZONE", "Mars/Olympus")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestLoadCustomTimezone(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SERVICE_TIMEZONE", "Asia/Seoul")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timezone.String() != "Asia/Seoul" {
		t.Errorf("Timezone = %v, want Asia/Seoul", cfg.Timezone)
	}
}
