package config

import "testing"

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected http addr %q", cfg.HTTP.Addr)
	}
	if cfg.Database.RegistrationDB != "registration" || cfg.Database.FinanceDataDB != "financedata" {
		t.Fatalf("unexpected source databases %+v", cfg.Database)
	}
	if cfg.Database.BaseDSN != "" {
		t.Fatalf("base DSN must default to empty (it is mandatory user config)")
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("unexpected log level %q", cfg.Log.Level)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("missing user file must not fail: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("expected defaults to survive, got %q", cfg.HTTP.Addr)
	}
}
