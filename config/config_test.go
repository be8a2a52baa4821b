package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Env:           "development",
		StorageDriver: "memory",
		SessionStore:  "memory",
		SessionTTL:    30 * time.Minute,
		Timezone:      "UTC",
	}
}

func TestValidateAcceptsMemoryDrivers(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if cfg.Location().String() != "UTC" {
		t.Fatalf("expected UTC location, got %s", cfg.Location())
	}
}

func TestValidateRejectsUnknownDrivers(t *testing.T) {
	cfg := validConfig()
	cfg.StorageDriver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}

	cfg = validConfig()
	cfg.SessionStore = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown session store")
	}
}

func TestValidateRejectsBadTTLAndTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.SessionTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero TTL")
	}

	cfg = validConfig()
	cfg.Timezone = "Mars/Olympus_Mons"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
