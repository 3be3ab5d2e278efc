package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hostaudit.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
server_addresses:
  - 203.0.113.10
mail_host_patterns:
  - mail.hoster.example
ns_patterns:
  - ns1.hoster.example
rate_limit_delay: 500ms
lookup_workers: 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.DryRun {
		t.Fatal("dry_run must default to true")
	}
	if cfg.WhoisTimeout != 10*time.Second {
		t.Fatalf("whois_timeout = %v", cfg.WhoisTimeout)
	}
	if cfg.RateLimitDelay != 500*time.Millisecond {
		t.Fatalf("rate_limit_delay = %v", cfg.RateLimitDelay)
	}
	if cfg.LookupWorkers != 4 {
		t.Fatalf("lookup_workers = %d", cfg.LookupWorkers)
	}
	if len(cfg.ServerAddresses) != 1 || cfg.ServerAddresses[0] != "203.0.113.10" {
		t.Fatalf("server_addresses = %v", cfg.ServerAddresses)
	}
}

func TestValidateRejectsBadPayloads(t *testing.T) {
	base := Config{
		DryRun:          true,
		ServerAddresses: []string{"203.0.113.10"},
		WhoisTimeout:    time.Second,
		DNSTimeout:      time.Second,
		LookupWorkers:   1,
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero whois timeout", func(c *Config) { c.WhoisTimeout = 0 }},
		{"negative dns timeout", func(c *Config) { c.DNSTimeout = -time.Second }},
		{"negative rate delay", func(c *Config) { c.RateLimitDelay = -time.Millisecond }},
		{"no workers", func(c *Config) { c.LookupWorkers = 0 }},
		{"no server addresses", func(c *Config) { c.ServerAddresses = nil }},
		{"wet run without notification target", func(c *Config) { c.DryRun = false }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("base config should validate: %v", err)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
