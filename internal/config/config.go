package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full driver payload. Values come from defaults, an optional
// config file and HOSTAUDIT_-prefixed environment variables, in that order.
type Config struct {
	DryRun              bool          `mapstructure:"dry_run"`
	RequireConfirmation bool          `mapstructure:"require_confirmation"`

	ServerAddresses  []string `mapstructure:"server_addresses"`
	MailHostPatterns []string `mapstructure:"mail_host_patterns"`
	NSPatterns       []string `mapstructure:"ns_patterns"`

	WhoisTimeout   time.Duration `mapstructure:"whois_timeout"`
	DNSTimeout     time.Duration `mapstructure:"dns_timeout"`
	RateLimitDelay time.Duration `mapstructure:"rate_limit_delay"`
	LookupWorkers  int           `mapstructure:"lookup_workers"`

	PanelURL     string        `mapstructure:"panel_url"`
	PanelToken   string        `mapstructure:"panel_token"`
	PanelTimeout time.Duration `mapstructure:"panel_timeout"`

	SMTPAddr           string `mapstructure:"smtp_addr"`
	MailFrom           string `mapstructure:"mail_from"`
	NotificationTarget string `mapstructure:"notification_target"`

	DatabaseURL string `mapstructure:"database_url"`
	ListenAddr  string `mapstructure:"listen_addr"`
	// MetricsAddr, when set, exposes the audit run's own metric registry
	// over HTTP for the duration of the run.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Load reads configuration. An unreadable explicit config file or an invalid
// payload is a startup error; a missing default config file is not.
func Load(file string) (Config, error) {
	v := viper.New()
	v.SetDefault("dry_run", true)
	v.SetDefault("require_confirmation", true)
	v.SetDefault("whois_timeout", "10s")
	v.SetDefault("dns_timeout", "5s")
	v.SetDefault("rate_limit_delay", "2s")
	v.SetDefault("lookup_workers", 1)
	v.SetDefault("panel_timeout", "30s")
	v.SetDefault("smtp_addr", "localhost:25")
	v.SetDefault("mail_from", "hostaudit@localhost")
	v.SetDefault("listen_addr", ":8080")

	v.SetEnvPrefix("HOSTAUDIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	} else {
		v.SetConfigName("hostaudit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/hostaudit")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the startup invariants; violations abort before any
// domain is touched.
func (c Config) Validate() error {
	if c.WhoisTimeout <= 0 {
		return fmt.Errorf("config: whois_timeout must be positive, got %v", c.WhoisTimeout)
	}
	if c.DNSTimeout <= 0 {
		return fmt.Errorf("config: dns_timeout must be positive, got %v", c.DNSTimeout)
	}
	if c.RateLimitDelay < 0 {
		return fmt.Errorf("config: rate_limit_delay must not be negative, got %v", c.RateLimitDelay)
	}
	if c.LookupWorkers < 1 {
		return fmt.Errorf("config: lookup_workers must be at least 1, got %d", c.LookupWorkers)
	}
	if len(c.ServerAddresses) == 0 {
		return fmt.Errorf("config: server_addresses must list at least one address")
	}
	if !c.DryRun && c.NotificationTarget == "" {
		return fmt.Errorf("config: notification_target is required for non-dry runs")
	}
	return nil
}
