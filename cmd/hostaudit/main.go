// Command hostaudit audits a hosting server's domain portfolio: every
// roster domain is looked up against its registry, classified, checked for
// DNS delegation, and given a remediation plan that is applied or recorded
// depending on dry-run mode. A companion serve mode exposes the persisted
// results.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hostaudit/internal/adapters/cpanel"
	"hostaudit/internal/adapters/dnsres"
	httpadapter "hostaudit/internal/adapters/http"
	"hostaudit/internal/adapters/mail"
	pg "hostaudit/internal/adapters/postgres"
	"hostaudit/internal/adapters/whois"
	"hostaudit/internal/config"
	"hostaudit/internal/metrics"
	"hostaudit/internal/services/auditor"
	"hostaudit/internal/services/dnsfacts"
	"hostaudit/internal/services/executor"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("hostaudit: %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "hostaudit",
		Short:         "Audit a hosting account portfolio's domain registrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default: ./hostaudit.yaml)")

	root.AddCommand(newAuditCmd(&configFile))
	root.AddCommand(newServeCmd(&configFile))
	return root
}

func newAuditCmd(configFile *string) *cobra.Command {
	var live bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run a full portfolio audit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			if live {
				cfg.DryRun = false
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return runAudit(cmd.Context(), cfg)
		},
	}
	cmd.Flags().BoolVar(&live, "live", false, "apply remediation actions instead of the default dry run")
	return cmd
}

func runAudit(parent context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.DryRun && cfg.RequireConfirmation {
		if !confirm("About to apply remediation actions (removals, suspensions). Continue? [y/N] ") {
			return fmt.Errorf("aborted by operator")
		}
	}

	panel := cpanel.New(cfg.PanelURL, cfg.PanelToken, cfg.PanelTimeout)
	notifier := mail.New(cfg.SMTPAddr, cfg.MailFrom, cfg.NotificationTarget)
	collector := dnsfacts.New(dnsres.New(), cfg.DNSTimeout,
		cfg.ServerAddresses, cfg.MailHostPatterns, cfg.NSPatterns)
	exec := executor.New(panel, notifier, cfg.DryRun)

	// The registry the auditor increments is the one served; a run's counters
	// are scrapeable at metrics_addr while the run is in flight.
	m := metrics.New()
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		msrv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := msrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics listener: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = msrv.Shutdown(shutdownCtx)
		}()
	}

	aud := auditor.New(whois.New(cfg.WhoisTimeout), panel, collector, exec, auditor.Options{
		RateLimitDelay: cfg.RateLimitDelay,
		WhoisTimeout:   cfg.WhoisTimeout,
		Workers:        cfg.LookupWorkers,
		DryRun:         cfg.DryRun,
		Metrics:        m,
	})

	report, err := aud.Run(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if cfg.DatabaseURL != "" {
		sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db, err := pg.Connect(sctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("report store: %w", err)
		}
		defer db.Close()
		runID, err := db.SaveReport(sctx, report)
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		log.Printf("report persisted as run %s", runID)
	}
	return nil
}

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve persisted audit reports and metrics over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("serve requires database_url")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := pg.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer db.Close()

			// serve has no metric writers, so no registry is mounted; run
			// metrics live on the audit process at metrics_addr.
			srv := &http.Server{
				Addr:    cfg.ListenAddr,
				Handler: httpadapter.New(db, nil).Routes(),
			}
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			log.Printf("listening on %s", cfg.ListenAddr)

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			case err := <-errCh:
				return err
			}
		},
	}
}

func confirm(prompt string) bool {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
