// Package auditor drives a full portfolio audit: roster load, per-domain
// observation (lookup, classification, DNS facts), planning, execution and
// aggregation. Observation may fan out over a bounded worker pool; every
// mutating action runs afterwards, sequentially in sorted domain order, so
// no two domains of one account ever race an account-level mutation.
package auditor

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"hostaudit/internal/domain"
	"hostaudit/internal/metrics"
	"hostaudit/internal/ports"
	"hostaudit/internal/services/classify"
	"hostaudit/internal/services/dnsfacts"
	"hostaudit/internal/services/executor"
	"hostaudit/internal/services/planner"
	"hostaudit/internal/services/report"
	"hostaudit/internal/services/roster"
	"hostaudit/internal/services/whoisnorm"
	"hostaudit/internal/workers/auditrunner"
)

type Auditor struct {
	lookup    ports.RegistryLookup
	panel     ports.ControlPanel
	collector *dnsfacts.Collector
	exec      *executor.Executor

	limiter      *rate.Limiter
	whoisTimeout time.Duration
	workers      int
	dryRun       bool
	metrics      *metrics.Metrics

	now func() time.Time
}

type Options struct {
	// RateLimitDelay is the minimum spacing between registry lookups across
	// all workers, to respect third-party query limits.
	RateLimitDelay time.Duration
	WhoisTimeout   time.Duration
	// Workers bounds the observation fan-out; 1 keeps the whole run
	// strictly sequential.
	Workers int
	DryRun  bool
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

func New(lookup ports.RegistryLookup, panel ports.ControlPanel, collector *dnsfacts.Collector, exec *executor.Executor, opts Options) *Auditor {
	limit := rate.Inf
	if opts.RateLimitDelay > 0 {
		limit = rate.Every(opts.RateLimitDelay)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Auditor{
		lookup:       lookup,
		panel:        panel,
		collector:    collector,
		exec:         exec,
		limiter:      rate.NewLimiter(limit, 1),
		whoisTimeout: opts.WhoisTimeout,
		workers:      workers,
		dryRun:       opts.DryRun,
		metrics:      opts.Metrics,
		now:          time.Now,
	}
}

// Run audits the whole roster. Only a roster load failure is fatal; every
// per-domain problem becomes a status or outcome in the report. On
// cancellation the partial report is returned together with the context
// error; a nil error guarantees one record per roster domain.
func (a *Auditor) Run(ctx context.Context) (domain.Report, error) {
	started := a.now()

	ros, err := roster.Build(ctx, a.panel)
	if err != nil {
		return domain.Report{}, err
	}
	log.Printf("auditor: roster loaded, %d domains across %d accounts", ros.Len(), ros.Accounts())

	agg := report.NewAggregator(a.dryRun)
	domains := ros.Domains()
	observations := auditrunner.Collect(ctx, domains, a.workers, a.observe)

	for i, d := range domains {
		if err := ctx.Err(); err != nil {
			return agg.Report(), err
		}
		obs := observations[i]
		if !obs.Observed {
			if cerr := ctx.Err(); cerr != nil {
				return agg.Report(), cerr
			}
			return agg.Report(), fmt.Errorf("auditor: no observation for %s", d)
		}

		acct, _ := ros.Account(d)
		plan := planner.Decide(d, obs.Status, acct, obs.Facts)
		outcome := a.exec.Execute(ctx, plan, d, acct)

		rec := domain.DomainRecord{
			Domain:  d,
			Primary: ros.IsPrimary(d),
			Status:  obs.Status,
			Expiry:  obs.Expiry,
			Facts:   obs.Facts,
			Plan:    plan,
			Outcome: outcome,
		}
		if acct != nil {
			rec.Account = acct.User
		}
		agg.Add(rec)
		a.metrics.ObserveRecord(rec)

		if plan.Action != domain.ActionNone {
			log.Printf("auditor: %s status=%s plan=%s outcome=%s", d, rec.Status, plan.Action, outcome.Kind)
		}
	}

	rep := agg.Report()
	a.metrics.ObserveRunSeconds(rep.FinishedAt.Sub(started).Seconds())
	logSummary(rep)
	return rep, nil
}

// observe is the read-only phase for one domain: throttled registry lookup,
// normalization, classification and, for registered domains, DNS facts.
func (a *Auditor) observe(ctx context.Context, d string) auditrunner.Observation {
	obs := auditrunner.Observation{Domain: d, Observed: true}

	if err := a.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			obs.Observed = false
			return obs
		}
		// The wait would outlast the caller's deadline. The domain still
		// needs a terminal state in the report.
		log.Printf("auditor: throttle wait for %s failed: %v", d, err)
		obs.Status = domain.StatusLookupFailed
		return obs
	}

	var lookup domain.LookupResult
	lctx, cancel := context.WithTimeout(ctx, a.whoisTimeout)
	raw, err := a.lookup.Lookup(lctx, d)
	cancel()
	if err != nil {
		log.Printf("auditor: lookup for %s failed: %v", d, err)
		lookup = domain.LookupResult{State: domain.LookupFailed}
	} else {
		lookup = whoisnorm.Normalize(raw)
	}

	obs.Status = classify.Status(lookup, a.now())
	obs.Expiry = lookup.ExpiresAt

	switch obs.Status {
	case domain.StatusActive, domain.StatusExpiringSoon, domain.StatusNoExpiry:
		obs.Facts = a.collector.Collect(ctx, d)
	}
	return obs
}

func logSummary(rep domain.Report) {
	for status, n := range rep.Summary.ByStatus {
		log.Printf("auditor: %-20s %4d (%.1f%%)", status, n, rep.Summary.StatusShare[status])
	}
	for action, n := range rep.Summary.ByAction {
		if action != domain.ActionNone {
			log.Printf("auditor: action %-22s %4d", action, n)
		}
	}
}
