// Package report accumulates per-domain results into the run report. The
// aggregator is the single owner of the running collections; concurrent
// phases hand records to it instead of sharing maps.
package report

import (
	"sync"
	"time"

	"hostaudit/internal/domain"
)

type Aggregator struct {
	mu      sync.Mutex
	started time.Time
	dryRun  bool
	records []domain.DomainRecord

	now func() time.Time
}

func NewAggregator(dryRun bool) *Aggregator {
	return &Aggregator{started: time.Now(), dryRun: dryRun, now: time.Now}
}

// Add appends one finished domain record. Safe for concurrent use.
func (a *Aggregator) Add(rec domain.DomainRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
}

// Len reports how many records have been collected so far.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Report snapshots the collected records into a finished report with summary
// counts and per-status shares.
func (a *Aggregator) Report() domain.Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	records := make([]domain.DomainRecord, len(a.records))
	copy(records, a.records)

	summary := domain.Summary{
		Domains:     len(records),
		ByStatus:    make(map[domain.DomainStatus]int),
		ByAction:    make(map[domain.ActionKind]int),
		ByOutcome:   make(map[domain.OutcomeKind]int),
		StatusShare: make(map[domain.DomainStatus]float64),
	}
	for _, rec := range records {
		summary.ByStatus[rec.Status]++
		summary.ByAction[rec.Plan.Action]++
		summary.ByOutcome[rec.Outcome.Kind]++
	}
	if summary.Domains > 0 {
		for status, n := range summary.ByStatus {
			summary.StatusShare[status] = 100 * float64(n) / float64(summary.Domains)
		}
	}

	return domain.Report{
		StartedAt:  a.started,
		FinishedAt: a.now(),
		DryRun:     a.dryRun,
		Records:    records,
		Summary:    summary,
	}
}
