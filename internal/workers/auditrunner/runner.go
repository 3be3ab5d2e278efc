// Package auditrunner fans the read-only observation phase of an audit out
// over a bounded worker pool. Only observation runs here; mutating actions
// are executed afterwards by the driver, one domain at a time.
package auditrunner

import (
	"context"
	"sync"
	"time"

	"hostaudit/internal/domain"
)

// Observation is what the read-only phase learns about one domain before any
// plan is made.
type Observation struct {
	Domain   string
	Status   domain.DomainStatus
	Expiry   *time.Time
	Facts    domain.DNSFacts
	Observed bool
}

// Collect runs observe for every domain with at most concurrency workers,
// returning results in input order. Cancellation is cooperative: no new
// domain is started once ctx is done, in-flight observations finish, and
// unstarted entries come back with Observed false.
func Collect(ctx context.Context, domains []string, concurrency int, observe func(ctx context.Context, d string) Observation) []Observation {
	if concurrency < 1 {
		concurrency = 1
	}

	type job struct {
		idx int
		d   string
	}

	results := make([]Observation, len(domains))
	jobs := make(chan job)
	var wg sync.WaitGroup

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = observe(ctx, j.d)
			}
		}()
	}

feed:
	for i, d := range domains {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{idx: i, d: d}:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
