package auditrunner

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"hostaudit/internal/domain"
)

func TestCollectPreservesOrder(t *testing.T) {
	t.Parallel()
	var domains []string
	for i := 0; i < 50; i++ {
		domains = append(domains, fmt.Sprintf("d%02d.example", i))
	}

	results := Collect(context.Background(), domains, 8, func(ctx context.Context, d string) Observation {
		return Observation{Domain: d, Status: domain.StatusActive, Observed: true}
	})

	if len(results) != len(domains) {
		t.Fatalf("results = %d, want %d", len(results), len(domains))
	}
	for i, obs := range results {
		if obs.Domain != domains[i] {
			t.Fatalf("result %d = %q, want %q", i, obs.Domain, domains[i])
		}
		if !obs.Observed {
			t.Fatalf("result %d not observed", i)
		}
	}
}

func TestCollectBoundsConcurrency(t *testing.T) {
	t.Parallel()
	const limit = 3
	var inFlight, peak atomic.Int32

	domains := make([]string, 40)
	for i := range domains {
		domains[i] = fmt.Sprintf("d%02d.example", i)
	}

	Collect(context.Background(), domains, limit, func(ctx context.Context, d string) Observation {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		defer inFlight.Add(-1)
		return Observation{Domain: d, Observed: true}
	})

	if got := peak.Load(); got > limit {
		t.Fatalf("peak concurrency = %d, want <= %d", got, limit)
	}
}

func TestCollectStopsFeedingOnCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())

	domains := make([]string, 100)
	for i := range domains {
		domains[i] = fmt.Sprintf("d%03d.example", i)
	}

	var observed atomic.Int32
	results := Collect(ctx, domains, 1, func(ctx context.Context, d string) Observation {
		if observed.Add(1) == 3 {
			cancel()
		}
		return Observation{Domain: d, Observed: true}
	})

	done := 0
	for _, obs := range results {
		if obs.Observed {
			done++
		}
	}
	if done == len(domains) {
		t.Fatal("cancellation did not stop the feed")
	}
	if done < 3 {
		t.Fatalf("observed = %d, want at least the in-flight work finished", done)
	}
}
