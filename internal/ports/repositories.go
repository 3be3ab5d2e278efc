package ports

import (
	"context"

	"hostaudit/internal/domain"
)

// ReportStore persists finished audit reports and serves the most recent one.
type ReportStore interface {
	SaveReport(ctx context.Context, report domain.Report) (runID string, err error)
	LatestReport(ctx context.Context) (report domain.Report, found bool, err error)
}
