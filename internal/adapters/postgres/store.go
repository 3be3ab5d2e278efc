package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hostaudit/internal/domain"
)

// SaveReport persists a finished run: one audit_runs row carrying the full
// report document, one domain_results row per record, and an action_log row
// for every plan that was not a no-op.
func (db *DB) SaveReport(ctx context.Context, report domain.Report) (runID string, err error) {
	doc, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("store: encode report: %w", err)
	}

	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
		INSERT INTO audit_runs (started_at, finished_at, dry_run, domain_count, report)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, report.StartedAt, report.FinishedAt, report.DryRun, report.Summary.Domains, doc).Scan(&runID)
	if err != nil {
		return "", err
	}

	for _, rec := range report.Records {
		if _, err = tx.Exec(ctx, `
			INSERT INTO domain_results (run_id, domain, account, is_primary, status, expires_at, points_here, handles_mail, authoritative)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, runID, rec.Domain, rec.Account, rec.Primary, string(rec.Status), rec.Expiry,
			rec.Facts.PointsHere, rec.Facts.HandlesMail, rec.Facts.Authoritative); err != nil {
			return "", err
		}
		if rec.Plan.Action == domain.ActionNone {
			continue
		}
		if _, err = tx.Exec(ctx, `
			INSERT INTO action_log (run_id, domain, account, action, reason, new_primary, outcome, outcome_reason, executed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, runID, rec.Domain, rec.Account, string(rec.Plan.Action), rec.Plan.Reason,
			rec.Plan.NewPrimary, string(rec.Outcome.Kind), rec.Outcome.Reason, rec.Outcome.At); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// LatestReport returns the most recently finished run's report document.
func (db *DB) LatestReport(ctx context.Context) (domain.Report, bool, error) {
	var doc []byte
	err := db.Pool.QueryRow(ctx, `
		SELECT report FROM audit_runs ORDER BY finished_at DESC LIMIT 1
	`).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Report{}, false, nil
	}
	if err != nil {
		return domain.Report{}, false, err
	}
	var report domain.Report
	if err := json.Unmarshal(doc, &report); err != nil {
		return domain.Report{}, false, fmt.Errorf("store: decode report: %w", err)
	}
	return report, true, nil
}
