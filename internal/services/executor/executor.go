// Package executor applies remediation plans through the control panel and
// notifier collaborators. All mutation is concentrated here so the rest of
// the pipeline stays read-only, and every failure is contained in the
// returned outcome: one domain's failed action never stops the audit.
package executor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"hostaudit/internal/domain"
	"hostaudit/internal/ports"
)

type Executor struct {
	panel    ports.ControlPanel
	notifier ports.Notifier
	dryRun   bool

	now func() time.Time
}

func New(panel ports.ControlPanel, notifier ports.Notifier, dryRun bool) *Executor {
	return &Executor{panel: panel, notifier: notifier, dryRun: dryRun, now: time.Now}
}

// Execute applies one plan for one domain. In dry-run mode every non-none
// plan is recorded as skipped and no mutating collaborator call is made.
func (e *Executor) Execute(ctx context.Context, plan domain.Plan, d string, acct *domain.Account) domain.ActionOutcome {
	at := e.now()

	if plan.Action == domain.ActionNone {
		return domain.ActionOutcome{Kind: domain.OutcomeNone, At: at}
	}
	if e.dryRun {
		return domain.ActionOutcome{Kind: domain.OutcomeSkippedDryRun, At: at}
	}

	switch plan.Action {
	case domain.ActionRemoveAddonOrParked:
		return e.removeAddonOrParked(ctx, d, acct, at)
	case domain.ActionSuspendAccount:
		return e.suspendAccount(ctx, plan.Reason, acct, at)
	case domain.ActionSuggestPrimaryChange:
		return e.suggestPrimaryChange(ctx, plan.NewPrimary, d, acct, at)
	default: // manual_review
		return domain.ActionOutcome{Kind: domain.OutcomeSucceeded, Reason: "flagged for manual review", At: at}
	}
}

// removeAddonOrParked tries the domain both as an addon and as a parked name.
// The panel only knows it under one of the two, so both removals are
// attempted regardless of the first result and either success counts.
func (e *Executor) removeAddonOrParked(ctx context.Context, d string, acct *domain.Account, at time.Time) domain.ActionOutcome {
	user := ""
	if acct != nil {
		user = acct.User
	}
	addonErr := e.panel.RemoveAddonDomain(ctx, user, d)
	parkedErr := e.panel.RemoveParkedDomain(ctx, user, d)
	if addonErr == nil || parkedErr == nil {
		return domain.ActionOutcome{Kind: domain.OutcomeSucceeded, At: at}
	}
	log.Printf("executor: removing %s failed (addon: %v, parked: %v)", d, addonErr, parkedErr)
	return domain.ActionOutcome{Kind: domain.OutcomeFailed, Reason: "not addon or parked", At: at}
}

func (e *Executor) suspendAccount(ctx context.Context, reason string, acct *domain.Account, at time.Time) domain.ActionOutcome {
	if acct == nil {
		return domain.ActionOutcome{Kind: domain.OutcomeFailed, Reason: "no account to suspend", At: at}
	}
	if err := e.panel.SuspendAccount(ctx, acct.User, reason); err != nil {
		return domain.ActionOutcome{Kind: domain.OutcomeFailed, Reason: err.Error(), At: at}
	}

	subject := fmt.Sprintf("Account %s suspended", acct.User)
	body := fmt.Sprintf("Account:   %s\nReason:    %s\nSuspended: %s\n",
		acct.User, reason, at.UTC().Format(time.RFC3339))
	if err := e.notifier.Send(ctx, subject, body); err != nil {
		// The suspension itself went through; the operator just missed the
		// notice.
		log.Printf("executor: suspension notice for %s failed: %v", acct.User, err)
	}
	return domain.ActionOutcome{Kind: domain.OutcomeSucceeded, At: at}
}

// suggestPrimaryChange never touches account state. The action is the
// notification itself: primary-domain changes stay a human decision.
func (e *Executor) suggestPrimaryChange(ctx context.Context, newPrimary, d string, acct *domain.Account, at time.Time) domain.ActionOutcome {
	user := "(unknown)"
	domains := "(none)"
	if acct != nil {
		user = acct.User
		domains = strings.Join(acct.Domains, ", ")
	}
	subject := fmt.Sprintf("Manual action: change primary domain for %s", user)
	body := fmt.Sprintf("Account:         %s\nCurrent primary: %s\nSuggested:       %s\nAll domains:     %s\n",
		user, d, newPrimary, domains)
	if err := e.notifier.Send(ctx, subject, body); err != nil {
		return domain.ActionOutcome{Kind: domain.OutcomeFailed, Reason: err.Error(), At: at}
	}
	return domain.ActionOutcome{Kind: domain.OutcomeSucceeded, At: at}
}
