package domain

import (
	"sort"
	"time"
)

// Core models for the portfolio audit. Everything here is plain data; the
// services under internal/services operate on these and all I/O stays in the
// adapters.

// RegistrationState is the normalized outcome of one registry lookup.
type RegistrationState string

const (
	Registered   RegistrationState = "registered"
	Unregistered RegistrationState = "unregistered"
	LookupFailed RegistrationState = "lookup_failed"
)

// LookupResult is a raw registry response reduced to the two facts the audit
// cares about. ExpiresAt is only meaningful when State is Registered; a
// registered domain with no parseable expiry keeps a nil ExpiresAt and is a
// valid result, not an error.
type LookupResult struct {
	State     RegistrationState
	ExpiresAt *time.Time
}

// DomainStatus is the classifier's verdict for one domain in one run.
type DomainStatus string

const (
	StatusActive       DomainStatus = "active"
	StatusExpiringSoon DomainStatus = "expiring_soon"
	StatusExpired      DomainStatus = "expired"
	StatusUnregistered DomainStatus = "unregistered"
	StatusNoExpiry     DomainStatus = "registered_no_expiry"
	StatusLookupFailed DomainStatus = "lookup_failed"
)

// DNSFacts answers three independent yes/no questions about where a domain is
// delegated. Each fact fails closed: a resolver timeout or error leaves it
// false.
type DNSFacts struct {
	PointsHere    bool `json:"points_here"`
	HandlesMail   bool `json:"handles_mail"`
	Authoritative bool `json:"authoritative"`
}

// Ours reports whether any fact still ties the domain to our infrastructure.
func (f DNSFacts) Ours() bool {
	return f.PointsHere || f.HandlesMail || f.Authoritative
}

// Account is one hosting account as seen in the roster snapshot taken at run
// start. Domains stays sorted so sibling selection is deterministic across
// runs.
type Account struct {
	User    string   `json:"user"`
	Domains []string `json:"domains"`
	Primary string   `json:"primary,omitempty"`
}

// AddDomain inserts d keeping Domains sorted and duplicate-free.
func (a *Account) AddDomain(d string) {
	i := sort.SearchStrings(a.Domains, d)
	if i < len(a.Domains) && a.Domains[i] == d {
		return
	}
	a.Domains = append(a.Domains, "")
	copy(a.Domains[i+1:], a.Domains[i:])
	a.Domains[i] = d
}

// Siblings returns the account's domains minus d, in sorted order.
func (a *Account) Siblings(d string) []string {
	var out []string
	for _, other := range a.Domains {
		if other != d {
			out = append(out, other)
		}
	}
	return out
}

// ActionKind enumerates the remediation decisions the planner can make.
type ActionKind string

const (
	ActionNone                 ActionKind = "none"
	ActionRemoveAddonOrParked  ActionKind = "remove_addon_or_parked"
	ActionSuspendAccount       ActionKind = "suspend_account"
	ActionSuggestPrimaryChange ActionKind = "suggest_primary_change"
	ActionManualReview         ActionKind = "manual_review"
)

// Plan is the remediation decision for one domain. Recomputing it from the
// same inputs yields the same Plan.
type Plan struct {
	Action     ActionKind `json:"action"`
	Reason     string     `json:"reason,omitempty"`      // suspend_account
	NewPrimary string     `json:"new_primary,omitempty"` // suggest_primary_change
}

// OutcomeKind enumerates what happened when a Plan was executed.
type OutcomeKind string

const (
	OutcomeNone          OutcomeKind = "none"
	OutcomeSkippedDryRun OutcomeKind = "skipped_dry_run"
	OutcomeSucceeded     OutcomeKind = "succeeded"
	OutcomeFailed        OutcomeKind = "failed"
)

// ActionOutcome records the result of executing one Plan. Written once by the
// executor, read only by the aggregator afterwards.
type ActionOutcome struct {
	Kind   OutcomeKind `json:"kind"`
	Reason string      `json:"reason,omitempty"`
	At     time.Time   `json:"at"`
}

// DomainRecord is one row of the final report: everything the run learned and
// did about a single domain. Account is empty for orphaned roster entries.
type DomainRecord struct {
	Domain  string        `json:"domain"`
	Account string        `json:"account,omitempty"`
	Primary bool          `json:"primary"`
	Status  DomainStatus  `json:"status"`
	Expiry  *time.Time    `json:"expiry,omitempty"`
	Facts   DNSFacts      `json:"dns_facts"`
	Plan    Plan          `json:"plan"`
	Outcome ActionOutcome `json:"outcome"`
}

// Summary is the aggregate view of a run.
type Summary struct {
	Domains     int                      `json:"domains"`
	ByStatus    map[DomainStatus]int     `json:"by_status"`
	ByAction    map[ActionKind]int       `json:"by_action"`
	ByOutcome   map[OutcomeKind]int      `json:"by_outcome"`
	StatusShare map[DomainStatus]float64 `json:"status_share"`
}

// Report is the full result of one audit run.
type Report struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	DryRun     bool           `json:"dry_run"`
	Records    []DomainRecord `json:"records"`
	Summary    Summary        `json:"summary"`
}
