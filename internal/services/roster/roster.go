// Package roster builds the in-memory account/domain model from the control
// panel's domain roster. The model is built once per run and read-only
// afterwards; remediation side effects go through the control panel port,
// never through this snapshot.
package roster

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"hostaudit/internal/domain"
	"hostaudit/internal/ports"
)

// Roster is the immutable snapshot the audit runs against.
type Roster struct {
	accounts map[string]*domain.Account
	owner    map[string]string
	domains  []string
}

// Build loads the roster and each owning account's primary domain. A roster
// load failure is fatal to the run; a missing or failing primary lookup only
// leaves that account without a primary. Domains with no owning user are
// kept as orphans rather than dropped, so the report still covers them.
func Build(ctx context.Context, panel ports.ControlPanel) (*Roster, error) {
	raw, err := panel.LoadRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	r := &Roster{
		accounts: make(map[string]*domain.Account),
		owner:    make(map[string]string),
	}

	for d, user := range raw {
		d = Normalize(d)
		if d == "" {
			continue
		}
		// Spellings that normalize to the same name are one audit subject;
		// a duplicate only contributes its owner when the first had none.
		if prev, seen := r.owner[d]; seen {
			log.Printf("roster: duplicate roster entry for %s", d)
			if prev != "" || user == "" {
				continue
			}
		} else {
			r.domains = append(r.domains, d)
		}
		r.owner[d] = user
		if user == "" {
			log.Printf("roster: domain %s has no owning account", d)
			continue
		}
		acct, ok := r.accounts[user]
		if !ok {
			acct = &domain.Account{User: user}
			r.accounts[user] = acct
		}
		acct.AddDomain(d)
	}
	sort.Strings(r.domains)

	for user, acct := range r.accounts {
		primary, found, err := panel.PrimaryDomain(ctx, user)
		if err != nil {
			log.Printf("roster: primary domain for %s unavailable: %v", user, err)
			continue
		}
		if found {
			acct.Primary = Normalize(primary)
		}
	}

	return r, nil
}

// Domains returns every roster domain in sorted order.
func (r *Roster) Domains() []string { return r.domains }

// Len is the roster's domain count; the final report must carry exactly this
// many records.
func (r *Roster) Len() int { return len(r.domains) }

// Accounts is the number of distinct owning accounts in the snapshot.
func (r *Roster) Accounts() int { return len(r.accounts) }

// Account returns the owning account for a domain; ok is false for orphans.
func (r *Roster) Account(d string) (*domain.Account, bool) {
	user, ok := r.owner[d]
	if !ok || user == "" {
		return nil, false
	}
	acct, ok := r.accounts[user]
	return acct, ok
}

// IsPrimary reports whether d is its owning account's designated primary.
func (r *Roster) IsPrimary(d string) bool {
	acct, ok := r.Account(d)
	return ok && acct.Primary == d
}

// Normalize lowercases a roster entry and trims the trailing dot. Entries are
// deliberately not collapsed to their registrable form here: two distinct
// roster rows must stay two report rows.
func Normalize(d string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(d), "."))
}
