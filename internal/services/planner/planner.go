// Package planner holds the remediation decision table. Decide performs no
// I/O and keeps no state, so the whole policy is testable without any
// collaborator and reproducible across runs.
package planner

import (
	"fmt"

	"hostaudit/internal/domain"
)

// Decide maps one domain's audit inputs to a remediation plan.
//
// Gone domains (unregistered or expired) are removed when they are addon or
// parked names; a gone primary promotes the first sibling alphabetically, or
// suspends the account when it was the only domain. A primary-domain change
// is never executed automatically, only suggested, since it can shift
// hosting, mail and billing identity.
//
// Registered domains that no longer resolve to us are removed only when
// neither mail nor authoritative DNS still ties them to us; a primary in
// that situation always goes to manual review. Failed lookups also go to
// manual review: without registry data there is no safe automatic action.
func Decide(d string, status domain.DomainStatus, acct *domain.Account, facts domain.DNSFacts) domain.Plan {
	primary := acct != nil && acct.Primary == d

	switch status {
	case domain.StatusUnregistered, domain.StatusExpired:
		if !primary {
			return domain.Plan{Action: domain.ActionRemoveAddonOrParked}
		}
		if siblings := acct.Siblings(d); len(siblings) > 0 {
			return domain.Plan{Action: domain.ActionSuggestPrimaryChange, NewPrimary: siblings[0]}
		}
		return domain.Plan{
			Action: domain.ActionSuspendAccount,
			Reason: fmt.Sprintf("Primary domain %s: %s", statusWord(status), d),
		}

	case domain.StatusActive, domain.StatusExpiringSoon, domain.StatusNoExpiry:
		if facts.PointsHere {
			return domain.Plan{Action: domain.ActionNone}
		}
		if primary {
			return domain.Plan{Action: domain.ActionManualReview}
		}
		if !facts.HandlesMail && !facts.Authoritative {
			return domain.Plan{Action: domain.ActionRemoveAddonOrParked}
		}
		// Points elsewhere but mail or DNS is still ours; removal would
		// break live service.
		return domain.Plan{Action: domain.ActionNone}

	default: // lookup_failed
		return domain.Plan{Action: domain.ActionManualReview}
	}
}

func statusWord(s domain.DomainStatus) string {
	if s == domain.StatusUnregistered {
		return "unregistered"
	}
	return "expired"
}
