// Package classify turns a normalized lookup result into a per-run domain
// status. Classification is a pure function of the result and the current
// instant.
package classify

import (
	"math"
	"time"

	"hostaudit/internal/domain"
)

// ExpiryWindowDays is the number of days before expiry at which a domain is
// flagged as expiring soon. Exactly ExpiryWindowDays days out is still
// active (the window is half-open).
const ExpiryWindowDays = 30

// Status classifies one lookup result against now.
func Status(lookup domain.LookupResult, now time.Time) domain.DomainStatus {
	switch lookup.State {
	case domain.LookupFailed:
		return domain.StatusLookupFailed
	case domain.Unregistered:
		return domain.StatusUnregistered
	}

	if lookup.ExpiresAt == nil {
		return domain.StatusNoExpiry
	}

	days := DaysRemaining(*lookup.ExpiresAt, now)
	switch {
	case days < 0:
		return domain.StatusExpired
	case days < ExpiryWindowDays:
		return domain.StatusExpiringSoon
	default:
		return domain.StatusActive
	}
}

// DaysRemaining is floor((expiresAt - now) / 24h); negative once the expiry
// instant has passed.
func DaysRemaining(expiresAt, now time.Time) int {
	return int(math.Floor(expiresAt.Sub(now).Hours() / 24))
}
