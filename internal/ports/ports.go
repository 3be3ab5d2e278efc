package ports

import "context"

// Collaborator interfaces the audit core calls. Implementations live under
// internal/adapters; tests substitute in-memory fakes.

// RegistryLookup queries a domain-name registration database and returns the
// raw free-text response. A non-nil error (timeout included) means the lookup
// failed; the caller never inspects the text to detect that.
type RegistryLookup interface {
	Lookup(ctx context.Context, domain string) (string, error)
}

// DNSResolver answers the three record queries the fact collector needs.
// Results are host/address strings as returned by the resolver.
type DNSResolver interface {
	LookupA(ctx context.Context, domain string) ([]string, error)
	LookupMX(ctx context.Context, domain string) ([]string, error)
	LookupNS(ctx context.Context, domain string) ([]string, error)
}

// ControlPanel is the hosting panel's account/domain management API.
type ControlPanel interface {
	// LoadRoster returns the full domain -> owning user mapping. The audit
	// cannot run without it.
	LoadRoster(ctx context.Context) (map[string]string, error)
	// PrimaryDomain reports a user's designated primary domain; found is
	// false when the panel has no record for the user.
	PrimaryDomain(ctx context.Context, user string) (domain string, found bool, err error)
	RemoveAddonDomain(ctx context.Context, user, domain string) error
	RemoveParkedDomain(ctx context.Context, user, domain string) error
	SuspendAccount(ctx context.Context, user, reason string) error
}

// Notifier delivers operator notifications (suspension notices, manual-action
// requests).
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}
