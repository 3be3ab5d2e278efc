// Package dnsfacts answers, per domain, whether delegation still points at
// our infrastructure: address records at our servers, mail routed to our
// exchangers, our name servers authoritative.
package dnsfacts

import (
	"context"
	"log"
	"strings"
	"time"

	"hostaudit/internal/domain"
	"hostaudit/internal/ports"
)

// Collector runs the three record queries through the resolver port and
// matches the answers against the operator's configured server set. Every
// fact fails closed: a query error or timeout leaves that fact false and the
// other facts are still attempted.
type Collector struct {
	resolver ports.DNSResolver
	timeout  time.Duration

	serverAddresses  []string
	mailHostPatterns []string
	nsPatterns       []string
}

func New(resolver ports.DNSResolver, timeout time.Duration, serverAddresses, mailHostPatterns, nsPatterns []string) *Collector {
	return &Collector{
		resolver:         resolver,
		timeout:          timeout,
		serverAddresses:  serverAddresses,
		mailHostPatterns: mailHostPatterns,
		nsPatterns:       nsPatterns,
	}
}

// Collect gathers the three facts for one domain. Each query gets its own
// timeout so one stuck sub-query cannot sink the whole domain's audit.
func (c *Collector) Collect(ctx context.Context, d string) domain.DNSFacts {
	var facts domain.DNSFacts

	if addrs, err := c.query(ctx, d, c.resolver.LookupA); err == nil {
		facts.PointsHere = anyEquals(addrs, c.serverAddresses)
	} else {
		log.Printf("dnsfacts: A lookup for %s degraded to false: %v", d, err)
	}

	if hosts, err := c.query(ctx, d, c.resolver.LookupMX); err == nil {
		facts.HandlesMail = anyMatches(hosts, c.mailHostPatterns)
	} else {
		log.Printf("dnsfacts: MX lookup for %s degraded to false: %v", d, err)
	}

	if hosts, err := c.query(ctx, d, c.resolver.LookupNS); err == nil {
		facts.Authoritative = anyMatches(hosts, c.nsPatterns)
	} else {
		log.Printf("dnsfacts: NS lookup for %s degraded to false: %v", d, err)
	}

	return facts
}

func (c *Collector) query(ctx context.Context, d string, fn func(context.Context, string) ([]string, error)) ([]string, error) {
	qctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return fn(qctx, d)
}

// anyEquals reports whether any returned address is exactly one of ours.
func anyEquals(values, ours []string) bool {
	for _, v := range values {
		for _, o := range ours {
			if v == o {
				return true
			}
		}
	}
	return false
}

// anyMatches reports whether any returned host contains one of the
// configured patterns. Hosts are compared lowercased with the trailing dot
// trimmed.
func anyMatches(hosts, patterns []string) bool {
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSuffix(h, "."))
		for _, p := range patterns {
			if p == "" {
				continue
			}
			if strings.Contains(h, strings.ToLower(p)) {
				return true
			}
		}
	}
	return false
}
