// Package whois implements the RegistryLookup port over the whois protocol
// (TCP port 43).
package whois

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// servers maps TLDs to their whois endpoints. Two-label suffixes (co.uk) are
// tried before the plain TLD.
var servers = map[string]string{
	"ac":    "whois.nic.ac",
	"ai":    "whois.nic.ai",
	"app":   "whois.nic.google",
	"au":    "whois.auda.org.au",
	"biz":   "whois.biz",
	"ca":    "whois.cira.ca",
	"cc":    "ccwhois.verisign-grs.com",
	"co":    "whois.nic.co",
	"co.uk": "whois.nic.uk",
	"com":   "whois.verisign-grs.com",
	"de":    "whois.denic.de",
	"dev":   "whois.nic.google",
	"eu":    "whois.eu",
	"fr":    "whois.nic.fr",
	"info":  "whois.afilias.net",
	"io":    "whois.nic.io",
	"jp":    "whois.jprs.jp",
	"me":    "whois.nic.me",
	"net":   "whois.verisign-grs.com",
	"nl":    "whois.domain-registry.nl",
	"org":   "whois.pir.org",
	"ru":    "whois.tcinet.ru",
	"se":    "whois.iis.se",
	"sh":    "whois.nic.sh",
	"tv":    "tvwhois.verisign-grs.com",
	"uk":    "whois.nic.uk",
	"us":    "whois.nic.us",
	"xyz":   "whois.nic.xyz",
}

type Client struct {
	timeout time.Duration
	dialer  net.Dialer
}

func New(timeout time.Duration) *Client {
	return &Client{timeout: timeout}
}

// Lookup queries the TLD's whois server for the domain's registrable form
// and returns the raw response text. Connection, write and read are all
// bounded by the client timeout and the caller's context.
func (c *Client) Lookup(ctx context.Context, domain string) (string, error) {
	query := registrable(domain)
	server, err := serverFor(query)
	if err != nil {
		return "", err
	}

	dctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	conn, err := c.dialer.DialContext(dctx, "tcp", net.JoinHostPort(server, "43"))
	if err != nil {
		return "", fmt.Errorf("whois: dial %s: %w", server, err)
	}
	defer conn.Close()

	if deadline, ok := dctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := fmt.Fprintf(conn, "%s\r\n", query); err != nil {
		return "", fmt.Errorf("whois: query %s: %w", query, err)
	}
	body, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("whois: read response for %s: %w", query, err)
	}
	return string(body), nil
}

// registrable reduces a roster entry (possibly a subdomain) to the name the
// registry actually knows about.
func registrable(domain string) string {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	if r, err := publicsuffix.EffectiveTLDPlusOne(domain); err == nil {
		return r
	}
	return domain
}

func serverFor(domain string) (string, error) {
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("whois: invalid domain %q", domain)
	}
	if len(parts) >= 3 {
		if s, ok := servers[strings.Join(parts[len(parts)-2:], ".")]; ok {
			return s, nil
		}
	}
	tld := parts[len(parts)-1]
	if s, ok := servers[tld]; ok {
		return s, nil
	}
	return "", fmt.Errorf("whois: no server known for TLD %q", tld)
}
