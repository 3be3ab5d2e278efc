// Package dnsres implements the DNSResolver port on top of net.Resolver.
package dnsres

import (
	"context"
	"net"
)

type Resolver struct {
	r *net.Resolver
}

func New() *Resolver {
	return &Resolver{r: &net.Resolver{}}
}

// LookupA returns the domain's IPv4/IPv6 addresses as strings.
func (r *Resolver) LookupA(ctx context.Context, domain string) ([]string, error) {
	addrs, err := r.r.LookupIPAddr(ctx, domain)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.IP.String())
	}
	return out, nil
}

// LookupMX returns the mail-exchange hosts, highest preference first as the
// resolver orders them.
func (r *Resolver) LookupMX(ctx context.Context, domain string) ([]string, error) {
	mxs, err := r.r.LookupMX(ctx, domain)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(mxs))
	for _, mx := range mxs {
		out = append(out, mx.Host)
	}
	return out, nil
}

// LookupNS returns the delegated name-server hosts.
func (r *Resolver) LookupNS(ctx context.Context, domain string) ([]string, error) {
	nss, err := r.r.LookupNS(ctx, domain)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(nss))
	for _, ns := range nss {
		out = append(out, ns.Host)
	}
	return out, nil
}
