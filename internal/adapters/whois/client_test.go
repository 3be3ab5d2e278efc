package whois

import "testing"

func TestServerFor(t *testing.T) {
	t.Parallel()
	cases := []struct {
		domain string
		want   string
		ok     bool
	}{
		{"example.com", "whois.verisign-grs.com", true},
		{"example.co.uk", "whois.nic.uk", true},
		{"example.ru", "whois.tcinet.ru", true},
		{"example.unknowntld", "", false},
		{"nodots", "", false},
	}
	for _, tc := range cases {
		got, err := serverFor(tc.domain)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("serverFor(%q) = %q, %v; want %q", tc.domain, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("serverFor(%q) succeeded, want error", tc.domain)
		}
	}
}

func TestRegistrable(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in, want string
	}{
		{"Example.COM.", "example.com"},
		{"shop.example.com", "example.com"},
		{"deep.sub.example.co.uk", "example.co.uk"},
	}
	for _, tc := range cases {
		if got := registrable(tc.in); got != tc.want {
			t.Fatalf("registrable(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
