package whoisnorm

import (
	"testing"
	"time"

	"hostaudit/internal/domain"
)

func TestNormalizeNotFoundPhrases(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		raw  string
	}{
		{"verisign style", "No match for domain \"EXAMPLE-FREE.COM\"."},
		{"uppercase", "NOT FOUND"},
		{"afilias style", "NO DATA FOUND\n>>> Last update: whatever <<<"},
		{"denic style", "Status: free"},
		{"nominet style", "This domain name has not been registered."},
		{"mixed case", "No Entries Found for query"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(tc.raw)
			if got.State != domain.Unregistered {
				t.Fatalf("Normalize(%q).State = %q, want unregistered", tc.raw, got.State)
			}
			if got.ExpiresAt != nil {
				t.Fatalf("unregistered result carries expiry %v", got.ExpiresAt)
			}
		})
	}
}

func TestNormalizeExpiryLabels(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			"registry expiry date rfc3339",
			"Domain Name: EXAMPLE.COM\nRegistry Expiry Date: 2026-09-15T04:00:00Z\nRegistrar: Example Inc.",
			time.Date(2026, 9, 15, 4, 0, 0, 0, time.UTC),
		},
		{
			"expiration date with trailing zone",
			"Domain name: example.net\nExpiration Date: 2027-01-02 13:22:01 UTC\n",
			time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"paid-till dotted",
			"domain: EXAMPLE.RU\npaid-till: 2026.11.30\nsource: TCI",
			time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			"day-month-year",
			"Expiry date:  03-Apr-2027\n",
			time.Date(2027, 4, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			"label indented",
			"   Registrar Registration Expiration Date: 2026-12-01T00:00:00Z\n",
			time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(tc.raw)
			if got.State != domain.Registered {
				t.Fatalf("state = %q, want registered", got.State)
			}
			if got.ExpiresAt == nil {
				t.Fatalf("no expiry extracted from %q", tc.raw)
			}
			if !got.ExpiresAt.Equal(tc.want) {
				t.Fatalf("expiry = %v, want %v", got.ExpiresAt, tc.want)
			}
		})
	}
}

func TestNormalizeLabelBeatsHeuristic(t *testing.T) {
	t.Parallel()
	// A heuristic-looking line comes first, but the explicit label wins.
	raw := "Renewal reminder date: 2026-01-01\nRegistry Expiry Date: 2026-06-01T00:00:00Z\n"
	got := Normalize(raw)
	if got.ExpiresAt == nil {
		t.Fatal("no expiry extracted")
	}
	want := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.ExpiresAt.Equal(want) {
		t.Fatalf("expiry = %v, want label-tier value %v", got.ExpiresAt, want)
	}
}

func TestNormalizeHeuristicFallback(t *testing.T) {
	t.Parallel()
	raw := "Domain Name: example.org\nRecord expiration date: 2026-08-09\n"
	got := Normalize(raw)
	if got.State != domain.Registered {
		t.Fatalf("state = %q, want registered", got.State)
	}
	if got.ExpiresAt == nil {
		t.Fatal("heuristic tier did not extract expiry")
	}
	want := time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC)
	if !got.ExpiresAt.Equal(want) {
		t.Fatalf("expiry = %v, want %v", got.ExpiresAt, want)
	}
}

func TestNormalizeRegisteredWithoutParseableExpiry(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		raw  string
	}{
		{"no expiry field at all", "Domain Name: example.de\nRegistrar: Some GmbH\n"},
		{"garbage expiry value", "Expiration Date: pending-renewal\n"},
		{"empty expiry value", "Expiry Date:\n"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(tc.raw)
			if got.State != domain.Registered {
				t.Fatalf("state = %q, want registered", got.State)
			}
			if got.ExpiresAt != nil {
				t.Fatalf("expected nil expiry, got %v", got.ExpiresAt)
			}
		})
	}
}
