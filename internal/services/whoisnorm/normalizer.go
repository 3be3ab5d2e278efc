// Package whoisnorm reduces free-text registry lookup responses to a
// normalized LookupResult. Registry output is not standardized, so the
// normalizer is driven by ordered phrase and label tables: new registry
// formats are covered by extending the tables, not the control flow.
package whoisnorm

import (
	"strings"
	"time"

	"hostaudit/internal/domain"
)

// notFoundPhrases mark a response as "domain not registered". Matched
// case-insensitively, first hit wins.
var notFoundPhrases = []string{
	"no match",
	"not found",
	"no data found",
	"no entries found",
	"no object found",
	"object does not exist",
	"domain not found",
	"status: free",
	"available for registration",
	"has not been registered",
}

// expiryLabels are field-label prefixes tried in priority order against each
// line of the response. The first label that matches any line wins; the
// looser heuristic below runs only after every label missed.
var expiryLabels = []string{
	"registry expiry date:",
	"registrar registration expiration date:",
	"expiry date:",
	"expiration date:",
	"expiration time:",
	"expires on:",
	"expire date:",
	"paid-till:",
	"renewal date:",
	"expires:",
	"expire:",
}

// dateFormats cover the date shapes seen across registries once the time and
// zone suffix has been stripped.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
	"02/01/2006",
	"January 2, 2006",
	"2-Jan-2006",
}

// Normalize turns one raw registry response into a LookupResult. Failed or
// timed-out queries are signalled by the lookup collaborator's error, never
// by text, so Normalize only distinguishes unregistered from registered and
// extracts the expiry when one is parseable.
func Normalize(raw string) domain.LookupResult {
	lower := strings.ToLower(raw)

	for _, phrase := range notFoundPhrases {
		if strings.Contains(lower, phrase) {
			return domain.LookupResult{State: domain.Unregistered}
		}
	}

	res := domain.LookupResult{State: domain.Registered}
	if t, ok := extractExpiry(raw); ok {
		res.ExpiresAt = &t
	}
	return res
}

func extractExpiry(raw string) (time.Time, bool) {
	lines := strings.Split(raw, "\n")

	// Label tier: first matching label in priority order beats anything the
	// heuristic would find.
	for _, label := range expiryLabels {
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if len(trimmed) < len(label) {
				continue
			}
			if !strings.EqualFold(trimmed[:len(label)], label) {
				continue
			}
			if t, ok := parseDate(trimmed[len(label):]); ok {
				return t, true
			}
		}
	}

	// Fallback tier: any line mentioning an expiry/renewal date.
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "date") {
			continue
		}
		if !strings.Contains(lower, "expir") && !strings.Contains(lower, "renewal") {
			continue
		}
		if _, value, found := strings.Cut(line, ":"); found {
			if t, ok := parseDate(value); ok {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

// parseDate parses a label's remainder, progressively stripping trailing
// time/zone components until a known format matches.
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	candidates := []string{value}
	if before, _, found := strings.Cut(value, "T"); found {
		candidates = append(candidates, before)
	}
	if fields := strings.Fields(value); len(fields) > 1 {
		candidates = append(candidates, fields[0])
	}

	for _, cand := range candidates {
		for _, format := range dateFormats {
			if t, err := time.Parse(format, cand); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
