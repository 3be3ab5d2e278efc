package roster

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakePanel struct {
	roster    map[string]string
	rosterErr error
	primaries map[string]string
	primErr   map[string]error
}

func (f *fakePanel) LoadRoster(ctx context.Context) (map[string]string, error) {
	return f.roster, f.rosterErr
}

func (f *fakePanel) PrimaryDomain(ctx context.Context, user string) (string, bool, error) {
	if err := f.primErr[user]; err != nil {
		return "", false, err
	}
	d, ok := f.primaries[user]
	return d, ok, nil
}

func (f *fakePanel) RemoveAddonDomain(ctx context.Context, user, domain string) error  { return nil }
func (f *fakePanel) RemoveParkedDomain(ctx context.Context, user, domain string) error { return nil }
func (f *fakePanel) SuspendAccount(ctx context.Context, user, reason string) error     { return nil }

func TestBuildGroupsDomainsByAccount(t *testing.T) {
	t.Parallel()
	panel := &fakePanel{
		roster: map[string]string{
			"Acme.COM.":    "acme",
			"acme.net":     "acme",
			"soloco.biz":   "soloco",
			"orphaned.org": "",
		},
		primaries: map[string]string{"acme": "acme.com", "soloco": "soloco.biz"},
	}
	r, err := Build(context.Background(), panel)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []string{"acme.com", "acme.net", "orphaned.org", "soloco.biz"}
	if !reflect.DeepEqual(r.Domains(), want) {
		t.Fatalf("Domains() = %v, want %v", r.Domains(), want)
	}
	if r.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", r.Len())
	}

	acct, ok := r.Account("acme.com")
	if !ok {
		t.Fatal("acme.com has no account")
	}
	if acct.User != "acme" || acct.Primary != "acme.com" {
		t.Fatalf("account = %+v", acct)
	}
	if got := acct.Siblings("acme.com"); !reflect.DeepEqual(got, []string{"acme.net"}) {
		t.Fatalf("Siblings = %v", got)
	}
	if !r.IsPrimary("acme.com") || r.IsPrimary("acme.net") {
		t.Fatal("primary flags wrong for acme")
	}
}

func TestBuildKeepsOrphans(t *testing.T) {
	t.Parallel()
	panel := &fakePanel{roster: map[string]string{"orphaned.org": ""}}
	r, err := Build(context.Background(), panel)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("orphan dropped from roster: Len() = %d", r.Len())
	}
	if _, ok := r.Account("orphaned.org"); ok {
		t.Fatal("orphan unexpectedly has an account")
	}
	if r.IsPrimary("orphaned.org") {
		t.Fatal("orphan cannot be primary")
	}
}

// Roster keys that normalize to the same name must collapse into a single
// audit subject, keeping whichever spelling carried the owning account.
func TestBuildMergesDuplicateSpellings(t *testing.T) {
	t.Parallel()
	panel := &fakePanel{
		roster: map[string]string{
			"Foo.COM.": "",
			"foo.com":  "acme",
		},
		primaries: map[string]string{"acme": "foo.com"},
	}
	r, err := Build(context.Background(), panel)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want duplicate spellings merged into 1", r.Len())
	}
	acct, ok := r.Account("foo.com")
	if !ok || acct.User != "acme" {
		t.Fatalf("account = %+v, ok = %v, want owner acme", acct, ok)
	}
	if !reflect.DeepEqual(acct.Domains, []string{"foo.com"}) {
		t.Fatalf("account domains = %v", acct.Domains)
	}
}

func TestBuildRosterFailureIsFatal(t *testing.T) {
	t.Parallel()
	panel := &fakePanel{rosterErr: errors.New("api unreachable")}
	if _, err := Build(context.Background(), panel); err == nil {
		t.Fatal("expected error when roster cannot load")
	}
}

func TestBuildPrimaryLookupFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	panel := &fakePanel{
		roster:  map[string]string{"acme.com": "acme"},
		primErr: map[string]error{"acme": errors.New("timeout")},
	}
	r, err := Build(context.Background(), panel)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	acct, _ := r.Account("acme.com")
	if acct.Primary != "" {
		t.Fatalf("primary = %q, want unset", acct.Primary)
	}
}
