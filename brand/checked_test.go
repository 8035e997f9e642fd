package brand

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/djmoore711/brandfetch-mcp/brand/internal/store"
	"github.com/djmoore711/brandfetch-mcp/dbopen"

	_ "modernc.org/sqlite"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	db := dbopen.OpenMemory(t)
	if _, err := db.Exec(store.Schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return &store.Store{DB: db}
}

// checkedFixture wires a CheckedLookup against test doubles for the logo
// and search endpoints. Either handler may be nil for a 404-everything
// default.
func checkedFixture(t *testing.T, logoHandler, searchHandler http.HandlerFunc) (*CheckedLookup, *store.Store) {
	t.Helper()
	if logoHandler == nil {
		logoHandler = func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) }
	}
	if searchHandler == nil {
		searchHandler = func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) }
	}
	logoSrv := httptest.NewServer(logoHandler)
	searchSrv := httptest.NewServer(searchHandler)
	t.Cleanup(logoSrv.Close)
	t.Cleanup(searchSrv.Close)

	cfg := &Config{
		LogoKey:         "logo-key",
		BrandKey:        "brand-key",
		LogoAPITemplate: logoSrv.URL + "/logo/{domain}",
		APIBase:         searchSrv.URL,
	}
	cfg.defaults()

	st := testStore(t)
	return NewCheckedLookup(cfg, st, slog.Default()), st
}

func TestLookupLogoDomainEndpointMatch(t *testing.T) {
	logo := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"domain":"acme.com","icon":"https://cdn.example/acme.com/logo.png"}`))
	}
	search := func(w http.ResponseWriter, _ *http.Request) {
		t.Error("search must not run when the logo endpoint matches")
	}
	l, st := checkedFixture(t, logo, search)

	res, err := l.LookupLogo(context.Background(), "acme.com", "")
	if err != nil {
		t.Fatalf("LookupLogo: %v", err)
	}
	if res.Source != SourceDomainLogo {
		t.Errorf("Source = %q, want %q", res.Source, SourceDomainLogo)
	}
	if res.CallsThisMonth != 0 {
		t.Errorf("unmetered path must not report spent calls: %d", res.CallsThisMonth)
	}

	count, err := st.Count(context.Background(), store.MonthKey(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("unmetered path incremented the counter to %d", count)
	}
}

func TestLookupLogoSearchIncrementsCounter(t *testing.T) {
	search := func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"name":"Acme","domain":"acme.com","icon":"https://cdn.example/a.png"}]`))
	}
	l, st := checkedFixture(t, nil, search)

	res, err := l.LookupLogo(context.Background(), "acme.com", "")
	if err != nil {
		t.Fatalf("LookupLogo: %v", err)
	}
	if res.Source != SourceCheckedSearch {
		t.Errorf("Source = %q, want %q", res.Source, SourceCheckedSearch)
	}
	if res.CallsThisMonth != 1 {
		t.Errorf("CallsThisMonth = %d, want 1", res.CallsThisMonth)
	}

	count, _ := st.Count(context.Background(), store.MonthKey(time.Now()))
	if count != 1 {
		t.Errorf("counter = %d, want 1", count)
	}
}

func TestLookupLogoQuotaGate(t *testing.T) {
	search := func(w http.ResponseWriter, _ *http.Request) {
		t.Error("search must not run once the quota is spent")
	}
	l, st := checkedFixture(t, nil, search)
	month := store.MonthKey(time.Now())
	if _, err := st.Increment(context.Background(), month, l.cfg.MonthLimit); err != nil {
		t.Fatal(err)
	}

	_, err := l.LookupLogo(context.Background(), "acme.com", "")
	var quota *QuotaExceededError
	if !errors.As(err, &quota) {
		t.Fatalf("got %v, want *QuotaExceededError", err)
	}
	if quota.Count != l.cfg.MonthLimit {
		t.Errorf("Count = %d, want %d", quota.Count, l.cfg.MonthLimit)
	}

	// The rejection itself is free.
	count, _ := st.Count(context.Background(), month)
	if count != l.cfg.MonthLimit {
		t.Errorf("counter moved to %d", count)
	}
}

func TestLookupLogoSearchNetworkFailureNotCharged(t *testing.T) {
	l, st := checkedFixture(t, nil, nil)
	// Point the search base at a closed port after fixture setup.
	l.cfg.APIBase = "http://127.0.0.1:1"

	_, err := l.LookupLogo(context.Background(), "acme.com", "")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("got %v, want *NetworkError", err)
	}

	count, _ := st.Count(context.Background(), store.MonthKey(time.Now()))
	if count != 0 {
		t.Errorf("failed request charged the counter: %d", count)
	}
}

func TestLookupLogoEmptySearchStillCharged(t *testing.T) {
	search := func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}
	l, st := checkedFixture(t, nil, search)

	_, err := l.LookupLogo(context.Background(), "acme.com", "")
	var noLogo *NoLogoError
	if !errors.As(err, &noLogo) {
		t.Fatalf("got %v, want *NoLogoError", err)
	}
	if noLogo.Count != 1 {
		t.Errorf("Count = %d, want 1", noLogo.Count)
	}

	count, _ := st.Count(context.Background(), store.MonthKey(time.Now()))
	if count != 1 {
		t.Errorf("completed empty search must be charged, counter = %d", count)
	}
}

func TestLookupLogoWarningNearLimit(t *testing.T) {
	search := func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"name":"X","domain":"x.com","icon":"https://cdn.example/x.png"}]`))
	}
	l, st := checkedFixture(t, nil, search)
	month := store.MonthKey(time.Now())
	if _, err := st.Increment(context.Background(), month, l.cfg.WarnThreshold); err != nil {
		t.Fatal(err)
	}

	res, err := l.LookupLogo(context.Background(), "x.com", "")
	if err != nil {
		t.Fatalf("LookupLogo: %v", err)
	}
	if res.Warning == "" {
		t.Error("expected a warning at the threshold")
	}
}

func TestLookupLogoMissingLogoKey(t *testing.T) {
	l, _ := checkedFixture(t, nil, nil)
	l.cfg.LogoKey = ""

	_, err := l.LookupLogo(context.Background(), "acme.com", "")
	var auth *AuthError
	if !errors.As(err, &auth) {
		t.Fatalf("got %v, want *AuthError", err)
	}
	if auth.Tier != "logo" {
		t.Errorf("Tier = %q, want logo", auth.Tier)
	}
}

func TestLookupLogoRejectsBadDomain(t *testing.T) {
	l, _ := checkedFixture(t, nil, nil)
	_, err := l.LookupLogo(context.Background(), "not a domain", "")
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want *InvalidInputError", err)
	}
}

func TestStatus(t *testing.T) {
	l, st := checkedFixture(t, nil, nil)
	month := store.MonthKey(time.Now())
	if _, err := st.Increment(context.Background(), month, 95); err != nil {
		t.Fatal(err)
	}

	status, err := l.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Month != month {
		t.Errorf("Month = %q, want %q", status.Month, month)
	}
	if status.Count != 95 || status.Remaining != 5 {
		t.Errorf("Count = %d Remaining = %d", status.Count, status.Remaining)
	}
	if !status.ApproachingLimit {
		t.Error("95/100 should flag ApproachingLimit")
	}
}

func TestStatusRemainingNeverNegative(t *testing.T) {
	l, st := checkedFixture(t, nil, nil)
	if _, err := st.Increment(context.Background(), store.MonthKey(time.Now()), l.cfg.MonthLimit+7); err != nil {
		t.Fatal(err)
	}

	status, err := l.Status(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if status.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", status.Remaining)
	}
}
