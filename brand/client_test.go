package brand

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &Config{BrandKey: "test-key", APIBase: srv.URL}
	cfg.defaults()

	c, err := NewClient(cfg, nil, slog.Default())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresAKey(t *testing.T) {
	cfg := &Config{}
	cfg.defaults()
	if _, err := NewClient(cfg, nil, slog.Default()); err == nil {
		t.Fatal("expected error with no keys configured")
	}
}

func TestNewClientAcceptsLegacyKey(t *testing.T) {
	cfg := &Config{LegacyKey: "old-key"}
	cfg.defaults()
	c, err := NewClient(cfg, nil, slog.Default())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.brandKey != "old-key" {
		t.Errorf("brandKey = %q, want legacy key", c.brandKey)
	}
}

func TestGetBrandSuccess(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if !strings.HasSuffix(r.URL.Path, "/brands/github.com") {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"name":"GitHub","domain":"github.com","claimed":true}`))
	}))

	rec, err := c.GetBrand(context.Background(), "https://WWW.GitHub.com/")
	if err != nil {
		t.Fatalf("GetBrand: %v", err)
	}
	if rec.Name != "GitHub" || !rec.Claimed {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestGetBrandStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		check  func(error) bool
	}{
		{404, func(err error) bool { var e *NotFoundError; return errors.As(err, &e) }},
		{401, func(err error) bool { var e *AuthError; return errors.As(err, &e) }},
		{429, func(err error) bool { var e *RateLimitError; return errors.As(err, &e) }},
		{500, func(err error) bool { var e *APIError; return errors.As(err, &e) && e.Status == 500 }},
	}

	for _, tc := range cases {
		c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte("boom"))
		}))
		_, err := c.GetBrand(context.Background(), "example.com")
		if err == nil || !tc.check(err) {
			t.Errorf("status %d: got %v", tc.status, err)
		}
	}
}

func TestAPIErrorTruncatesBody(t *testing.T) {
	e := &APIError{Op: "brand", Status: 500, Body: strings.Repeat("x", 500)}
	msg := e.Error()
	if len(msg) > 250 {
		t.Errorf("error message too long: %d chars", len(msg))
	}
	if !strings.Contains(msg, "...") {
		t.Error("truncated body should end with ellipsis")
	}
}

func TestGetBrandUnparseableBody(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	_, err := c.GetBrand(context.Background(), "example.com")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %v, want *APIError", err)
	}
}

func TestSearchBrandsTruncatesClientSide(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[
			{"name":"A","domain":"a.com"},{"name":"B","domain":"b.com"},
			{"name":"C","domain":"c.com"},{"name":"D","domain":"d.com"}
		]`))
	}))

	hits, err := c.SearchBrands(context.Background(), "letter", 2)
	if err != nil {
		t.Fatalf("SearchBrands: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Name != "A" {
		t.Errorf("order not preserved: %+v", hits[0])
	}
}

func TestSearchBrandsRejectsEmptyQuery(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	}))
	_, err := c.SearchBrands(context.Background(), "   ", 5)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want *InvalidInputError", err)
	}
}

func TestGetBrandColorsDefaultsType(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"domain":"x.com","colors":[{"hex":"#112233"},{"hex":"#445566","type":"accent"}]}`))
	}))

	colors, err := c.GetBrandColors(context.Background(), "x.com")
	if err != nil {
		t.Fatalf("GetBrandColors: %v", err)
	}
	if colors[0].Type != "unknown" {
		t.Errorf("missing type should default to unknown, got %q", colors[0].Type)
	}
	if colors[1].Type != "accent" {
		t.Errorf("existing type clobbered: %q", colors[1].Type)
	}
}

func TestGetBrandColorsEmptyIsNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"domain":"x.com","colors":[]}`))
	}))
	_, err := c.GetBrandColors(context.Background(), "x.com")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want *NotFoundError", err)
	}
}

func testRecord() *BrandRecord {
	return &BrandRecord{
		Domain: "acme.com",
		Logos: []LogoAsset{
			{Type: "icon", Theme: "dark", Formats: []LogoFormat{
				{Src: "https://cdn/icon-dark.png", Format: "png"},
			}},
			{Type: "logo", Theme: "light", Formats: []LogoFormat{
				{Src: "https://cdn/logo-light.svg", Format: "svg", Width: 400, Height: 100},
			}},
		},
	}
}

func TestSelectLogoExactMatch(t *testing.T) {
	sel, err := selectLogo(testRecord(), "svg", "light", "logo")
	if err != nil {
		t.Fatalf("selectLogo: %v", err)
	}
	if sel.URL != "https://cdn/logo-light.svg" {
		t.Errorf("URL = %q", sel.URL)
	}
	if sel.Note != "" {
		t.Errorf("exact match should carry no note: %q", sel.Note)
	}
	if sel.Source != SourceRecordFallback {
		t.Errorf("Source = %q", sel.Source)
	}
}

func TestSelectLogoRelaxesThemeThenType(t *testing.T) {
	// Requested theme does not exist for icons; type-only match applies.
	sel, err := selectLogo(testRecord(), "png", "light", "icon")
	if err != nil {
		t.Fatalf("selectLogo: %v", err)
	}
	if sel.URL != "https://cdn/icon-dark.png" {
		t.Errorf("URL = %q", sel.URL)
	}
	if sel.Note == "" {
		t.Error("relaxed match should carry a substitution note")
	}

	// Requested type does not exist at all; any-logo fallback applies.
	sel, err = selectLogo(testRecord(), "png", "light", "symbol")
	if err != nil {
		t.Fatalf("selectLogo: %v", err)
	}
	if sel.URL == "" || sel.Note == "" {
		t.Errorf("fallback selection incomplete: %+v", sel)
	}
}

func TestSelectLogoFormatFallback(t *testing.T) {
	// Requested format absent everywhere; first available format wins and
	// the note reports the substitution.
	rec := &BrandRecord{
		Domain: "acme.com",
		Logos: []LogoAsset{
			{Type: "logo", Theme: "light", Formats: []LogoFormat{
				{Src: "https://cdn/logo.webp", Format: "webp"},
			}},
		},
	}
	sel, err := selectLogo(rec, "svg", "light", "logo")
	if err != nil {
		t.Fatalf("selectLogo: %v", err)
	}
	if sel.Format != "webp" {
		t.Errorf("Format = %q, want webp", sel.Format)
	}
	if sel.Note == "" {
		t.Error("format substitution should carry a note")
	}
}

func TestSelectLogoNoAssets(t *testing.T) {
	_, err := selectLogo(&BrandRecord{Domain: "x.com"}, "svg", "light", "logo")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want *NotFoundError", err)
	}
}
