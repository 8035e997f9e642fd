package brand

// Source tags how a logo URL was obtained.
type Source string

const (
	// Resolver chain sources.
	SourceCDNDomain   Source = "cdn_domain"
	SourceHeuristic   Source = "heuristic_guess"
	SourceBrandSearch Source = "brand_search"
	SourceNone        Source = "none"

	// Checked orchestrator sources.
	SourceDomainLogo    Source = "domain-logo"
	SourceCheckedSearch Source = "brand-search"

	// Full-record selection fallback used by get_brand_logo.
	SourceRecordFallback Source = "brand_api_fallback"
)

// BrandRecord is the vendor's full brand payload for a domain. Fetched
// fresh per call, never persisted.
type BrandRecord struct {
	Name         string       `json:"name"`
	Domain       string       `json:"domain"`
	Description  string       `json:"description,omitempty"`
	Claimed      bool         `json:"claimed"`
	QualityScore float64      `json:"qualityScore,omitempty"`
	Company      *CompanyInfo `json:"company,omitempty"`
	Logos        []LogoAsset  `json:"logos,omitempty"`
	Colors       []ColorEntry `json:"colors,omitempty"`
	Fonts        []FontEntry  `json:"fonts,omitempty"`
	Links        []LinkEntry  `json:"links,omitempty"`
}

// CompanyInfo carries optional company metadata on a brand record.
type CompanyInfo struct {
	Employees   int       `json:"employees,omitempty"`
	FoundedYear int       `json:"foundedYear,omitempty"`
	Location    *Location `json:"location,omitempty"`
}

type Location struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// LogoAsset is one logo entry with its format variants.
type LogoAsset struct {
	Type    string       `json:"type"`  // logo, icon, symbol
	Theme   string       `json:"theme"` // light, dark
	Formats []LogoFormat `json:"formats,omitempty"`
}

// LogoFormat is a single downloadable variant of a logo.
type LogoFormat struct {
	Src        string `json:"src"`
	Format     string `json:"format"`
	Size       int    `json:"size,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Background string `json:"background,omitempty"`
}

// ColorEntry is one palette color.
type ColorEntry struct {
	Hex        string `json:"hex"`
	Type       string `json:"type,omitempty"` // brand, accent, primary, secondary, dark, light
	Brightness int    `json:"brightness,omitempty"`
}

// FontEntry is one typography entry.
type FontEntry struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"` // title, body
	Origin string `json:"origin,omitempty"`
}

// LinkEntry is a social or web link on a brand record.
type LinkEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SearchHit is one result from the vendor's search endpoint.
type SearchHit struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Claimed     bool   `json:"claimed"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// LookupOutcome is the resolver's result: a logo URL (empty when nothing
// resolved) and the strategy that produced it.
type LookupOutcome struct {
	URL    string `json:"url,omitempty"`
	Source Source `json:"source"`
}

// CheckedResult is the quota-checked orchestrator's success payload.
type CheckedResult struct {
	LogoURL        string `json:"logo_url"`
	Source         Source `json:"source"`
	Reason         string `json:"reason"`
	CallsThisMonth int    `json:"brand_api_calls_this_month"`
	Warning        string `json:"warning,omitempty"`
}

// UsageStatus reports the monthly quota position of the limited
// brand-search endpoint.
type UsageStatus struct {
	Month            string `json:"month"`
	Count            int    `json:"brand_api_calls_this_month"`
	Limit            int    `json:"limit"`
	Remaining        int    `json:"remaining"`
	WarnThreshold    int    `json:"warning_threshold"`
	ApproachingLimit bool   `json:"approaching_limit"`
}

// LogoSelection is the get_brand_logo response: the chosen asset plus
// provenance and any substitution note.
type LogoSelection struct {
	URL            string      `json:"url"`
	Format         string      `json:"format"`
	Theme          string      `json:"theme"`
	Type           string      `json:"type"`
	Metadata       *LogoFormat `json:"metadata,omitempty"`
	Source         Source      `json:"source"`
	Reason         string      `json:"reason,omitempty"`
	Note           string      `json:"note,omitempty"`
	CallsThisMonth int         `json:"brand_api_calls_this_month,omitempty"`
	Warning        string      `json:"warning,omitempty"`
}
