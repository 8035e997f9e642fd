package brand

import (
	"fmt"
	"strings"
)

// FormatBrandDetails renders a markdown summary of a full brand record.
// Long lists are truncated so the output stays readable in a chat pane.
func FormatBrandDetails(rec *BrandRecord) string {
	name := rec.Name
	if name == "" {
		name = "Unknown"
	}
	domain := rec.Domain
	if domain == "" {
		domain = "N/A"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)", name, domain)

	if rec.Description != "" {
		fmt.Fprintf(&b, "\n\n**Description:** %s", rec.Description)
	}

	if c := rec.Company; c != nil {
		b.WriteString("\n\n**Company Details:**")
		if c.Employees > 0 {
			fmt.Fprintf(&b, "\n  - Employees: %s", commaInt(c.Employees))
		}
		if c.FoundedYear > 0 {
			fmt.Fprintf(&b, "\n  - Founded: %d", c.FoundedYear)
		}
		if loc := c.Location; loc != nil && loc.City != "" && loc.Country != "" {
			fmt.Fprintf(&b, "\n  - Location: %s, %s", loc.City, loc.Country)
		}
	}

	if len(rec.Logos) > 0 {
		fmt.Fprintf(&b, "\n\n**Available Logos:** %d", len(rec.Logos))
		for _, logo := range firstN(rec.Logos, 3) {
			if len(logo.Formats) == 0 {
				continue
			}
			f := logo.Formats[0]
			fmt.Fprintf(&b, "\n  - %s (%s, %s): %s (%s bytes)",
				orDefault(logo.Type, "logo"), orDefault(logo.Theme, "light"),
				orDefault(f.Format, "unknown"), truncate(f.Src, 80), commaInt(f.Size))
		}
		if len(rec.Logos) > 3 {
			fmt.Fprintf(&b, "\n  - ... and %d more", len(rec.Logos)-3)
		}
	}

	if len(rec.Colors) > 0 {
		b.WriteString("\n\n**Brand Colors:**")
		for _, col := range firstN(rec.Colors, 5) {
			fmt.Fprintf(&b, "\n  - %s (%s, brightness: %d)",
				col.Hex, orDefault(col.Type, "unknown"), col.Brightness)
		}
		if len(rec.Colors) > 5 {
			fmt.Fprintf(&b, "\n  - ... and %d more", len(rec.Colors)-5)
		}
	}

	if len(rec.Fonts) > 0 {
		b.WriteString("\n\n**Typography:**")
		for _, font := range rec.Fonts {
			fmt.Fprintf(&b, "\n  - %s (%s, %s)",
				orDefault(font.Name, "Unknown"), orDefault(font.Type, "unknown"), orDefault(font.Origin, "unknown"))
		}
	}

	if len(rec.Links) > 0 {
		b.WriteString("\n\n**Social Media:**")
		for _, link := range firstN(rec.Links, 5) {
			fmt.Fprintf(&b, "\n  - %s: %s", orDefault(link.Name, "unknown"), link.URL)
		}
		if len(rec.Links) > 5 {
			fmt.Fprintf(&b, "\n  - ... and %d more", len(rec.Links)-5)
		}
	}

	if rec.Claimed {
		b.WriteString("\n\n**Brand Status:** ✓ Claimed")
	} else {
		b.WriteString("\n\n**Brand Status:** Unclaimed")
	}
	if rec.QualityScore > 0 {
		fmt.Fprintf(&b, "\n**Quality Score:** %.2f%%", rec.QualityScore*100)
	}

	return b.String()
}

// FormatSearchResults renders search hits as a numbered markdown list.
func FormatSearchResults(hits []SearchHit) string {
	if len(hits) == 0 {
		return "No brands found matching your search."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d brands:\n", len(hits))
	for i, hit := range hits {
		claimed := "Unclaimed"
		if hit.Claimed {
			claimed = "✓ Claimed"
		}
		fmt.Fprintf(&b, "\n%d. **%s** (%s) - %s",
			i+1, orDefault(hit.Name, "Unknown"), orDefault(hit.Domain, "N/A"), claimed)
		if hit.Description != "" {
			fmt.Fprintf(&b, "\n   %s", truncate(hit.Description, 100))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatLogo renders a selected logo with its variant details and any
// substitution note.
func FormatLogo(sel *LogoSelection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Logo URL:** %s", orDefault(sel.URL, "N/A"))
	fmt.Fprintf(&b, "\n**Format:** %s", orDefault(sel.Format, "N/A"))
	fmt.Fprintf(&b, "\n**Theme:** %s", orDefault(sel.Theme, "N/A"))
	fmt.Fprintf(&b, "\n**Type:** %s", orDefault(sel.Type, "N/A"))

	if m := sel.Metadata; m != nil {
		b.WriteString("\n\n**Details:**")
		if m.Size > 0 {
			fmt.Fprintf(&b, "\n  - Size: %s bytes", commaInt(m.Size))
		}
		if m.Width > 0 && m.Height > 0 {
			fmt.Fprintf(&b, "\n  - Dimensions: %dx%dpx", m.Width, m.Height)
		}
		if m.Background != "" {
			fmt.Fprintf(&b, "\n  - Background: %s", m.Background)
		}
	}

	if sel.Note != "" {
		fmt.Fprintf(&b, "\n\n*Note: %s*", sel.Note)
	}
	if sel.Warning != "" {
		fmt.Fprintf(&b, "\n\n**Warning:** %s", sel.Warning)
	}
	return b.String()
}

// FormatColors renders a palette grouped by color role.
func FormatColors(colors []ColorEntry) string {
	if len(colors) == 0 {
		return "No colors found for this brand."
	}

	byType := make(map[string][]ColorEntry)
	for _, col := range colors {
		t := orDefault(col.Type, "unknown")
		byType[t] = append(byType[t], col)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Brand Color Palette:** %d colors\n", len(colors))
	for _, t := range []string{"brand", "accent", "primary", "secondary", "dark", "light", "unknown"} {
		group, ok := byType[t]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n**%s Colors:**", titleCase(t))
		for _, col := range group {
			fmt.Fprintf(&b, "\n  • %s (brightness: %d)", orDefault(col.Hex, "#000000"), col.Brightness)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatLookup renders a checked lookup result with its provenance.
func FormatLookup(res *CheckedResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Logo URL:** %s", res.LogoURL)
	fmt.Fprintf(&b, "\n**Source:** %s", res.Source)
	fmt.Fprintf(&b, "\n**Reason:** %s", res.Reason)
	if res.Warning != "" {
		fmt.Fprintf(&b, "\n**Warning:** %s", res.Warning)
	}
	fmt.Fprintf(&b, "\n**Brand API calls this month:** %d", res.CallsThisMonth)
	return b.String()
}

// FormatStatus renders the monthly quota position.
func FormatStatus(st *UsageStatus) string {
	var b strings.Builder
	b.WriteString("**Brand API Usage**")
	fmt.Fprintf(&b, "\n  - Month: %s", st.Month)
	fmt.Fprintf(&b, "\n  - Calls used: %d of %d", st.Count, st.Limit)
	fmt.Fprintf(&b, "\n  - Remaining: %d", st.Remaining)
	if st.ApproachingLimit {
		fmt.Fprintf(&b, "\n  - ⚠️ Approaching monthly limit (warning threshold: %d)", st.WarnThreshold)
	}
	return b.String()
}

func firstN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// commaInt formats n with thousands separators.
func commaInt(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
