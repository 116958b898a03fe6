package domain

import "strings"

// Language selects which side of the bilingual location record to render.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

const (
	notAvailableEnglish = "N/A"
	notAvailableArabic  = "غير متوفر"
)

// FormatAddress renders a location as a comma-separated string of its
// non-empty parts, most specific first: village, city, area, country.
// Absent or fully empty locations render the language's "not available"
// token.
func FormatAddress(loc *Location, lang Language) string {
	if loc == nil {
		return notAvailable(lang)
	}

	var parts []string
	if lang == LanguageArabic {
		parts = []string{loc.VillageAr, loc.CityAr, loc.AreaAr, loc.CountryAr}
	} else {
		parts = []string{loc.Village, loc.City, loc.Area, loc.Country}
	}

	joined := joinParts(parts)
	if joined == "" {
		return notAvailable(lang)
	}
	return joined
}

// FormatTrip renders a trip row's endpoints as "From: X → To: Y".
func FormatTrip(from, to *Location, lang Language) string {
	return "From: " + FormatAddress(from, lang) + " → To: " + FormatAddress(to, lang)
}

func joinParts(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		// Collapse stray separators inside a part so the joined string never
		// carries leading or doubled commas.
		part = strings.Trim(strings.TrimSpace(part), ",")
		if part == "" {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, ", ")
}

func notAvailable(lang Language) string {
	if lang == LanguageArabic {
		return notAvailableArabic
	}
	return notAvailableEnglish
}
