package biz

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	isoDate = "2006-01-02"

	theaterRunDays     = 120
	theaterPreviewDays = 30
	maxOTTPlatforms    = 3
)

// IndianLanguageCodes are the ISO 639 codes treated as Indian cinema.
var IndianLanguageCodes = []string{
	"hi", "ta", "te", "ml", "kn", "bn", "mr", "gu", "pa", "as", "or", "ur",
	"ne", "si", "my", "bh", "ks", "sd", "sa", "mai", "sat", "kok", "brx", "mni",
}

// IndianKeywords mark Indian cinema in a title.
var IndianKeywords = []string{
	"bollywood", "tollywood", "kollywood", "mollywood", "sandalwood", "bengali",
	"punjabi", "marathi", "gujarati", "tamil", "telugu", "malayalam", "kannada", "hindi",
}

// searchLanguages is the narrower allowlist applied to search results.
var searchLanguages = []string{"hi", "ta", "te", "ml", "kn", "bn", "mr", "gu", "pa", "or"}

// TheaterStatus tells how a movie's theatrical availability was decided.
type TheaterStatus int

const (
	NotInTheaters TheaterStatus = iota
	// InTheaters is confirmed by the release-date window.
	InTheaters
	// ForcedInTheaters is set by the now-playing fallback regardless of the window.
	ForcedInTheaters
)

func (s TheaterStatus) InTheaters() bool {
	return s == InTheaters || s == ForcedInTheaters
}

func (s TheaterStatus) String() string {
	switch s {
	case InTheaters:
		return "confirmed"
	case ForcedInTheaters:
		return "forced_fallback"
	default:
		return "none"
	}
}

// ReleaseYear parses the year prefix of the release date.
func (m *Movie) ReleaseYear() (int, bool) {
	if m.ReleaseDate == "" {
		return 0, false
	}
	y, err := strconv.Atoi(strings.SplitN(m.ReleaseDate, "-", 2)[0])
	if err != nil {
		return 0, false
	}
	return y, true
}

// IsGoodMovie is the quality gate applied before listing a movie. It accepts
// every movie: the signals below admit a movie early, and the remainder is
// admitted as well.
func IsGoodMovie(m *Movie, now time.Time) bool {
	if m == nil {
		return false
	}
	if m.VoteAverage >= 5.0 || m.VoteCount >= 100 || m.Popularity >= 10.0 {
		return true
	}
	if y, ok := m.ReleaseYear(); ok && y >= now.Year()-2 {
		return true
	}
	return true
}

// daysSinceRelease is floor((now - release) / 24h), negative before release.
func daysSinceRelease(m *Movie, now time.Time) (int, bool) {
	if m.ReleaseDate == "" {
		return 0, false
	}
	release, err := time.Parse(isoDate, m.ReleaseDate)
	if err != nil {
		return 0, false
	}
	days := now.Sub(release).Hours() / 24
	return int(math.Floor(days)), true
}

// IsCurrentlyInTheaters reports whether the movie was released within the
// last 120 days or releases within the next 30.
func IsCurrentlyInTheaters(m *Movie, now time.Time) bool {
	d, ok := daysSinceRelease(m, now)
	if !ok {
		return false
	}
	if d >= 0 && d <= theaterRunDays {
		return true
	}
	return d < 0 && d >= -theaterPreviewDays
}

// TheaterStatusOf classifies a movie by its release window.
func TheaterStatusOf(m *Movie, now time.Time) TheaterStatus {
	if IsCurrentlyInTheaters(m, now) {
		return InTheaters
	}
	return NotInTheaters
}

// OTTPlatforms lists up to three streaming platforms likely to carry a movie
// that has left theaters.
func OTTPlatforms(m *Movie, now time.Time) []Platform {
	if IsCurrentlyInTheaters(m, now) {
		return nil
	}

	currentYear := now.Year()
	year := currentYear
	if m.ReleaseDate != "" {
		y, ok := m.ReleaseYear()
		if !ok {
			return nil
		}
		year = y
	}
	oldEnough := year < currentYear || (year == currentYear && m.ReleaseDate < now.UTC().Format(isoDate))
	if !oldEnough || m.VoteAverage < 5.5 {
		return nil
	}

	title := strings.ReplaceAll(m.Title, " ", "%20")
	lang := m.OriginalLanguage

	var platforms []Platform
	if m.VoteAverage >= 7.0 && year >= 2015 {
		platforms = append(platforms,
			Platform{Name: "Netflix", URL: "https://www.netflix.com/search?q=" + title, Color: "#E50914"},
			Platform{Name: "Amazon Prime", URL: "https://www.primevideo.com/search?phrase=" + title, Color: "#00A8E1"},
		)
	}
	if slices.Contains([]string{"hi", "mr"}, lang) && year >= 2010 {
		platforms = append(platforms, Platform{Name: "ZEE5", URL: "https://www.zee5.com/search?q=" + title, Color: "#6C2C91"})
	}
	if slices.Contains([]string{"ta", "te", "ml", "kn"}, lang) && year >= 2012 {
		platforms = append(platforms, Platform{Name: "SonyLIV", URL: "https://www.sonyliv.com/search?q=" + title, Color: "#0078D4"})
	}
	if m.VoteAverage >= 6.5 && slices.Contains([]string{"hi", "ta", "te", "ml", "kn"}, lang) {
		platforms = append(platforms, Platform{Name: "Disney+ Hotstar", URL: "https://www.hotstar.com/in/search?q=" + title, Color: "#0F1419"})
	}

	seen := make(map[string]struct{}, len(platforms))
	unique := platforms[:0]
	for _, p := range platforms {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		unique = append(unique, p)
	}
	if len(unique) > maxOTTPlatforms {
		unique = unique[:maxOTTPlatforms]
	}
	return unique
}

// BookingPlatforms lists ticketing sites for a movie in theaters.
func BookingPlatforms(m *Movie, now time.Time) []Platform {
	if !IsCurrentlyInTheaters(m, now) {
		return nil
	}
	return bookingLinks(m.Title)
}

func bookingLinks(title string) []Platform {
	slug := strings.ToLower(strings.ReplaceAll(title, " ", "-"))
	q := strings.ReplaceAll(title, " ", "%20")
	return []Platform{
		{Name: "BookMyShow", URL: "https://in.bookmyshow.com/explore/movies-" + slug, Color: "#dc2626"},
		{Name: "Paytm", URL: "https://paytm.com/movies/search?q=" + q, Color: "#0ea5e9"},
		{Name: "PVR", URL: "https://www.pvrcinemas.com/movies/" + slug, Color: "#7c3aed"},
		{Name: "INOX", URL: "https://www.inox-movies.com/search?q=" + q, Color: "#059669"},
	}
}

// IsIndianMovie matches on language, production country or title keywords.
func IsIndianMovie(m *Movie) bool {
	if slices.Contains(IndianLanguageCodes, strings.ToLower(m.OriginalLanguage)) {
		return true
	}
	for _, c := range m.ProductionCountries {
		if strings.EqualFold(c.Code, "IN") {
			return true
		}
	}
	title := strings.ToLower(m.Title)
	original := strings.ToLower(m.OriginalTitle)
	for _, kw := range IndianKeywords {
		if strings.Contains(title, kw) || strings.Contains(original, kw) {
			return true
		}
	}
	return false
}

// IsSearchLanguage reports whether search results in this language are kept.
func IsSearchLanguage(code string) bool {
	return slices.Contains(searchLanguages, code)
}
