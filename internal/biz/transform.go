package biz

import (
	"strings"
	"time"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Transform maps an upstream movie onto the normalized listing shape.
func Transform(m *Movie, now time.Time) *SearchResult {
	title := m.Title
	if title == "" {
		title = m.OriginalTitle
	}
	return &SearchResult{
		ID:               m.ID,
		Title:            title,
		OriginalTitle:    m.OriginalTitle,
		Overview:         m.Overview,
		ReleaseDate:      optional(m.ReleaseDate),
		PosterPath:       optional(m.PosterPath),
		BackdropPath:     optional(m.BackdropPath),
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		Popularity:       m.Popularity,
		OriginalLanguage: m.OriginalLanguage,
		Adult:            m.Adult,
		Theater:          TheaterStatusOf(m, now),
		OTTPlatforms:     OTTPlatforms(m, now),
		BookingPlatforms: BookingPlatforms(m, now),
	}
}

// ForceInTheaters marks a result as playing regardless of its release date.
// OTT platforms are dropped so a record never carries both link kinds.
func ForceInTheaters(r *SearchResult, m *Movie) {
	r.Theater = ForcedInTheaters
	r.BookingPlatforms = bookingLinks(m.Title)
	r.OTTPlatforms = nil
}

// TransformDetail maps a full movie lookup.
func TransformDetail(m *Movie, now time.Time) *MovieDetail {
	d := &MovieDetail{
		SearchResult:        *Transform(m, now),
		Tagline:             optional(m.Tagline),
		Budget:              m.Budget,
		Revenue:             m.Revenue,
		Homepage:            optional(m.Homepage),
		IMDbID:              optional(m.IMDbID),
		Status:              m.Status,
		Genres:              m.Genres,
		ProductionCompanies: m.ProductionCompanies,
		ProductionCountries: m.ProductionCountries,
		SpokenLanguages:     m.SpokenLanguages,
	}
	if m.Runtime > 0 {
		rt := m.Runtime
		d.Runtime = &rt
	}
	return d
}

// SplitVideos attaches playback URLs and separates trailers.
func SplitVideos(videos []*Video) *VideoSet {
	set := &VideoSet{
		Trailers:    []*PlayableVideo{},
		OtherVideos: []*PlayableVideo{},
		TotalCount:  len(videos),
	}
	for _, v := range videos {
		pv := &PlayableVideo{Video: v}
		if strings.EqualFold(v.Site, "youtube") {
			u := "https://www.youtube.com/watch?v=" + v.Key
			pv.URL = &u
		}
		if strings.EqualFold(v.Type, "trailer") {
			set.Trailers = append(set.Trailers, pv)
		} else {
			set.OtherVideos = append(set.OtherVideos, pv)
		}
	}
	return set
}
