package service

import (
	"time"

	"cinelove/internal/biz"
)

// Request shapes. Query and path values bind through the json tag names.

type ListMoviesRequest struct {
	Language string `json:"language"`
	Page     int    `json:"page"`
	Region   string `json:"region"`
}

type SearchMoviesRequest struct {
	Query        string `json:"query"`
	Language     string `json:"language"`
	Page         int    `json:"page"`
	Year         int    `json:"year"`
	IncludeAdult bool   `json:"include_adult"`
}

type DiscoverRequest struct {
	Language       string   `json:"language"`
	SortBy         string   `json:"sort_by"`
	WithGenres     string   `json:"with_genres"`
	Year           int      `json:"year"`
	VoteAverageGte *float64 `json:"vote_average_gte"`
	Page           int      `json:"page"`
}

type GetMovieRequest struct {
	MovieID  int64  `json:"movie_id"`
	Language string `json:"language"`
}

type GenreMoviesRequest struct {
	GenreID int64 `json:"genre_id"`
	Page    int   `json:"page"`
}

type CreateReviewRequest struct {
	MovieID    int64    `json:"movie_id"`
	UserName   string   `json:"user_name"`
	Rating     *float64 `json:"rating"`
	ReviewText string   `json:"review_text"`
	Language   string   `json:"language"`
}

type ListReviewsRequest struct {
	MovieID  int64  `json:"movie_id"`
	Page     int    `json:"page"`
	Language string `json:"language"`
}

type LatestReviewsRequest struct {
	Limit int `json:"limit"`
}

type TopMoviesRequest struct {
	By    string `json:"by"`
	Limit int    `json:"limit"`
}

type EmptyRequest struct{}

// Reply shapes.

type PlatformReply struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Color string `json:"color"`
}

type MovieItem struct {
	ID                    int64           `json:"id"`
	Title                 string          `json:"title"`
	OriginalTitle         string          `json:"original_title"`
	Overview              string          `json:"overview"`
	ReleaseDate           *string         `json:"release_date"`
	PosterPath            *string         `json:"poster_path"`
	BackdropPath          *string         `json:"backdrop_path"`
	VoteAverage           float64         `json:"vote_average"`
	VoteCount             int             `json:"vote_count"`
	Popularity            float64         `json:"popularity"`
	OriginalLanguage      string          `json:"original_language"`
	Adult                 bool            `json:"adult"`
	IsCurrentlyInTheaters bool            `json:"is_currently_in_theaters"`
	TheaterStatus         string          `json:"theater_status"`
	OTTPlatforms          []PlatformReply `json:"ott_platforms"`
	BookingPlatforms      []PlatformReply `json:"booking_platforms"`
}

type MovieListReply struct {
	Results      []*MovieItem `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
	Page         int          `json:"page"`
}

type GenreReply struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GenreItem is an entry of the genre list. Counts are not computed.
type GenreItem struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	MovieCount int    `json:"movie_count"`
}

type CompanyReply struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	LogoPath      *string `json:"logo_path"`
	OriginCountry string  `json:"origin_country"`
}

type CountryReply struct {
	Code string `json:"iso_3166_1"`
	Name string `json:"name"`
}

type SpokenLanguageReply struct {
	EnglishName string `json:"english_name"`
	Code        string `json:"iso_639_1"`
	Name        string `json:"name"`
}

type MovieDetailReply struct {
	MovieItem
	Tagline             *string               `json:"tagline"`
	Runtime             *int                  `json:"runtime"`
	Budget              int64                 `json:"budget"`
	Revenue             int64                 `json:"revenue"`
	Homepage            *string               `json:"homepage"`
	IMDbID              *string               `json:"imdb_id"`
	Status              string                `json:"status"`
	Genres              []*GenreReply         `json:"genres"`
	ProductionCompanies []CompanyReply        `json:"production_companies"`
	ProductionCountries []CountryReply        `json:"production_countries"`
	SpokenLanguages     []SpokenLanguageReply `json:"spoken_languages"`
}

type CastReply struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Character          *string `json:"character"`
	CreditID           string  `json:"credit_id"`
	Order              int     `json:"order"`
	Adult              bool    `json:"adult"`
	Gender             *int    `json:"gender"`
	KnownForDepartment string  `json:"known_for_department"`
	OriginalName       string  `json:"original_name"`
	Popularity         float64 `json:"popularity"`
	ProfilePath        *string `json:"profile_path"`
}

type CrewReply struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Job                string  `json:"job"`
	Department         string  `json:"department"`
	CreditID           string  `json:"credit_id"`
	Adult              bool    `json:"adult"`
	Gender             *int    `json:"gender"`
	KnownForDepartment string  `json:"known_for_department"`
	OriginalName       string  `json:"original_name"`
	Popularity         float64 `json:"popularity"`
	ProfilePath        *string `json:"profile_path"`
}

type CreditsReply struct {
	Cast []*CastReply `json:"cast"`
	Crew []*CrewReply `json:"crew"`
}

type VideoReply struct {
	ID          string  `json:"id"`
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Site        string  `json:"site"`
	Size        int     `json:"size"`
	Type        string  `json:"type"`
	Official    bool    `json:"official"`
	PublishedAt *string `json:"published_at"`
	URL         *string `json:"url"`
}

type VideosReply struct {
	Trailers    []*VideoReply `json:"trailers"`
	OtherVideos []*VideoReply `json:"other_videos"`
	TotalCount  int           `json:"total_count"`
}

type ReviewReply struct {
	ID           string    `json:"id"`
	MovieID      int64     `json:"movie_id"`
	UserName     string    `json:"user_name"`
	Rating       float64   `json:"rating"`
	ReviewText   string    `json:"review_text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	HelpfulCount int       `json:"helpful_count"`
	Language     string    `json:"language"`
}

// CreateReviewReply is a newly stored review.
type CreateReviewReply struct {
	ReviewReply
}

// HTTPStatus marks the reply as a created resource.
func (*CreateReviewReply) HTTPStatus() int {
	return 201
}

type ReviewStatisticsReply struct {
	AverageRating      float64          `json:"average_rating"`
	TotalReviews       int64            `json:"total_reviews"`
	RatingDistribution map[string]int64 `json:"rating_distribution"`
}

type ListReviewsReply struct {
	Reviews      []*ReviewReply         `json:"reviews"`
	TotalReviews int64                  `json:"total_reviews"`
	Page         int                    `json:"page"`
	TotalPages   int                    `json:"total_pages"`
	Statistics   *ReviewStatisticsReply `json:"statistics"`
}

type LatestReviewsReply struct {
	Reviews []*ReviewReply `json:"reviews"`
}

type MovieRankReply struct {
	MovieID int64   `json:"movie_id"`
	Score   float64 `json:"score"`
}

type TopMoviesReply struct {
	By     string            `json:"by"`
	Movies []*MovieRankReply `json:"movies"`
}

type RootReply struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

type HealthReply struct {
	Status         string `json:"status"`
	Service        string `json:"service"`
	TMDBConfigured bool   `json:"tmdb_configured"`
}

type LanguageReply struct {
	Key      string `json:"key"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	TMDBCode string `json:"tmdb_code"`
}

type LanguagesReply struct {
	SupportedLanguages []LanguageReply `json:"supported_languages"`
}

func platformsToReply(ps []biz.Platform) []PlatformReply {
	out := make([]PlatformReply, 0, len(ps))
	for _, p := range ps {
		out = append(out, PlatformReply{Name: p.Name, URL: p.URL, Color: p.Color})
	}
	return out
}

func movieItem(r *biz.SearchResult) *MovieItem {
	return &MovieItem{
		ID:                    r.ID,
		Title:                 r.Title,
		OriginalTitle:         r.OriginalTitle,
		Overview:              r.Overview,
		ReleaseDate:           r.ReleaseDate,
		PosterPath:            r.PosterPath,
		BackdropPath:          r.BackdropPath,
		VoteAverage:           r.VoteAverage,
		VoteCount:             r.VoteCount,
		Popularity:            r.Popularity,
		OriginalLanguage:      r.OriginalLanguage,
		Adult:                 r.Adult,
		IsCurrentlyInTheaters: r.Theater.InTheaters(),
		TheaterStatus:         r.Theater.String(),
		OTTPlatforms:          platformsToReply(r.OTTPlatforms),
		BookingPlatforms:      platformsToReply(r.BookingPlatforms),
	}
}

func movieListReply(l *biz.MovieList) *MovieListReply {
	reply := &MovieListReply{
		Results:      make([]*MovieItem, 0, len(l.Results)),
		TotalPages:   l.TotalPages,
		TotalResults: l.TotalResults,
		Page:         l.Page,
	}
	for _, r := range l.Results {
		reply.Results = append(reply.Results, movieItem(r))
	}
	return reply
}

func reviewReply(r *biz.Review) *ReviewReply {
	return &ReviewReply{
		ID:           r.ID,
		MovieID:      r.MovieID,
		UserName:     r.UserName,
		Rating:       r.Rating,
		ReviewText:   r.ReviewText,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		HelpfulCount: r.HelpfulCount,
		Language:     r.Language,
	}
}

func reviewsReply(rs []*biz.Review) []*ReviewReply {
	out := make([]*ReviewReply, 0, len(rs))
	for _, r := range rs {
		out = append(out, reviewReply(r))
	}
	return out
}

// nullable maps an empty upstream string to JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
