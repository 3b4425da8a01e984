package biz

import (
	"context"
	"time"
)

// Movie is a movie record as the metadata service returns it. Detail-only
// fields are zero on list results.
type Movie struct {
	ID                  int64
	Title               string
	OriginalTitle       string
	Overview            string
	ReleaseDate         string
	PosterPath          string
	BackdropPath        string
	VoteAverage         float64
	VoteCount           int
	Popularity          float64
	OriginalLanguage    string
	Adult               bool
	ProductionCountries []Country

	Tagline             string
	Runtime             int
	Budget              int64
	Revenue             int64
	Homepage            string
	IMDbID              string
	Status              string
	Genres              []*Genre
	ProductionCompanies []Company
	SpokenLanguages     []SpokenLanguage
}

type Country struct {
	Code string
	Name string
}

type Company struct {
	ID            int64
	Name          string
	LogoPath      string
	OriginCountry string
}

type SpokenLanguage struct {
	EnglishName string
	Code        string
	Name        string
}

type Genre struct {
	ID   int64
	Name string
}

// MoviePage is one upstream result page.
type MoviePage struct {
	Page         int
	TotalPages   int
	TotalResults int
	Results      []*Movie
}

// Platform is an OTT or booking destination for a movie.
type Platform struct {
	Name  string
	URL   string
	Color string
}

// SearchResult is the normalized movie shape shared by every listing.
type SearchResult struct {
	ID               int64
	Title            string
	OriginalTitle    string
	Overview         string
	ReleaseDate      *string
	PosterPath       *string
	BackdropPath     *string
	VoteAverage      float64
	VoteCount        int
	Popularity       float64
	OriginalLanguage string
	Adult            bool
	Theater          TheaterStatus
	OTTPlatforms     []Platform
	BookingPlatforms []Platform
}

// MovieDetail is the normalized shape of a single movie lookup.
type MovieDetail struct {
	SearchResult
	Tagline             *string
	Runtime             *int
	Budget              int64
	Revenue             int64
	Homepage            *string
	IMDbID              *string
	Status              string
	Genres              []*Genre
	ProductionCompanies []Company
	ProductionCountries []Country
	SpokenLanguages     []SpokenLanguage
}

// MovieList is a re-paginated listing.
type MovieList struct {
	Results      []*SearchResult
	TotalPages   int
	TotalResults int
	Page         int
}

type SearchQuery struct {
	Query        string
	Page         int
	IncludeAdult bool
	Year         int
}

type DiscoverQuery struct {
	Page           int
	Year           int
	MinVoteAverage *float64
	// Accepted for API compatibility; not applied.
	WithGenres string
	SortBy     string
}

type CastMember struct {
	ID                 int64
	Name               string
	Character          string
	CreditID           string
	Order              int
	Adult              bool
	Gender             *int
	KnownForDepartment string
	OriginalName       string
	Popularity         float64
	ProfilePath        string
}

type CrewMember struct {
	ID                 int64
	Name               string
	Job                string
	Department         string
	CreditID           string
	Adult              bool
	Gender             *int
	KnownForDepartment string
	OriginalName       string
	Popularity         float64
	ProfilePath        string
}

type Credits struct {
	Cast []*CastMember
	Crew []*CrewMember
}

type Video struct {
	ID          string
	Key         string
	Name        string
	Site        string
	Size        int
	Type        string
	Official    bool
	PublishedAt string
}

// VideoSet splits a movie's videos into trailers and everything else.
type VideoSet struct {
	Trailers    []*PlayableVideo
	OtherVideos []*PlayableVideo
	TotalCount  int
}

type PlayableVideo struct {
	*Video
	URL *string
}

// Review domain model
type Review struct {
	ID           string
	MovieID      int64
	UserName     string
	Rating       float64
	ReviewText   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	HelpfulCount int
	Language     string
}

// ReviewInput is a review submission before validation.
type ReviewInput struct {
	UserName   string   `validate:"required,max=50"`
	Rating     *float64 `validate:"required,gte=0,lte=10"`
	ReviewText string   `validate:"min=10,max=1000"`
	Language   string
}

// ReviewStatistics aggregates every review of one movie.
type ReviewStatistics struct {
	AverageRating float64
	TotalReviews  int64
	Distribution  []RatingBucket
}

// RatingBucket counts ratings in [Min, Max), or [Min, Max] for the last bucket.
type RatingBucket struct {
	Label string
	Min   float64
	Max   float64
	Count int64
}

// ReviewPage is one page of a movie's reviews.
type ReviewPage struct {
	Reviews      []*Review
	TotalReviews int64
	Page         int
	TotalPages   int
	Statistics   *ReviewStatistics
}

// MovieRank is one entry of the review rankings.
type MovieRank struct {
	MovieID int64
	Score   float64
}

// ReviewFilter narrows ListByMovie.
type ReviewFilter struct {
	MovieID  int64
	Language string
	Offset   int
	Limit    int
}

// MetadataClient defines the interface for the upstream movie metadata API.
type MetadataClient interface {
	PopularMovies(ctx context.Context, page int) (*MoviePage, error)
	TopRatedMovies(ctx context.Context, page int) (*MoviePage, error)
	NowPlayingMovies(ctx context.Context, page int, region string) (*MoviePage, error)
	SearchMovies(ctx context.Context, q *SearchQuery) (*MoviePage, error)
	MovieDetails(ctx context.Context, id int64) (*Movie, error)
	MovieCredits(ctx context.Context, id int64) (*Credits, error)
	MovieVideos(ctx context.Context, id int64) ([]*Video, error)
	Genres(ctx context.Context) ([]*Genre, error)
	Configured() bool
}

// ReviewRepo defines the repository interface for reviews
type ReviewRepo interface {
	CreateReview(ctx context.Context, review *Review) error
	ReviewExists(ctx context.Context, movieID int64, userName string) (bool, error)
	ListByMovie(ctx context.Context, filter *ReviewFilter) ([]*Review, int64, error)
	// MovieRatings returns every rating submitted for a movie.
	MovieRatings(ctx context.Context, movieID int64) ([]float64, error)
	ListLatest(ctx context.Context, limit int) ([]*Review, error)
	TopMovies(ctx context.Context, by RankBy, limit int) ([]*MovieRank, error)
}
