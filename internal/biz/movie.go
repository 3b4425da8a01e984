package biz

import (
	"cmp"
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	popularMaxPages = 6
	popularTarget   = 50

	indianMaxPages      = 10
	indianMinimum       = 20
	indianBackfillLimit = 40
	indianCeiling       = 60
	indianSupplementMin = 50
	topRatedMaxPages    = 5

	nowPlayingFallbackSize = 5

	dailyPerSource = 10
	dailyPicks     = 8
)

// MovieUseCase builds movie listings from the metadata service.
type MovieUseCase struct {
	meta MetadataClient
	log  *log.Helper
	now  func() time.Time
}

// NewMovieUseCase creates a new MovieUseCase instance
func NewMovieUseCase(meta MetadataClient, logger log.Logger) *MovieUseCase {
	return &MovieUseCase{
		meta: meta,
		log:  log.NewHelper(logger),
		now:  time.Now,
	}
}

func (uc *MovieUseCase) goodMovies(movies []*Movie, now time.Time) []*Movie {
	out := make([]*Movie, 0, len(movies))
	for _, m := range movies {
		if IsGoodMovie(m, now) {
			out = append(out, m)
		}
	}
	return out
}

// Popular merges up to six popular pages, most popular first.
func (uc *MovieUseCase) Popular(ctx context.Context, page int) (*MovieList, error) {
	now := uc.now()
	src := pager{source: "popular", fetch: uc.meta.PopularMovies, limit: popularMaxPages, required: true}

	set := newMovieSet()
	for movies, err := range src.pages(ctx, uc.log) {
		if err != nil {
			return nil, ErrorUpstream("Failed to get popular movies", err)
		}
		for _, m := range uc.goodMovies(movies, now) {
			if !set.has(m.ID) {
				set.add(Transform(m, now))
			}
		}
		if set.Len() >= popularTarget {
			break
		}
	}

	items := set.items
	slices.SortStableFunc(items, func(a, b *SearchResult) int {
		return cmp.Compare(b.Popularity, a.Popularity)
	})
	return Paginate(items, page), nil
}

// Indian prefers Indian cinema from popular pages, backfilling with other
// movies when too few are found, then supplements from top rated.
func (uc *MovieUseCase) Indian(ctx context.Context, page int) (*MovieList, error) {
	now := uc.now()
	set := newMovieSet()

	popular := pager{source: "popular", fetch: uc.meta.PopularMovies, limit: indianMaxPages, required: true}
	for movies, err := range popular.pages(ctx, uc.log) {
		if err != nil {
			return nil, ErrorUpstream("Failed to get Indian movies", err)
		}
		good := uc.goodMovies(movies, now)
		for _, m := range good {
			if IsIndianMovie(m) && !set.has(m.ID) {
				set.add(Transform(m, now))
			}
		}
		if set.Len() < indianMinimum {
			for _, m := range good {
				if set.has(m.ID) {
					continue
				}
				set.add(Transform(m, now))
				if set.Len() >= indianBackfillLimit {
					break
				}
			}
		}
		if set.Len() >= indianCeiling {
			break
		}
	}

	if set.Len() < indianSupplementMin {
		topRated := pager{source: "top rated", fetch: uc.meta.TopRatedMovies, limit: topRatedMaxPages}
		for movies := range topRated.pages(ctx, uc.log) {
			for _, m := range uc.goodMovies(movies, now) {
				if IsIndianMovie(m) && !set.has(m.ID) {
					set.add(Transform(m, now))
				}
			}
			if set.Len() >= indianCeiling {
				break
			}
		}
	}

	items := set.items
	slices.SortStableFunc(items, func(a, b *SearchResult) int {
		if c := cmp.Compare(b.VoteAverage, a.VoteAverage); c != 0 {
			return c
		}
		return cmp.Compare(b.Popularity, a.Popularity)
	})
	return Paginate(dedupe(items), page), nil
}

// NowPlaying keeps the now-playing page entries inside the theater window.
// When none qualify, the top popular movies are returned forced into theaters.
func (uc *MovieUseCase) NowPlaying(ctx context.Context, page int, region string) (*MovieList, error) {
	now := uc.now()
	if page < 1 {
		page = 1
	}
	res, err := uc.meta.NowPlayingMovies(ctx, page, region)
	if err != nil {
		return nil, ErrorUpstream("Failed to get now playing movies", err)
	}

	results := []*SearchResult{}
	for _, m := range uc.goodMovies(res.Results, now) {
		if r := Transform(m, now); r.Theater.InTheaters() {
			results = append(results, r)
		}
	}

	if len(results) == 0 {
		popular, err := uc.meta.PopularMovies(ctx, 1)
		if err != nil {
			uc.log.Warnf("fallback popular movies error: %v", err)
		} else {
			good := uc.goodMovies(popular.Results, now)
			for _, m := range good[:min(nowPlayingFallbackSize, len(good))] {
				r := Transform(m, now)
				ForceInTheaters(r, m)
				results = append(results, r)
			}
		}
	}

	return &MovieList{
		Results:      results,
		TotalPages:   max(res.TotalPages, 1),
		TotalResults: len(results),
		Page:         page,
	}, nil
}

// DailySeed encodes the calendar day as YYYYMMDD.
func DailySeed(t time.Time) uint64 {
	return uint64(t.Year()*10000 + int(t.Month())*100 + t.Day())
}

// DailyRecommendations picks eight movies from the top of popular and top
// rated. The order depends only on the calendar day.
func (uc *MovieUseCase) DailyRecommendations(ctx context.Context, page int) (*MovieList, error) {
	now := uc.now()
	if page < 1 {
		page = 1
	}

	var candidates []*Movie
	popular, err := uc.meta.PopularMovies(ctx, 1)
	if err != nil {
		return nil, ErrorUpstream("Failed to get daily recommendations", err)
	}
	good := uc.goodMovies(popular.Results, now)
	candidates = append(candidates, good[:min(dailyPerSource, len(good))]...)

	if topRated, err := uc.meta.TopRatedMovies(ctx, 1); err != nil {
		uc.log.Warnf("error fetching top rated movies for recommendations: %v", err)
	} else {
		good := uc.goodMovies(topRated.Results, now)
		candidates = append(candidates, good[:min(dailyPerSource, len(good))]...)
	}

	seen := make(map[int64]struct{}, len(candidates))
	unique := make([]*Movie, 0, len(candidates))
	for _, m := range candidates {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		unique = append(unique, m)
	}

	seed := DailySeed(now.UTC())
	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(len(unique), func(i, j int) { unique[i], unique[j] = unique[j], unique[i] })

	picks := unique[:min(dailyPicks, len(unique))]
	results := make([]*SearchResult, 0, len(picks))
	for _, m := range picks {
		results = append(results, Transform(m, now))
	}
	return &MovieList{Results: results, TotalPages: 1, TotalResults: len(results), Page: page}, nil
}

// Search runs one upstream search and keeps Indian-language results.
func (uc *MovieUseCase) Search(ctx context.Context, q *SearchQuery) (*MovieList, error) {
	now := uc.now()
	if q.Query == "" {
		return nil, ErrorValidation("Query parameter is required")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	res, err := uc.meta.SearchMovies(ctx, q)
	if err != nil {
		return nil, ErrorUpstream("Search failed", err)
	}
	results := []*SearchResult{}
	for _, m := range res.Results {
		if IsSearchLanguage(m.OriginalLanguage) {
			results = append(results, Transform(m, now))
		}
	}
	return &MovieList{
		Results:      results,
		TotalPages:   max(res.TotalPages, 1),
		TotalResults: len(results),
		Page:         q.Page,
	}, nil
}

// Discover serves one popular page filtered by release year and minimum
// rating. Genre and sort order are not applied.
func (uc *MovieUseCase) Discover(ctx context.Context, q *DiscoverQuery) (*MovieList, error) {
	now := uc.now()
	if q.Page < 1 {
		q.Page = 1
	}
	res, err := uc.meta.PopularMovies(ctx, q.Page)
	if err != nil {
		return nil, ErrorUpstream("Discovery failed", err)
	}
	results := []*SearchResult{}
	for _, m := range uc.goodMovies(res.Results, now) {
		if q.Year != 0 {
			if y, ok := m.ReleaseYear(); ok && y != q.Year {
				continue
			}
		}
		if q.MinVoteAverage != nil && m.VoteAverage < *q.MinVoteAverage {
			continue
		}
		results = append(results, Transform(m, now))
	}
	return &MovieList{
		Results:      results,
		TotalPages:   max(res.TotalPages, 1),
		TotalResults: len(results),
		Page:         q.Page,
	}, nil
}

// GenreMovies serves one popular page; the genre is not applied.
func (uc *MovieUseCase) GenreMovies(ctx context.Context, genreID int64, page int) (*MovieList, error) {
	now := uc.now()
	if page < 1 {
		page = 1
	}
	res, err := uc.meta.PopularMovies(ctx, page)
	if err != nil {
		return nil, ErrorUpstream("Failed to get movies by genre", err)
	}
	results := []*SearchResult{}
	for _, m := range uc.goodMovies(res.Results, now) {
		results = append(results, Transform(m, now))
	}
	return &MovieList{
		Results:      results,
		TotalPages:   max(res.TotalPages, 1),
		TotalResults: len(results),
		Page:         page,
	}, nil
}

// Genres lists the upstream genres.
func (uc *MovieUseCase) Genres(ctx context.Context) ([]*Genre, error) {
	genres, err := uc.meta.Genres(ctx)
	if err != nil {
		return nil, ErrorUpstream("Failed to get genres", err)
	}
	return genres, nil
}

// Details looks up a single movie.
func (uc *MovieUseCase) Details(ctx context.Context, id int64) (*MovieDetail, error) {
	m, err := uc.meta.MovieDetails(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUpstreamNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, ErrorUpstream("Failed to get movie details", err)
	}
	if m == nil {
		return nil, ErrMovieNotFound
	}
	return TransformDetail(m, uc.now()), nil
}

// Credits looks up a movie's cast and crew.
func (uc *MovieUseCase) Credits(ctx context.Context, id int64) (*Credits, error) {
	c, err := uc.meta.MovieCredits(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUpstreamNotFound) {
			return nil, ErrCreditsNotFound
		}
		return nil, ErrorUpstream("Failed to get movie credits", err)
	}
	if c == nil {
		return nil, ErrCreditsNotFound
	}
	return c, nil
}

// Videos looks up a movie's videos, trailers first.
func (uc *MovieUseCase) Videos(ctx context.Context, id int64) (*VideoSet, error) {
	videos, err := uc.meta.MovieVideos(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUpstreamNotFound) {
			return nil, ErrVideosNotFound
		}
		return nil, ErrorUpstream("Failed to get movie videos", err)
	}
	return SplitVideos(videos), nil
}

// Configured reports whether the metadata service has credentials.
func (uc *MovieUseCase) Configured() bool {
	return uc.meta.Configured()
}
