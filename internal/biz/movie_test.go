package biz

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMetadata struct {
	popular     map[int][]*Movie
	popularErr  map[int]error
	topRated    map[int][]*Movie
	topRatedErr map[int]error
	nowPlaying  []*Movie
	search      []*Movie
	details     map[int64]*Movie
	detailsErr  error
	credits     *Credits
	creditsErr  error
	videos      []*Video
	videosErr   error
	genres      []*Genre
	apiKey      string

	popularCalls []int
	lastSearch   *SearchQuery
	lastRegion   string
}

func (f *fakeMetadata) PopularMovies(_ context.Context, page int) (*MoviePage, error) {
	f.popularCalls = append(f.popularCalls, page)
	if err := f.popularErr[page]; err != nil {
		return nil, err
	}
	return &MoviePage{Page: page, TotalPages: 500, Results: f.popular[page]}, nil
}

func (f *fakeMetadata) TopRatedMovies(_ context.Context, page int) (*MoviePage, error) {
	if err := f.topRatedErr[page]; err != nil {
		return nil, err
	}
	return &MoviePage{Page: page, TotalPages: 500, Results: f.topRated[page]}, nil
}

func (f *fakeMetadata) NowPlayingMovies(_ context.Context, page int, region string) (*MoviePage, error) {
	f.lastRegion = region
	return &MoviePage{Page: page, TotalPages: 3, Results: f.nowPlaying}, nil
}

func (f *fakeMetadata) SearchMovies(_ context.Context, q *SearchQuery) (*MoviePage, error) {
	f.lastSearch = q
	return &MoviePage{Page: q.Page, TotalPages: 2, Results: f.search}, nil
}

func (f *fakeMetadata) MovieDetails(_ context.Context, id int64) (*Movie, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	m, ok := f.details[id]
	if !ok {
		return nil, ErrUpstreamNotFound
	}
	return m, nil
}

func (f *fakeMetadata) MovieCredits(context.Context, int64) (*Credits, error) {
	return f.credits, f.creditsErr
}

func (f *fakeMetadata) MovieVideos(context.Context, int64) ([]*Video, error) {
	return f.videos, f.videosErr
}

func (f *fakeMetadata) Genres(context.Context) ([]*Genre, error) {
	return f.genres, nil
}

func (f *fakeMetadata) Configured() bool {
	return f.apiKey != ""
}

func newTestMovieUseCase(meta MetadataClient) *MovieUseCase {
	uc := NewMovieUseCase(meta, log.DefaultLogger)
	uc.now = func() time.Time { return testNow }
	return uc
}

// movieRange builds old, well rated movies with ids from..to. Popularity
// falls as the id grows.
func movieRange(from, to int64, lang string) []*Movie {
	var out []*Movie
	for id := from; id <= to; id++ {
		out = append(out, &Movie{
			ID:               id,
			Title:            fmt.Sprintf("Movie %d", id),
			ReleaseDate:      "2019-05-01",
			VoteAverage:      6,
			Popularity:       float64(1000 - id),
			OriginalLanguage: lang,
		})
	}
	return out
}

func resultIDs(rs []*SearchResult) []int64 {
	ids := make([]int64, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	return ids
}

func idRange(from, to int64) []int64 {
	var ids []int64
	for id := from; id <= to; id++ {
		ids = append(ids, id)
	}
	return ids
}

func TestPopularRepaginates(t *testing.T) {
	meta := &fakeMetadata{popular: map[int][]*Movie{
		1: movieRange(1, 15, "en"),
		2: movieRange(16, 30, "en"),
		3: movieRange(31, 45, "en"),
	}}
	uc := newTestMovieUseCase(meta)

	list, err := uc.Popular(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, idRange(21, 40), resultIDs(list.Results))
	assert.Equal(t, 3, list.TotalPages)
	assert.Equal(t, 45, list.TotalResults)
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, meta.popularCalls)

	list, err = uc.Popular(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, list.Results)
	assert.Equal(t, 3, list.TotalPages)
}

func TestPopularStopsAtTarget(t *testing.T) {
	meta := &fakeMetadata{popular: map[int][]*Movie{
		1: movieRange(1, 20, "en"),
		2: movieRange(21, 40, "en"),
		3: movieRange(41, 60, "en"),
		4: movieRange(61, 80, "en"),
	}}
	list, err := newTestMovieUseCase(meta).Popular(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, meta.popularCalls)
	assert.Equal(t, 60, list.TotalResults)
}

func TestPopularDeduplicatesFirstSeen(t *testing.T) {
	dup := &Movie{ID: 42, Title: "Second copy", ReleaseDate: "2019-01-01", VoteAverage: 6, Popularity: 1}
	meta := &fakeMetadata{popular: map[int][]*Movie{
		1: {{ID: 42, Title: "First copy", ReleaseDate: "2019-01-01", VoteAverage: 6, Popularity: 50}},
		2: {dup, {ID: 7, Title: "Other", ReleaseDate: "2019-01-01", Popularity: 10}},
	}}
	list, err := newTestMovieUseCase(meta).Popular(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{42, 7}, resultIDs(list.Results))
	assert.Equal(t, "First copy", list.Results[0].Title)
}

func TestPopularSkipsFailedPages(t *testing.T) {
	meta := &fakeMetadata{
		popular: map[int][]*Movie{
			1: movieRange(1, 5, "en"),
			3: movieRange(6, 10, "en"),
		},
		popularErr: map[int]error{2: fmt.Errorf("timeout")},
	}
	list, err := newTestMovieUseCase(meta).Popular(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, idRange(1, 10), resultIDs(list.Results))
}

func TestPopularFirstPageFailure(t *testing.T) {
	meta := &fakeMetadata{popularErr: map[int]error{1: fmt.Errorf("connection refused")}}
	_, err := newTestMovieUseCase(meta).Popular(context.Background(), 1)
	require.Error(t, err)

	se := errors.FromError(err)
	assert.Equal(t, int32(500), se.Code)
	assert.Equal(t, ReasonUpstream, se.Reason)
	assert.Equal(t, "Failed to get popular movies: connection refused", se.Message)
	assert.Equal(t, []int{1}, meta.popularCalls)
}

func TestIndianPrefersIndianMoviesAndSupplements(t *testing.T) {
	popular := append(movieRange(1, 3, "hi"), movieRange(4, 20, "en")...)
	topRated := append(movieRange(101, 102, "ta"), movieRange(103, 104, "fr")...)
	topRated[0].VoteAverage = 9
	meta := &fakeMetadata{
		popular:     map[int][]*Movie{1: popular},
		topRated:    map[int][]*Movie{1: topRated},
		topRatedErr: map[int]error{2: fmt.Errorf("boom")},
	}

	list, err := newTestMovieUseCase(meta).Indian(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 22, list.TotalResults)
	assert.Equal(t, 2, list.TotalPages)

	ids := resultIDs(list.Results)
	assert.Equal(t, int64(101), ids[0], "highest vote average first")
	assert.NotContains(t, ids, int64(103))
	assert.NotContains(t, ids, int64(104))
	assert.Equal(t, int64(1), ids[1], "equal votes fall back to popularity")
}

func TestIndianFirstPageFailure(t *testing.T) {
	meta := &fakeMetadata{popularErr: map[int]error{1: fmt.Errorf("down")}}
	_, err := newTestMovieUseCase(meta).Indian(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, errors.FromError(err).Message, "Failed to get Indian movies")
}

func TestNowPlayingKeepsTheaterWindow(t *testing.T) {
	meta := &fakeMetadata{nowPlaying: []*Movie{
		{ID: 1, Title: "Fresh", ReleaseDate: "2025-06-01"},
		{ID: 2, Title: "Stale", ReleaseDate: "2020-06-01"},
	}}
	list, err := newTestMovieUseCase(meta).NowPlaying(context.Background(), 1, "IN")
	require.NoError(t, err)
	require.Len(t, list.Results, 1)
	assert.Equal(t, InTheaters, list.Results[0].Theater)
	assert.Equal(t, 3, list.TotalPages)
	assert.Equal(t, "IN", meta.lastRegion)
	assert.Empty(t, meta.popularCalls)
}

func TestNowPlayingFallsBackToPopular(t *testing.T) {
	meta := &fakeMetadata{
		nowPlaying: []*Movie{{ID: 2, Title: "Stale", ReleaseDate: "2020-06-01"}},
		popular:    map[int][]*Movie{1: movieRange(1, 7, "en")},
	}
	list, err := newTestMovieUseCase(meta).NowPlaying(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, idRange(1, 5), resultIDs(list.Results))
	assert.Equal(t, 5, list.TotalResults)
	for _, r := range list.Results {
		assert.Equal(t, ForcedInTheaters, r.Theater)
		assert.Len(t, r.BookingPlatforms, 4)
		assert.Empty(t, r.OTTPlatforms)
	}
}

func TestNowPlayingFallbackFailureIsEmpty(t *testing.T) {
	meta := &fakeMetadata{popularErr: map[int]error{1: fmt.Errorf("down")}}
	list, err := newTestMovieUseCase(meta).NowPlaying(context.Background(), 1, "")
	require.NoError(t, err)
	assert.NotNil(t, list.Results)
	assert.Empty(t, list.Results)
}

func TestDailyRecommendationsDeterministic(t *testing.T) {
	meta := &fakeMetadata{
		popular:  map[int][]*Movie{1: movieRange(1, 12, "en")},
		topRated: map[int][]*Movie{1: movieRange(8, 20, "en")},
	}
	uc := newTestMovieUseCase(meta)

	first, err := uc.DailyRecommendations(context.Background(), 1)
	require.NoError(t, err)
	second, err := uc.DailyRecommendations(context.Background(), 1)
	require.NoError(t, err)

	assert.Len(t, first.Results, 8)
	assert.Equal(t, resultIDs(first.Results), resultIDs(second.Results))
	assert.Equal(t, 1, first.TotalPages)

	seen := map[int64]bool{}
	for _, id := range resultIDs(first.Results) {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
		assert.True(t, id <= 10 || (id >= 8 && id <= 17), "id %d outside the top ten of either source", id)
	}

	uc.now = func() time.Time { return testNow.AddDate(0, 0, 1) }
	next, err := uc.DailyRecommendations(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEqual(t, resultIDs(first.Results), resultIDs(next.Results))

	// same instant seen from a zone already on the next calendar day
	east := time.FixedZone("UTC+14", 14*60*60)
	uc.now = func() time.Time { return testNow.In(east) }
	shifted, err := uc.DailyRecommendations(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, resultIDs(first.Results), resultIDs(shifted.Results))
}

func TestDailyRecommendationsTopRatedOptional(t *testing.T) {
	meta := &fakeMetadata{
		popular:     map[int][]*Movie{1: movieRange(1, 4, "en")},
		topRatedErr: map[int]error{1: fmt.Errorf("down")},
	}
	list, err := newTestMovieUseCase(meta).DailyRecommendations(context.Background(), 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, idRange(1, 4), resultIDs(list.Results))

	meta.popularErr = map[int]error{1: fmt.Errorf("down")}
	_, err = newTestMovieUseCase(meta).DailyRecommendations(context.Background(), 1)
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	meta := &fakeMetadata{search: []*Movie{
		{ID: 1, OriginalLanguage: "hi"},
		{ID: 2, OriginalLanguage: "en"},
		{ID: 3, OriginalLanguage: "or"},
		{ID: 4, OriginalLanguage: "as"},
	}}
	uc := newTestMovieUseCase(meta)

	list, err := uc.Search(context.Background(), &SearchQuery{Query: "love", Year: 2020})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, resultIDs(list.Results))
	assert.Equal(t, 2, list.TotalResults)
	assert.Equal(t, 2, list.TotalPages)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 2020, meta.lastSearch.Year)

	_, err = uc.Search(context.Background(), &SearchQuery{})
	se := errors.FromError(err)
	assert.Equal(t, int32(400), se.Code)
	assert.Equal(t, "Query parameter is required", se.Message)
}

func TestDiscoverFilters(t *testing.T) {
	minVote := 7.0
	meta := &fakeMetadata{popular: map[int][]*Movie{1: {
		{ID: 1, ReleaseDate: "2020-01-01", VoteAverage: 8},
		{ID: 2, ReleaseDate: "2021-01-01", VoteAverage: 8},
		{ID: 3, ReleaseDate: "2020-03-01", VoteAverage: 6},
		{ID: 4, VoteAverage: 9},
	}}}
	uc := newTestMovieUseCase(meta)

	list, err := uc.Discover(context.Background(), &DiscoverQuery{Year: 2020, MinVoteAverage: &minVote, WithGenres: "28"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, resultIDs(list.Results))
	assert.Equal(t, 2, list.TotalResults)
	assert.Equal(t, 500, list.TotalPages)

	list, err = uc.GenreMovies(context.Background(), 28, 1)
	require.NoError(t, err)
	assert.Len(t, list.Results, 4)
}

func TestDetailsNotFound(t *testing.T) {
	meta := &fakeMetadata{details: map[int64]*Movie{1: {ID: 1, Title: "Known", Runtime: 120}}}
	uc := newTestMovieUseCase(meta)

	d, err := uc.Details(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, d.Runtime)
	assert.Equal(t, 120, *d.Runtime)

	_, err = uc.Details(context.Background(), 2)
	assert.True(t, errors.Is(err, ErrMovieNotFound))

	meta.detailsErr = fmt.Errorf("boom")
	_, err = uc.Details(context.Background(), 1)
	assert.Equal(t, "Failed to get movie details: boom", errors.FromError(err).Message)
}

func TestCreditsNotFound(t *testing.T) {
	meta := &fakeMetadata{creditsErr: ErrUpstreamNotFound}
	_, err := newTestMovieUseCase(meta).Credits(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrCreditsNotFound))
	assert.Equal(t, int32(404), errors.FromError(err).Code)
}

func TestVideosNotFound(t *testing.T) {
	meta := &fakeMetadata{videosErr: ErrUpstreamNotFound}
	uc := newTestMovieUseCase(meta)

	_, err := uc.Videos(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrVideosNotFound))
	assert.Equal(t, int32(404), errors.FromError(err).Code)
	assert.Equal(t, "Videos not found", errors.FromError(err).Message)

	meta.videosErr = fmt.Errorf("timeout")
	_, err = uc.Videos(context.Background(), 1)
	assert.Equal(t, int32(500), errors.FromError(err).Code)
	assert.Equal(t, "Failed to get movie videos: timeout", errors.FromError(err).Message)
}

func TestErrorUpstreamUsesCauseMessage(t *testing.T) {
	err := ErrorUpstream("Failed to get genres", errors.ServiceUnavailable("UNAVAILABLE", "upstream is down"))
	assert.Equal(t, int32(500), err.Code)
	assert.Equal(t, ReasonUpstream, err.Reason)
	assert.Equal(t, "Failed to get genres: upstream is down", err.Message)
}
