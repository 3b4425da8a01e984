package biz

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewRepo struct {
	reviews     []*Review
	lastFilter  *ReviewFilter
	latestLimit int
	rankBy      RankBy
	rankLimit   int
}

func (r *fakeReviewRepo) CreateReview(_ context.Context, review *Review) error {
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeReviewRepo) ReviewExists(_ context.Context, movieID int64, userName string) (bool, error) {
	for _, rv := range r.reviews {
		if rv.MovieID == movieID && rv.UserName == userName {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) ListByMovie(_ context.Context, filter *ReviewFilter) ([]*Review, int64, error) {
	r.lastFilter = filter
	var matched []*Review
	for _, rv := range r.reviews {
		if rv.MovieID == filter.MovieID && (filter.Language == "" || rv.Language == filter.Language) {
			matched = append(matched, rv)
		}
	}
	start := min(filter.Offset, len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (r *fakeReviewRepo) MovieRatings(_ context.Context, movieID int64) ([]float64, error) {
	var out []float64
	for _, rv := range r.reviews {
		if rv.MovieID == movieID {
			out = append(out, rv.Rating)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ListLatest(_ context.Context, limit int) ([]*Review, error) {
	r.latestLimit = limit
	return r.reviews, nil
}

func (r *fakeReviewRepo) TopMovies(_ context.Context, by RankBy, limit int) ([]*MovieRank, error) {
	r.rankBy, r.rankLimit = by, limit
	return []*MovieRank{{MovieID: 1, Score: 3}}, nil
}

func newTestReviewUseCase() (*ReviewUseCase, *fakeMetadata, *fakeReviewRepo) {
	meta := &fakeMetadata{details: map[int64]*Movie{550: {ID: 550, Title: "Fight Club"}}}
	repo := &fakeReviewRepo{}
	uc := NewReviewUseCase(meta, repo, log.DefaultLogger)
	uc.now = func() time.Time { return testNow }
	return uc, meta, repo
}

func rating(v float64) *float64 {
	return &v
}

func TestValidateReview(t *testing.T) {
	uc, _, _ := newTestReviewUseCase()

	tests := []struct {
		name  string
		input ReviewInput
		want  string
	}{
		{"rating above range", ReviewInput{UserName: "alice", Rating: rating(11), ReviewText: "a fine movie indeed"}, "Rating must be between 0 and 10"},
		{"rating below range", ReviewInput{UserName: "alice", Rating: rating(-1), ReviewText: "a fine movie indeed"}, "Rating must be between 0 and 10"},
		{"rating missing", ReviewInput{UserName: "alice", ReviewText: "a fine movie indeed"}, "Rating is required"},
		{"text too short", ReviewInput{UserName: "alice", Rating: rating(5), ReviewText: "123456789"}, "Review text must be at least 10 characters"},
		{"text short after trim", ReviewInput{UserName: "alice", Rating: rating(5), ReviewText: "   short    "}, "Review text must be at least 10 characters"},
		{"text too long", ReviewInput{UserName: "alice", Rating: rating(5), ReviewText: strings.Repeat("x", 1001)}, "Review text must be 1000 characters or less"},
		{"name empty", ReviewInput{UserName: "   ", Rating: rating(5), ReviewText: "a fine movie indeed"}, "User name is required"},
		{"name too long", ReviewInput{UserName: strings.Repeat("n", 51), Rating: rating(5), ReviewText: "a fine movie indeed"}, "User name must be 50 characters or less"},
		{"every rule at once", ReviewInput{}, "User name is required, Rating is required, Review text must be at least 10 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			err := uc.Validate(&in)
			require.Error(t, err)
			se := errors.FromError(err)
			assert.Equal(t, int32(400), se.Code)
			assert.Equal(t, ReasonValidation, se.Reason)
			assert.Equal(t, tt.want, se.Message)
		})
	}

	in := ReviewInput{UserName: "  bob  ", Rating: rating(0), ReviewText: "exactly10!"}
	require.NoError(t, uc.Validate(&in))
	assert.Equal(t, "bob", in.UserName)
}

func TestCreateReview(t *testing.T) {
	uc, _, repo := newTestReviewUseCase()

	review, err := uc.CreateReview(context.Background(), 550, &ReviewInput{
		UserName:   " alice ",
		Rating:     rating(8.5),
		ReviewText: "  The first rule is you rate it highly.  ",
	})
	require.NoError(t, err)

	id, err := uuid.Parse(review.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, int64(550), review.MovieID)
	assert.Equal(t, "alice", review.UserName)
	assert.Equal(t, "The first rule is you rate it highly.", review.ReviewText)
	assert.Equal(t, 8.5, review.Rating)
	assert.Equal(t, DefaultLanguage, review.Language)
	assert.Equal(t, 0, review.HelpfulCount)
	assert.True(t, review.CreatedAt.Equal(testNow))
	assert.Equal(t, review.CreatedAt, review.UpdatedAt)
	assert.Len(t, repo.reviews, 1)
}

func TestCreateReviewConflict(t *testing.T) {
	uc, _, repo := newTestReviewUseCase()
	in := func() *ReviewInput {
		return &ReviewInput{UserName: "alice", Rating: rating(7), ReviewText: "worth watching twice", Language: "hi"}
	}

	_, err := uc.CreateReview(context.Background(), 550, in())
	require.NoError(t, err)

	_, err = uc.CreateReview(context.Background(), 550, in())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReviewExists))
	assert.Equal(t, int32(409), errors.FromError(err).Code)
	assert.Len(t, repo.reviews, 1)
}

func TestCreateReviewUnknownMovie(t *testing.T) {
	uc, meta, repo := newTestReviewUseCase()
	in := &ReviewInput{UserName: "alice", Rating: rating(7), ReviewText: "worth watching twice"}

	_, err := uc.CreateReview(context.Background(), 999, in)
	assert.True(t, errors.Is(err, ErrMovieNotFound))

	meta.detailsErr = fmt.Errorf("upstream timeout")
	_, err = uc.CreateReview(context.Background(), 550, in)
	assert.True(t, errors.Is(err, ErrMovieNotFound))
	assert.Empty(t, repo.reviews)
}

func TestMovieReviews(t *testing.T) {
	uc, _, repo := newTestReviewUseCase()
	for i, r := range []float64{2, 4, 6, 8, 10} {
		lang := "en"
		if i == 0 {
			lang = "hi"
		}
		repo.reviews = append(repo.reviews, &Review{ID: fmt.Sprint(i), MovieID: 550, Rating: r, Language: lang})
	}
	repo.reviews = append(repo.reviews, &Review{ID: "other", MovieID: 1, Rating: 1, Language: "en"})

	page, err := uc.MovieReviews(context.Background(), 550, 0, "en")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, int64(4), page.TotalReviews)
	assert.Equal(t, 1, page.TotalPages)
	assert.Len(t, page.Reviews, 4)
	assert.Equal(t, &ReviewFilter{MovieID: 550, Language: "en", Offset: 0, Limit: ReviewPageSize}, repo.lastFilter)

	// statistics ignore the language filter
	assert.Equal(t, int64(5), page.Statistics.TotalReviews)
	assert.Equal(t, 6.0, page.Statistics.AverageRating)
	for _, b := range page.Statistics.Distribution {
		assert.Equal(t, int64(1), b.Count, b.Label)
	}

	_, err = uc.MovieReviews(context.Background(), 550, 3, "")
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastFilter.Offset)
}

func TestStatistics(t *testing.T) {
	empty := Statistics(nil)
	assert.Equal(t, 0.0, empty.AverageRating)
	assert.Equal(t, int64(0), empty.TotalReviews)
	assert.Len(t, empty.Distribution, 5)

	s := Statistics([]float64{7, 8, 8, 0.5, 2.99, 9})
	assert.Equal(t, 5.9, s.AverageRating)
	assert.Equal(t, int64(6), s.TotalReviews)

	counts := map[string]int64{}
	for _, b := range s.Distribution {
		counts[b.Label] = b.Count
	}
	assert.Equal(t, map[string]int64{"1-2": 1, "3-4": 0, "5-6": 0, "7-8": 3, "9-10": 1}, counts)
}

func TestLatestAndTopLimits(t *testing.T) {
	uc, _, repo := newTestReviewUseCase()

	_, err := uc.LatestReviews(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLatestLimit, repo.latestLimit)

	_, err = uc.LatestReviews(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, MaxLatestLimit, repo.latestLimit)

	_, err = uc.TopMovies(context.Background(), "bogus", 5)
	require.NoError(t, err)
	assert.Equal(t, RankByCount, repo.rankBy)
	assert.Equal(t, 5, repo.rankLimit)
}
