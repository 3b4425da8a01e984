package biz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	ReviewPageSize     = 10
	DefaultLatestLimit = 10
	MaxLatestLimit     = 50
	DefaultLanguage    = "en"
)

// RankBy selects a review ranking.
type RankBy string

const (
	RankByCount  RankBy = "count"
	RankByRating RankBy = "rating"
)

var reviewRules = map[string]map[string]string{
	"UserName": {
		"required": "User name is required",
		"max":      "User name must be 50 characters or less",
	},
	"Rating": {
		"required": "Rating is required",
		"gte":      "Rating must be between 0 and 10",
		"lte":      "Rating must be between 0 and 10",
	},
	"ReviewText": {
		"min": "Review text must be at least 10 characters",
		"max": "Review text must be 1000 characters or less",
	},
}

// ReviewUseCase handles review submission and aggregation.
type ReviewUseCase struct {
	meta     MetadataClient
	repo     ReviewRepo
	validate *validator.Validate
	log      *log.Helper
	now      func() time.Time
}

// NewReviewUseCase creates a new ReviewUseCase instance
func NewReviewUseCase(meta MetadataClient, repo ReviewRepo, logger log.Logger) *ReviewUseCase {
	return &ReviewUseCase{
		meta:     meta,
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.NewHelper(logger),
		now:      time.Now,
	}
}

// Validate trims the input and reports every violated rule in one error.
func (uc *ReviewUseCase) Validate(in *ReviewInput) error {
	in.UserName = strings.TrimSpace(in.UserName)
	in.ReviewText = strings.TrimSpace(in.ReviewText)

	err := uc.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrorValidation(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := reviewRules[fe.StructField()][fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		msgs = append(msgs, msg)
	}
	return ErrorValidation(strings.Join(msgs, ", "))
}

// CreateReview stores a review for an existing movie, one per user name.
func (uc *ReviewUseCase) CreateReview(ctx context.Context, movieID int64, in *ReviewInput) (*Review, error) {
	if err := uc.Validate(in); err != nil {
		return nil, err
	}

	movie, err := uc.meta.MovieDetails(ctx, movieID)
	if err != nil {
		uc.log.Errorf("movie lookup error for %d: %v", movieID, err)
		return nil, ErrMovieNotFound
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	exists, err := uc.repo.ReviewExists(ctx, movieID, in.UserName)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, ErrReviewExists
	}

	// UUID v7: time-ordered
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate review ID: %w", err)
	}
	language := in.Language
	if language == "" {
		language = DefaultLanguage
	}
	now := uc.now().UTC()
	review := &Review{
		ID:         id.String(),
		MovieID:    movieID,
		UserName:   in.UserName,
		Rating:     *in.Rating,
		ReviewText: in.ReviewText,
		CreatedAt:  now,
		UpdatedAt:  now,
		Language:   language,
	}
	if err := uc.repo.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

// MovieReviews returns one page of a movie's reviews, newest first, with
// statistics over all of its reviews.
func (uc *ReviewUseCase) MovieReviews(ctx context.Context, movieID int64, page int, language string) (*ReviewPage, error) {
	if page < 1 {
		page = 1
	}
	reviews, total, err := uc.repo.ListByMovie(ctx, &ReviewFilter{
		MovieID:  movieID,
		Language: language,
		Offset:   (page - 1) * ReviewPageSize,
		Limit:    ReviewPageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	ratings, err := uc.repo.MovieRatings(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review statistics: %w", err)
	}
	return &ReviewPage{
		Reviews:      reviews,
		TotalReviews: total,
		Page:         page,
		TotalPages:   int((total + ReviewPageSize - 1) / ReviewPageSize),
		Statistics:   Statistics(ratings),
	}, nil
}

// LatestReviews is the global feed, newest first.
func (uc *ReviewUseCase) LatestReviews(ctx context.Context, limit int) ([]*Review, error) {
	if limit < 1 {
		limit = DefaultLatestLimit
	}
	limit = min(limit, MaxLatestLimit)
	reviews, err := uc.repo.ListLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reviews: %w", err)
	}
	return reviews, nil
}

// TopMovies ranks reviewed movies by review count or average rating.
func (uc *ReviewUseCase) TopMovies(ctx context.Context, by RankBy, limit int) ([]*MovieRank, error) {
	if by != RankByRating {
		by = RankByCount
	}
	if limit < 1 {
		limit = DefaultLatestLimit
	}
	limit = min(limit, MaxLatestLimit)
	ranks, err := uc.repo.TopMovies(ctx, by, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top movies: %w", err)
	}
	return ranks, nil
}

// NewRatingDistribution returns the empty five-bucket histogram.
func NewRatingDistribution() []RatingBucket {
	return []RatingBucket{
		{Label: "1-2", Min: 1, Max: 3},
		{Label: "3-4", Min: 3, Max: 5},
		{Label: "5-6", Min: 5, Max: 7},
		{Label: "7-8", Min: 7, Max: 9},
		{Label: "9-10", Min: 9, Max: 10},
	}
}

// Statistics averages ratings to one decimal and buckets them. Ratings
// below 1 count toward the average but fall in no bucket.
func Statistics(ratings []float64) *ReviewStatistics {
	stats := &ReviewStatistics{
		TotalReviews: int64(len(ratings)),
		Distribution: NewRatingDistribution(),
	}
	if len(ratings) == 0 {
		return stats
	}
	var sum float64
	last := len(stats.Distribution) - 1
	for _, r := range ratings {
		sum += r
		for i := range stats.Distribution {
			b := &stats.Distribution[i]
			if r >= b.Min && (r < b.Max || (i == last && r <= b.Max)) {
				b.Count++
				break
			}
		}
	}
	stats.AverageRating = math.Round(sum/float64(len(ratings))*10) / 10
	return stats
}
