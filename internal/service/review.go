package service

import (
	"context"

	"cinelove/internal/biz"
)

// ReviewService implements review submission and the review feeds
type ReviewService struct {
	reviewUC *biz.ReviewUseCase
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewUC *biz.ReviewUseCase) *ReviewService {
	return &ReviewService{reviewUC: reviewUC}
}

// CreateReview implements review submission
func (s *ReviewService) CreateReview(ctx context.Context, req *CreateReviewRequest) (*CreateReviewReply, error) {
	review, err := s.reviewUC.CreateReview(ctx, req.MovieID, &biz.ReviewInput{
		UserName:   req.UserName,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		Language:   req.Language,
	})
	if err != nil {
		return nil, err
	}
	return &CreateReviewReply{ReviewReply: *reviewReply(review)}, nil
}

// ListReviews implements the per-movie review page
func (s *ReviewService) ListReviews(ctx context.Context, req *ListReviewsRequest) (*ListReviewsReply, error) {
	page, err := s.reviewUC.MovieReviews(ctx, req.MovieID, req.Page, req.Language)
	if err != nil {
		return nil, err
	}

	dist := make(map[string]int64, len(page.Statistics.Distribution))
	for _, b := range page.Statistics.Distribution {
		dist[b.Label] = b.Count
	}
	return &ListReviewsReply{
		Reviews:      reviewsReply(page.Reviews),
		TotalReviews: page.TotalReviews,
		Page:         page.Page,
		TotalPages:   page.TotalPages,
		Statistics: &ReviewStatisticsReply{
			AverageRating:      page.Statistics.AverageRating,
			TotalReviews:       page.Statistics.TotalReviews,
			RatingDistribution: dist,
		},
	}, nil
}

// LatestReviews implements the global review feed
func (s *ReviewService) LatestReviews(ctx context.Context, req *LatestReviewsRequest) (*LatestReviewsReply, error) {
	reviews, err := s.reviewUC.LatestReviews(ctx, req.Limit)
	if err != nil {
		return nil, err
	}
	return &LatestReviewsReply{Reviews: reviewsReply(reviews)}, nil
}

// TopMovies implements the review rankings
func (s *ReviewService) TopMovies(ctx context.Context, req *TopMoviesRequest) (*TopMoviesReply, error) {
	by := biz.RankBy(req.By)
	if by != biz.RankByRating {
		by = biz.RankByCount
	}
	ranks, err := s.reviewUC.TopMovies(ctx, by, req.Limit)
	if err != nil {
		return nil, err
	}

	reply := &TopMoviesReply{
		By:     string(by),
		Movies: make([]*MovieRankReply, 0, len(ranks)),
	}
	for _, r := range ranks {
		reply.Movies = append(reply.Movies, &MovieRankReply{MovieID: r.MovieID, Score: r.Score})
	}
	return reply, nil
}
