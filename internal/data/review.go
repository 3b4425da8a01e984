package data

import (
	"context"
	"fmt"

	"cinelove/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

type reviewRepo struct {
	data *Data
	rank *ranking
	log  *log.Helper
}

// NewReviewRepo creates the review repository for the configured store.
func NewReviewRepo(data *Data, logger log.Logger) biz.ReviewRepo {
	l := log.NewHelper(logger)
	rank := &ranking{rdb: data.rdb, log: l}
	if data.mongo != nil {
		return &mongoReviewRepo{
			coll: data.mongo.Collection(reviewsCollection),
			rank: rank,
			log:  l,
		}
	}
	return &reviewRepo{
		data: data,
		rank: rank,
		log:  l,
	}
}

func (r *reviewRepo) CreateReview(ctx context.Context, review *biz.Review) error {
	if err := r.data.db.WithContext(ctx).Create(r.bizToModel(review)).Error; err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	if r.rank.enabled() {
		r.updateRankings(ctx, review.MovieID)
	}
	return nil
}

func (r *reviewRepo) ReviewExists(ctx context.Context, movieID int64, userName string) (bool, error) {
	var count int64
	err := r.data.db.WithContext(ctx).
		Model(&Review{}).
		Where("movie_id = ? AND user_name = ?", movieID, userName).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count > 0, nil
}

func (r *reviewRepo) ListByMovie(ctx context.Context, filter *biz.ReviewFilter) ([]*biz.Review, int64, error) {
	db := r.data.db.WithContext(ctx).Model(&Review{}).Where("movie_id = ?", filter.MovieID)
	if filter.Language != "" {
		db = db.Where("language = ?", filter.Language)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var rows []Review
	err := db.Order("created_at DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return r.modelsToBiz(rows), total, nil
}

func (r *reviewRepo) MovieRatings(ctx context.Context, movieID int64) ([]float64, error) {
	var ratings []float64
	err := r.data.db.WithContext(ctx).
		Model(&Review{}).
		Where("movie_id = ?", movieID).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	return ratings, nil
}

func (r *reviewRepo) ListLatest(ctx context.Context, limit int) ([]*biz.Review, error) {
	var rows []Review
	if err := r.data.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list latest reviews: %w", err)
	}
	return r.modelsToBiz(rows), nil
}

func (r *reviewRepo) TopMovies(ctx context.Context, by biz.RankBy, limit int) ([]*biz.MovieRank, error) {
	if ranks, ok := r.rank.top(ctx, by, limit); ok {
		return ranks, nil
	}

	order := "review_count DESC, movie_id ASC"
	if by == biz.RankByRating {
		order = "average DESC, movie_id ASC"
	}
	var rows []movieAggregate
	err := r.data.db.WithContext(ctx).
		Model(&Review{}).
		Select("movie_id, COUNT(*) AS review_count, AVG(rating) AS average").
		Group("movie_id").
		Order(order).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	return aggregatesToRanks(rows, by), nil
}

// updateRankings refreshes the Redis ZSets for one movie
func (r *reviewRepo) updateRankings(ctx context.Context, movieID int64) {
	var agg movieAggregate
	err := r.data.db.WithContext(ctx).
		Model(&Review{}).
		Select("movie_id, COUNT(*) AS review_count, AVG(rating) AS average").
		Where("movie_id = ?", movieID).
		Group("movie_id").
		Scan(&agg).Error
	if err != nil {
		r.log.Warnf("failed to get aggregate for ranking update: %v", err)
		return
	}
	r.rank.update(ctx, movieID, agg.ReviewCount, agg.Average)
}

func (r *reviewRepo) bizToModel(b *biz.Review) *Review {
	return &Review{
		ID:           b.ID,
		MovieID:      b.MovieID,
		UserName:     b.UserName,
		Rating:       b.Rating,
		ReviewText:   b.ReviewText,
		HelpfulCount: b.HelpfulCount,
		Language:     b.Language,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func (r *reviewRepo) modelsToBiz(rows []Review) []*biz.Review {
	out := make([]*biz.Review, 0, len(rows))
	for i := range rows {
		m := &rows[i]
		out = append(out, &biz.Review{
			ID:           m.ID,
			MovieID:      m.MovieID,
			UserName:     m.UserName,
			Rating:       m.Rating,
			ReviewText:   m.ReviewText,
			CreatedAt:    m.CreatedAt,
			UpdatedAt:    m.UpdatedAt,
			HelpfulCount: m.HelpfulCount,
			Language:     m.Language,
		})
	}
	return out
}
