package data

import (
	"context"
	"fmt"

	"cinelove/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const reviewsCollection = "reviews"

func ensureReviewIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(reviewsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "movie_id", Value: 1}, {Key: "user_name", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

type mongoReviewRepo struct {
	coll *mongo.Collection
	rank *ranking
	log  *log.Helper
}

func (r *mongoReviewRepo) CreateReview(ctx context.Context, review *biz.Review) error {
	doc := &reviewDocument{
		ID:           review.ID,
		MovieID:      review.MovieID,
		UserName:     review.UserName,
		Rating:       review.Rating,
		ReviewText:   review.ReviewText,
		CreatedAt:    review.CreatedAt,
		UpdatedAt:    review.UpdatedAt,
		HelpfulCount: review.HelpfulCount,
		Language:     review.Language,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	if r.rank.enabled() {
		rows, err := r.aggregate(ctx, bson.M{"movie_id": review.MovieID}, nil, 1)
		if err != nil {
			r.log.Warnf("failed to get aggregate for ranking update: %v", err)
		} else if len(rows) == 1 {
			r.rank.update(ctx, review.MovieID, rows[0].ReviewCount, rows[0].Average)
		}
	}
	return nil
}

func (r *mongoReviewRepo) ReviewExists(ctx context.Context, movieID int64, userName string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx,
		bson.M{"movie_id": movieID, "user_name": userName},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, fmt.Errorf("failed to count reviews: %w", err)
	}
	return n > 0, nil
}

func (r *mongoReviewRepo) ListByMovie(ctx context.Context, filter *biz.ReviewFilter) ([]*biz.Review, int64, error) {
	query := bson.M{"movie_id": filter.MovieID}
	if filter.Language != "" {
		query["language"] = filter.Language
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))
	reviews, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *mongoReviewRepo) MovieRatings(ctx context.Context, movieID int64) ([]float64, error) {
	cur, err := r.coll.Find(ctx, bson.M{"movie_id": movieID},
		options.Find().SetProjection(bson.M{"rating": 1, "_id": 0}))
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	var docs []struct {
		Rating float64 `bson:"rating"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode ratings: %w", err)
	}
	ratings := make([]float64, 0, len(docs))
	for _, d := range docs {
		ratings = append(ratings, d.Rating)
	}
	return ratings, nil
}

func (r *mongoReviewRepo) ListLatest(ctx context.Context, limit int) ([]*biz.Review, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *mongoReviewRepo) TopMovies(ctx context.Context, by biz.RankBy, limit int) ([]*biz.MovieRank, error) {
	if ranks, ok := r.rank.top(ctx, by, limit); ok {
		return ranks, nil
	}
	sort := bson.D{{Key: "review_count", Value: -1}, {Key: "_id", Value: 1}}
	if by == biz.RankByRating {
		sort = bson.D{{Key: "average", Value: -1}, {Key: "_id", Value: 1}}
	}
	rows, err := r.aggregate(ctx, bson.M{}, sort, limit)
	if err != nil {
		return nil, err
	}
	return aggregatesToRanks(rows, by), nil
}

func (r *mongoReviewRepo) aggregate(ctx context.Context, match bson.M, sort bson.D, limit int) ([]movieAggregate, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$movie_id",
			"review_count": bson.M{"$sum": 1},
			"average":      bson.M{"$avg": "$rating"},
		}}},
	}
	if sort != nil {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sort}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	var rows []movieAggregate
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode review aggregate: %w", err)
	}
	return rows, nil
}

func (r *mongoReviewRepo) find(ctx context.Context, query bson.M, opts *options.FindOptionsBuilder) ([]*biz.Review, error) {
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	var docs []reviewDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	out := make([]*biz.Review, 0, len(docs))
	for _, d := range docs {
		language := d.Language
		if language == "" {
			language = biz.DefaultLanguage
		}
		out = append(out, &biz.Review{
			ID:           d.ID,
			MovieID:      d.MovieID,
			UserName:     d.UserName,
			Rating:       d.Rating,
			ReviewText:   d.ReviewText,
			CreatedAt:    d.CreatedAt,
			UpdatedAt:    d.UpdatedAt,
			HelpfulCount: d.HelpfulCount,
			Language:     language,
		})
	}
	return out, nil
}
