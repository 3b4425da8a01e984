package data

import (
	"context"
	"strconv"

	"cinelove/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

const (
	rankReviewedKey = "rank:movies:reviewed"
	rankRatedKey    = "rank:movies:rated"
)

// movieAggregate is one movie's review count and average rating.
type movieAggregate struct {
	MovieID     int64   `bson:"_id"`
	ReviewCount int64   `bson:"review_count"`
	Average     float64 `bson:"average"`
}

// ranking keeps per-movie review rankings in Redis ZSets. A nil client
// disables it and callers fall back to store aggregates.
type ranking struct {
	rdb *redis.Client
	log *log.Helper
}

func (k *ranking) enabled() bool {
	return k != nil && k.rdb != nil
}

func (k *ranking) update(ctx context.Context, movieID int64, count int64, average float64) {
	if !k.enabled() {
		return
	}
	member := strconv.FormatInt(movieID, 10)

	if err := k.rdb.ZAdd(ctx, rankReviewedKey, redis.Z{Score: float64(count), Member: member}).Err(); err != nil {
		k.log.Warnf("failed to update review ranking: %v", err)
	}
	if count > 0 {
		if err := k.rdb.ZAdd(ctx, rankRatedKey, redis.Z{Score: average, Member: member}).Err(); err != nil {
			k.log.Warnf("failed to update rating ranking: %v", err)
		}
	}
}

// top reads a ranking; ok is false when Redis is unavailable or empty.
func (k *ranking) top(ctx context.Context, by biz.RankBy, limit int) ([]*biz.MovieRank, bool) {
	if !k.enabled() {
		return nil, false
	}
	key := rankReviewedKey
	if by == biz.RankByRating {
		key = rankRatedKey
	}
	zs, err := k.rdb.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		k.log.Warnf("failed to read ranking %s: %v", key, err)
		return nil, false
	}
	if len(zs) == 0 {
		return nil, false
	}
	ranks := make([]*biz.MovieRank, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		ranks = append(ranks, &biz.MovieRank{MovieID: id, Score: z.Score})
	}
	return ranks, true
}

func aggregatesToRanks(rows []movieAggregate, by biz.RankBy) []*biz.MovieRank {
	ranks := make([]*biz.MovieRank, 0, len(rows))
	for _, row := range rows {
		score := float64(row.ReviewCount)
		if by == biz.RankByRating {
			score = row.Average
		}
		ranks = append(ranks, &biz.MovieRank{MovieID: row.MovieID, Score: score})
	}
	return ranks
}
