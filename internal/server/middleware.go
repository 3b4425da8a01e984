package server

import (
	"context"

	"cinelove/internal/biz"

	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
)

// upstreamOperations are the operations served from the metadata API.
var upstreamOperations = map[string]struct{}{
	OperationMovieServiceSearchMovies:         {},
	OperationMovieServicePopularMovies:        {},
	OperationMovieServiceNowPlayingMovies:     {},
	OperationMovieServiceIndianMovies:         {},
	OperationMovieServiceDailyRecommendations: {},
	OperationMovieServiceDiscover:             {},
	OperationMovieServiceGetMovie:             {},
	OperationMovieServiceGetCredits:           {},
	OperationMovieServiceGetVideos:            {},
	OperationGenreServiceListGenres:           {},
	OperationGenreServiceGenreMovies:          {},
}

// UpstreamGuard rejects metadata operations while no API key is configured
func UpstreamGuard(configured func() bool) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return handler(ctx, req)
			}

			if _, guarded := upstreamOperations[tr.Operation()]; guarded && !configured() {
				return nil, biz.ErrNotConfigured
			}

			return handler(ctx, req)
		}
	}
}
