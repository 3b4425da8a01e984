package server

import (
	"context"
	"net/http"

	"cinelove/internal/service"

	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationSystemServiceRoot                = "/cinelove.v1.SystemService/Root"
	OperationSystemServiceHealth              = "/cinelove.v1.SystemService/Health"
	OperationSystemServiceLanguages           = "/cinelove.v1.SystemService/Languages"
	OperationMovieServiceSearchMovies         = "/cinelove.v1.MovieService/SearchMovies"
	OperationMovieServicePopularMovies        = "/cinelove.v1.MovieService/PopularMovies"
	OperationMovieServiceNowPlayingMovies     = "/cinelove.v1.MovieService/NowPlayingMovies"
	OperationMovieServiceIndianMovies         = "/cinelove.v1.MovieService/IndianMovies"
	OperationMovieServiceDailyRecommendations = "/cinelove.v1.MovieService/DailyRecommendations"
	OperationMovieServiceDiscover             = "/cinelove.v1.MovieService/Discover"
	OperationMovieServiceGetMovie             = "/cinelove.v1.MovieService/GetMovie"
	OperationMovieServiceGetCredits           = "/cinelove.v1.MovieService/GetCredits"
	OperationMovieServiceGetVideos            = "/cinelove.v1.MovieService/GetVideos"
	OperationGenreServiceListGenres           = "/cinelove.v1.GenreService/ListGenres"
	OperationGenreServiceGenreMovies          = "/cinelove.v1.GenreService/GenreMovies"
	OperationReviewServiceCreateReview        = "/cinelove.v1.ReviewService/CreateReview"
	OperationReviewServiceListReviews         = "/cinelove.v1.ReviewService/ListReviews"
	OperationReviewServiceLatestReviews       = "/cinelove.v1.ReviewService/LatestReviews"
	OperationReviewServiceTopMovies           = "/cinelove.v1.ReviewService/TopMovies"
)

type bindFunc func(khttp.Context, interface{}) error

var (
	bindBody  bindFunc = khttp.Context.Bind
	bindQuery bindFunc = khttp.Context.BindQuery
	bindVars  bindFunc = khttp.Context.BindVars
)

// handle binds the request, runs it through the server middleware under the
// given operation and encodes the reply.
func handle[Req, Reply any](operation string, call func(context.Context, *Req) (Reply, error), binds ...bindFunc) khttp.HandlerFunc {
	return func(ctx khttp.Context) error {
		var in Req
		for _, bind := range binds {
			if err := bind(ctx, &in); err != nil {
				return err
			}
		}
		khttp.SetOperation(ctx, operation)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(ctx, req.(*Req))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	}
}

func registerRoutes(srv *khttp.Server, system *service.SystemService, movie *service.MovieService, genre *service.GenreService, review *service.ReviewService) {
	r := srv.Route("/api")

	r.GET("/", handle(OperationSystemServiceRoot, system.Root))
	r.GET("/health", handle(OperationSystemServiceHealth, system.Health))
	r.GET("/languages", handle(OperationSystemServiceLanguages, system.Languages))
	r.GET("/discover", handle(OperationMovieServiceDiscover, movie.Discover, bindQuery))

	r.GET("/movies/search", handle(OperationMovieServiceSearchMovies, movie.SearchMovies, bindQuery))
	r.GET("/movies/popular", handle(OperationMovieServicePopularMovies, movie.PopularMovies, bindQuery))
	r.GET("/movies/now-playing", handle(OperationMovieServiceNowPlayingMovies, movie.NowPlayingMovies, bindQuery))
	r.GET("/movies/indian", handle(OperationMovieServiceIndianMovies, movie.IndianMovies, bindQuery))
	r.GET("/movies/daily-recommendations", handle(OperationMovieServiceDailyRecommendations, movie.DailyRecommendations, bindQuery))
	r.GET("/movies/{movie_id:[0-9]+}", handle(OperationMovieServiceGetMovie, movie.GetMovie, bindQuery, bindVars))
	r.GET("/movies/{movie_id:[0-9]+}/credits", handle(OperationMovieServiceGetCredits, movie.GetCredits, bindQuery, bindVars))
	r.GET("/movies/{movie_id:[0-9]+}/videos", handle(OperationMovieServiceGetVideos, movie.GetVideos, bindQuery, bindVars))

	r.GET("/genres", handle(OperationGenreServiceListGenres, genre.ListGenres))
	r.GET("/genres/{genre_id:[0-9]+}/movies", handle(OperationGenreServiceGenreMovies, genre.GenreMovies, bindQuery, bindVars))

	r.POST("/movies/{movie_id:[0-9]+}/reviews", handle(OperationReviewServiceCreateReview, review.CreateReview, bindBody, bindVars))
	r.GET("/movies/{movie_id:[0-9]+}/reviews", handle(OperationReviewServiceListReviews, review.ListReviews, bindQuery, bindVars))
	r.GET("/reviews/latest", handle(OperationReviewServiceLatestReviews, review.LatestReviews, bindQuery))
	r.GET("/reviews/top", handle(OperationReviewServiceTopMovies, review.TopMovies, bindQuery))
}
