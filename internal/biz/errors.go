package biz

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
)

const (
	ReasonValidation       = "VALIDATION_FAILED"
	ReasonMovieNotFound    = "MOVIE_NOT_FOUND"
	ReasonCreditsNotFound  = "CREDITS_NOT_FOUND"
	ReasonVideosNotFound   = "VIDEOS_NOT_FOUND"
	ReasonUpstreamNotFound = "UPSTREAM_NOT_FOUND"
	ReasonReviewExists     = "REVIEW_EXISTS"
	ReasonUpstream         = "UPSTREAM_ERROR"
	ReasonNotConfigured    = "UPSTREAM_NOT_CONFIGURED"
)

var (
	// ErrUpstreamNotFound is returned by the metadata client on a 404.
	ErrUpstreamNotFound = errors.NotFound(ReasonUpstreamNotFound, "resource not found upstream")
	ErrMovieNotFound    = errors.NotFound(ReasonMovieNotFound, "Movie not found")
	ErrCreditsNotFound  = errors.NotFound(ReasonCreditsNotFound, "Credits not found")
	ErrVideosNotFound   = errors.NotFound(ReasonVideosNotFound, "Videos not found")
	ErrReviewExists     = errors.Conflict(ReasonReviewExists, "You have already reviewed this movie")
	ErrNotConfigured    = errors.InternalServer(ReasonNotConfigured, "TMDB API key is not configured")
)

// ErrorValidation reports every violated rule of a request at once.
func ErrorValidation(message string) *errors.Error {
	return errors.BadRequest(ReasonValidation, message)
}

// ErrorUpstream wraps a metadata-service failure for the given operation.
func ErrorUpstream(operation string, err error) *errors.Error {
	return errors.InternalServer(ReasonUpstream, fmt.Sprintf("%s: %s", operation, errors.FromError(err).Message)).WithCause(err)
}
