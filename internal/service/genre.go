package service

import (
	"context"

	"cinelove/internal/biz"
)

// GenreService serves the genre list and per-genre listings
type GenreService struct {
	movieUC *biz.MovieUseCase
}

func NewGenreService(movieUC *biz.MovieUseCase) *GenreService {
	return &GenreService{movieUC: movieUC}
}

// ListGenres returns the upstream genres with a zero movie count.
func (s *GenreService) ListGenres(ctx context.Context, _ *EmptyRequest) ([]*GenreItem, error) {
	genres, err := s.movieUC.Genres(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*GenreItem, 0, len(genres))
	for _, g := range genres {
		items = append(items, &GenreItem{ID: g.ID, Name: g.Name})
	}
	return items, nil
}

func (s *GenreService) GenreMovies(ctx context.Context, req *GenreMoviesRequest) (*MovieListReply, error) {
	list, err := s.movieUC.GenreMovies(ctx, req.GenreID, req.Page)
	if err != nil {
		return nil, err
	}
	return movieListReply(list), nil
}
