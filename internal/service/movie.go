package service

import (
	"context"

	"cinelove/internal/biz"
)

// MovieService serves the movie listings and single-movie lookups
type MovieService struct {
	movieUC *biz.MovieUseCase
}

// NewMovieService creates a new MovieService
func NewMovieService(movieUC *biz.MovieUseCase) *MovieService {
	return &MovieService{movieUC: movieUC}
}

// SearchMovies implements movie search
func (s *MovieService) SearchMovies(ctx context.Context, req *SearchMoviesRequest) (*MovieListReply, error) {
	list, err := s.movieUC.Search(ctx, &biz.SearchQuery{
		Query:        req.Query,
		Page:         req.Page,
		IncludeAdult: req.IncludeAdult,
		Year:         req.Year,
	})
	if err != nil {
		return nil, err
	}
	return movieListReply(list), nil
}

// PopularMovies implements the popular listing
func (s *MovieService) PopularMovies(ctx context.Context, req *ListMoviesRequest) (*MovieListReply, error) {
	list, err := s.movieUC.Popular(ctx, req.Page)
	if err != nil {
		return nil, err
	}
	return movieListReply(list), nil
}

// NowPlayingMovies implements the now-playing listing
func (s *MovieService) NowPlayingMovies(ctx context.Context, req *ListMoviesRequest) (*MovieListReply, error) {
	list, err := s.movieUC.NowPlaying(ctx, req.Page, req.Region)
	if err != nil {
		return nil, err
	}
	return movieListReply(list), nil
}

// IndianMovies implements the Indian cinema listing
func (s *MovieService) IndianMovies(ctx context.Context, req *ListMoviesRequest) (*MovieListReply, error) {
	list, err := s.movieUC.Indian(ctx, req.Page)
	if err != nil {
		return nil, err
	}
	return movieListReply(list), nil
}

// DailyRecommendations implements the daily picks
func (s *MovieService) DailyRecommendations(ctx context.Context, req *ListMoviesRequest) (*MovieListReply, error) {
	list, err := s.movieUC.DailyRecommendations(ctx, req.Page)
	if err != nil {
		return nil, err
	}
	return movieListReply(list), nil
}

// Discover implements filtered discovery
func (s *MovieService) Discover(ctx context.Context, req *DiscoverRequest) (*MovieListReply, error) {
	list, err := s.movieUC.Discover(ctx, &biz.DiscoverQuery{
		Page:           req.Page,
		Year:           req.Year,
		MinVoteAverage: req.VoteAverageGte,
		WithGenres:     req.WithGenres,
		SortBy:         req.SortBy,
	})
	if err != nil {
		return nil, err
	}
	return movieListReply(list), nil
}

// GetMovie implements the movie detail lookup
func (s *MovieService) GetMovie(ctx context.Context, req *GetMovieRequest) (*MovieDetailReply, error) {
	d, err := s.movieUC.Details(ctx, req.MovieID)
	if err != nil {
		return nil, err
	}

	reply := &MovieDetailReply{
		MovieItem:           *movieItem(&d.SearchResult),
		Tagline:             d.Tagline,
		Runtime:             d.Runtime,
		Budget:              d.Budget,
		Revenue:             d.Revenue,
		Homepage:            d.Homepage,
		IMDbID:              d.IMDbID,
		Status:              d.Status,
		Genres:              make([]*GenreReply, 0, len(d.Genres)),
		ProductionCompanies: make([]CompanyReply, 0, len(d.ProductionCompanies)),
		ProductionCountries: make([]CountryReply, 0, len(d.ProductionCountries)),
		SpokenLanguages:     make([]SpokenLanguageReply, 0, len(d.SpokenLanguages)),
	}
	for _, g := range d.Genres {
		reply.Genres = append(reply.Genres, &GenreReply{ID: g.ID, Name: g.Name})
	}
	for _, c := range d.ProductionCompanies {
		reply.ProductionCompanies = append(reply.ProductionCompanies, CompanyReply{
			ID:            c.ID,
			Name:          c.Name,
			LogoPath:      nullable(c.LogoPath),
			OriginCountry: c.OriginCountry,
		})
	}
	for _, c := range d.ProductionCountries {
		reply.ProductionCountries = append(reply.ProductionCountries, CountryReply{Code: c.Code, Name: c.Name})
	}
	for _, l := range d.SpokenLanguages {
		reply.SpokenLanguages = append(reply.SpokenLanguages, SpokenLanguageReply{
			EnglishName: l.EnglishName,
			Code:        l.Code,
			Name:        l.Name,
		})
	}
	return reply, nil
}

// GetCredits implements the cast and crew lookup
func (s *MovieService) GetCredits(ctx context.Context, req *GetMovieRequest) (*CreditsReply, error) {
	credits, err := s.movieUC.Credits(ctx, req.MovieID)
	if err != nil {
		return nil, err
	}

	reply := &CreditsReply{
		Cast: make([]*CastReply, 0, len(credits.Cast)),
		Crew: make([]*CrewReply, 0, len(credits.Crew)),
	}
	for _, c := range credits.Cast {
		reply.Cast = append(reply.Cast, &CastReply{
			ID:                 c.ID,
			Name:               c.Name,
			Character:          nullable(c.Character),
			CreditID:           c.CreditID,
			Order:              c.Order,
			Adult:              c.Adult,
			Gender:             c.Gender,
			KnownForDepartment: c.KnownForDepartment,
			OriginalName:       c.OriginalName,
			Popularity:         c.Popularity,
			ProfilePath:        nullable(c.ProfilePath),
		})
	}
	for _, c := range credits.Crew {
		reply.Crew = append(reply.Crew, &CrewReply{
			ID:                 c.ID,
			Name:               c.Name,
			Job:                c.Job,
			Department:         c.Department,
			CreditID:           c.CreditID,
			Adult:              c.Adult,
			Gender:             c.Gender,
			KnownForDepartment: c.KnownForDepartment,
			OriginalName:       c.OriginalName,
			Popularity:         c.Popularity,
			ProfilePath:        nullable(c.ProfilePath),
		})
	}
	return reply, nil
}

// GetVideos implements the video lookup
func (s *MovieService) GetVideos(ctx context.Context, req *GetMovieRequest) (*VideosReply, error) {
	set, err := s.movieUC.Videos(ctx, req.MovieID)
	if err != nil {
		return nil, err
	}
	return &VideosReply{
		Trailers:    videosReply(set.Trailers),
		OtherVideos: videosReply(set.OtherVideos),
		TotalCount:  set.TotalCount,
	}, nil
}

func videosReply(vs []*biz.PlayableVideo) []*VideoReply {
	out := make([]*VideoReply, 0, len(vs))
	for _, v := range vs {
		out = append(out, &VideoReply{
			ID:          v.ID,
			Key:         v.Key,
			Name:        v.Name,
			Site:        v.Site,
			Size:        v.Size,
			Type:        v.Type,
			Official:    v.Official,
			PublishedAt: nullable(v.PublishedAt),
			URL:         v.URL,
		})
	}
	return out
}
