package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cinelove/internal/biz"
	"cinelove/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	defaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	defaultTMDBLanguage = "en-US"
	defaultTMDBRegion   = "IN"
	defaultTMDBTimeout  = 10 * time.Second
)

type tmdbClient struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	language string
	region   string
	log      *log.Helper
}

// NewMetadataClient creates a TMDB API client. Every request carries the API
// key and the default language.
func NewMetadataClient(c *conf.TMDB, logger log.Logger) biz.MetadataClient {
	tc := &tmdbClient{
		baseURL:  defaultTMDBBaseURL,
		language: defaultTMDBLanguage,
		region:   defaultTMDBRegion,
		log:      log.NewHelper(logger),
	}
	timeout := defaultTMDBTimeout
	if c != nil {
		if c.BaseUrl != "" {
			tc.baseURL = c.BaseUrl
		}
		if c.Language != "" {
			tc.language = c.Language
		}
		if c.Region != "" {
			tc.region = c.Region
		}
		if d := c.Timeout.AsDuration(); d > 0 {
			timeout = d
		}
		tc.apiKey = c.ApiKey
	}
	tc.client = &http.Client{Timeout: timeout}
	return tc
}

func (c *tmdbClient) Configured() bool {
	return c.apiKey != ""
}

func (c *tmdbClient) PopularMovies(ctx context.Context, page int) (*biz.MoviePage, error) {
	return c.moviePage(ctx, "/movie/popular", url.Values{"page": {strconv.Itoa(page)}})
}

func (c *tmdbClient) TopRatedMovies(ctx context.Context, page int) (*biz.MoviePage, error) {
	return c.moviePage(ctx, "/movie/top_rated", url.Values{"page": {strconv.Itoa(page)}})
}

func (c *tmdbClient) NowPlayingMovies(ctx context.Context, page int, region string) (*biz.MoviePage, error) {
	if region == "" {
		region = c.region
	}
	return c.moviePage(ctx, "/movie/now_playing", url.Values{
		"page":   {strconv.Itoa(page)},
		"region": {region},
	})
}

func (c *tmdbClient) SearchMovies(ctx context.Context, q *biz.SearchQuery) (*biz.MoviePage, error) {
	params := url.Values{
		"query":         {q.Query},
		"page":          {strconv.Itoa(q.Page)},
		"include_adult": {strconv.FormatBool(q.IncludeAdult)},
	}
	if q.Year > 0 {
		params.Set("year", strconv.Itoa(q.Year))
	}
	return c.moviePage(ctx, "/search/movie", params)
}

func (c *tmdbClient) MovieDetails(ctx context.Context, id int64) (*biz.Movie, error) {
	var m tmdbMovie
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", id), nil, &m); err != nil {
		return nil, err
	}
	return m.toBiz(), nil
}

func (c *tmdbClient) MovieCredits(ctx context.Context, id int64) (*biz.Credits, error) {
	var resp tmdbCredits
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.toBiz(), nil
}

func (c *tmdbClient) MovieVideos(ctx context.Context, id int64) ([]*biz.Video, error) {
	var resp struct {
		Results []tmdbVideo `json:"results"`
	}
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d/videos", id), nil, &resp); err != nil {
		return nil, err
	}
	videos := make([]*biz.Video, 0, len(resp.Results))
	for _, v := range resp.Results {
		videos = append(videos, &biz.Video{
			ID:          v.ID,
			Key:         v.Key,
			Name:        v.Name,
			Site:        v.Site,
			Size:        v.Size,
			Type:        v.Type,
			Official:    v.Official,
			PublishedAt: v.PublishedAt,
		})
	}
	return videos, nil
}

func (c *tmdbClient) Genres(ctx context.Context) ([]*biz.Genre, error) {
	var resp struct {
		Genres []tmdbGenre `json:"genres"`
	}
	if err := c.doRequest(ctx, "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	genres := make([]*biz.Genre, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		genres = append(genres, &biz.Genre{ID: g.ID, Name: g.Name})
	}
	return genres, nil
}

func (c *tmdbClient) moviePage(ctx context.Context, path string, params url.Values) (*biz.MoviePage, error) {
	var resp struct {
		Page         int         `json:"page"`
		TotalPages   int         `json:"total_pages"`
		TotalResults int         `json:"total_results"`
		Results      []tmdbMovie `json:"results"`
	}
	if err := c.doRequest(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	page := &biz.MoviePage{
		Page:         resp.Page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
		Results:      make([]*biz.Movie, 0, len(resp.Results)),
	}
	for i := range resp.Results {
		page.Results = append(page.Results, resp.Results[i].toBiz())
	}
	return page, nil
}

func (c *tmdbClient) doRequest(ctx context.Context, path string, params url.Values, out any) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("TMDB API error on %s: %v", path, err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return biz.ErrUpstreamNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Errorf("TMDB API error on %s: status %d", path, resp.StatusCode)
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type tmdbGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type tmdbMovie struct {
	ID                  int64       `json:"id"`
	Title               string      `json:"title"`
	OriginalTitle       string      `json:"original_title"`
	Overview            string      `json:"overview"`
	ReleaseDate         string      `json:"release_date"`
	PosterPath          string      `json:"poster_path"`
	BackdropPath        string      `json:"backdrop_path"`
	VoteAverage         float64     `json:"vote_average"`
	VoteCount           int         `json:"vote_count"`
	Popularity          float64     `json:"popularity"`
	OriginalLanguage    string      `json:"original_language"`
	Adult               bool        `json:"adult"`
	Tagline             string      `json:"tagline"`
	Runtime             int         `json:"runtime"`
	Budget              int64       `json:"budget"`
	Revenue             int64       `json:"revenue"`
	Homepage            string      `json:"homepage"`
	IMDbID              string      `json:"imdb_id"`
	Status              string      `json:"status"`
	Genres              []tmdbGenre `json:"genres"`
	ProductionCompanies []struct {
		ID            int64  `json:"id"`
		Name          string `json:"name"`
		LogoPath      string `json:"logo_path"`
		OriginCountry string `json:"origin_country"`
	} `json:"production_companies"`
	ProductionCountries []struct {
		Code string `json:"iso_3166_1"`
		Name string `json:"name"`
	} `json:"production_countries"`
	SpokenLanguages []struct {
		EnglishName string `json:"english_name"`
		Code        string `json:"iso_639_1"`
		Name        string `json:"name"`
	} `json:"spoken_languages"`
}

func (m *tmdbMovie) toBiz() *biz.Movie {
	out := &biz.Movie{
		ID:               m.ID,
		Title:            m.Title,
		OriginalTitle:    m.OriginalTitle,
		Overview:         m.Overview,
		ReleaseDate:      m.ReleaseDate,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		Popularity:       m.Popularity,
		OriginalLanguage: m.OriginalLanguage,
		Adult:            m.Adult,
		Tagline:          m.Tagline,
		Runtime:          m.Runtime,
		Budget:           m.Budget,
		Revenue:          m.Revenue,
		Homepage:         m.Homepage,
		IMDbID:           m.IMDbID,
		Status:           m.Status,
	}
	for _, g := range m.Genres {
		out.Genres = append(out.Genres, &biz.Genre{ID: g.ID, Name: g.Name})
	}
	for _, pc := range m.ProductionCompanies {
		out.ProductionCompanies = append(out.ProductionCompanies, biz.Company{
			ID: pc.ID, Name: pc.Name, LogoPath: pc.LogoPath, OriginCountry: pc.OriginCountry,
		})
	}
	for _, c := range m.ProductionCountries {
		out.ProductionCountries = append(out.ProductionCountries, biz.Country{Code: c.Code, Name: c.Name})
	}
	for _, l := range m.SpokenLanguages {
		out.SpokenLanguages = append(out.SpokenLanguages, biz.SpokenLanguage{
			EnglishName: l.EnglishName, Code: l.Code, Name: l.Name,
		})
	}
	return out
}

type tmdbPerson struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Character          string  `json:"character"`
	Job                string  `json:"job"`
	Department         string  `json:"department"`
	CreditID           string  `json:"credit_id"`
	Order              int     `json:"order"`
	Adult              bool    `json:"adult"`
	Gender             int     `json:"gender"`
	KnownForDepartment string  `json:"known_for_department"`
	OriginalName       string  `json:"original_name"`
	Popularity         float64 `json:"popularity"`
	ProfilePath        string  `json:"profile_path"`
}

// gender 0 means "not set" upstream.
func (p *tmdbPerson) gender() *int {
	if p.Gender == 0 {
		return nil
	}
	g := p.Gender
	return &g
}

type tmdbCredits struct {
	Cast []tmdbPerson `json:"cast"`
	Crew []tmdbPerson `json:"crew"`
}

func (c *tmdbCredits) toBiz() *biz.Credits {
	out := &biz.Credits{
		Cast: make([]*biz.CastMember, 0, len(c.Cast)),
		Crew: make([]*biz.CrewMember, 0, len(c.Crew)),
	}
	for i := range c.Cast {
		p := &c.Cast[i]
		out.Cast = append(out.Cast, &biz.CastMember{
			ID:                 p.ID,
			Name:               p.Name,
			Character:          p.Character,
			CreditID:           p.CreditID,
			Order:              p.Order,
			Adult:              p.Adult,
			Gender:             p.gender(),
			KnownForDepartment: p.KnownForDepartment,
			OriginalName:       p.OriginalName,
			Popularity:         p.Popularity,
			ProfilePath:        p.ProfilePath,
		})
	}
	for i := range c.Crew {
		p := &c.Crew[i]
		out.Crew = append(out.Crew, &biz.CrewMember{
			ID:                 p.ID,
			Name:               p.Name,
			Job:                p.Job,
			Department:         p.Department,
			CreditID:           p.CreditID,
			Adult:              p.Adult,
			Gender:             p.gender(),
			KnownForDepartment: p.KnownForDepartment,
			OriginalName:       p.OriginalName,
			Popularity:         p.Popularity,
			ProfilePath:        p.ProfilePath,
		})
	}
	return out
}

type tmdbVideo struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Size        int    `json:"size"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}
