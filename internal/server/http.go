package server

import (
	"net/http"

	"cinelove/internal/biz"
	"cinelove/internal/conf"
	"cinelove/internal/service"

	"github.com/go-kratos/kratos/v2/encoding"
	"github.com/go-kratos/kratos/v2/encoding/json"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/ratelimit"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/gorilla/handlers"
)

type errorReply struct {
	Error string `json:"error"`
}

// Custom response encoder to honour a status code carried by the reply
func customResponseEncoder(w http.ResponseWriter, r *http.Request, v interface{}) error {
	type StatusResponse interface {
		HTTPStatus() int
	}

	if sr, ok := v.(StatusResponse); ok {
		w.WriteHeader(sr.HTTPStatus())
	}

	return khttp.DefaultResponseEncoder(w, r, v)
}

// errorEncoder renders every error as {"error": message} with its kratos code
func errorEncoder(w http.ResponseWriter, r *http.Request, err error) {
	se := errors.FromError(err)
	writeError(w, int(se.Code), se.Message)
}

func writeError(w http.ResponseWriter, code int, message string) {
	body, err := encoding.GetCodec(json.Name).Marshal(&errorReply{Error: message})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
}

func corsFilter(c *conf.Server_CORS) khttp.FilterFunc {
	var origins []string
	if c != nil {
		origins = c.AllowedOrigins
	}
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Accept", "Origin", "X-Requested-With"}),
		handlers.AllowCredentials(),
	)
}

// NewHTTPServer new an HTTP server.
func NewHTTPServer(
	c *conf.Server,
	movieUC *biz.MovieUseCase,
	systemSvc *service.SystemService,
	movieSvc *service.MovieService,
	genreSvc *service.GenreService,
	reviewSvc *service.ReviewService,
	logger log.Logger,
) *khttp.Server {
	var opts = []khttp.ServerOption{
		khttp.Middleware(
			recovery.Recovery(),
			ratelimit.Server(),
			logging.Server(logger),
			UpstreamGuard(movieUC.Configured),
		),
		khttp.Filter(corsFilter(c.Cors)),
		khttp.ResponseEncoder(customResponseEncoder),
		khttp.ErrorEncoder(errorEncoder),
		khttp.NotFoundHandler(notFoundHandler()),
	}
	if c.Http != nil {
		if c.Http.Network != "" {
			opts = append(opts, khttp.Network(c.Http.Network))
		}
		if c.Http.Addr != "" {
			opts = append(opts, khttp.Address(c.Http.Addr))
		}
		if c.Http.Timeout.Duration > 0 {
			opts = append(opts, khttp.Timeout(c.Http.Timeout.AsDuration()))
		}
	}
	srv := khttp.NewServer(opts...)
	registerRoutes(srv, systemSvc, movieSvc, genreSvc, reviewSvc)
	return srv
}
