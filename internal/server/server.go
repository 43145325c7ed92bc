package server

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/bornholm/searchbar/pkg/search"
	"github.com/bornholm/searchbar/pkg/searchbar"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

//go:embed static/*
var staticFiles embed.FS

// maxLimit caps the limit requested through the JSON API.
const maxLimit = 50

// Server exposes the search bar over HTTP: a server side rendered page, a
// JSON API and a live search websocket.
type Server struct {
	client search.Client
	router *gin.Engine
	opts   *Options
}

type Options struct {
	Limit           int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	Debug           bool
}

type OptionFunc func(opts *Options)

// WithLimit sets the number of results requested for each query
func WithLimit(limit int) OptionFunc {
	return func(opts *Options) {
		opts.Limit = limit
	}
}

// WithAllowedOrigins sets the origin patterns accepted by the live search
// websocket, in addition to same origin requests
func WithAllowedOrigins(origins ...string) OptionFunc {
	return func(opts *Options) {
		opts.AllowedOrigins = origins
	}
}

func WithShutdownTimeout(timeout time.Duration) OptionFunc {
	return func(opts *Options) {
		opts.ShutdownTimeout = timeout
	}
}

func WithDebug(debug bool) OptionFunc {
	return func(opts *Options) {
		opts.Debug = debug
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the given address until ctx is done.
func (s *Server) Run(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		// Hijacked live search connections end with ctx
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errs := make(chan error, 1)

	go func() {
		slog.InfoContext(ctx, "server listening", slog.String("address", address))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- errors.WithStack(err)
		}

		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()

	slog.InfoContext(ctx, "shutting down server")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *Server) routes() error {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return errors.WithStack(err)
	}

	s.router.GET("/", s.handleIndex)
	s.router.GET("/search", s.handleSearchRedirect)
	s.router.GET("/api/search", s.handleAPISearch)
	s.router.GET("/ws", s.handleLive)
	s.router.GET("/healthz", s.handleHealth)
	s.router.StaticFS("/static", http.FS(static))

	return nil
}

func (s *Server) newDispatcher(doc *searchbar.Document, funcs ...searchbar.DispatcherOptionFunc) *searchbar.Dispatcher {
	funcs = append([]searchbar.DispatcherOptionFunc{searchbar.WithLimit(s.opts.Limit)}, funcs...)
	return searchbar.NewDispatcher(s.client, doc, doc, funcs...)
}

func New(client search.Client, funcs ...OptionFunc) (*Server, error) {
	opts := &Options{
		Limit:           searchbar.DefaultLimit,
		ShutdownTimeout: 10 * time.Second,
	}
	for _, fn := range funcs {
		fn(opts)
	}

	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(requestLogger(), recovery())

	s := &Server{
		client: client,
		router: router,
		opts:   opts,
	}

	if err := s.routes(); err != nil {
		return nil, errors.WithStack(err)
	}

	return s, nil
}

var _ http.Handler = &Server{}
