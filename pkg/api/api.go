// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/telekom/hoptrace/internal/logger"
)

//go:generate go tool moq -out api_moq.go . API
type API interface {
	// Run serves the registered routes until the server is shut down
	Run(ctx context.Context) error
	// Shutdown gracefully shuts down the server
	Shutdown(ctx context.Context) error
	// RegisterRoutes adds the routes to the server
	RegisterRoutes(ctx context.Context, routes ...Route) error
}

type api struct {
	server *http.Server
	router chi.Router
	tls    TLSConfig
}

const readHeaderTimeout = 5 * time.Second

// Config is the configuration for the api server
type Config struct {
	// ListeningAddress is the address the server listens on, e.g. ":8080"
	ListeningAddress string `yaml:"address" mapstructure:"address"`
	// Tls is the tls configuration of the server
	Tls TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// TLSConfig is the configuration for serving the api over tls
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	CertPath string `yaml:"certPath" mapstructure:"certPath"`
	KeyPath  string `yaml:"keyPath" mapstructure:"keyPath"`
}

// Validate checks the api configuration
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.ListeningAddress); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidAddress, c.ListeningAddress, err)
	}
	if c.Tls.Enabled && (c.Tls.CertPath == "" || c.Tls.KeyPath == "") {
		return ErrInvalidTLSConfig
	}
	return nil
}

// New creates a new api server
func New(cfg Config) API {
	r := chi.NewRouter()
	return &api{
		server: &http.Server{Addr: cfg.ListeningAddress, Handler: r, ReadHeaderTimeout: readHeaderTimeout},
		router: r,
		tls:    cfg.Tls,
	}
}

// Run serves the api. It returns nil once the server was shut down
// and an error if serving failed or the context was cancelled.
func (a *api) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	cErr := make(chan error, 1)

	go func() {
		log.InfoContext(ctx, "Serving Api", "addr", a.server.Addr, "tls", a.tls.Enabled)
		if a.tls.Enabled {
			cErr <- a.server.ListenAndServeTLS(a.tls.CertPath, a.tls.KeyPath)
			return
		}
		cErr <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("failed serving API: %w", ctx.Err())
	case err := <-cErr:
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			log.InfoContext(ctx, "Api server closed")
			return nil
		}
		log.ErrorContext(ctx, "Failed serving API", "error", err)
		return fmt.Errorf("failed serving API: %w", err)
	}
}

// Shutdown gracefully shuts down the api server
func (a *api) Shutdown(ctx context.Context) error {
	errC := ctx.Err()
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed shutting down API: %w", errors.Join(errC, err))
	}
	return errC
}

// Route is a handler served under a path and method
type Route struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

// RegisterRoutes registers the routes with a middleware that
// injects the logger of ctx into every request.
func (a *api) RegisterRoutes(ctx context.Context, routes ...Route) error {
	r := a.router.With(logger.Middleware(ctx))
	for _, route := range routes {
		switch route.Method {
		case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions:
			r.Method(route.Method, route.Path, route.Handler)
		case "*":
			r.HandleFunc(route.Path, route.Handler)
		default:
			return &ErrInvalidRoute{Route: route}
		}
	}
	return nil
}
