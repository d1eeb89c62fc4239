package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/argseal/argseal/pkg/argserver"
	"github.com/argseal/argseal/pkg/tlsconfig"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ServeCLI struct {
	Listen  string `help:"Address to listen on (host:port or unix:///path)" short:"l" env:"ARGSEAL_LISTEN"`
	TLSCert string `name:"tls-cert" help:"PEM certificate for HTTPS" type:"path"`
	TLSKey  string `name:"tls-key" help:"PEM private key for HTTPS" type:"path"`
}

func (c *ServeCLI) Run(ctx context.Context, logger *slog.Logger, cli *CLI) error {
	logger.Debug("serve command called", "serve", c)

	s, err := cli.load(ctx, logger)
	if err != nil {
		return err
	}

	if c.Listen != "" {
		s.cfg.Listen = c.Listen
	}
	if c.TLSCert != "" {
		s.cfg.TLSCert = c.TLSCert
	}
	if c.TLSKey != "" {
		s.cfg.TLSKey = c.TLSKey
	}

	handler, err := newHandler(s, logger)
	if err != nil {
		return err
	}

	serverTLS, err := tlsconfig.ServerConfig{CertFile: s.cfg.TLSCert, KeyFile: s.cfg.TLSKey}.Load()
	if err != nil {
		return err
	}

	logger.Info("listening", "address", s.cfg.Listen, "tls", serverTLS != nil)
	return listenAndServe(ctx, s.cfg.Listen, handler, serverTLS)
}

// newHandler wraps the argserver routes in the standard middleware stack.
func newHandler(s *settings, logger *slog.Logger) (http.Handler, error) {
	srv, err := argserver.New(argserver.Config{
		Password:   s.password,
		Param:      s.cfg.Param,
		URLEncode:  s.cfg.URLEncode,
		Iterations: s.cfg.Iterations,
		Template:   s.cfg.Template,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("unable to create server: %w", err)
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(argserver.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Handle("/*", srv)

	return r, nil
}
