package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/argseal/argseal/pkg/argcrypt"
	"github.com/argseal/argseal/pkg/config"
	"github.com/argseal/argseal/pkg/password"
	"github.com/argseal/argseal/pkg/tlsconfig"
)

var errNoPassword = errors.New("no password configured: use --password, ARGSEAL_PASSWORD or the config file")

// settings is the config file merged with global flags, with the password
// source already resolved.
type settings struct {
	cfg      *config.Config
	password string
	tls      tlsconfig.Config
}

// load reads the config file, applies flag overrides and resolves the
// password. Flags win over the file.
func (c *CLI) load(ctx context.Context, logger *slog.Logger) (*settings, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}

	if c.Password != "" {
		cfg.Password = c.Password
	}
	if c.Insecure {
		cfg.Insecure = true
	}
	if c.CACert != "" {
		cfg.CACert = c.CACert
	}

	if cfg.Password == "" {
		return nil, errNoPassword
	}

	tlsCfg := tlsconfig.Config{Insecure: cfg.Insecure, CACertFile: cfg.CACert}
	resolver := password.NewResolver(password.WithTLS(tlsCfg), password.WithLogger(logger))
	pw, err := resolver.Resolve(ctx, cfg.Password)
	if err != nil {
		return nil, err
	}

	logger.Debug("settings loaded", "config", c.Config, "iterations", cfg.Iterations, "url_encode", cfg.URLEncode)

	return &settings{cfg: cfg, password: pw, tls: tlsCfg}, nil
}

// encryptor builds a codec bound to the resolved password.
func (s *settings) encryptor(logger *slog.Logger) (*argcrypt.Encryptor, error) {
	enc, err := argcrypt.New(s.password,
		argcrypt.WithIterations(s.cfg.Iterations),
		argcrypt.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create encryptor: %w", err)
	}
	return enc, nil
}
