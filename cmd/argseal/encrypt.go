package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/argseal/argseal/pkg/argcrypt"
)

type EncryptCLI struct {
	NoURLEncode bool     `name:"no-url-encode" help:"Print raw base64 instead of a percent-encoded token"`
	Pairs       []string `arg:"" name:"pair" help:"key=value pairs, in order"`
}

func (e *EncryptCLI) Run(ctx context.Context, logger *slog.Logger, cli *CLI) error {
	return e.run(ctx, logger, cli, os.Stdout)
}

func (e *EncryptCLI) run(ctx context.Context, logger *slog.Logger, cli *CLI, out io.Writer) error {
	pairs, err := parsePairs(e.Pairs)
	if err != nil {
		return err
	}

	s, err := cli.load(ctx, logger)
	if err != nil {
		return err
	}

	enc, err := s.encryptor(logger)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		if err := enc.Add(p.Key, p.Value); err != nil {
			return fmt.Errorf("pair %q: %w", p.Key, err)
		}
	}

	token, err := enc.Encrypt(s.cfg.URLEncode && !e.NoURLEncode)
	if err != nil {
		return err
	}

	logger.Info("encrypted", "pairs", len(pairs), "token_length", len(token))
	_, err = fmt.Fprintln(out, token)
	return err
}

// parsePairs splits key=value arguments. The first '=' separates key from
// value so values may contain '='.
func parsePairs(args []string) ([]argcrypt.Pair, error) {
	pairs := make([]argcrypt.Pair, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q: expected key=value", arg)
		}
		pairs = append(pairs, argcrypt.Pair{Key: key, Value: value})
	}
	return pairs, nil
}
