package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/argseal/argseal/pkg/argcrypt"
	"github.com/cbroglie/mustache"
)

type DecryptCLI struct {
	NoURLEncode bool   `name:"no-url-encode" help:"Token is raw base64, not percent-encoded"`
	JSON        bool   `name:"json" help:"Print pairs as JSON"`
	Template    string `help:"Mustache template rendered with the decoded pairs"`
	Token       string `arg:"" help:"Token to decrypt, or - to read it from stdin"`
}

func (d *DecryptCLI) Run(ctx context.Context, logger *slog.Logger, cli *CLI) error {
	return d.run(ctx, logger, cli, os.Stdin, os.Stdout)
}

func (d *DecryptCLI) run(ctx context.Context, logger *slog.Logger, cli *CLI, in io.Reader, out io.Writer) error {
	token := d.Token
	if token == "-" {
		data, err := io.ReadAll(io.LimitReader(in, 1<<20))
		if err != nil {
			return fmt.Errorf("unable to read token: %w", err)
		}
		token = strings.TrimSpace(string(data))
	}

	s, err := cli.load(ctx, logger)
	if err != nil {
		return err
	}

	enc, err := s.encryptor(logger)
	if err != nil {
		return err
	}

	if err := enc.Decrypt(token, s.cfg.URLEncode && !d.NoURLEncode); err != nil {
		var de *argcrypt.DecodeError
		if errors.As(err, &de) {
			return fmt.Errorf("invalid token (%s)", de.Stage)
		}
		return err
	}

	tmpl := d.Template
	if tmpl == "" {
		tmpl = s.cfg.Template
	}

	switch {
	case d.JSON:
		je := json.NewEncoder(out)
		je.SetIndent("", "  ")
		return je.Encode(struct {
			Pairs []argcrypt.Pair `json:"pairs"`
		}{enc.Pairs()})
	case tmpl != "":
		rendered, err := mustache.Render(tmpl, enc.Map())
		if err != nil {
			return fmt.Errorf("unable to render template: %w", err)
		}
		_, err = fmt.Fprintln(out, rendered)
		return err
	default:
		for _, p := range enc.Pairs() {
			if _, err := fmt.Fprintf(out, "%s=%s\n", p.Key, p.Value); err != nil {
				return err
			}
		}
		return nil
	}
}
