package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
)

// CLI holds global flags shared by every subcommand.
type CLI struct {
	Verbose  int    `short:"v" type:"counter" help:"Increase log verbosity (-v info, -vv debug)"`
	Config   string `help:"Config file (.cue, .yaml or .json)" env:"ARGSEAL_CONFIG" type:"path"`
	Password string `help:"Password source: literal, env:NAME, file:PATH, ssm:NAME, secretsmanager:ID, s3://BUCKET/KEY or https://URL" env:"ARGSEAL_PASSWORD"`
	Insecure bool   `help:"Allow plain http:// password URLs"`
	CACert   string `name:"ca-cert" help:"PEM file with CA certificates for https:// password URLs" type:"path"`

	Encrypt EncryptCLI `cmd:"" help:"Encrypt key=value pairs into a token"`
	Decrypt DecryptCLI `cmd:"" help:"Decrypt a token and print its pairs"`
	Serve   ServeCLI   `cmd:"" help:"Run the HTTP encrypt/decrypt service"`
	Lambda  LambdaCLI  `cmd:"" help:"Run the HTTP service as an AWS Lambda function"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("argseal"),
		kong.Description("Pack key/value arguments into tamper-evident, password-encrypted tokens."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	logger := newLogger(os.Stderr, cli.Verbose)
	err := kctx.Run(logger, &cli)
	kctx.FatalIfErrorf(err)
}

// newLogger maps the -v count onto a level: 0=warn, 1=info, 2+=debug.
func newLogger(w io.Writer, verbosity int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity == 1:
		level = slog.LevelInfo
	case verbosity >= 2:
		level = slog.LevelDebug
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}
