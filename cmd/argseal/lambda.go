package main

import (
	"context"
	"log/slog"

	"github.com/argseal/argseal/pkg/argserver"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

// LambdaCLI serves the same routes behind API Gateway. The password is
// normally an ssm: or secretsmanager: source.
type LambdaCLI struct{}

func (l *LambdaCLI) Run(ctx context.Context, logger *slog.Logger, cli *CLI) error {
	logger.Info("starting argseal Lambda handler")

	s, err := cli.load(ctx, logger)
	if err != nil {
		return err
	}

	handler, err := newHandler(s, logger)
	if err != nil {
		return err
	}

	logger.Info("argseal Lambda initialized successfully")

	lambda.Start(func(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return argserver.HandleLambdaRequest(ctx, request, handler, logger)
	})

	return nil
}
