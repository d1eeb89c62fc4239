// Package password resolves the shared password from wherever it was
// provisioned: a literal, an environment variable, a file, AWS SSM Parameter
// Store, AWS Secrets Manager, S3, or an HTTPS endpoint.
//
// Source specs:
//
//	env:ARGSEAL_PASSWORD
//	file:/etc/argseal/password
//	ssm:/argseal/password
//	secretsmanager:arn:aws:secretsmanager:us-east-1:123456789012:secret:argseal
//	s3://bucket/path/to/password
//	https://vault.internal/v1/argseal/password
//	Password123                       (anything else is the literal password)
package password

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/argseal/argseal/pkg/tlsconfig"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ErrEmptyPassword is returned when a source resolves to an empty string.
var ErrEmptyPassword = errors.New("password source resolved to an empty password")

// maxSecretSize caps what is read from files, S3 objects and HTTP bodies.
const maxSecretSize = 64 * 1024

// SSMAPI is the subset of the SSM client used here.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// S3API is the subset of the S3 client used here.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Resolver turns a source spec into a password.
type Resolver struct {
	tls        tlsconfig.Config
	logger     *slog.Logger
	getenv     func(string) string
	httpClient *http.Client

	mu            sync.Mutex
	awsCfg        *aws.Config
	loadAWS       func(context.Context) (aws.Config, error)
	ssmClient     SSMAPI
	secretsClient SecretsManagerAPI
	s3Client      S3API
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTLS sets TLS options for https:// sources.
func WithTLS(cfg tlsconfig.Config) Option {
	return func(r *Resolver) { r.tls = cfg }
}

// WithLogger sets the logger. Resolved values are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithGetenv replaces os.Getenv for env: sources.
func WithGetenv(getenv func(string) string) Option {
	return func(r *Resolver) { r.getenv = getenv }
}

// WithHTTPClient replaces the client built from the TLS options.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) { r.httpClient = client }
}

// WithSSM sets the SSM client instead of building one from the default AWS
// configuration.
func WithSSM(client SSMAPI) Option {
	return func(r *Resolver) { r.ssmClient = client }
}

// WithSecretsManager sets the Secrets Manager client.
func WithSecretsManager(client SecretsManagerAPI) Option {
	return func(r *Resolver) { r.secretsClient = client }
}

// WithS3 sets the S3 client.
func WithS3(client S3API) Option {
	return func(r *Resolver) { r.s3Client = client }
}

// NewResolver creates a Resolver. AWS clients not supplied through options
// are created on first use from config.LoadDefaultConfig.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		logger: slog.New(slog.DiscardHandler),
		getenv: os.Getenv,
		loadAWS: func(ctx context.Context) (aws.Config, error) {
			return config.LoadDefaultConfig(ctx)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the password named by spec.
func (r *Resolver) Resolve(ctx context.Context, spec string) (string, error) {
	kind, value, err := r.resolve(ctx, spec)
	if err != nil {
		return "", fmt.Errorf("password source %s: %w", kind, err)
	}

	value = strings.TrimRight(value, "\r\n")
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("password source %s: %w", kind, ErrEmptyPassword)
	}

	r.logger.Debug("password resolved", "source", kind)
	return value, nil
}

func (r *Resolver) resolve(ctx context.Context, spec string) (kind, value string, err error) {
	if name, ok := strings.CutPrefix(spec, "env:"); ok {
		return "env", r.getenv(name), nil
	}
	if path, ok := strings.CutPrefix(spec, "file:"); ok {
		v, err := readFile(path)
		return "file", v, err
	}
	if name, ok := strings.CutPrefix(spec, "ssm:"); ok {
		v, err := r.fromSSM(ctx, name)
		return "ssm", v, err
	}
	if id, ok := strings.CutPrefix(spec, "secretsmanager:"); ok {
		v, err := r.fromSecretsManager(ctx, id)
		return "secretsmanager", v, err
	}
	if loc, ok := strings.CutPrefix(spec, "s3://"); ok {
		v, err := r.fromS3(ctx, loc)
		return "s3", v, err
	}
	if strings.HasPrefix(spec, "https://") || strings.HasPrefix(spec, "http://") {
		v, err := r.fromURL(ctx, spec)
		return "url", v, err
	}
	return "literal", spec, nil
}

func readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, maxSecretSize))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *Resolver) awsConfig(ctx context.Context) (aws.Config, error) {
	if r.awsCfg != nil {
		return *r.awsCfg, nil
	}
	cfg, err := r.loadAWS(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	r.awsCfg = &cfg
	return cfg, nil
}

func (r *Resolver) fromSSM(ctx context.Context, name string) (string, error) {
	r.mu.Lock()
	if r.ssmClient == nil {
		cfg, err := r.awsConfig(ctx)
		if err != nil {
			r.mu.Unlock()
			return "", err
		}
		r.ssmClient = ssm.NewFromConfig(cfg)
	}
	client := r.ssmClient
	r.mu.Unlock()

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to retrieve SSM parameter: %w", err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", ErrEmptyPassword
	}
	return *out.Parameter.Value, nil
}

// secretValue is the JSON shape accepted in a Secrets Manager secret.
type secretValue struct {
	Password string `json:"password"`
}

func (r *Resolver) fromSecretsManager(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	if r.secretsClient == nil {
		cfg, err := r.awsConfig(ctx)
		if err != nil {
			r.mu.Unlock()
			return "", err
		}
		r.secretsClient = secretsmanager.NewFromConfig(cfg)
	}
	client := r.secretsClient
	r.mu.Unlock()

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", fmt.Errorf("failed to retrieve secret: %w", err)
	}
	if out.SecretString == nil {
		return "", ErrEmptyPassword
	}

	raw := *out.SecretString
	if strings.HasPrefix(strings.TrimSpace(raw), "{") {
		var sv secretValue
		if err := json.Unmarshal([]byte(raw), &sv); err != nil {
			return "", fmt.Errorf("failed to parse secret: %w", err)
		}
		return sv.Password, nil
	}
	return raw, nil
}

func (r *Resolver) fromS3(ctx context.Context, loc string) (string, error) {
	bucket, key, ok := strings.Cut(loc, "/")
	if !ok || bucket == "" || key == "" {
		return "", fmt.Errorf("expected s3://bucket/key, got %q", "s3://"+loc)
	}

	r.mu.Lock()
	if r.s3Client == nil {
		cfg, err := r.awsConfig(ctx)
		if err != nil {
			r.mu.Unlock()
			return "", err
		}
		r.s3Client = s3.NewFromConfig(cfg)
	}
	client := r.s3Client
	r.mu.Unlock()

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, maxSecretSize))
	if err != nil {
		return "", fmt.Errorf("failed to read S3 object: %w", err)
	}
	return string(body), nil
}

func (r *Resolver) fromURL(ctx context.Context, rawURL string) (string, error) {
	if err := r.tls.ValidateURL(rawURL); err != nil {
		return "", err
	}

	client := r.httpClient
	if client == nil {
		var err error
		client, err = tlsconfig.NewHTTPClient(r.tls)
		if err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSecretSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}
