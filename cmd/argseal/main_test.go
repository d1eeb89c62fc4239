package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lmittmann/tint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPassword = "Password123"
	knownToken   = "P94BAgMEBQYHCG2YB8OWDXxOyOm0G1h%2F%2F6o%3D"
)

func testLogger(t *testing.T) *slog.Logger {
	return slog.New(tint.NewHandler(t.Output(), &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05",
	}))
}

func TestParsePairs(t *testing.T) {
	pairs, err := parsePairs([]string{"a=1", "b=x=y", "c="})
	require.NoError(t, err)
	require.Len(t, pairs, 3)
	assert.Equal(t, "a", pairs[0].Key)
	assert.Equal(t, "1", pairs[0].Value)
	assert.Equal(t, "x=y", pairs[1].Value)
	assert.Equal(t, "", pairs[2].Value)

	_, err = parsePairs([]string{"novalue"})
	require.Error(t, err)
}

func TestNewLogger_Levels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	l := newLogger(&buf, 0)
	assert.False(t, l.Enabled(ctx, slog.LevelInfo))
	assert.True(t, l.Enabled(ctx, slog.LevelWarn))

	l = newLogger(&buf, 1)
	assert.True(t, l.Enabled(ctx, slog.LevelInfo))
	assert.False(t, l.Enabled(ctx, slog.LevelDebug))

	l = newLogger(&buf, 3)
	assert.True(t, l.Enabled(ctx, slog.LevelDebug))
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cli := &CLI{Password: testPassword}

	var out bytes.Buffer
	enc := &EncryptCLI{Pairs: []string{"user=ann", "note=a b&c"}}
	require.NoError(t, enc.run(ctx, testLogger(t), cli, &out))
	token := strings.TrimSpace(out.String())
	require.NotEmpty(t, token)

	out.Reset()
	dec := &DecryptCLI{Token: token}
	require.NoError(t, dec.run(ctx, testLogger(t), cli, nil, &out))
	require.Equal(t, "user=ann\nnote=a b&c\n", out.String())
}

func TestEncryptDecrypt_RawBase64(t *testing.T) {
	ctx := context.Background()
	cli := &CLI{Password: testPassword}

	var out bytes.Buffer
	enc := &EncryptCLI{NoURLEncode: true, Pairs: []string{"k=v"}}
	require.NoError(t, enc.run(ctx, testLogger(t), cli, &out))
	token := strings.TrimSpace(out.String())
	require.NotContains(t, token, "%")

	out.Reset()
	dec := &DecryptCLI{NoURLEncode: true, Token: "-"}
	require.NoError(t, dec.run(ctx, testLogger(t), cli, strings.NewReader(token+"\n"), &out))
	require.Equal(t, "k=v\n", out.String())
}

func TestDecrypt_KnownTokenFormats(t *testing.T) {
	ctx := context.Background()
	cli := &CLI{Password: testPassword}

	var out bytes.Buffer
	dec := &DecryptCLI{JSON: true, Token: knownToken}
	require.NoError(t, dec.run(ctx, testLogger(t), cli, nil, &out))
	require.JSONEq(t, `{"pairs":[{"key":"Name","value":"Bob"}]}`, out.String())

	out.Reset()
	dec = &DecryptCLI{Template: "Hi {{Name}}", Token: knownToken}
	require.NoError(t, dec.run(ctx, testLogger(t), cli, nil, &out))
	require.Equal(t, "Hi Bob\n", out.String())
}

func TestDecrypt_TemplateFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "argseal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("password: Password123\ntemplate: \"{{Name}}!\"\n"), 0644))

	var out bytes.Buffer
	dec := &DecryptCLI{Token: knownToken}
	require.NoError(t, dec.run(context.Background(), testLogger(t), &CLI{Config: path}, nil, &out))
	require.Equal(t, "Bob!\n", out.String())
}

func TestDecrypt_WrongPassword(t *testing.T) {
	var out bytes.Buffer
	dec := &DecryptCLI{Token: knownToken}
	err := dec.run(context.Background(), testLogger(t), &CLI{Password: "wrong"}, nil, &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid token")
	require.Empty(t, out.String())
}

func TestLoad_PasswordSources(t *testing.T) {
	t.Setenv("ARGSEAL_TEST_PW", testPassword)

	s, err := (&CLI{Password: "env:ARGSEAL_TEST_PW"}).load(context.Background(), testLogger(t))
	require.NoError(t, err)
	require.Equal(t, testPassword, s.password)
	require.Equal(t, 1000, s.cfg.Iterations)

	_, err = (&CLI{}).load(context.Background(), testLogger(t))
	require.ErrorIs(t, err, errNoPassword)
}

func TestLoad_FlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "argseal.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"password": "fromfile", "insecure": false}`), 0644))

	s, err := (&CLI{Config: path, Password: "fromflag", Insecure: true}).load(context.Background(), testLogger(t))
	require.NoError(t, err)
	require.Equal(t, "fromflag", s.password)
	require.True(t, s.tls.Insecure)
}

func TestNewHandler(t *testing.T) {
	s, err := (&CLI{Password: testPassword}).load(context.Background(), testLogger(t))
	require.NoError(t, err)

	h, err := newHandler(s, testLogger(t))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/decrypt?d="+knownToken, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"pairs":[{"key":"Name","value":"Bob"}]}`, rec.Body.String())
}

func TestListenAndServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- listenAndServe(ctx, "127.0.0.1:0", http.NotFoundHandler(), nil)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListenAndServe_BadAddress(t *testing.T) {
	err := listenAndServe(context.Background(), "256.0.0.1:bad", http.NotFoundHandler(), nil)
	require.Error(t, err)
}

func TestNewHandler_AccessLogOmitsQuery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(tint.NewHandler(&buf, &tint.Options{Level: slog.LevelDebug, NoColor: true}))

	s, err := (&CLI{Password: testPassword}).load(context.Background(), logger)
	require.NoError(t, err)
	h, err := newHandler(s, logger)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/encrypt?SSN=123-45-6789", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	out := buf.String()
	require.Contains(t, out, "path=/encrypt")
	require.NotContains(t, out, "123-45-6789")
	require.NotContains(t, out, "SSN")
}
