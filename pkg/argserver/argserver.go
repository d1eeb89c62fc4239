// Package argserver exposes the argument codec over HTTP.
package argserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/argseal/argseal/pkg/argcrypt"
	"github.com/cbroglie/mustache"
	"github.com/go-chi/chi/v5"
)

// RequestBodySizeLimit is the maximum request body size
const RequestBodySizeLimit = 64 << 10

// DefaultParam is the query parameter carrying a token on /decrypt.
const DefaultParam = "d"

// Config configures a Server. When Template is set, /decrypt renders it
// with the decoded pairs as a mustache context instead of returning JSON.
type Config struct {
	Password   string
	Param      string
	URLEncode  bool
	Iterations int
	Template   string
}

// Server serves /encrypt, /decrypt and /healthz.
type Server struct {
	password  string
	param     string
	urlEncode bool
	tmpl      *mustache.Template
	opts      []argcrypt.Option
	log       *slog.Logger
	router    chi.Router
}

// EncryptRequest is the body of POST /encrypt.
type EncryptRequest struct {
	Pairs []argcrypt.Pair `json:"pairs"`
}

// EncryptResponse is the response to POST /encrypt.
type EncryptResponse struct {
	Token string `json:"token"`
}

// DecryptResponse is the JSON response to GET /decrypt.
type DecryptResponse struct {
	Pairs []argcrypt.Pair `json:"pairs"`
}

// New creates a Server. The password is validated up front so a bad
// configuration fails at startup rather than on the first request. opts are
// applied to every per-request Encryptor after the ones derived from cfg.
func New(cfg Config, logger *slog.Logger, opts ...argcrypt.Option) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		password:  cfg.Password,
		param:     cfg.Param,
		urlEncode: cfg.URLEncode,
		log:       logger,
	}
	if s.param == "" {
		s.param = DefaultParam
	}

	s.opts = []argcrypt.Option{argcrypt.WithLogger(logger)}
	if cfg.Iterations > 0 {
		s.opts = append(s.opts, argcrypt.WithIterations(cfg.Iterations))
	}
	s.opts = append(s.opts, opts...)

	if _, err := argcrypt.New(s.password, s.opts...); err != nil {
		return nil, err
	}

	if cfg.Template != "" {
		tmpl, err := mustache.ParseString(cfg.Template)
		if err != nil {
			return nil, fmt.Errorf("invalid template: %w", err)
		}
		s.tmpl = tmpl
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.healthz)
	r.Get("/encrypt", s.encryptQuery)
	r.Post("/encrypt", s.encryptJSON)
	r.Get("/decrypt", s.decrypt)
	s.router = r

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func (s *Server) encryptQuery(w http.ResponseWriter, r *http.Request) {
	pairs, err := parseOrderedQuery(r.URL.RawQuery)
	if err != nil {
		writeText(w, http.StatusBadRequest, fmt.Sprintf("unable to parse query: %s", err))
		return
	}

	token, err := s.encrypt(pairs)
	if err != nil {
		s.encryptFailed(w, err)
		return
	}

	writeText(w, http.StatusOK, token)
}

func (s *Server) encryptJSON(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, RequestBodySizeLimit+1))
	if err != nil {
		writeText(w, http.StatusBadRequest, fmt.Sprintf("unable to read body: %s", err))
		return
	}
	if len(body) > RequestBodySizeLimit {
		writeText(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var req EncryptRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeText(w, http.StatusBadRequest, fmt.Sprintf("unable to parse body: %s", err))
		return
	}

	token, err := s.encrypt(req.Pairs)
	if err != nil {
		s.encryptFailed(w, err)
		return
	}

	writeJSON(w, s.log, EncryptResponse{Token: token})
}

func (s *Server) encrypt(pairs []argcrypt.Pair) (string, error) {
	enc, err := argcrypt.New(s.password, s.opts...)
	if err != nil {
		return "", err
	}
	for _, p := range pairs {
		if err := enc.Add(p.Key, p.Value); err != nil {
			return "", err
		}
	}
	return enc.Encrypt(s.urlEncode)
}

// encryptFailed answers 400 for pairs the client got wrong and 500 for
// anything else, such as a failing random source.
func (s *Server) encryptFailed(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, argcrypt.ErrDuplicateKey),
		errors.Is(err, argcrypt.ErrInvalidText),
		errors.Is(err, argcrypt.ErrTooLarge):
		writeText(w, http.StatusBadRequest, fmt.Sprintf("unable to encrypt: %s", err))
	default:
		s.log.Error("encrypt failed", "error", err)
		writeText(w, http.StatusInternalServerError, "unable to encrypt")
	}
}

func (s *Server) decrypt(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get(s.param)
	if token == "" {
		writeText(w, http.StatusBadRequest, fmt.Sprintf("missing %q parameter", s.param))
		return
	}
	// The query layer already percent-decoded the token. Base64 never
	// contains a space, so any space was an unescaped '+'.
	token = strings.ReplaceAll(token, " ", "+")

	enc, err := argcrypt.New(s.password, s.opts...)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "server misconfigured")
		return
	}

	if err := enc.Decrypt(token, false); err != nil {
		var de *argcrypt.DecodeError
		if errors.As(err, &de) {
			s.log.Info("rejected token", "stage", de.Stage)
		}
		writeText(w, http.StatusBadRequest, "invalid token")
		return
	}

	if s.tmpl != nil {
		out, err := s.tmpl.Render(enc.Map())
		if err != nil {
			s.log.Warn("unable to render template", "error", err)
			writeText(w, http.StatusInternalServerError, "unable to render template")
			return
		}
		writeText(w, http.StatusOK, out)
		return
	}

	writeJSON(w, s.log, DecryptResponse{Pairs: enc.Pairs()})
}

// parseOrderedQuery splits a raw query string into pairs, keeping the
// order in which they appear. url.ParseQuery returns a map and would lose
// it.
func parseOrderedQuery(raw string) ([]argcrypt.Pair, error) {
	var pairs []argcrypt.Pair
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, argcrypt.Pair{Key: key, Value: value})
	}
	return pairs, nil
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	out, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Warn("unable to jsonify response", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		log.Warn("unable to write response", "error", err)
	}
}
