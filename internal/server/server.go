// Package server exposes the conversion pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz                  build info
//	POST   /v1/convert/{format}      convert the request body to format
//	POST   /v1/inspect               summarize the request body as JSON
//	GET    /v1/puzzles               list archived puzzles
//	POST   /v1/puzzles               archive the request body
//	GET    /v1/puzzles/{id}          fetch an archived puzzle (?format=)
//	DELETE /v1/puzzles/{id}          remove an archived puzzle
//
// The puzzle routes are mounted only when an archive is configured.
//
// Convert and inspect accept the query parameters from (force the input
// format), filename (extension hint) and omit_play_state. Errors are
// returned as {"error": {"code": ..., "message": ...}} with a status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/crosswire/pkg/archive"
	"github.com/matzehuels/crosswire/pkg/buildinfo"
	"github.com/matzehuels/crosswire/pkg/codec"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	pkgio "github.com/matzehuels/crosswire/pkg/io"
	"github.com/matzehuels/crosswire/pkg/observability"
	"github.com/matzehuels/crosswire/pkg/pipeline"
)

// Headers set on conversion responses.
const (
	HeaderRequestID    = "X-Request-Id"
	HeaderSourceFormat = "X-Crosswire-Source-Format"
	HeaderCache        = "X-Crosswire-Cache"
)

// Options configures the handler.
type Options struct {
	// MaxBody bounds request bodies. Zero means pipeline.MaxInput.
	MaxBody int64
	// Archive enables the /v1/puzzles routes when non-nil.
	Archive *archive.Archive
}

type server struct {
	runner  *pipeline.Runner
	archive *archive.Archive
	logger  *log.Logger
	maxBody int64
}

// New returns the API handler.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = pipeline.MaxInput
	}
	s := &server{runner: runner, archive: opts.Archive, logger: logger, maxBody: opts.MaxBody}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/convert/{format}", s.convert)
		r.Post("/inspect", s.inspect)
		if s.archive != nil {
			r.Route("/puzzles", func(r chi.Router) {
				r.Get("/", s.listPuzzles)
				r.Post("/", s.addPuzzle)
				r.Get("/{id}", s.getPuzzle)
				r.Delete("/{id}", s.deletePuzzle)
			})
		}
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, cwerrors.New(cwerrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// =============================================================================
// Middleware
// =============================================================================

// requestID tags each request with the caller's X-Request-Id or a fresh
// UUID. The ID is stored where middleware.GetReqID finds it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, dur)
		s.logger.Debug("request", "id", middleware.GetReqID(r.Context()),
			"method", r.Method, "route", route, "status", status,
			"bytes", ww.BytesWritten(), "duration", dur)
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

func (s *server) convert(w http.ResponseWriter, r *http.Request) {
	opts, err := pipelineOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.To = codec.Format(chi.URLParam(r, "format"))
	data, err := s.readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.runner.Convert(r.Context(), data, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cache := "miss"
	if res.WriteHit {
		cache = "hit"
	}
	w.Header().Set("Content-Type", ContentType(res.To))
	w.Header().Set(HeaderSourceFormat, string(res.Parse.Format))
	w.Header().Set(HeaderCache, cache)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Output)
}

func (s *server) inspect(w http.ResponseWriter, r *http.Request) {
	opts, err := pipelineOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := s.readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, info, err := s.runner.Parse(r.Context(), data, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkgio.Summarize(p, info.Format))
}

func (s *server) listPuzzles(w http.ResponseWriter, r *http.Request) {
	recs, err := s.archive.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if recs == nil {
		recs = []archive.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *server) addPuzzle(w http.ResponseWriter, r *http.Request) {
	opts, err := pipelineOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := s.readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, info, err := s.runner.Parse(r.Context(), data, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rec, existed, err := s.archive.Add(r.Context(), p, info.Format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	w.Header().Set("Location", "/v1/puzzles/"+rec.ID)
	writeJSON(w, status, rec.Summary())
}

func (s *server) getPuzzle(w http.ResponseWriter, r *http.Request) {
	format := codec.Format(strings.ToLower(r.URL.Query().Get("format")))
	if format == "" {
		format = pipeline.DefaultOutput
	}
	omit, err := boolParam(r, "omit_play_state")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, _, err := s.archive.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.runner.Write(r.Context(), p, format, codec.Options{OmitPlayState: omit})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *server) deletePuzzle(w http.ResponseWriter, r *http.Request) {
	if err := s.archive.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, errTooLarge{limit: tooLarge.Limit}
	}
	if err != nil {
		return nil, cwerrors.Wrap(cwerrors.ErrCodeInvalidInput, err, "read request body")
	}
	return data, nil
}

func pipelineOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{From: q.Get("from"), Filename: q.Get("filename")}
	if opts.Filename != "" {
		if err := cwerrors.ValidatePath(opts.Filename); err != nil {
			return opts, err
		}
	}
	var err error
	if opts.OmitPlayState, err = boolParam(r, "omit_play_state"); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(r, "refresh"); err != nil {
		return opts, err
	}
	return opts, nil
}

func boolParam(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, cwerrors.New(cwerrors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", name, v)
	}
	return b, nil
}

// ContentType returns the media type of a format's documents.
func ContentType(f codec.Format) string {
	switch f {
	case codec.FormatIPuz:
		return "application/json"
	case codec.FormatJPZ:
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}

type errTooLarge struct{ limit int64 }

func (e errTooLarge) Error() string {
	return "request body exceeds " + strconv.FormatInt(e.limit, 10) + " bytes"
}

// StatusCode maps an error to the HTTP status it is reported with.
func StatusCode(err error) int {
	var tooLarge errTooLarge
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch cwerrors.GetCode(err) {
	case cwerrors.ErrCodeInvalidInput, cwerrors.ErrCodeInvalidFormat, cwerrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case cwerrors.ErrCodeStructural, cwerrors.ErrCodeUnresolvedReference,
		cwerrors.ErrCodeLinkage, cwerrors.ErrCodeUnsupportedVersion:
		return http.StatusUnprocessableEntity
	case cwerrors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case cwerrors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusCode(err) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", middleware.GetReqID(r.Context()),
			"method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeError(w, err)
}

func writeError(w http.ResponseWriter, err error) {
	code := cwerrors.GetCode(err)
	status := StatusCode(err)
	if code == "" {
		code = cwerrors.ErrCodeInternal
		if status == http.StatusRequestEntityTooLarge {
			code = cwerrors.ErrCodeInvalidInput
		}
	}
	msg := cwerrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: string(code), Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = pkgio.WriteJSON(w, v)
}
