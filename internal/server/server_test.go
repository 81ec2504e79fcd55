package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/crosswire/pkg/archive"
	"github.com/matzehuels/crosswire/pkg/cache"
	"github.com/matzehuels/crosswire/pkg/codec"
	"github.com/matzehuels/crosswire/pkg/codec/ipuz"
	"github.com/matzehuels/crosswire/pkg/codec/jpz"
	cwerrors "github.com/matzehuels/crosswire/pkg/errors"
	pkgio "github.com/matzehuels/crosswire/pkg/io"
	"github.com/matzehuels/crosswire/pkg/observability"
	"github.com/matzehuels/crosswire/pkg/pipeline"
	"github.com/matzehuels/crosswire/pkg/puz/puztest"
)

func ipuzDoc(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	p := puztest.Play(t, puztest.Crossword(t))
	if err := (ipuz.Codec{}).Write(&buf, p, codec.Options{}); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	return buf.Bytes()
}

func newHandler(t *testing.T, withArchive bool) http.Handler {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{}
	if withArchive {
		store, err := archive.NewFileStore(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		opts.Archive = archive.New(store, archive.CompressionZstd, nil)
	}
	return New(pipeline.NewRunner(c, nil, nil), nil, opts)
}

func do(h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v\n%s", err, rec.Body.String())
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	h := newHandler(t, false)
	rec := do(h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
		Build  struct {
			Version string `json:"version"`
		} `json:"build"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Build.Version == "" {
		t.Errorf("body = %+v", body)
	}
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	h := newHandler(t, false)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestConvert(t *testing.T) {
	h := newHandler(t, false)
	doc := ipuzDoc(t)

	rec := do(h, http.MethodPost, "/v1/convert/jpz", doc)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := rec.Header().Get(HeaderSourceFormat); got != "ipuz" {
		t.Errorf("source format = %q, want ipuz", got)
	}
	if got := rec.Header().Get(HeaderCache); got != "miss" {
		t.Errorf("cache = %q, want miss", got)
	}
	p, err := (jpz.Codec{}).Parse(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response does not parse as JPZ: %v", err)
	}
	if p.Title != "Sample & Co" {
		t.Errorf("Title = %q", p.Title)
	}

	rec = do(h, http.MethodPost, "/v1/convert/jpz", doc)
	if got := rec.Header().Get(HeaderCache); got != "hit" {
		t.Errorf("second request cache = %q, want hit", got)
	}
}

func TestConvertOmitPlayState(t *testing.T) {
	h := newHandler(t, false)
	rec := do(h, http.MethodPost, "/v1/convert/ipuz?omit_play_state=true", ipuzDoc(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "stuck on 2d") {
		t.Error("player note survived omit_play_state")
	}
}

func TestConvertErrors(t *testing.T) {
	h := newHandler(t, false)
	doc := ipuzDoc(t)

	tests := []struct {
		name   string
		target string
		body   []byte
		status int
		code   cwerrors.Code
	}{
		{"unknown target", "/v1/convert/svg", doc, http.StatusUnsupportedMediaType, cwerrors.ErrCodeUnsupported},
		{"empty body", "/v1/convert/jpz", nil, http.StatusBadRequest, cwerrors.ErrCodeInvalidInput},
		{"undetectable", "/v1/convert/jpz", []byte("hello"), http.StatusUnsupportedMediaType, cwerrors.ErrCodeUnsupported},
		{"wrong forced format", "/v1/convert/ipuz?from=jpz", doc, http.StatusBadRequest, cwerrors.ErrCodeInvalidFormat},
		{"bad boolean", "/v1/convert/ipuz?omit_play_state=maybe", doc, http.StatusBadRequest, cwerrors.ErrCodeInvalidInput},
		{"filename traversal", "/v1/convert/ipuz?filename=../x.ipuz", doc, http.StatusBadRequest, cwerrors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if got := decodeError(t, rec); got.Code != string(tt.code) {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	c := cache.NewNullCache()
	h := New(pipeline.NewRunner(c, nil, nil), nil, Options{MaxBody: 16})
	rec := do(h, http.MethodPost, "/v1/inspect", ipuzDoc(t))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestInspect(t *testing.T) {
	h := newHandler(t, false)
	rec := do(h, http.MethodPost, "/v1/inspect", ipuzDoc(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var s pkgio.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	if s.Format != codec.FormatIPuz || s.Width != 3 || s.Height != 3 {
		t.Errorf("summary = %+v", s)
	}
	if s.ClueCount() != 4 {
		t.Errorf("ClueCount() = %d, want 4", s.ClueCount())
	}
}

func TestUnknownRoute(t *testing.T) {
	h := newHandler(t, false)
	rec := do(h, http.MethodGet, "/v1/puzzles", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without an archive", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != string(cwerrors.ErrCodeNotFound) {
		t.Errorf("code = %q", got.Code)
	}
}

func TestPuzzles(t *testing.T) {
	h := newHandler(t, true)
	doc := ipuzDoc(t)

	rec := do(h, http.MethodPost, "/v1/puzzles", doc)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", rec.Code, rec.Body.String())
	}
	var added archive.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &added); err != nil {
		t.Fatal(err)
	}
	if added.ID == "" || added.Title != "Sample & Co" || added.Source != codec.FormatIPuz {
		t.Errorf("record = %+v", added)
	}
	if loc := rec.Header().Get("Location"); loc != "/v1/puzzles/"+added.ID {
		t.Errorf("Location = %q", loc)
	}

	rec = do(h, http.MethodPost, "/v1/puzzles", doc)
	if rec.Code != http.StatusOK {
		t.Errorf("duplicate add status = %d, want 200", rec.Code)
	}

	rec = do(h, http.MethodGet, "/v1/puzzles", nil)
	var list []archive.Record
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != added.ID {
		t.Errorf("list = %+v", list)
	}

	rec = do(h, http.MethodGet, "/v1/puzzles/"+added.ID+"?format=JPZ", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Errorf("Content-Type = %q", ct)
	}

	rec = do(h, http.MethodDelete, "/v1/puzzles/"+added.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	rec = do(h, http.MethodGet, "/v1/puzzles/"+added.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
	rec = do(h, http.MethodGet, "/v1/puzzles/not-an-id", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("get bad id status = %d, want 400", rec.Code)
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code cwerrors.Code
		want int
	}{
		{cwerrors.ErrCodeInvalidFormat, http.StatusBadRequest},
		{cwerrors.ErrCodeStructural, http.StatusUnprocessableEntity},
		{cwerrors.ErrCodeLinkage, http.StatusUnprocessableEntity},
		{cwerrors.ErrCodeUnsupportedVersion, http.StatusUnprocessableEntity},
		{cwerrors.ErrCodeUnsupported, http.StatusUnsupportedMediaType},
		{cwerrors.ErrCodeNotFound, http.StatusNotFound},
		{cwerrors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := codec.Errorf(codec.FormatJPZ, tt.code, "boom")
			if got := StatusCode(err); got != tt.want {
				t.Errorf("StatusCode(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

type recordingHooks struct {
	mu     sync.Mutex
	routes []string
	status []int
}

func (h *recordingHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
	h.status = append(h.status, status)
}

func TestServerHooks(t *testing.T) {
	defer observability.Reset()
	hooks := &recordingHooks{}
	observability.SetServerHooks(hooks)

	h := newHandler(t, false)
	do(h, http.MethodPost, "/v1/convert/native", ipuzDoc(t))
	do(h, http.MethodPost, "/v1/convert/svg", ipuzDoc(t))

	if len(hooks.routes) != 2 {
		t.Fatalf("got %d responses, want 2", len(hooks.routes))
	}
	for i, route := range hooks.routes {
		if route != "/v1/convert/{format}" {
			t.Errorf("route[%d] = %q, want pattern", i, route)
		}
	}
	if hooks.status[0] != http.StatusOK || hooks.status[1] != http.StatusUnsupportedMediaType {
		t.Errorf("status = %v", hooks.status)
	}
}
