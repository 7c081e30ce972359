//go:build integration

package integration

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// reply is one scripted answer.
type reply struct {
	status int
	body   string
}

// received is one request as the fake saw it.
type received struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
	at     time.Time
}

// fakeLexoffice is an httptest server that answers from per-route scripts.
// A route's replies are consumed in order; the last one repeats. Unscripted
// routes answer 404 like Lexoffice does for unknown resources.
type fakeLexoffice struct {
	server *httptest.Server

	mu       sync.Mutex
	scripts  map[string][]reply
	requests []received
}

func newFakeLexoffice() *fakeLexoffice {
	f := &fakeLexoffice{scripts: make(map[string][]reply)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))

	return f
}

func (f *fakeLexoffice) URL() string {
	return f.server.URL + "/v1"
}

func (f *fakeLexoffice) Close() {
	f.server.Close()
}

// On appends replies for method and path (relative to /v1).
func (f *fakeLexoffice) On(method, path string, replies ...reply) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := method + " " + path
	f.scripts[key] = append(f.scripts[key], replies...)
}

// Requests returns a copy of everything received so far.
func (f *fakeLexoffice) Requests() []received {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]received(nil), f.requests...)
}

// RequestsTo returns the requests received for method and path.
func (f *fakeLexoffice) RequestsTo(method, path string) []received {
	var out []received

	for _, r := range f.Requests() {
		if r.method == method && r.path == path {
			out = append(out, r)
		}
	}

	return out
}

func (f *fakeLexoffice) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := r.URL.Path[len("/v1"):]

	f.mu.Lock()
	f.requests = append(f.requests, received{
		method: r.Method,
		path:   path,
		query:  r.URL.RawQuery,
		header: r.Header.Clone(),
		body:   body,
		at:     time.Now(),
	})

	key := r.Method + " " + path
	next := reply{status: http.StatusNotFound, body: `{"message":"Not Found"}`}

	if script := f.scripts[key]; len(script) > 0 {
		next = script[0]
		if len(script) > 1 {
			f.scripts[key] = script[1:]
		}
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(next.status)
	_, _ = io.WriteString(w, next.body)
}
