package provider

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"
)

type fakeResponse struct {
	status int
	body   string
	err    error
}

// fakeTransport replays responses in order and records request bodies.
// The last response repeats once the script runs out.
type fakeTransport struct {
	mu        sync.Mutex
	responses []fakeResponse
	requests  [][]byte
	paths     []string
	headers   []http.Header
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var b []byte
	if req.Body != nil {
		b, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}
	f.requests = append(f.requests, b)
	f.paths = append(f.paths, req.URL.Path)
	f.headers = append(f.headers, req.Header.Clone())

	idx := len(f.requests) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	r := f.responses[idx]
	if r.err != nil {
		return nil, r.err
	}
	resp := &http.Response{
		StatusCode: r.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(r.body))),
		Header:     make(http.Header),
		Request:    req,
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func (f *fakeTransport) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func noSleep(t interface{ Cleanup(func()) }) {
	orig := sleep
	sleep = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { sleep = orig })
}
