package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type hookRecorder struct {
	mu       sync.Mutex
	events   []string
	progress []Progress
}

func (h *hookRecorder) hooks() Hooks {
	return Hooks{
		OnRequestStart: func() { h.add("start") },
		OnResponseEnd:  func() { h.add("end") },
		OnDownloadProgress: func(p Progress) {
			h.mu.Lock()
			h.progress = append(h.progress, p)
			h.mu.Unlock()
		},
	}
}

func (h *hookRecorder) add(evt string) {
	h.mu.Lock()
	h.events = append(h.events, evt)
	h.mu.Unlock()
}

func (h *hookRecorder) snapshot() ([]string, []Progress) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.events...), append([]Progress(nil), h.progress...)
}

func TestGetSendsDefaultHeadersAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "k" {
			t.Errorf("missing api key header, got %q", got)
		}
		if got := r.URL.Query().Get("breed_id"); got != "abys" {
			t.Errorf("unexpected breed_id %q", got)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	rec := &hookRecorder{}
	client := NewRestyClient(Config{
		BaseURL: srv.URL + "/v1/",
		Headers: map[string]string{"x-api-key": "k"},
		Timeout: 2 * time.Second,
		Hooks:   rec.hooks(),
	})

	resp, err := client.Get(context.Background(), "images/search", WithQuery("breed_id", "abys"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusOK || string(resp.Body()) != "[]" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode(), resp.Body())
	}

	events, progress := rec.snapshot()
	if strings.Join(events, ",") != "start,end" {
		t.Fatalf("unexpected hook order %v", events)
	}
	if len(progress) != 0 {
		t.Fatalf("progress reported without WithDownloadProgress: %v", progress)
	}
}

func TestDownloadProgressReportsKnownTotal(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "4096")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	rec := &hookRecorder{}
	client := NewRestyClient(Config{BaseURL: srv.URL, Timeout: 2 * time.Second, Hooks: rec.hooks()})

	if _, err := client.Get(context.Background(), "/images", WithDownloadProgress()); err != nil {
		t.Fatalf("Get: %v", err)
	}

	_, progress := rec.snapshot()
	if len(progress) == 0 {
		t.Fatalf("expected progress events")
	}
	last := progress[len(progress)-1]
	if last.Total != 4096 || last.Received != 4096 || !last.Known() {
		t.Fatalf("unexpected final progress %+v", last)
	}
}

func TestDownloadProgressUnknownTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"a",`))
		w.(http.Flusher).Flush()
		_, _ = w.Write([]byte(`"url":"u"}]`))
	}))
	defer srv.Close()

	rec := &hookRecorder{}
	client := NewRestyClient(Config{BaseURL: srv.URL, Timeout: 2 * time.Second, Hooks: rec.hooks()})

	if _, err := client.Get(context.Background(), "/images", WithDownloadProgress()); err != nil {
		t.Fatalf("Get: %v", err)
	}

	_, progress := rec.snapshot()
	if len(progress) == 0 {
		t.Fatalf("expected progress events")
	}
	for _, p := range progress {
		if p.Known() || p.Total != -1 {
			t.Fatalf("expected unknown total, got %+v", p)
		}
	}
}

func TestResponseEndFiresOnTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	rec := &hookRecorder{}
	client := NewRestyClient(Config{BaseURL: url, Timeout: time.Second, Hooks: rec.hooks()})

	if _, err := client.Get(context.Background(), "/breeds"); err == nil {
		t.Fatalf("expected transport error")
	}
	events, _ := rec.snapshot()
	if strings.Join(events, ",") != "start,end" {
		t.Fatalf("unexpected hook events %v", events)
	}
}

func TestResponseEndFiresOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	rec := &hookRecorder{}
	client := NewRestyClient(Config{BaseURL: srv.URL, Timeout: time.Second, Hooks: rec.hooks()})

	resp, err := client.Get(context.Background(), "/breeds")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", resp.StatusCode())
	}
	events, _ := rec.snapshot()
	if strings.Join(events, ",") != "start,end" {
		t.Fatalf("unexpected hook events %v", events)
	}
}

func TestPostAndDeleteShapeRequests(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Method+" "+r.URL.EscapedPath())
		if r.Method == http.MethodPost {
			if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("unexpected content type %q", ct)
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewRestyClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	ctx := context.Background()

	if _, err := client.Post(ctx, "/favourites", map[string]string{"image_id": "img1"}); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if _, err := client.Delete(ctx, "/favourites/{imageId}", WithPathParam("imageId", "a b")); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != "POST /favourites" || seen[1] != "DELETE /favourites/a%20b" {
		t.Fatalf("unexpected requests %v", seen)
	}
}
