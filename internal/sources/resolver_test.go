package sources

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"Unbewohnte/BoldBriefing/internal/article"
)

const budgetPage = `<!DOCTYPE html>
<html><head>
<title>Kenya passes budget</title>
<meta property="og:title" content="Kenya passes budget">
</head><body><article><p>Lawmakers approved the spending plan on Thursday.</p></article></body></html>`

func newTestSite(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var pageHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: BoldBriefing\nDisallow: /private\n"))
	})
	mux.HandleFunc("/budget", func(w http.ResponseWriter, r *http.Request) {
		pageHits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(budgetPage))
	})
	mux.HandleFunc("/gzipped", func(w http.ResponseWriter, r *http.Request) {
		pageHits.Add(1)
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		gz.Write([]byte(budgetPage))
		gz.Close()
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	})
	mux.HandleFunc("/private/page", func(w http.ResponseWriter, r *http.Request) {
		pageHits.Add(1)
		w.Write([]byte(budgetPage))
	})
	mux.HandleFunc("/challenge", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><title>Just a moment</title>Checking your browser before accessing</html>"))
	})
	mux.HandleFunc("/untitled", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body></body></html>"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &pageHits
}

func TestTitle(t *testing.T) {
	t.Parallel()

	srv, _ := newTestSite(t)
	r := New(Config{HTTPClient: srv.Client()})

	cases := []struct {
		path    string
		want    string
		wantErr error
	}{
		{"/budget", "Kenya passes budget", nil},
		{"/gzipped", "Kenya passes budget", nil},
		{"/private/page", "", ErrDisallowed},
		{"/challenge", "", ErrProtected},
		{"/untitled", "", ErrNoTitle},
	}
	for _, tc := range cases {
		got, err := r.Title(context.Background(), srv.URL+tc.path)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("%s: expected %v, got %q %v", tc.path, tc.wantErr, got, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("%s: Title = %q %v, want %q", tc.path, got, err, tc.want)
		}
	}

	if _, err := r.Title(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("expected an error for a 404 page")
	}
	if _, err := r.Title(context.Background(), "ftp://example.com/file"); err == nil {
		t.Error("expected an error for a non-http scheme")
	}
}

func TestResolveOnlyRetitlesPlaceholders(t *testing.T) {
	t.Parallel()

	srv, hits := newTestSite(t)
	r := New(Config{HTTPClient: srv.Client()})

	in := []article.Source{
		{Title: article.PlaceholderSourceTitle, URL: srv.URL + "/budget"},
		{Title: "Daily Nation", URL: srv.URL + "/gzipped"},
		{Title: article.PlaceholderSourceTitle, URL: srv.URL + "/private/page"},
	}
	out := r.Resolve(context.Background(), in)

	if out[0].Title != "Kenya passes budget" {
		t.Errorf("placeholder not resolved: %+v", out[0])
	}
	if out[1].Title != "Daily Nation" {
		t.Errorf("real title overwritten: %+v", out[1])
	}
	if out[2].Title != article.PlaceholderSourceTitle {
		t.Errorf("disallowed page retitled: %+v", out[2])
	}
	if in[0].Title != article.PlaceholderSourceTitle {
		t.Error("input slice was mutated")
	}
	if hits.Load() != 1 {
		t.Errorf("expected exactly one page fetch, got %d", hits.Load())
	}
}

func TestResolveStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	srv, hits := newTestSite(t)
	r := New(Config{HTTPClient: srv.Client()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := r.Resolve(ctx, []article.Source{{Title: article.PlaceholderSourceTitle, URL: srv.URL + "/budget"}})
	if out[0].Title != article.PlaceholderSourceTitle || hits.Load() != 0 {
		t.Fatalf("expected no fetch, got %+v with %d hits", out, hits.Load())
	}
}

func TestHostLimiter(t *testing.T) {
	t.Parallel()

	unlimited := newHostLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if err := unlimited.Wait(context.Background(), "a.example"); err != nil {
			t.Fatalf("unlimited limiter blocked: %v", err)
		}
	}

	slow := newHostLimiter(0.001, 1)
	if err := slow.Wait(context.Background(), "b.example"); err != nil {
		t.Fatalf("first token: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := slow.Wait(ctx, "b.example"); err == nil {
		t.Fatal("expected the second request to the same host to be throttled")
	}
	if err := slow.Wait(context.Background(), "c.example"); err != nil {
		t.Fatalf("other hosts must have their own bucket: %v", err)
	}
	if slow.get("b.example") != slow.get("b.example") {
		t.Fatal("limiter not reused per host")
	}
}
