package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func testFetcher(timeout time.Duration) *Fetcher {
	return NewFetcher(Config{
		UserAgent:   defaultUserAgent,
		Timeout:     timeout,
		LinkWorkers: 4,
	})
}

func TestPartitionLinks(t *testing.T) {
	base, _ := url.Parse("https://example.com/page")

	tests := []struct {
		name         string
		markup       string
		wantInternal int
		wantExternal int
		wantSamples  int
	}{
		{
			name: "internal and external split",
			markup: `<body>
				<a href="/about">About</a>
				<a href="https://example.com/contact">Contact</a>
				<a href="https://www.example.com/shop">Shop</a>
				<a href="https://other.com/">Elsewhere</a>
			</body>`,
			wantInternal: 3,
			wantExternal: 1,
			wantSamples:  3,
		},
		{
			name: "non-navigational schemes skipped",
			markup: `<body>
				<a href="javascript:void(0)">x</a>
				<a href="mailto:a@example.com">mail</a>
				<a href="tel:+4712345678">call</a>
				<a href="#top">top</a>
				<a href="/real">real</a>
			</body>`,
			wantInternal: 1,
			wantExternal: 0,
			wantSamples:  1,
		},
		{
			name: "duplicates counted but sampled once",
			markup: `<body>
				<a href="/a">one</a>
				<a href="/a/">again</a>
				<a href="/a#frag">still the same</a>
			</body>`,
			wantInternal: 3,
			wantSamples:  1,
		},
		{
			name:         "relative href resolved against page",
			markup:       `<body><a href="sub/page">rel</a></body>`,
			wantInternal: 1,
			wantSamples:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part := partitionLinks(mustDoc(t, tt.markup), base, "example.com", 10)
			if part.Internal != tt.wantInternal {
				t.Errorf("Internal = %d, want %d", part.Internal, tt.wantInternal)
			}
			if part.External != tt.wantExternal {
				t.Errorf("External = %d, want %d", part.External, tt.wantExternal)
			}
			if len(part.Samples) != tt.wantSamples {
				t.Errorf("Samples = %v, want %d entries", part.Samples, tt.wantSamples)
			}
		})
	}
}

func TestPartitionLinksSampleCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<body>")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, `<a href="/page-%02d">p</a>`, i)
	}
	sb.WriteString("</body>")

	base, _ := url.Parse("https://example.com/")
	part := partitionLinks(mustDoc(t, sb.String()), base, "example.com", 20)

	if part.Internal != 30 {
		t.Errorf("Internal = %d, want 30", part.Internal)
	}
	if len(part.Samples) != 20 {
		t.Errorf("len(Samples) = %d, want cap of 20", len(part.Samples))
	}
	// Document order: the first 20 links are the sample.
	if !strings.HasSuffix(part.Samples[0], "/page-00") || !strings.HasSuffix(part.Samples[19], "/page-19") {
		t.Errorf("sample not in document order: first=%s last=%s", part.Samples[0], part.Samples[19])
	}
}

func TestCheckBrokenLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/ok"):
			w.WriteHeader(http.StatusOK)
		case strings.HasPrefix(r.URL.Path, "/gone"):
			w.WriteHeader(http.StatusNotFound)
		case strings.HasPrefix(r.URL.Path, "/moved"):
			w.Header().Set("Location", srvPath(r, "/ok"))
			w.WriteHeader(http.StatusFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	f := testFetcher(5 * time.Second)
	targets := []string{
		srv.URL + "/ok",
		srv.URL + "/gone",
		srv.URL + "/moved",
		srv.URL + "/gone-too",
	}

	broken := checkBrokenLinks(context.Background(), f, targets, 4, 5*time.Second)
	if broken != 2 {
		t.Errorf("broken = %d, want 2 (the two 404s)", broken)
	}
}

func srvPath(r *http.Request, path string) string {
	return "http://" + r.Host + path
}

func TestCheckBrokenLinksConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead := srv.URL
	srv.Close()

	f := testFetcher(2 * time.Second)
	broken := checkBrokenLinks(context.Background(), f, []string{dead + "/x"}, 2, 2*time.Second)
	if broken != 1 {
		t.Errorf("broken = %d, want 1 for an unreachable target", broken)
	}
}

// A target that never answers within the link timeout counts as broken.
func TestCheckBrokenLinksTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	f := testFetcher(5 * time.Second)
	broken := checkBrokenLinks(context.Background(), f, []string{srv.URL + "/slow"}, 1, 100*time.Millisecond)
	if broken != 1 {
		t.Errorf("broken = %d, want 1 for a timed-out probe", broken)
	}
}

// Cancellation cuts the sampling short; links that were never actually
// probed must not be reported broken.
func TestCheckBrokenLinksCanceledRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := testFetcher(5 * time.Second)
	targets := []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"}
	broken := checkBrokenLinks(ctx, f, targets, 2, 5*time.Second)
	if broken != 0 {
		t.Errorf("broken = %d, want 0 when the run was canceled", broken)
	}
}

func TestProbeLinkHeadFallback(t *testing.T) {
	var sawGet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawGet = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := testFetcher(5 * time.Second)
	res := probeLink(context.Background(), f, srv.URL+"/doc", 5*time.Second)
	if res.Broken {
		t.Error("link counted broken although GET fallback succeeded")
	}
	if !sawGet {
		t.Error("405 on HEAD did not trigger a GET fallback")
	}
}
