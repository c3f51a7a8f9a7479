package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// FetchResult is the outcome of one successful HTTP exchange. Body is only
// populated for GET requests and is decoded to UTF-8.
type FetchResult struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	FinalURL   string
	Elapsed    time.Duration
}

// FetchError is returned for transport-level failures: timeouts, refused
// connections, DNS errors, or a body that could not be read. HTTP error
// statuses are not errors at this layer, they come back as results.
type FetchError struct {
	URL   string
	Cause string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline rather than a refusal.
func (e *FetchError) Timeout() bool { return e.Cause == "timeout" }

// fetchCause condenses a transport error into the short form shown on reports.
func fetchCause(err error) string {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err.Error()
	}
	return err.Error()
}

// Fetcher performs all HTTP traffic for a run with a fixed identity string
// and an optional per-host rate limit. Construct once, share everywhere.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	rps       float64

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewFetcher builds a Fetcher from the run configuration.
func NewFetcher(cfg Config) *Fetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: cfg.LinkWorkers,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Fetcher{
		client:    &http.Client{Transport: transport},
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		rps:       cfg.PerHostRPS,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// Get fetches a page with the default timeout and returns its body.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*FetchResult, error) {
	return f.do(ctx, http.MethodGet, rawURL, f.timeout, true)
}

// Head probes a URL without reading a body, using the caller's timeout.
func (f *Fetcher) Head(ctx context.Context, rawURL string, timeout time.Duration) (*FetchResult, error) {
	return f.do(ctx, http.MethodHead, rawURL, timeout, false)
}

func (f *Fetcher) do(ctx context.Context, method, rawURL string, timeout time.Duration, readBody bool) (*FetchResult, error) {
	if err := f.waitForHost(ctx, rawURL); err != nil {
		return nil, &FetchError{URL: rawURL, Cause: "canceled", Err: err}
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Cause: "malformed URL", Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Cause: fetchCause(err), Err: err}
	}
	defer resp.Body.Close()

	res := &FetchResult{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		FinalURL:   resp.Request.URL.String(),
	}
	if readBody {
		body, err := decodeBody(resp)
		if err != nil {
			return nil, &FetchError{URL: rawURL, Cause: fetchCause(err), Err: err}
		}
		res.Body = body
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

// decodeBody reads a capped body and converts it to UTF-8 based on the
// Content-Type charset or in-document hints.
func decodeBody(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, maxBodyBytes)
	r, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// waitForHost blocks on the per-host politeness limiter when one is set.
func (f *Fetcher) waitForHost(ctx context.Context, rawURL string) error {
	if f.rps <= 0 {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	f.mu.Lock()
	lim, ok := f.limiters[u.Host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(f.rps), 1)
		f.limiters[u.Host] = lim
	}
	f.mu.Unlock()
	return lim.Wait(ctx)
}
