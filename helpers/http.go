package helpers

import (
	"bytes"
	"context"
	"io"
	mathrand "math/rand"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"sjsage522/clienreader/logger"
	"sjsage522/clienreader/pkg/errors"
	"sjsage522/clienreader/services/metrics"
)

// HTTP client and header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (Linux; Android 13; SM-G991B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Mobile Safari/537.36",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
	}

	referers = []string{
		"https://www.google.com/",
		"https://www.naver.com/",
		"https://www.daum.net/",
	}
)

// DefaultFetchTimeout is the default timeout for one HTTP request.
const DefaultFetchTimeout = 10 * time.Second

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Fetcher performs paced GET requests with browser-like headers and returns UTF-8 page text.
type Fetcher struct {
	client      *http.Client
	limiter     *rate.Limiter
	retryDelays []time.Duration

	mu  sync.Mutex
	rnd *mathrand.Rand
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithRateLimit limits requests to rps per second with no bursting.
func WithRateLimit(rps float64) FetcherOption {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetryDelays overrides the backoff delays. An empty slice disables retries.
func WithRetryDelays(delays []time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.retryDelays = delays
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: DefaultFetchTimeout},
		retryDelays: DefaultRetryDelays(),
		rnd:         mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves url and returns its body converted to UTF-8.
// Transport failures are retried with backoff; rate limiting is returned immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()
	maxAttempts := len(f.retryDelays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				lastErr = errors.NewTransport("fetcher", "rate limiter wait", err)
				break
			}
		}

		body, err := f.fetchOnce(ctx, url)
		if err == nil {
			metrics.ObserveFetch("ok", time.Since(start))
			return body, nil
		}
		lastErr = err

		if !errors.IsRetryable(err) || attempt >= maxAttempts-1 {
			break
		}

		logger.ForFetcher().Debug().
			Err(err).
			Str("url", url).
			Int("attempt", attempt+2).
			Msg("retrying fetch")

		select {
		case <-ctx.Done():
			metrics.ObserveFetch("canceled", time.Since(start))
			return "", errors.NewTransport("fetcher", "fetch canceled", ctx.Err())
		case <-time.After(f.retryDelays[attempt]):
		}
	}

	metrics.ObserveFetch(string(errors.TypeOf(lastErr)), time.Since(start))
	return "", lastErr
}

// fetchOnce sends one GET request with randomized headers,
// converts the response body to UTF-8 (if needed), and returns it.
func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.NewTransport("fetcher", "failed to create request", err)
	}

	f.mu.Lock()
	ua := userAgents[f.rnd.Intn(len(userAgents))]
	ref := referers[f.rnd.Intn(len(referers))]
	f.mu.Unlock()

	// Set browser-like headers
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Referer", ref)
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.NewTransport("fetcher", "failed to fetch "+url, err)
	}
	defer resp.Body.Close()

	// Check for rate limiting
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		return "", errors.NewRateLimit("fetcher", retryAfter(resp.Header.Get("Retry-After")))
	}

	// Error pages are still handed to the extractors, which degrade to empty fields.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.ForFetcher().Warn().
			Str("url", url).
			Int("status", resp.StatusCode).
			Msg("non-2xx response, parsing body anyway")
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewTransport("fetcher", "failed to read response body", err)
	}

	return toUTF8(bodyBytes, resp.Header.Get("Content-Type"))
}

// toUTF8 determines the encoding from the Content-Type header and body content
// and converts the body when it is not already UTF-8.
func toUTF8(body []byte, contentType string) (string, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)
	if strings.EqualFold(name, "utf-8") {
		return string(body), nil
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, encoding.NewDecoder().Reader(bytes.NewReader(body))); err != nil {
		return "", errors.NewParsing("fetcher", "failed to convert body to UTF-8", err)
	}
	return buf.String(), nil
}

func retryAfter(header string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
