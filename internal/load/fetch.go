// Package load ingests portal export files: it fetches local paths or
// http(s)/ftp URLs, parses CSV/XLSX/JSON/ZIP payloads through a column
// mapping, and feeds the records to the ingestion engine. A local journal
// keyed on file content makes re-running a load a no-op.
package load

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FetchOptions configures the HTTP fetcher.
type FetchOptions struct {
	UserAgent         string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
}

// HTTPFetcher downloads portal exports with retry and a token-bucket
// throttle, since county portals tend to rate-limit aggressively.
type HTTPFetcher struct {
	client  *http.Client
	opts    FetchOptions
	limiter *rate.Limiter
}

// NewHTTPFetcher creates an HTTP fetcher with the given options.
func NewHTTPFetcher(opts FetchOptions) *HTTPFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = "permit-registry/1.0"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
	}
}

// Download fetches a URL, retrying transient failures with jittered
// exponential backoff. The caller closes the returned body.
func (f *HTTPFetcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	var lastErr error
	for attempt := 0; attempt <= f.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			backoff += time.Duration(rand.Int64N(int64(time.Second)))
			zap.L().Debug("load: retrying download",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, eris.Wrap(ctx.Err(), "load: download cancelled")
			}
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "load: rate limiter")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, eris.Wrapf(err, "load: build request %s", url)
		}
		req.Header.Set("User-Agent", f.opts.UserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = eris.Wrapf(err, "load: fetch %s", url)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp.Body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = eris.Errorf("load: fetch %s: HTTP %d", url, resp.StatusCode)
			continue
		default:
			resp.Body.Close()
			return nil, eris.Errorf("load: fetch %s: HTTP %d", url, resp.StatusCode)
		}
	}
	return nil, lastErr
}

// DownloadToFile fetches a URL into a local file and returns bytes written.
func (f *HTTPFetcher) DownloadToFile(ctx context.Context, url, path string) (int64, error) {
	body, err := f.Download(ctx, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	out, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrapf(err, "load: create %s", path)
	}
	defer out.Close()

	n, err := io.Copy(out, body)
	if err != nil {
		return n, eris.Wrapf(err, "load: write %s", path)
	}
	return n, nil
}
