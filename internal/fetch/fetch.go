package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"econtab/internal/config"
	"econtab/internal/errors"
)

// Result is the raw outcome of a fetch: the payload, where it came from,
// and a content-kind hint for the parser. Results are immutable once
// produced.
type Result struct {
	Body      []byte
	Source    string
	Kind      ContentKind
	MediaType string
	FetchedAt time.Time
}

// Fetcher retrieves raw content from HTTP(S) URLs and local files. One
// attempt per call, no retries; the caller decides whether to try again.
type Fetcher struct {
	client *http.Client
	cfg    config.FetchConfig
	logger *slog.Logger
}

// New creates a Fetcher with the configured timeout, user agent, and body
// size cap.
func New(cfg config.FetchConfig, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// Fetch retrieves a source, dispatching on its shape: http/https URLs go
// over the network, everything else is treated as a local file path.
func (f *Fetcher) Fetch(ctx context.Context, source string) (*Result, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return f.FetchURL(ctx, source)
	}
	return f.FetchFile(source)
}

// FetchURL performs a single HTTP GET. Non-2xx responses and transport
// failures surface as network errors.
func (f *Fetcher) FetchURL(ctx context.Context, rawURL string) (*Result, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.KindInvalidArgument, "fetch", rawURL, err, "invalid URL")
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Network(rawURL, err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Network(rawURL, nil, "expected 2xx status, got %d", resp.StatusCode)
	}

	body, err := f.readAll(resp.Body)
	if err != nil {
		return nil, errors.Network(rawURL, err, "reading response body failed")
	}

	contentType := resp.Header.Get("Content-Type")
	f.logger.InfoContext(ctx, "fetched URL",
		slog.String("url", rawURL),
		slog.Int("bytes", len(body)),
		slog.String("content_type", contentType),
		slog.Duration("elapsed", time.Since(start)))

	return &Result{
		Body:      body,
		Source:    rawURL,
		Kind:      InferKind(rawURL, contentType),
		MediaType: contentType,
		FetchedAt: time.Now(),
	}, nil
}

// FetchFile reads a local file. A missing path surfaces as a not-found
// error rather than a network error.
func (f *Fetcher) FetchFile(path string) (*Result, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("fetch", path, "file does not exist")
		}
		return nil, errors.Wrap(errors.KindIO, "fetch", path, err, "reading file failed")
	}
	if f.cfg.MaxBodySize > 0 && int64(len(body)) > f.cfg.MaxBodySize {
		return nil, errors.InvalidArgument("fetch", "%s exceeds size cap (%d > %d bytes)",
			path, len(body), f.cfg.MaxBodySize)
	}

	f.logger.Info("read local file",
		slog.String("path", path),
		slog.Int("bytes", len(body)))

	return &Result{
		Body:      body,
		Source:    path,
		Kind:      InferKind(path, ""),
		FetchedAt: time.Now(),
	}, nil
}

// readAll reads the body under the configured size cap.
func (f *Fetcher) readAll(r io.Reader) ([]byte, error) {
	if f.cfg.MaxBodySize <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, f.cfg.MaxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.cfg.MaxBodySize {
		return nil, fmt.Errorf("response exceeds size cap of %d bytes", f.cfg.MaxBodySize)
	}
	return body, nil
}
