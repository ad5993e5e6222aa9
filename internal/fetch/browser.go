package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"econtab/internal/errors"
)

// BrowserFetcher retrieves pages that only materialize after JavaScript
// runs, using a headless Chrome instance. Use the plain Fetcher for
// static documents; the browser costs an order of magnitude more per
// fetch.
type BrowserFetcher struct {
	logger  *slog.Logger
	timeout time.Duration
	// WaitSelector, when set, delays capture until the selector is
	// visible. Defaults to waiting for the body element.
	WaitSelector string
}

// NewBrowser creates a headless-browser fetcher.
func NewBrowser(timeout time.Duration, logger *slog.Logger) *BrowserFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &BrowserFetcher{logger: logger, timeout: timeout}
}

// FetchRendered navigates to the URL, waits for the page to settle, and
// returns the rendered outer HTML.
func (b *BrowserFetcher) FetchRendered(ctx context.Context, rawURL string) (*Result, error) {
	start := time.Now()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	if b.timeout > 0 {
		var cancel context.CancelFunc
		browserCtx, cancel = context.WithTimeout(browserCtx, b.timeout)
		defer cancel()
	}

	selector := b.WaitSelector
	if selector == "" {
		selector = "body"
	}

	var rendered string
	tasks := chromedp.Tasks{
		chromedp.Navigate(rawURL),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &rendered, chromedp.ByQuery),
	}
	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return nil, errors.Network(rawURL, err, "rendered fetch failed")
	}

	b.logger.InfoContext(ctx, "fetched rendered page",
		slog.String("url", rawURL),
		slog.Int("bytes", len(rendered)),
		slog.Duration("elapsed", time.Since(start)))

	return &Result{
		Body:      []byte(rendered),
		Source:    rawURL,
		Kind:      KindHTML,
		MediaType: "text/html",
		FetchedAt: time.Now(),
	}, nil
}
