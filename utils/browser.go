package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"bible-scraper/model"
)

// BrowserFetcher renders pages in one reused headless Chrome tab, for sites
// that build their verses with JavaScript. The browser starts on first use.
type BrowserFetcher struct {
	// WaitFor is the CSS selector that marks a rendered page.
	WaitFor string
	Timeout time.Duration

	limiter *rate.Limiter
	mu      sync.Mutex

	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func NewBrowserFetcher(waitFor string, opts FetchOptions) *BrowserFetcher {
	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &BrowserFetcher{
		WaitFor: waitFor,
		Timeout: timeout,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (b *BrowserFetcher) initBrowser() error {
	if b.browserCtx != nil {
		return nil
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-sandbox", true),
	)
	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	b.browserCtx, b.browserCancel = chromedp.NewContext(b.allocCtx)

	if err := chromedp.Run(b.browserCtx, chromedp.Navigate("about:blank")); err != nil {
		b.Close()
		return fmt.Errorf("failed to initialize browser: %v", err)
	}
	return nil
}

// Fetch navigates to url, waits for WaitFor and returns the outer HTML.
func (b *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.initBrowser(); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(b.browserCtx, b.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var rendered string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(b.WaitFor, chromedp.ByQuery),
		chromedp.OuterHTML("html", &rendered, chromedp.ByQuery),
	)
	if err != nil {
		return nil, &model.TransientFetchError{URL: url, Err: err}
	}
	return []byte(rendered), nil
}

// Close shuts the browser down.
func (b *BrowserFetcher) Close() error {
	if b.browserCancel != nil {
		b.browserCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	b.browserCtx, b.allocCtx = nil, nil
	return nil
}
