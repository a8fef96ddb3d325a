package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"bible-scraper/model"
)

const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:133.0) Gecko/20100101 Firefox/133.0"

// Fetcher returns the body of a page as UTF-8.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type FetchOptions struct {
	// Interval is the minimum pause between two requests.
	Interval   time.Duration
	RetryCount int
	RetryWait  time.Duration
	Timeout    time.Duration
	UserAgent  string
}

func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		Interval:   2 * time.Second,
		RetryCount: 5,
		RetryWait:  3 * time.Second,
		Timeout:    30 * time.Second,
		UserAgent:  DefaultUserAgent,
	}
}

// HTTPFetcher is a polite HTTP client: one request per Interval across all
// goroutines, retries on errors, 429 and 5xx, and honors Retry-After.
type HTTPFetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	agent   string
}

func NewHTTPFetcher(opts FetchOptions) *HTTPFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	client := resty.New()
	client.SetTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	})
	client.SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(10 * opts.RetryWait).
		SetRetryAfter(func(client *resty.Client, resp *resty.Response) (time.Duration, error) {
			if resp != nil && resp.StatusCode() == http.StatusTooManyRequests {
				if d, ok := retryAfter(resp.Header().Get("Retry-After")); ok {
					return d, nil
				}
			}
			return opts.RetryWait, nil
		}).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})
	client.SetLogger(disableLogger{})

	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	return &HTTPFetcher{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		agent:   opts.UserAgent,
	}
}

func retryAfter(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, true
	}
	if t, err := http.ParseTime(value); err == nil {
		return time.Until(t), true
	}
	return 0, false
}

// Request returns a request with browser-like headers, for callers that
// decode JSON themselves.
func (f *HTTPFetcher) Request(ctx context.Context) (*resty.Request, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return f.client.R().
		SetContext(ctx).
		SetHeader("Accept-Charset", "utf-8").
		SetHeader("User-Agent", f.agent), nil
}

// Fetch GETs url and decodes the body to UTF-8 using the Content-Type
// header or the page's meta charset.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := f.Request(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, &model.TransientFetchError{URL: url, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &model.TransientFetchError{URL: url, Status: resp.StatusCode()}
	}
	body, err := ToUTF8(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, &model.TransientFetchError{URL: url, Err: err}
	}
	return body, nil
}

// ToUTF8 converts an HTML body to UTF-8. An empty body is returned as is.
func ToUTF8(body []byte, contentType string) ([]byte, error) {
	if len(body) == 0 {
		return body, nil
	}
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

type disableLogger struct{}

func (d disableLogger) Errorf(string, ...interface{}) {}
func (d disableLogger) Warnf(string, ...interface{})  {}
func (d disableLogger) Debugf(string, ...interface{}) {}

// FetchDocument fetches url and parses it as HTML.
func FetchDocument(ctx context.Context, f Fetcher, url string) (*goquery.Document, error) {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %v", err)
	}
	return doc, nil
}
