package utils

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"bible-scraper/model"
)

func testOptions() FetchOptions {
	return FetchOptions{RetryCount: 2, RetryWait: 10 * time.Millisecond, Timeout: 5 * time.Second}
}

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, charmap.Windows1252.NewEncoder())
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestFetchDecodesCharset(t *testing.T) {
	page := latin1(t, `<html><head><meta http-equiv="Content-Type" content="text/html; charset=windows-1252"></head><body>GÉNESIS – Capítulo</body></html>`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write(page)
	}))
	defer srv.Close()

	body, err := NewHTTPFetcher(testOptions()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Contains(t, string(body), "GÉNESIS – Capítulo")
}

func TestFetchRetriesTooManyRequests(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<p>ok</p>"))
	}))
	defer srv.Close()

	body, err := NewHTTPFetcher(testOptions()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "<p>ok</p>", string(body))
	require.Equal(t, int32(2), calls.Load())
}

func TestFetchFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(testOptions()).Fetch(context.Background(), srv.URL)
	require.ErrorIs(t, err, model.ErrTransientFetch)

	var fetchErr *model.TransientFetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestFetchHonorsContext(t *testing.T) {
	opts := testOptions()
	opts.Interval = time.Hour
	f := NewHTTPFetcher(opts)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	// first request takes the only token
	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.Fetch(ctx, srv.URL)
	require.Error(t, err)
}

func TestFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	body, err := NewHTTPFetcher(testOptions()).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Empty(t, body)

	body, err = ToUTF8(nil, "text/html")
	require.NoError(t, err)
	require.Empty(t, body)
}

func TestRetryAfter(t *testing.T) {
	d, ok := retryAfter("3")
	require.True(t, ok)
	require.Equal(t, 3*time.Second, d)

	_, ok = retryAfter("")
	require.False(t, ok)
	_, ok = retryAfter("soon")
	require.False(t, ok)
}

func TestCleanDirName(t *testing.T) {
	require.Equal(t, "1 Samuel_ part 2", CleanDirName(` 1 Samuel: part 2 `))
	require.Equal(t, "a_b_c", CleanDirName(`a/b\c`))
}

func TestFetchDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><p class="v">Au commencement</p></body></html>`))
	}))
	defer srv.Close()

	doc, err := FetchDocument(context.Background(), NewHTTPFetcher(testOptions()), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "Au commencement", doc.Find("p.v").Text())
}
