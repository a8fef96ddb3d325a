package gratis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"bible-scraper/merge"
	"bible-scraper/model"
	"bible-scraper/noise"
	"bible-scraper/utils"
)

const bookPage = `<html><body>
<p><strong>Genèse</strong></p>
<ul><li><a href="/fr/dejer/gen/10">10</a></li><li><a href="/fr/dejer/gen/2">2</a></li><li><a href="/fr/dejer/gen/1/">1</a></li></ul>
<ul><li><a href="/fr/dejer/exod/1">1</a></li></ul>
</body></html>`

const chapterPage = `<html><body>
<span class="verse"><a name="1"></a>1 Au commencement, Dieu créa le ciel et la terre. (2:4)</span>
<span class="verse"><a name="2"></a>2 Or la terre était vide et vague,</span>
<span class="verse">sans numéro</span>
</body></html>`

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestParseBookPage(t *testing.T) {
	doc := parse(t, bookPage)
	require.Equal(t, "Genèse", ParseTitle(doc))
	require.Equal(t, []string{"1", "2", "10"}, ParseChapterNumbers(doc))
}

func TestParseChapter(t *testing.T) {
	frags := ParseChapter(parse(t, chapterPage))
	require.Len(t, frags, 3)

	stripper := noise.New(Rules()...)
	for i := range frags {
		frags[i].Text = stripper.Strip(frags[i].Markup)
	}
	res := merge.Merge(frags, DefaultPolicy)
	require.Equal(t, model.Chapter{
		"1": "Au commencement, Dieu créa le ciel et la terre.",
		"2": "Or la terre était vide et vague,",
	}, res.Verses)
	require.Len(t, res.Dropped, 1)
}

func TestSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/fr/dejer/gen/":
			w.Write([]byte(bookPage))
		case "/fr/dejer/gen/1/":
			w.Write([]byte(chapterPage))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	g := New(utils.NewHTTPFetcher(utils.FetchOptions{Timeout: 5 * time.Second}), "")
	g.baseURL = srv.URL + "/fr/dejer"
	ctx := context.Background()

	books, err := g.Books(ctx)
	require.NoError(t, err)
	require.Len(t, books, 73)
	require.Empty(t, books[0].Title)

	book, chapters, err := g.Chapters(ctx, books[0])
	require.NoError(t, err)
	require.Equal(t, "Genèse", book.Title)
	require.Len(t, chapters, 3)
	require.Equal(t, srv.URL+"/fr/dejer/gen/1/", chapters[0].URL)

	frags, err := g.Chapter(ctx, book, chapters[0])
	require.NoError(t, err)
	require.Len(t, frags, 3)

	_, _, err = g.Chapters(ctx, books[1])
	require.ErrorIs(t, err, model.ErrTransientFetch)
}
