package bibliacatolica

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

const aveMariaPage = `<html><body>
<ul class="listChapter"><li><a href="/biblia-ave-maria/genesis/1/">1</a></li><li><a href="/biblia-ave-maria/genesis/2/">2</a></li><li><a href="/biblia-ave-maria/genesis/3/">3</a></li></ul>
<section class="entry">
<p>Introdução sem número</p>
<p><strong>1.</strong> No princípio, Deus criou os céus e a terra. <a href="#n1">ver</a></p>
<p><strong>2.</strong> A terra estava sem forma e vazia;*</p>
</section>
</body></html>`

const jerusalemPage = `<html><body><section class="entry">
<div class="row clearfix">
  <div class="col-sm-6 col-md-6 col-lg-6"><p class="v1"><strong>1.</strong> <span class="t">No princípio</span></p></div>
  <div class="col-sm-6 col-md-6 col-lg-6"><p class="v2"><strong>1.</strong> <span class="t">Au commencement, Dieu créa le ciel et la terre.</span></p></div>
</div>
<div class="row clearfix">
  <div class="col-sm-6 col-md-6 col-lg-6"><p class="v1"><strong>2.</strong> <span class="t">A terra</span></p></div>
  <div class="col-sm-6 col-md-6 col-lg-6"><p class="v2"><strong>2.</strong> <span class="t">Or la terre était vide et vague *</span></p></div>
</div>
<div class="row clearfix"><div class="col-sm-6 col-md-6 col-lg-6"></div></div>
</section></body></html>`

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func process(frags []model.Fragment) model.Chapter {
	stripper := noise.New(Rules()...)
	for i := range frags {
		frags[i].Text = stripper.StripText(frags[i].Text)
	}
	return merge.Merge(frags, DefaultPolicy).Verses
}

func TestParseAveMaria(t *testing.T) {
	doc := parse(t, aveMariaPage)
	frags := ParseAveMaria(doc.Find("section.entry"))
	require.Len(t, frags, 2)
	require.Equal(t, model.Chapter{
		"1": "No princípio, Deus criou os céus e a terra.",
		"2": "A terra estava sem forma e vazia;",
	}, process(frags))
}

func TestParseJerusalem(t *testing.T) {
	doc := parse(t, jerusalemPage)
	require.Equal(t, model.Chapter{
		"1": "Au commencement, Dieu créa le ciel et la terre.",
		"2": "Or la terre était vide et vague",
	}, process(ParseJerusalem(doc.Find("section.entry"))))
}

func TestParseChapterCount(t *testing.T) {
	n, err := ParseChapterCount(parse(t, aveMariaPage))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = ParseChapterCount(parse(t, `<ul class="other"></ul>`))
	require.Error(t, err)
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("")
	require.NoError(t, err)
	require.Equal(t, AveMaria, v)
	v, err = ParseVariant("jerusalem")
	require.NoError(t, err)
	require.Equal(t, Jerusalem, v)
	_, err = ParseVariant("vulgata")
	require.Error(t, err)
}

func TestJerusalemSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/biblia-ave-maria/genesis/1/":
			w.Write([]byte(aveMariaPage))
		case "/biblia-ave-maria-vs-biblia-de-jerusalem/genesis/2/":
			w.Write([]byte(jerusalemPage))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	src := New(utils.NewHTTPFetcher(utils.FetchOptions{Timeout: 5 * time.Second}), Jerusalem)
	src.baseURL = srv.URL
	require.Equal(t, model.UnitBook, src.Unit())

	books, err := src.Books(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Gen", books[0].Code)
	require.Equal(t, "Genèse", books[0].Title)

	_, chapters, err := src.Chapters(context.Background(), books[0])
	require.NoError(t, err)
	require.Len(t, chapters, 3)

	frags, err := src.Chapter(context.Background(), books[0], chapters[1])
	require.NoError(t, err)
	require.Len(t, frags, 2)

	_, err = src.Chapter(context.Background(), books[0], chapters[2])
	require.ErrorIs(t, err, model.ErrTransientFetch)
}
