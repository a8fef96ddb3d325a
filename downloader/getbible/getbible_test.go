package getbible

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bible-scraper/merge"
	"bible-scraper/model"
	"bible-scraper/utils"
)

const jude = `{"name": "Jude", "chapters": [{"chapter": 1, "verses": [
	{"verse": 1, "text": "Jude, the servant of Jesus Christ, and brother of James, "},
	{"verse": 2, "text": "Mercy unto you, and peace, and love, be multiplied. "}
]}]}`

func server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base := "http://" + r.Host
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v2/translations.json":
			fmt.Fprint(w, `{"kjv": {"translation": "King James Version", "language": "English"}, "vulgate": {"abbreviation": "vulgate", "translation": "Latin Vulgate", "language": "Latin"}}`)
		case "/v2/kjv/books.json":
			fmt.Fprintf(w, `{"65": {"name": "Jude", "url": "%[1]s/v2/kjv/65.json"}, "1": {"name": "Genesis", "url": "%[1]s/v2/kjv/1.json"}, "99": {"name": "Odes", "url": "%[1]s/v2/kjv/99.json"}}`, base)
		case "/v2/kjv/65.json":
			fmt.Fprint(w, jude)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func source(t *testing.T) *GetBible {
	g := New(utils.NewHTTPFetcher(utils.FetchOptions{Timeout: 5 * time.Second}), "")
	g.baseURL = server(t).URL + "/v2"
	return g
}

func TestBooks(t *testing.T) {
	books, err := source(t).Books(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 3)
	require.Equal(t, "Gen", books[0].Code)
	require.Equal(t, "Jude", books[1].Code)
	require.Equal(t, "Odes", books[2].Code)
}

func TestChapters(t *testing.T) {
	g := source(t)
	ctx := context.Background()
	books, err := g.Books(ctx)
	require.NoError(t, err)

	book, chapters, err := g.Chapters(ctx, books[1])
	require.NoError(t, err)
	require.Equal(t, "Jude", book.Title)
	require.Len(t, chapters, 1)
	require.Equal(t, "1", chapters[0].Number)

	frags, err := g.Chapter(ctx, book, chapters[0])
	require.NoError(t, err)
	res := merge.Merge(frags, DefaultPolicy)
	require.Equal(t, model.Chapter{
		"1": "Jude, the servant of Jesus Christ, and brother of James,",
		"2": "Mercy unto you, and peace, and love, be multiplied.",
	}, res.Verses)

	_, err = g.Chapter(ctx, book, model.ChapterRef{Number: "2"})
	require.Error(t, err)
	_, err = g.Chapter(ctx, books[0], chapters[0])
	require.Error(t, err)

	_, _, err = g.Chapters(ctx, books[0])
	require.ErrorIs(t, err, model.ErrTransientFetch)
}

func TestTranslations(t *testing.T) {
	list, err := source(t).Translations(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Translation{
		{Abbreviation: "kjv", Name: "King James Version", Language: "English"},
		{Abbreviation: "vulgate", Name: "Latin Vulgate", Language: "Latin"},
	}, list)
}
