// Package stepbible scrapes STEP Bible, which renders its text with
// JavaScript and has to be fetched through a browser.
package stepbible

import (
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bible-scraper/canon"
	"bible-scraper/merge"
	"bible-scraper/model"
	"bible-scraper/noise"
	"bible-scraper/utils"
)

const (
	Name           = "stepbible"
	DefaultVersion = "FreCrampon"
	DefaultPolicy  = merge.Discard
	// WaitFor marks a rendered passage.
	WaitFor = "span.verse"
)

//go:embed books.yaml
var booksYAML []byte

// Books lists the books taken from STEP with their reference keys.
var Books = canon.MustLoadTable(Name, booksYAML)

// Rules replaces note links with a space.
func Rules() []noise.Rule {
	return []noise.Rule{noise.FootnoteMarker{Selector: "a"}}
}

type StepBible struct {
	fetcher utils.Fetcher
	version string
	baseURL string
}

func New(fetcher utils.Fetcher, version string) *StepBible {
	if version == "" {
		version = DefaultVersion
	}
	return &StepBible{fetcher: fetcher, version: version, baseURL: "https://www.stepbible.org/"}
}

func (s *StepBible) Name() string { return Name }

func (s *StepBible) Unit() model.Unit { return model.UnitChapter }

func (s *StepBible) Books(ctx context.Context) ([]model.BookRef, error) {
	entries := Books.Entries()
	refs := make([]model.BookRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, model.BookRef{Code: e.Code, Title: e.Title, Slug: e.Key})
	}
	return refs, nil
}

func (s *StepBible) Chapters(ctx context.Context, book model.BookRef) (model.BookRef, []model.ChapterRef, error) {
	entry, ok := Books.ByCode(book.Code)
	if !ok || entry.Chapters == 0 {
		return book, nil, fmt.Errorf("no chapter count for %s", book.Code)
	}
	chapters := make([]model.ChapterRef, 0, entry.Chapters)
	for i := 1; i <= entry.Chapters; i++ {
		q := fmt.Sprintf("version=%s@reference=%s.%d", s.version, entry.Key, i)
		chapters = append(chapters, model.ChapterRef{
			Number: strconv.Itoa(i),
			URL:    s.baseURL + "?q=" + url.PathEscape(q),
		})
	}
	return book, chapters, nil
}

func (s *StepBible) Chapter(ctx context.Context, book model.BookRef, chapter model.ChapterRef) ([]model.Fragment, error) {
	doc, err := utils.FetchDocument(ctx, s.fetcher, chapter.URL)
	if err != nil {
		return nil, err
	}
	return ParseChapter(doc), nil
}

// ParseChapter reads the rendered verses. The verse number span stays in
// the markup; the merger strips it from the text.
func ParseChapter(doc *goquery.Document) []model.Fragment {
	var frags []model.Fragment
	doc.Find("span.verse.ltrDirection").Each(func(i int, s *goquery.Selection) {
		number := s.Find("span.verseNumber").First()
		if number.Length() == 0 {
			return
		}
		frags = append(frags, model.Fragment{
			Verse:  strings.TrimSpace(number.Text()),
			Order:  len(frags),
			Markup: s,
		})
	})
	return frags
}
