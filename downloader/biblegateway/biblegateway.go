// Package biblegateway scrapes one chapter per page from biblegateway.com.
package biblegateway

import (
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"regexp"
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
	Name           = "biblegateway"
	DefaultVersion = "NRSVCE"
	DefaultPolicy  = merge.Discard
)

//go:embed books.yaml
var booksYAML []byte

// Books maps codes to the titles used in search queries.
var Books = canon.MustLoadTable(Name, booksYAML)

// Rules removes footnote markers and the chapter number printed in verse 1.
func Rules() []noise.Rule {
	return []noise.Rule{noise.FootnoteMarker{}, noise.ChapterNumber{}}
}

type BibleGateway struct {
	fetcher utils.Fetcher
	version string
	baseURL string
}

func New(fetcher utils.Fetcher, version string) *BibleGateway {
	if version == "" {
		version = DefaultVersion
	}
	return &BibleGateway{fetcher: fetcher, version: version, baseURL: "https://www.biblegateway.com"}
}

func (b *BibleGateway) Name() string { return Name }

func (b *BibleGateway) Unit() model.Unit { return model.UnitChapter }

func (b *BibleGateway) Books(ctx context.Context) ([]model.BookRef, error) {
	entries := Books.Entries()
	refs := make([]model.BookRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, model.BookRef{Code: e.Code, Title: e.Title})
	}
	return refs, nil
}

// Chapters counts from the table; the site has no chapter index.
func (b *BibleGateway) Chapters(ctx context.Context, book model.BookRef) (model.BookRef, []model.ChapterRef, error) {
	entry, ok := Books.ByCode(book.Code)
	if !ok || entry.Chapters == 0 {
		return book, nil, fmt.Errorf("no chapter count for %s", book.Code)
	}
	chapters := make([]model.ChapterRef, 0, entry.Chapters)
	for i := 1; i <= entry.Chapters; i++ {
		chapters = append(chapters, model.ChapterRef{Number: strconv.Itoa(i), URL: b.chapterURL(entry.Title, i)})
	}
	return book, chapters, nil
}

func (b *BibleGateway) chapterURL(title string, chapter int) string {
	return fmt.Sprintf("%s/passage/?search=%s%%20%d&version=%s",
		b.baseURL, url.QueryEscape(title), chapter, url.QueryEscape(b.version))
}

func (b *BibleGateway) Chapter(ctx context.Context, book model.BookRef, chapter model.ChapterRef) ([]model.Fragment, error) {
	doc, err := utils.FetchDocument(ctx, b.fetcher, chapter.URL)
	if err != nil {
		return nil, err
	}
	return ParseChapter(doc, book.Code, chapter.Number), nil
}

// ParseChapter collects the spans classed <code>-<chapter>-<verse>. A verse
// broken by poetry lines spans several elements with the same class.
// Headings reuse the class and are skipped.
func ParseChapter(doc *goquery.Document, code, chapter string) []model.Fragment {
	class := regexp.MustCompile(`^` + regexp.QuoteMeta(code+"-"+chapter+"-") + `(\d+)$`)
	var frags []model.Fragment
	doc.Find("span").Each(func(i int, s *goquery.Selection) {
		verse := ""
		for _, c := range strings.Fields(s.AttrOr("class", "")) {
			if m := class.FindStringSubmatch(c); m != nil {
				verse = m[1]
				break
			}
		}
		if verse == "" || s.ParentsFiltered("h1, h2, h3, h4, h5, h6").Length() > 0 {
			return
		}
		frags = append(frags, model.Fragment{Verse: verse, Order: len(frags), Markup: s})
	})
	return frags
}
