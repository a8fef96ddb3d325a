package vatican

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bible-scraper/merge"
	"bible-scraper/model"
	"bible-scraper/noise"
	"bible-scraper/utils"
)

const SpanishBase = "https://www.vatican.va/archive/ESL0506/"

// SpanishPolicy: a verse may run over several paragraphs and only the first
// carries the number.
const SpanishPolicy = merge.Continue

var (
	chapterPage  = regexp.MustCompile(`__P.*\.HTM`)
	leadingVerse = regexp.MustCompile(`>(\d+)\s`)
)

func SpanishRules() []noise.Rule { return nil }

// SpanishSource reads the Libro del Pueblo de Dios. Books are committed
// whole.
type SpanishSource struct {
	fetcher utils.Fetcher
	baseURL string
	index   index
}

func NewSpanish(fetcher utils.Fetcher) *SpanishSource {
	return &SpanishSource{fetcher: fetcher, baseURL: SpanishBase}
}

func (s *SpanishSource) Name() string { return Name }

func (s *SpanishSource) Unit() model.Unit { return model.UnitBook }

func (s *SpanishSource) Books(ctx context.Context) ([]model.BookRef, error) {
	err := s.index.load(func() ([]model.BookRef, map[string][]model.ChapterRef, error) {
		base, err := url.Parse(s.baseURL)
		if err != nil {
			return nil, nil, err
		}
		doc, err := utils.FetchDocument(ctx, s.fetcher, resolve(base, "_INDEX.HTM"))
		if err != nil {
			return nil, nil, err
		}
		books, chapters := ParseSpanishIndex(doc, base)
		return books, chapters, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	return s.index.books, nil
}

func (s *SpanishSource) Chapters(ctx context.Context, book model.BookRef) (model.BookRef, []model.ChapterRef, error) {
	if _, err := s.Books(ctx); err != nil {
		return book, nil, err
	}
	chapters, err := s.index.chaptersOf(book)
	return book, chapters, err
}

func (s *SpanishSource) Chapter(ctx context.Context, book model.BookRef, chapter model.ChapterRef) ([]model.Fragment, error) {
	doc, err := utils.FetchDocument(ctx, s.fetcher, chapter.URL)
	if err != nil {
		return nil, err
	}
	if title, ok := PartTitle(doc); ok {
		if entry, found := BooksES.Lookup(title); found && entry.Code != book.Code {
			return nil, fmt.Errorf("%s belongs to %s, not %s", chapter.URL, entry.Code, book.Code)
		}
	}
	return ParseSpanishChapter(doc), nil
}

// ParseSpanishIndex walks the chapter links in page order. A link whose
// text names a book starts that book; links with a number after it are its
// chapters. Single-chapter books have no chapter links and fall back to the
// page recorded in BooksES.
func ParseSpanishIndex(doc *goquery.Document, base *url.URL) ([]model.BookRef, map[string][]model.ChapterRef) {
	var books []model.BookRef
	chapters := make(map[string][]model.ChapterRef)
	seen := make(map[string]bool)
	current := ""

	doc.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if !chapterPage.MatchString(href) || seen[href] {
			return
		}
		text := strings.Join(strings.Fields(a.Text()), " ")
		if entry, ok := BooksES.Lookup(text); ok {
			if _, dup := chapters[entry.Code]; !dup {
				books = append(books, model.BookRef{Code: entry.Code, Title: entry.Title})
				chapters[entry.Code] = nil
			}
			current = entry.Code
			return
		}
		m := lastNumber.FindStringSubmatch(text)
		if current == "" || m == nil {
			return
		}
		seen[href] = true
		chapters[current] = append(chapters[current], model.ChapterRef{Number: m[1], URL: resolve(base, href)})
	})

	for _, e := range BooksES.Entries() {
		if e.Slug == "" || len(chapters[e.Code]) > 0 {
			continue
		}
		if _, listed := chapters[e.Code]; !listed {
			books = append(books, model.BookRef{Code: e.Code, Title: e.Title})
		}
		chapters[e.Code] = []model.ChapterRef{{Number: "1", URL: resolve(base, e.Slug)}}
	}
	return books, chapters
}

// PartTitle reads the book name from the page's "part" meta tag,
// "Biblia > BOOK > Capítulo".
func PartTitle(doc *goquery.Document) (string, bool) {
	content, ok := doc.Find(`meta[name="part"]`).Attr("content")
	if !ok {
		return "", false
	}
	parts := strings.Split(content, ">")
	if len(parts) < 3 {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// ParseSpanishChapter emits one fragment per p.MsoNormal. A paragraph whose
// markup has a number right after a tag opens a verse; any other paragraph
// is unnumbered and continues the verse before it.
func ParseSpanishChapter(doc *goquery.Document) []model.Fragment {
	var frags []model.Fragment
	doc.Find("p.MsoNormal").Each(func(i int, p *goquery.Selection) {
		raw, err := goquery.OuterHtml(p)
		if err != nil {
			return
		}
		verse := ""
		if m := leadingVerse.FindStringSubmatch(raw); m != nil {
			verse = m[1]
		}
		frags = append(frags, model.Fragment{Verse: verse, Order: len(frags), Markup: p})
	})
	return frags
}
