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

const ItalianIndex = "https://www.vatican.va/archive/ITA0001/_INDEX.HTM"

// ItalianPolicy: every verse opens with its [n] marker.
const ItalianPolicy = merge.Discard

var (
	verseMarker = regexp.MustCompile(`\[(\d+)\]`)
	pageChrome  = regexp.MustCompile(`\s*(Precedente|Copyright).*$`)
)

// ItalianRules removes the lettered markers the edition leaves in the text.
func ItalianRules() []noise.Rule {
	return []noise.Rule{noise.BracketAnnotation{}}
}

// ItalianSource reads the CEI text. Chapters are committed one at a time.
type ItalianSource struct {
	fetcher  utils.Fetcher
	indexURL string
	index    index
}

func NewItalian(fetcher utils.Fetcher) *ItalianSource {
	return &ItalianSource{fetcher: fetcher, indexURL: ItalianIndex}
}

func (s *ItalianSource) Name() string { return Name }

func (s *ItalianSource) Unit() model.Unit { return model.UnitChapter }

func (s *ItalianSource) Books(ctx context.Context) ([]model.BookRef, error) {
	err := s.index.load(func() ([]model.BookRef, map[string][]model.ChapterRef, error) {
		doc, err := utils.FetchDocument(ctx, s.fetcher, s.indexURL)
		if err != nil {
			return nil, nil, err
		}
		base, err := url.Parse(s.indexURL)
		if err != nil {
			return nil, nil, err
		}
		books, chapters := ParseItalianIndex(doc, base)
		return books, chapters, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	return s.index.books, nil
}

func (s *ItalianSource) Chapters(ctx context.Context, book model.BookRef) (model.BookRef, []model.ChapterRef, error) {
	if _, err := s.Books(ctx); err != nil {
		return book, nil, err
	}
	chapters, err := s.index.chaptersOf(book)
	return book, chapters, err
}

func (s *ItalianSource) Chapter(ctx context.Context, book model.BookRef, chapter model.ChapterRef) ([]model.Fragment, error) {
	doc, err := utils.FetchDocument(ctx, s.fetcher, chapter.URL)
	if err != nil {
		return nil, err
	}
	return ParseItalianChapter(doc), nil
}

// ParseItalianIndex pairs each book title (font size 2) with the next list
// of chapter links. Titles missing from BooksIT are ignored.
func ParseItalianIndex(doc *goquery.Document, base *url.URL) ([]model.BookRef, map[string][]model.ChapterRef) {
	var books []model.BookRef
	chapters := make(map[string][]model.ChapterRef)
	var pending *model.BookRef

	doc.Find(`font[size="2"], ul`).Each(func(i int, sel *goquery.Selection) {
		if sel.Is("font") {
			title := strings.TrimSpace(sel.Text())
			entry, ok := BooksIT.Lookup(title)
			if !ok {
				return
			}
			if _, seen := chapters[entry.Code]; seen {
				return
			}
			pending = &model.BookRef{Code: entry.Code, Title: title}
			return
		}
		if pending == nil {
			return
		}
		var refs []model.ChapterRef
		sel.Find("a[href]").Each(func(j int, a *goquery.Selection) {
			number := strings.TrimSpace(a.Text())
			if !isDigits(number) {
				return
			}
			refs = append(refs, model.ChapterRef{Number: number, URL: resolve(base, a.AttrOr("href", ""))})
		})
		books = append(books, *pending)
		chapters[pending.Code] = refs
		pending = nil
	})
	return books, chapters
}

// ParseItalianChapter splits the page text on [n] markers. Navigation and
// copyright text trailing the last verse is cut off.
func ParseItalianChapter(doc *goquery.Document) []model.Fragment {
	text := doc.Find("body").Text()
	marks := verseMarker.FindAllStringSubmatchIndex(text, -1)
	frags := make([]model.Fragment, 0, len(marks))
	for i, m := range marks {
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		body := strings.Join(strings.Fields(text[m[1]:end]), " ")
		body = pageChrome.ReplaceAllString(body, "")
		frags = append(frags, model.Fragment{Verse: text[m[2]:m[3]], Text: body, Order: i})
	}
	return frags
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
