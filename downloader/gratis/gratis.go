// Package gratis scrapes the French Jerusalem Bible from gratis.bible.
package gratis

import (
	"context"
	_ "embed"
	"fmt"
	"path"
	"sort"
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
	Name           = "gratis"
	DefaultEdition = "fr/dejer"
	DefaultPolicy  = merge.Discard
)

//go:embed books.yaml
var booksYAML []byte

var Books = canon.MustLoadTable(Name, booksYAML)

// Rules drops the (chapter:verse) cross references in the text.
func Rules() []noise.Rule {
	return []noise.Rule{noise.ParentheticalAnnotation{}}
}

type Gratis struct {
	fetcher utils.Fetcher
	baseURL string
}

func New(fetcher utils.Fetcher, edition string) *Gratis {
	if edition == "" {
		edition = DefaultEdition
	}
	return &Gratis{fetcher: fetcher, baseURL: "https://gratis.bible/" + strings.Trim(edition, "/")}
}

func (g *Gratis) Name() string { return Name }

func (g *Gratis) Unit() model.Unit { return model.UnitBook }

// Books has no titles; Chapters reads them from the book page.
func (g *Gratis) Books(ctx context.Context) ([]model.BookRef, error) {
	entries := Books.Entries()
	refs := make([]model.BookRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, model.BookRef{Code: e.Code, Slug: e.Slug, URL: fmt.Sprintf("%s/%s/", g.baseURL, e.Slug)})
	}
	return refs, nil
}

func (g *Gratis) Chapters(ctx context.Context, book model.BookRef) (model.BookRef, []model.ChapterRef, error) {
	doc, err := utils.FetchDocument(ctx, g.fetcher, book.URL)
	if err != nil {
		return book, nil, err
	}
	book.Title = ParseTitle(doc)
	numbers := ParseChapterNumbers(doc)
	if len(numbers) == 0 {
		return book, nil, fmt.Errorf("%s: no chapters found", book.Code)
	}
	chapters := make([]model.ChapterRef, 0, len(numbers))
	for _, n := range numbers {
		chapters = append(chapters, model.ChapterRef{Number: n, URL: fmt.Sprintf("%s/%s/%s/", g.baseURL, book.Slug, n)})
	}
	return book, chapters, nil
}

// ParseTitle is the text of the first strong element.
func ParseTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("strong").First().Text())
}

// ParseChapterNumbers reads the last path segment of each link in the first
// list, numerically sorted.
func ParseChapterNumbers(doc *goquery.Document) []string {
	var numbers []string
	doc.Find("ul").First().Find("a[href]").Each(func(i int, a *goquery.Selection) {
		n := path.Base(strings.TrimRight(a.AttrOr("href", ""), "/"))
		if _, err := strconv.Atoi(n); err == nil {
			numbers = append(numbers, n)
		}
	})
	sort.SliceStable(numbers, func(i, j int) bool {
		a, _ := strconv.Atoi(numbers[i])
		b, _ := strconv.Atoi(numbers[j])
		return a < b
	})
	return numbers
}

func (g *Gratis) Chapter(ctx context.Context, book model.BookRef, chapter model.ChapterRef) ([]model.Fragment, error) {
	doc, err := utils.FetchDocument(ctx, g.fetcher, chapter.URL)
	if err != nil {
		return nil, err
	}
	return ParseChapter(doc), nil
}

// ParseChapter reads span.verse elements numbered by their anchor name.
func ParseChapter(doc *goquery.Document) []model.Fragment {
	var frags []model.Fragment
	doc.Find("span.verse").Each(func(i int, s *goquery.Selection) {
		verse, _ := s.Find("a[name]").First().Attr("name")
		frags = append(frags, model.Fragment{Verse: verse, Order: len(frags), Markup: s})
	})
	return frags
}
