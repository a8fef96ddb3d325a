// Package bibliacatolica scrapes bibliacatolica.com.br: the Portuguese Ave
// Maria text, or the French Jerusalem column of the side-by-side edition.
package bibliacatolica

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"bible-scraper/canon"
	"bible-scraper/merge"
	"bible-scraper/model"
	"bible-scraper/noise"
	"bible-scraper/utils"
)

const (
	Name          = "bibliacatolica"
	DefaultPolicy = merge.Discard
)

// Variant selects the edition.
type Variant string

const (
	AveMaria  Variant = "ave-maria"
	Jerusalem Variant = "jerusalem"
)

var (
	//go:embed books_pt.yaml
	booksPT []byte
	//go:embed books_fr.yaml
	booksFR []byte

	BooksPT = canon.MustLoadTable(Name+"-pt", booksPT)
	BooksFR = canon.MustLoadTable(Name+"-fr", booksFR)
)

// Rules drops the note asterisk some verses end with.
func Rules() []noise.Rule {
	return []noise.Rule{noise.TrailingAsterisk{}}
}

func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "", AveMaria:
		return AveMaria, nil
	case Jerusalem:
		return Jerusalem, nil
	}
	return "", fmt.Errorf("unknown %s variant %q", Name, s)
}

type BibliaCatolica struct {
	fetcher utils.Fetcher
	variant Variant
	baseURL string
}

func New(fetcher utils.Fetcher, variant Variant) *BibliaCatolica {
	if variant == "" {
		variant = AveMaria
	}
	return &BibliaCatolica{fetcher: fetcher, variant: variant, baseURL: "https://www.bibliacatolica.com.br"}
}

func (b *BibliaCatolica) Name() string { return Name }

// Unit is book: a book is written once all its chapters are in.
func (b *BibliaCatolica) Unit() model.Unit { return model.UnitBook }

func (b *BibliaCatolica) table() *canon.Table {
	if b.variant == Jerusalem {
		return BooksFR
	}
	return BooksPT
}

func (b *BibliaCatolica) edition() string {
	if b.variant == Jerusalem {
		return "biblia-ave-maria-vs-biblia-de-jerusalem"
	}
	return "biblia-ave-maria"
}

func (b *BibliaCatolica) Books(ctx context.Context) ([]model.BookRef, error) {
	entries := b.table().Entries()
	refs := make([]model.BookRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, model.BookRef{
			Code:  e.Code,
			Title: e.Title,
			Slug:  e.Slug,
			URL:   fmt.Sprintf("%s/biblia-ave-maria/%s/1/", b.baseURL, e.Slug),
		})
	}
	return refs, nil
}

// Chapters reads the chapter list of the first chapter page. Both editions
// share the Ave Maria chapter numbering.
func (b *BibliaCatolica) Chapters(ctx context.Context, book model.BookRef) (model.BookRef, []model.ChapterRef, error) {
	doc, err := utils.FetchDocument(ctx, b.fetcher, book.URL)
	if err != nil {
		return book, nil, err
	}
	last, err := ParseChapterCount(doc)
	if err != nil {
		return book, nil, fmt.Errorf("%s: %w", book.Code, err)
	}
	chapters := make([]model.ChapterRef, 0, last)
	for i := 1; i <= last; i++ {
		chapters = append(chapters, model.ChapterRef{
			Number: strconv.Itoa(i),
			URL:    fmt.Sprintf("%s/%s/%s/%d/", b.baseURL, b.edition(), book.Slug, i),
		})
	}
	return book, chapters, nil
}

// ParseChapterCount returns the highest number in ul.listChapter.
func ParseChapterCount(doc *goquery.Document) (int, error) {
	list := doc.Find("ul.listChapter").First()
	if list.Length() == 0 {
		return 0, fmt.Errorf("no chapter list found")
	}
	last := 0
	list.Find("li a").Each(func(i int, s *goquery.Selection) {
		if n, err := strconv.Atoi(strings.TrimSpace(s.Text())); err == nil && n > last {
			last = n
		}
	})
	if last == 0 {
		return 0, fmt.Errorf("empty chapter list")
	}
	return last, nil
}

func (b *BibliaCatolica) Chapter(ctx context.Context, book model.BookRef, chapter model.ChapterRef) ([]model.Fragment, error) {
	doc, err := utils.FetchDocument(ctx, b.fetcher, chapter.URL)
	if err != nil {
		return nil, err
	}
	entry := doc.Find("section.entry").First()
	if entry.Length() == 0 {
		return nil, fmt.Errorf("%s %s: no content found", book.Code, chapter.Number)
	}
	if b.variant == Jerusalem {
		return ParseJerusalem(entry), nil
	}
	return ParseAveMaria(entry), nil
}

// ParseAveMaria reads paragraphs that open with a strong verse number. Only
// the paragraph's own text nodes belong to the verse.
func ParseAveMaria(entry *goquery.Selection) []model.Fragment {
	var frags []model.Fragment
	entry.Find("p").Each(func(i int, p *goquery.Selection) {
		strong := p.Find("strong").First()
		if strong.Length() == 0 {
			return
		}
		var text strings.Builder
		for _, n := range p.Nodes {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					text.WriteString(c.Data)
				}
			}
		}
		frags = append(frags, model.Fragment{
			Verse: strings.TrimSpace(strong.Text()),
			Text:  text.String(),
			Order: len(frags),
		})
	})
	return frags
}

// ParseJerusalem reads the second column of each verse row.
func ParseJerusalem(entry *goquery.Selection) []model.Fragment {
	var frags []model.Fragment
	entry.Find("div.row.clearfix").Each(func(i int, row *goquery.Selection) {
		column := row.Find("div.col-sm-6.col-md-6.col-lg-6").Eq(1)
		p := column.Find("p.v2").First()
		if p.Length() == 0 {
			return
		}
		frags = append(frags, model.Fragment{
			Verse: strings.TrimSpace(p.Find("strong").First().Text()),
			Text:  p.Find("span.t").First().Text(),
			Order: len(frags),
		})
	})
	return frags
}
