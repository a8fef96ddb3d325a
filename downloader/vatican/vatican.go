// Package vatican scrapes the Bible archive on vatican.va. The Italian and
// Spanish editions use unrelated page layouts and get one source each.
package vatican

import (
	_ "embed"
	"fmt"
	"net/url"
	"regexp"
	"sync"

	"bible-scraper/canon"
	"bible-scraper/model"
)

const Name = "vatican"

// Layout selects the edition.
type Layout string

const (
	Italian Layout = "it"
	Spanish Layout = "es"
)

func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case "", Italian:
		return Italian, nil
	case Spanish:
		return Spanish, nil
	}
	return "", fmt.Errorf("unknown %s layout %q", Name, s)
}

var (
	//go:embed books_it.yaml
	booksIT []byte
	//go:embed books_es.yaml
	booksES []byte

	BooksIT = canon.MustLoadTable(Name+"-it", booksIT)
	// BooksES carries the page of each single-chapter book as its slug;
	// those books have no chapter links in the index.
	BooksES = canon.MustLoadTable(Name+"-es", booksES)
)

var lastNumber = regexp.MustCompile(`(\d+)\D*$`)

// index is a parsed table of contents, loaded once per source.
type index struct {
	once  sync.Once
	err   error
	books []model.BookRef
	// chapters by book code
	chapters map[string][]model.ChapterRef
}

func (ix *index) load(parse func() ([]model.BookRef, map[string][]model.ChapterRef, error)) error {
	ix.once.Do(func() {
		ix.books, ix.chapters, ix.err = parse()
	})
	return ix.err
}

func (ix *index) chaptersOf(book model.BookRef) ([]model.ChapterRef, error) {
	chapters, ok := ix.chapters[book.Code]
	if !ok || len(chapters) == 0 {
		return nil, fmt.Errorf("%s: no chapters in index", book.Code)
	}
	return chapters, nil
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
