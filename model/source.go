package model

import "context"

// Unit is the granularity at which a source's progress is committed.
type Unit int

const (
	// UnitChapter sources persist after every chapter and resume per chapter.
	UnitChapter Unit = iota
	// UnitBook sources stage a whole book and commit it at once. A book
	// that is present in the document is complete.
	UnitBook
)

func (u Unit) String() string {
	if u == UnitBook {
		return "book"
	}
	return "chapter"
}

// BookRef identifies a book on a source site.
type BookRef struct {
	Code  string
	Title string
	Slug  string
	URL   string
}

// ChapterRef identifies a chapter page.
type ChapterRef struct {
	Number string
	URL    string
}

// Source extracts raw fragments from one site. Implementations do no
// cleaning and no merging.
type Source interface {
	Name() string
	Unit() Unit
	// Books lists the books the site offers, in site order.
	Books(ctx context.Context) ([]BookRef, error)
	// Chapters lists the chapters of a book. The returned ref may carry a
	// title discovered on the site.
	Chapters(ctx context.Context, book BookRef) (BookRef, []ChapterRef, error)
	// Chapter returns the fragments of one chapter in page order.
	Chapter(ctx context.Context, book BookRef, chapter ChapterRef) ([]Fragment, error)
}
