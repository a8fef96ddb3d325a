// Package assembler inserts merged chapters into the canonical document and
// persists it.
package assembler

import (
	"bible-scraper/model"
)

// UpsertChapter inserts or replaces one chapter. The book is created when it
// is missing, which requires a title. An existing book keeps its title, and
// no other chapter is touched.
func UpsertChapter(doc model.Bible, code, title, chapter string, verses model.Chapter) error {
	book, err := EnsureBook(doc, code, title)
	if err != nil {
		return err
	}
	book.Chapters[chapter] = verses.Clone()
	return nil
}

// EnsureBook returns the book for code, creating an empty one if needed.
func EnsureBook(doc model.Bible, code, title string) (*model.Book, error) {
	book, ok := doc[code]
	if ok && book != nil {
		if book.Chapters == nil {
			book.Chapters = model.Chapters{}
		}
		return book, nil
	}
	if title == "" {
		return nil, &model.MissingTitleError{Book: code}
	}
	book = model.NewBook(title)
	doc[code] = book
	return book, nil
}

// ReplaceBook commits a fully staged book, replacing any previous one.
func ReplaceBook(doc model.Bible, code string, book *model.Book) error {
	if book == nil || book.Title == "" {
		return &model.MissingTitleError{Book: code}
	}
	doc[code] = book.Clone()
	return nil
}

// IsAlreadyScraped reports whether the document holds the book.
func IsAlreadyScraped(doc model.Bible, code string) bool {
	book, ok := doc[code]
	return ok && book != nil
}

// IsChapterScraped reports whether the document holds the chapter.
func IsChapterScraped(doc model.Bible, code, chapter string) bool {
	book, ok := doc[code]
	if !ok || book == nil {
		return false
	}
	_, ok = book.Chapters[chapter]
	return ok
}
