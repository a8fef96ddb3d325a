// Package export writes a canonical document in other formats: CSV, SQLite,
// plain text and EPUB.
package export

import (
	"bible-scraper/model"
)

// Row is one verse with its place in the document.
type Row struct {
	Book    string
	Title   string
	Chapter string
	Verse   string
	Text    string
	// Position is the 1-based rank of the book in canonical order.
	Position int
}

// Rows flattens doc in canonical book order, then chapter and verse token
// order.
func Rows(doc model.Bible) []Row {
	var rows []Row
	for i, code := range doc.Codes() {
		book := doc[code]
		if book == nil {
			continue
		}
		for _, ch := range model.SortedKeys(book.Chapters) {
			verses := book.Chapters[ch]
			for _, v := range model.SortedKeys(verses) {
				rows = append(rows, Row{
					Book:     code,
					Title:    book.Title,
					Chapter:  ch,
					Verse:    v,
					Text:     verses[v],
					Position: i + 1,
				})
			}
		}
	}
	return rows
}
