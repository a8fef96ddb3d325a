package noise

import "bible-scraper/model"

// Cleaned counts what CleanDocument changed.
type Cleaned struct {
	Changed int
	// Emptied lists verses that had nothing left, as "Book chapter:verse".
	// They are removed.
	Emptied []string
}

// CleanDocument runs the text rules over every verse of doc in place.
// Markup rules have nothing to act on once a document is persisted.
func (s *Stripper) CleanDocument(doc model.Bible) Cleaned {
	var c Cleaned
	for _, code := range doc.Codes() {
		book := doc[code]
		if book == nil {
			continue
		}
		for _, ch := range model.SortedKeys(book.Chapters) {
			verses := book.Chapters[ch]
			for _, v := range model.SortedKeys(verses) {
				text := s.StripText(verses[v])
				if text == verses[v] {
					continue
				}
				if text == "" {
					delete(verses, v)
					c.Emptied = append(c.Emptied, code+" "+ch+":"+v)
					continue
				}
				verses[v] = text
				c.Changed++
			}
		}
	}
	return c
}
