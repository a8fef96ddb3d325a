package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"bible-scraper/canon"
)

// Chapter maps verse tokens to verse text.
type Chapter map[string]string

// Chapters maps chapter tokens to chapters.
type Chapters map[string]Chapter

type Book struct {
	Title    string   `json:"title"`
	Chapters Chapters `json:"chapters"`
}

// Bible is the canonical document keyed by book code.
type Bible map[string]*Book

func NewBook(title string) *Book {
	return &Book{Title: title, Chapters: Chapters{}}
}

// Clone returns a deep copy of the chapter.
func (c Chapter) Clone() Chapter {
	out := make(Chapter, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy of the book.
func (b *Book) Clone() *Book {
	out := NewBook(b.Title)
	for k, ch := range b.Chapters {
		out.Chapters[k] = ch.Clone()
	}
	return out
}

// VerseCount is the number of verses over all chapters.
func (b *Book) VerseCount() int {
	n := 0
	for _, ch := range b.Chapters {
		n += len(ch)
	}
	return n
}

// Codes returns the book codes in canonical order. Codes outside the master
// manifest follow, alphabetically.
func (d Bible) Codes() []string {
	codes := make([]string, 0, len(d))
	for code := range d {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return canon.Less(codes[i], codes[j]) })
	return codes
}

// Counts returns the number of books, chapters and verses.
func (d Bible) Counts() (books, chapters, verses int) {
	for _, b := range d {
		if b == nil {
			continue
		}
		books++
		chapters += len(b.Chapters)
		verses += b.VerseCount()
	}
	return books, chapters, verses
}

// MarshalJSON writes verses in numeric order without HTML escaping.
func (c Chapter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range SortedKeys(c) {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKeyValue(&buf, k, c[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes chapters in numeric order. A nil map encodes as {}.
func (c Chapters) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range SortedKeys(c) {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKeyValue(&buf, k, c[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes books in canonical order.
func (d Bible) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, code := range d.Codes() {
		if i > 0 {
			buf.WriteByte(',')
		}
		b := d[code]
		if b == nil {
			b = NewBook("")
		}
		if err := writeKeyValue(&buf, code, b); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode renders the document as indented, unescaped UTF-8 JSON followed by
// a newline. The output is byte-identical for equal documents.
func (d Bible) Encode() ([]byte, error) {
	raw, err := marshal(d)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Decode parses a document strictly: every book needs a title and a
// chapters object.
func Decode(data []byte) (Bible, error) {
	var raw map[string]*struct {
		Title    *string   `json:"title"`
		Chapters *Chapters `json:"chapters"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("document is not an object")
	}
	doc := make(Bible, len(raw))
	for code, b := range raw {
		switch {
		case b == nil:
			return nil, fmt.Errorf("book %s is null", code)
		case b.Title == nil:
			return nil, fmt.Errorf("book %s has no title", code)
		case b.Chapters == nil || *b.Chapters == nil:
			return nil, fmt.Errorf("book %s has no chapters", code)
		}
		doc[code] = &Book{Title: *b.Title, Chapters: *b.Chapters}
	}
	return doc, nil
}

func writeKeyValue(buf *bytes.Buffer, key string, value any) error {
	k, err := marshal(key)
	if err != nil {
		return err
	}
	v, err := marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
