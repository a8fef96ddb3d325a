// Package remap renumbers the chapters of a book, for example from the
// Vulgate psalter to the modern one.
package remap

import (
	"errors"
	"fmt"
	"strconv"

	"bible-scraper/model"
)

// Mapping maps an old chapter key to a new one. It must be total and
// deterministic over the keys present.
type Mapping func(chapter string) string

// Numeric lifts an integer mapping. Non-numeric keys are left alone.
func Numeric(f func(int) int) Mapping {
	return func(chapter string) string {
		n, err := strconv.Atoi(chapter)
		if err != nil {
			return chapter
		}
		return strconv.Itoa(f(n))
	}
}

// targets groups old keys by their new key. Sources are numerically sorted.
func targets(book *model.Book, m Mapping) (map[string][]string, error) {
	out := make(map[string][]string, len(book.Chapters))
	for _, old := range model.SortedKeys(book.Chapters) {
		to := m(old)
		if to == "" {
			return nil, fmt.Errorf("chapter %s maps to an empty key", old)
		}
		out[to] = append(out[to], old)
	}
	return out, nil
}

// RemapChapters returns a copy of book with every chapter moved to its new
// key. It fails with a ConflictingRemapError when two chapters land on the
// same key; the input is never modified.
func RemapChapters(book *model.Book, m Mapping) (*model.Book, error) {
	groups, err := targets(book, m)
	if err != nil {
		return nil, err
	}
	for _, to := range model.SortedKeys(groups) {
		if sources := groups[to]; len(sources) > 1 {
			return nil, &model.ConflictingRemapError{Target: to, Sources: sources}
		}
	}

	out := model.NewBook(book.Title)
	for to, sources := range groups {
		out.Chapters[to] = book.Chapters[sources[0]].Clone()
	}
	return out, nil
}

// RemapChaptersCombining is RemapChapters, except that chapters colliding on
// one key are concatenated in numeric order. Verses of each later chapter
// are renumbered so that its lowest verse, 0 included, follows the highest
// verse so far. A verse that would still land on a taken key is a
// ConflictingRemapError.
func RemapChaptersCombining(book *model.Book, m Mapping) (*model.Book, error) {
	groups, err := targets(book, m)
	if err != nil {
		return nil, err
	}

	out := model.NewBook(book.Title)
	for to, sources := range groups {
		combined := book.Chapters[sources[0]].Clone()
		for _, src := range sources[1:] {
			offset := highestVerse(combined) + 1 - lowestVerse(book.Chapters[src])
			for _, verse := range model.SortedKeys(book.Chapters[src]) {
				key := shiftToken(verse, offset, src)
				if _, taken := combined[key]; taken {
					return nil, &model.ConflictingRemapError{Target: to, Sources: sources}
				}
				combined[key] = book.Chapters[src][verse]
			}
		}
		out.Chapters[to] = combined
	}
	return out, nil
}

// RemapDocument remaps one book of doc in place.
func RemapDocument(doc model.Bible, code string, m Mapping, combine bool) error {
	book, ok := doc[code]
	if !ok || book == nil {
		return fmt.Errorf("book %s is not in the document", code)
	}
	apply := RemapChapters
	if combine {
		apply = RemapChaptersCombining
	}
	out, err := apply(book, m)
	if err != nil {
		var conflict *model.ConflictingRemapError
		if errors.As(err, &conflict) {
			conflict.Book = code
		}
		return err
	}
	doc[code] = out
	return nil
}

func highestVerse(ch model.Chapter) int {
	high := 0
	for verse := range ch {
		if n, _, ok := splitToken(verse); ok && n > high {
			high = n
		}
		if _, end, ok := splitRange(verse); ok && end > high {
			high = end
		}
	}
	return high
}

// lowestVerse is the smallest verse number of ch, or 1 when it has none.
func lowestVerse(ch model.Chapter) int {
	low, found := 0, false
	for verse := range ch {
		n, _, ok := splitToken(verse)
		if !ok {
			n, _, ok = splitRange(verse)
		}
		if ok && (!found || n < low) {
			low, found = n, true
		}
	}
	if !found {
		return 1
	}
	return low
}

// shiftToken adds offset to the numbers of a verse token, keeping any
// letter suffix. Tokens without a number are prefixed with their old
// chapter.
func shiftToken(token string, offset int, chapter string) string {
	if start, end, ok := splitRange(token); ok {
		return fmt.Sprintf("%d-%d", start+offset, end+offset)
	}
	if n, suffix, ok := splitToken(token); ok {
		return strconv.Itoa(n+offset) + suffix
	}
	return chapter + ":" + token
}

func splitToken(token string) (int, string, bool) {
	i := 0
	for i < len(token) && token[i] >= '0' && token[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(token[:i])
	if err != nil {
		return 0, "", false
	}
	if rest := token[i:]; rest != "" && rest[0] == '-' {
		return 0, "", false
	}
	return n, token[i:], true
}

func splitRange(token string) (int, int, bool) {
	var start, end int
	if _, err := fmt.Sscanf(token, "%d-%d", &start, &end); err != nil {
		return 0, 0, false
	}
	if fmt.Sprintf("%d-%d", start, end) != token {
		return 0, 0, false
	}
	return start, end, true
}

// Collisions lists, for every new key that receives more than one chapter,
// the old keys that collide on it.
func Collisions(book *model.Book, m Mapping) (map[string][]string, error) {
	groups, err := targets(book, m)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for to, sources := range groups {
		if len(sources) > 1 {
			out[to] = sources
		}
	}
	return out, nil
}
