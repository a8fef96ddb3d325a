// Package validator compares a document against the master manifest and
// against a baseline document. Every check is read-only; findings are
// returned as data, never as errors.
package validator

import (
	"sort"
	"strconv"

	"bible-scraper/canon"
	"bible-scraper/model"
)

type StructureDiff struct {
	// Missing lists manifest codes absent from the document, in manifest order.
	Missing []string
	// Extra lists document codes outside the manifest, alphabetically.
	Extra []string
}

type CountMismatch struct {
	Book      string
	Chapter   string
	Baseline  int
	Candidate int
}

type TotalsMismatch struct {
	Book              string
	BaselineChapters  int
	CandidateChapters int
	BaselineVerses    int
	CandidateVerses   int
}

type VerseDiff struct {
	Book                 string
	Chapter              string
	MissingFromCandidate []string
	ExtraInCandidate     []string
}

// Gap is a hole in a numeric sequence. With Chapter empty, Missing lists
// chapters of Book; otherwise verses of Chapter. OutOfRange holds tokens
// reaching past maxNumber, which are not expanded.
type Gap struct {
	Book       string
	Chapter    string
	Missing    []string
	OutOfRange []string
}

// maxNumber bounds chapter and verse numbers; Psalm 119 has 176 verses.
const maxNumber = 1000

// DiffStructure compares the document's book codes with manifest.
func DiffStructure(doc model.Bible, manifest []string) StructureDiff {
	diff := StructureDiff{Missing: []string{}, Extra: []string{}}
	known := make(map[string]bool, len(manifest))
	for _, code := range manifest {
		known[code] = true
		if _, ok := doc[code]; !ok {
			diff.Missing = append(diff.Missing, code)
		}
	}
	for code := range doc {
		if !known[code] {
			diff.Extra = append(diff.Extra, code)
		}
	}
	sort.Strings(diff.Extra)
	return diff
}

// commonBooks lists codes present in both documents, canonically ordered.
func commonBooks(a, b model.Bible) []string {
	var codes []string
	for _, code := range a.Codes() {
		if a[code] == nil || b[code] == nil {
			continue
		}
		codes = append(codes, code)
	}
	return codes
}

// DiffCounts compares verse counts of chapters present in both documents.
func DiffCounts(baseline, candidate model.Bible) []CountMismatch {
	var out []CountMismatch
	for _, code := range commonBooks(baseline, candidate) {
		base, cand := baseline[code].Chapters, candidate[code].Chapters
		for _, ch := range model.SortedKeys(base) {
			c, ok := cand[ch]
			if !ok || len(c) == len(base[ch]) {
				continue
			}
			out = append(out, CountMismatch{Book: code, Chapter: ch, Baseline: len(base[ch]), Candidate: len(c)})
		}
	}
	return out
}

// DiffBookTotals compares chapter counts and verse totals per book.
func DiffBookTotals(baseline, candidate model.Bible) []TotalsMismatch {
	var out []TotalsMismatch
	for _, code := range commonBooks(baseline, candidate) {
		base, cand := baseline[code], candidate[code]
		m := TotalsMismatch{
			Book:              code,
			BaselineChapters:  len(base.Chapters),
			CandidateChapters: len(cand.Chapters),
			BaselineVerses:    base.VerseCount(),
			CandidateVerses:   cand.VerseCount(),
		}
		if m.BaselineChapters != m.CandidateChapters || m.BaselineVerses != m.CandidateVerses {
			out = append(out, m)
		}
	}
	return out
}

// DiffVerses compares verse tokens of chapters present in both documents.
func DiffVerses(baseline, candidate model.Bible) []VerseDiff {
	var out []VerseDiff
	for _, code := range commonBooks(baseline, candidate) {
		base, cand := baseline[code].Chapters, candidate[code].Chapters
		for _, ch := range model.SortedKeys(base) {
			c, ok := cand[ch]
			if !ok {
				continue
			}
			d := VerseDiff{Book: code, Chapter: ch}
			for _, v := range model.SortedKeys(base[ch]) {
				if _, ok := c[v]; !ok {
					d.MissingFromCandidate = append(d.MissingFromCandidate, v)
				}
			}
			for _, v := range model.SortedKeys(c) {
				if _, ok := base[ch][v]; !ok {
					d.ExtraInCandidate = append(d.ExtraInCandidate, v)
				}
			}
			if len(d.MissingFromCandidate) > 0 || len(d.ExtraInCandidate) > 0 {
				out = append(out, d)
			}
		}
	}
	return out
}

// FindGaps reports chapter and verse numbers missing from 1..max. Tokens
// that do not start with a number are ignored; ranges cover their span.
// Tokens ending past maxNumber are reported as out of range.
func FindGaps(doc model.Bible) []Gap {
	var out []Gap
	for _, code := range doc.Codes() {
		book := doc[code]
		if book == nil {
			continue
		}
		if g := holes(keysOf(book.Chapters)); len(g.Missing) > 0 || len(g.OutOfRange) > 0 {
			g.Book = code
			out = append(out, g)
		}
		for _, ch := range model.SortedKeys(book.Chapters) {
			if g := holes(keysOf(book.Chapters[ch])); len(g.Missing) > 0 || len(g.OutOfRange) > 0 {
				g.Book, g.Chapter = code, ch
				out = append(out, g)
			}
		}
	}
	return out
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func holes(tokens []string) Gap {
	var g Gap
	covered := make(map[int]bool)
	high := 0
	sort.Strings(tokens)
	for _, tok := range tokens {
		start, end, ok := span(tok)
		if !ok {
			continue
		}
		if end > maxNumber {
			g.OutOfRange = append(g.OutOfRange, tok)
			continue
		}
		for n := start; n <= end; n++ {
			covered[n] = true
		}
		if end > high {
			high = end
		}
	}
	for n := 1; n <= high; n++ {
		if !covered[n] {
			g.Missing = append(g.Missing, strconv.Itoa(n))
		}
	}
	return g
}

// span returns the numbers a token covers: "7" and "7a" cover 7, "7-9"
// covers 7 through 9.
func span(tok string) (int, int, bool) {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, 0, false
	}
	start, err := strconv.Atoi(tok[:i])
	if err != nil {
		return 0, 0, false
	}
	rest := tok[i:]
	if len(rest) > 1 && rest[0] == '-' {
		if end, err := strconv.Atoi(rest[1:]); err == nil && end >= start {
			return start, end, true
		}
	}
	return start, start, true
}

// Manifest returns the master codes.
func Manifest() []string {
	return canon.Codes()
}
