package canon

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// DefaultThreshold is the Jaro-Winkler similarity a fuzzy match must reach.
const DefaultThreshold = 0.92

// Entry maps one site-specific book to its canonical code.
type Entry struct {
	Code     string `yaml:"code"`
	Title    string `yaml:"title"`
	Slug     string `yaml:"slug,omitempty"`
	Key      string `yaml:"key,omitempty"`
	Chapters int    `yaml:"chapters,omitempty"`
}

// Table is an immutable lookup table for one source. It is safe for
// concurrent use.
type Table struct {
	name      string
	entries   []Entry
	byKey     map[string]int
	byCode    map[string]int
	threshold float64
}

type tableFile struct {
	Books []Entry `yaml:"books"`
}

// NewTable copies entries into a new table. Codes need not be canonical:
// sources sometimes carry extra books and the validator reports them.
func NewTable(name string, entries []Entry) (*Table, error) {
	t := &Table{
		name:      name,
		entries:   make([]Entry, len(entries)),
		byKey:     make(map[string]int),
		byCode:    make(map[string]int),
		threshold: DefaultThreshold,
	}
	copy(t.entries, entries)

	for i, e := range t.entries {
		if e.Code == "" {
			return nil, fmt.Errorf("table %s: entry %d has no code", name, i)
		}
		if _, dup := t.byCode[e.Code]; dup {
			return nil, fmt.Errorf("table %s: duplicate code %s", name, e.Code)
		}
		t.byCode[e.Code] = i
		if t.entries[i].Chapters == 0 {
			if mi := Index(e.Code); mi >= 0 {
				t.entries[i].Chapters = Master[mi].Chapters
			}
		}
	}

	// explicit keys win over slugs, slugs over titles, titles over codes
	for _, field := range []func(Entry) string{
		func(e Entry) string { return e.Key },
		func(e Entry) string { return e.Slug },
		func(e Entry) string { return e.Title },
		func(e Entry) string { return e.Code },
	} {
		for i, e := range t.entries {
			k := Fold(field(e))
			if k == "" {
				continue
			}
			if _, taken := t.byKey[k]; !taken {
				t.byKey[k] = i
			}
		}
	}
	return t, nil
}

// LoadTable decodes a YAML document of the form `books: [{code, title, ...}]`.
func LoadTable(name string, data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse table %s: %v", name, err)
	}
	return NewTable(name, f.Books)
}

// MustLoadTable is LoadTable for embedded tables.
func MustLoadTable(name string, data []byte) *Table {
	t, err := LoadTable(name, data)
	if err != nil {
		panic(err)
	}
	return t
}

// MasterTable builds a table from the master manifest using English names
// as titles and lowercased codes as slugs.
func MasterTable() *Table {
	entries := make([]Entry, len(Master))
	for i, b := range Master {
		entries[i] = Entry{Code: b.Code, Title: b.Name, Slug: strings.ToLower(b.Code), Chapters: b.Chapters}
	}
	t, _ := NewTable("master", entries)
	return t
}

func (t *Table) Name() string { return t.name }

func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the table in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Table) ByCode(code string) (Entry, bool) {
	i, ok := t.byCode[code]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Lookup finds an entry by key, slug, title or code, ignoring case and
// diacritics.
func (t *Table) Lookup(key string) (Entry, bool) {
	i, ok := t.byKey[Fold(key)]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Resolve is Lookup with a Jaro-Winkler fallback over titles and keys.
func (t *Table) Resolve(key string) (Entry, bool) {
	if e, ok := t.Lookup(key); ok {
		return e, true
	}
	folded := Fold(key)
	if folded == "" {
		return Entry{}, false
	}

	best, bestScore := -1, 0.0
	for i, e := range t.entries {
		for _, candidate := range []string{e.Title, e.Key} {
			if candidate == "" {
				continue
			}
			score := matchr.JaroWinkler(folded, Fold(candidate), false)
			if score > bestScore {
				best, bestScore = i, score
			}
		}
	}
	if best < 0 || bestScore < t.threshold {
		return Entry{}, false
	}
	return t.entries[best], true
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s, strips combining marks and collapses whitespace.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}
