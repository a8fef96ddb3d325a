// Package noise removes site-specific artifacts from verse markup and text:
// footnote markers, printed chapter numbers and editorial annotations.
package noise

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Stripper applies an ordered set of rules. The zero value only collapses
// whitespace. A Stripper is immutable and safe for concurrent use.
type Stripper struct {
	markup []MarkupRule
	text   []TextRule
	names  []string
}

// New orders rules canonically. A rule given twice keeps its first
// configuration.
func New(rules ...Rule) *Stripper {
	rank := func(r Rule) int {
		for i, name := range canonicalOrder {
			if name == r.Name() {
				return i
			}
		}
		return len(canonicalOrder)
	}
	sorted := make([]Rule, 0, len(rules))
	seen := make(map[string]bool)
	for _, r := range rules {
		if r == nil || seen[r.Name()] {
			continue
		}
		seen[r.Name()] = true
		sorted = append(sorted, r)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return rank(sorted[i]) < rank(sorted[j]) })

	s := &Stripper{}
	for _, r := range sorted {
		s.names = append(s.names, r.Name())
		if m, ok := r.(MarkupRule); ok {
			s.markup = append(s.markup, m)
		}
		if t, ok := r.(TextRule); ok {
			s.text = append(s.text, t)
		}
	}
	return s
}

// Default has no rules.
func Default() *Stripper {
	return New()
}

// Lookup returns the rule registered under name with its default settings.
func Lookup(name string) (Rule, error) {
	switch strings.TrimSpace(name) {
	case NameFootnoteMarker:
		return FootnoteMarker{}, nil
	case NameChapterNumber:
		return ChapterNumber{}, nil
	case NameBracketAnnotation:
		return BracketAnnotation{}, nil
	case NameParentheticalAnnotation:
		return ParentheticalAnnotation{}, nil
	case NameTrailingAsterisk:
		return TrailingAsterisk{}, nil
	default:
		return nil, fmt.Errorf("unknown noise rule %q", name)
	}
}

// Parse builds a Stripper from rule names.
func Parse(names []string) (*Stripper, error) {
	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		r, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return New(rules...), nil
}

// WithChapter returns a copy whose ChapterNumber rule, if any, also drops a
// leading bold number equal to chapter. A rule configured with its own
// Chapter keeps it.
func (s *Stripper) WithChapter(chapter string) *Stripper {
	out := &Stripper{text: s.text, names: s.names, markup: make([]MarkupRule, len(s.markup))}
	for i, r := range s.markup {
		if c, ok := r.(ChapterNumber); ok && c.Chapter == "" {
			c.Chapter = chapter
			r = c
		}
		out.markup[i] = r
	}
	return out
}

// Names lists the active rules in the order they run.
func (s *Stripper) Names() []string {
	return append([]string(nil), s.names...)
}

// Strip extracts clean text from a verse element. The caller's tree is not
// modified.
func (s *Stripper) Strip(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	clone := sel.Clone()
	for _, r := range s.markup {
		r.StripMarkup(clone)
	}
	var b strings.Builder
	for _, n := range clone.Nodes {
		writeText(&b, n)
	}
	return s.StripText(b.String())
}

// StripText runs the text rules to a fixpoint, then NFC-normalizes,
// collapses whitespace and trims. It is idempotent.
func (s *Stripper) StripText(text string) string {
	for {
		next := text
		for _, r := range s.text {
			next = r.StripText(next)
		}
		next = collapse(norm.NFC.String(next))
		if next == text {
			return next
		}
		text = next
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// inline elements do not separate words.
var inline = map[string]bool{
	"a": true, "abbr": true, "b": true, "em": true, "font": true,
	"i": true, "small": true, "strong": true, "u": true,
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	boundary := n.Type == html.ElementNode && !inline[n.Data]
	if boundary {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if boundary {
		b.WriteByte(' ')
	}
}
