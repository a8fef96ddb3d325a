package noise

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Rule names, also used in configuration.
const (
	NameFootnoteMarker          = "footnote-marker"
	NameChapterNumber           = "chapter-number"
	NameBracketAnnotation       = "bracket-annotation"
	NameParentheticalAnnotation = "parenthetical-annotation"
	NameTrailingAsterisk        = "trailing-asterisk"
)

// canonicalOrder is the order rules run in, whatever order they were
// configured in. Markup rules come first since they need the tree.
var canonicalOrder = []string{
	NameFootnoteMarker,
	NameChapterNumber,
	NameBracketAnnotation,
	NameParentheticalAnnotation,
	NameTrailingAsterisk,
}

type Rule interface {
	Name() string
}

// MarkupRule edits a verse element before its text is extracted.
type MarkupRule interface {
	Rule
	StripMarkup(sel *goquery.Selection)
}

// TextRule rewrites extracted text. It must be pure.
type TextRule interface {
	Rule
	StripText(s string) string
}

var numeric = regexp.MustCompile(`^\d+$`)

// FootnoteMarker replaces non-numeric marker elements with a space so the
// words on either side stay apart. Numeric markers are verse numbers and
// are left for the merger.
type FootnoteMarker struct {
	Selector string
}

func (FootnoteMarker) Name() string { return NameFootnoteMarker }

func (r FootnoteMarker) StripMarkup(sel *goquery.Selection) {
	selector := r.Selector
	if selector == "" {
		selector = "sup"
	}
	sel.Find(selector).Each(func(i int, s *goquery.Selection) {
		if numeric.MatchString(strings.TrimSpace(s.Text())) {
			return
		}
		s.ReplaceWithHtml(" ")
	})
}

// ChapterNumber removes the chapter number some sites print inside the
// first verse.
type ChapterNumber struct {
	Selector string
	// Chapter, when set, also removes a leading b or strong element whose
	// text equals it.
	Chapter string
}

func (ChapterNumber) Name() string { return NameChapterNumber }

func (r ChapterNumber) StripMarkup(sel *goquery.Selection) {
	selector := r.Selector
	if selector == "" {
		selector = "span.chapternum"
	}
	sel.Find(selector).Remove()
	if r.Chapter == "" {
		return
	}
	first := sel.Children().First()
	if first.Is("b, strong") && strings.TrimSpace(first.Text()) == r.Chapter {
		first.Remove()
	}
}

var bracketAnnotation = regexp.MustCompile(`\[\d+[a-z]\]`)

// BracketAnnotation removes editorial markers like [12a].
type BracketAnnotation struct{}

func (BracketAnnotation) Name() string { return NameBracketAnnotation }

func (BracketAnnotation) StripText(s string) string {
	return bracketAnnotation.ReplaceAllString(s, "")
}

var parentheticalAnnotation = regexp.MustCompile(`\(\d+:\d+\)`)

// ParentheticalAnnotation removes cross references like (3:16).
type ParentheticalAnnotation struct{}

func (ParentheticalAnnotation) Name() string { return NameParentheticalAnnotation }

func (ParentheticalAnnotation) StripText(s string) string {
	return parentheticalAnnotation.ReplaceAllString(s, "")
}

// TrailingAsterisk removes a note marker at the end of a verse.
type TrailingAsterisk struct{}

func (TrailingAsterisk) Name() string { return NameTrailingAsterisk }

func (TrailingAsterisk) StripText(s string) string {
	trimmed := strings.TrimRight(s, " \t\n")
	if strings.HasSuffix(trimmed, "*") {
		return strings.TrimSuffix(trimmed, "*")
	}
	return s
}
