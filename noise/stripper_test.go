package noise

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func selection(t *testing.T, markup string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + markup + "</body></html>"))
	require.NoError(t, err)
	return doc.Find("body").Children().First()
}

func TestFootnoteMarker(t *testing.T) {
	sel := selection(t, `<span class="text Gen-1-1"><sup class="versenum">1 </sup>In the beginning<sup class="footnote">[a]</sup>God created</span>`)
	s := New(FootnoteMarker{})

	require.Equal(t, "1 In the beginning God created", s.Strip(sel))
	// caller's tree untouched
	require.Equal(t, 2, sel.Find("sup").Length())
}

func TestChapterNumber(t *testing.T) {
	sel := selection(t, `<span class="text John-3-1"><span class="chapternum">3 </span>Now there was a Pharisee</span>`)
	require.Equal(t, "Now there was a Pharisee", New(ChapterNumber{}).Strip(sel))

	sel = selection(t, `<p><b>3</b> Now there was a Pharisee</p>`)
	require.Equal(t, "Now there was a Pharisee", New(ChapterNumber{Chapter: "3"}).Strip(sel))

	sel = selection(t, `<p><b>4</b> Now there was a Pharisee</p>`)
	require.Equal(t, "4 Now there was a Pharisee", New(ChapterNumber{Chapter: "3"}).Strip(sel))
}

func TestWithChapter(t *testing.T) {
	base := New(ChapterNumber{}, TrailingAsterisk{})
	s := base.WithChapter("3")

	sel := selection(t, `<p><b>3</b> Now there was a Pharisee*</p>`)
	require.Equal(t, "Now there was a Pharisee", s.Strip(sel))
	require.Equal(t, "3 Now there was a Pharisee", base.Strip(sel))
	require.Equal(t, base.Names(), s.Names())

	fixed := New(ChapterNumber{Chapter: "4"}).WithChapter("3")
	sel = selection(t, `<p><b>4</b> Nicodemus</p>`)
	require.Equal(t, "Nicodemus", fixed.Strip(sel))
}

func TestTextRules(t *testing.T) {
	s := New(BracketAnnotation{}, ParentheticalAnnotation{}, TrailingAsterisk{})

	cases := map[string]string{
		"In principio [1a] Dio creò":           "In principio Dio creò",
		"16b Rècati da questo ministro [16a]":  "16b Rècati da questo ministro",
		"Car Dieu a tant aimé (3:16) le monde": "Car Dieu a tant aimé le monde",
		"Eis que uma Virgem conceberá *":       "Eis que uma Virgem conceberá",
		"  plain   text here ":                 "plain text here",
		"":                                     "",
		"[[1a]2b]":                             "",
		"keeps [12] numeric brackets":          "keeps [12] numeric brackets",
	}
	for in, want := range cases {
		require.Equal(t, want, s.StripText(in), in)
	}
}

func TestStripTextIsIdempotent(t *testing.T) {
	s := New(BracketAnnotation{}, ParentheticalAnnotation{}, TrailingAsterisk{})
	for _, in := range []string{
		"a (1:2) b [3c] c **",
		"étude  [4d]",
		"nothing to do",
		" ( 1:2 ) spaced",
	} {
		once := s.StripText(in)
		require.Equal(t, once, s.StripText(once), in)
	}
}

func TestNFC(t *testing.T) {
	require.Equal(t, "étude", Default().StripText("e\u0301tude"))
}

func TestBlockBoundariesSeparateWords(t *testing.T) {
	sel := selection(t, `<div><p>first</p><p>second</p><i>ital</i>ic<br>next</div>`)
	require.Equal(t, "first second italic next", Default().Strip(sel))
}

func TestParse(t *testing.T) {
	s, err := Parse([]string{"trailing-asterisk", "footnote-marker", "bracket-annotation"})
	require.NoError(t, err)
	require.Equal(t, []string{"footnote-marker", "bracket-annotation", "trailing-asterisk"}, s.Names())

	_, err = Parse([]string{"footnote-marker", "nope"})
	require.ErrorContains(t, err, "nope")

	s, err = Parse(nil)
	require.NoError(t, err)
	require.Empty(t, s.Names())
}

func TestOrderDoesNotDependOnConfiguration(t *testing.T) {
	sel := selection(t, `<span><sup>b</sup>Text [2a] (1:1)*</span>`)
	a := New(TrailingAsterisk{}, ParentheticalAnnotation{}, BracketAnnotation{}, FootnoteMarker{})
	b := New(FootnoteMarker{}, BracketAnnotation{}, ParentheticalAnnotation{}, TrailingAsterisk{})
	require.Equal(t, a.Strip(sel), b.Strip(sel))
	require.Equal(t, "Text", a.Strip(sel))
}
