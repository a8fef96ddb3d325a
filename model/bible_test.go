package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeIsOrderedAndUnescaped(t *testing.T) {
	doc := Bible{
		"Rev": &Book{Title: "Revelation", Chapters: Chapters{"1": {"1": "a"}}},
		"Gen": &Book{Title: "Genèse", Chapters: Chapters{
			"10": {"1": "x"},
			"2":  {"10": "<b> & c", "2": "b", "1": "a"},
		}},
		"AddDan": NewBook("Additions"),
	}

	out, err := doc.Encode()
	require.NoError(t, err)

	want := `{
  "Gen": {
    "title": "Genèse",
    "chapters": {
      "2": {
        "1": "a",
        "2": "b",
        "10": "<b> & c"
      },
      "10": {
        "1": "x"
      }
    }
  },
  "Rev": {
    "title": "Revelation",
    "chapters": {
      "1": {
        "1": "a"
      }
    }
  },
  "AddDan": {
    "title": "Additions",
    "chapters": {}
  }
}
`
	require.Equal(t, want, string(out))

	again, err := doc.Encode()
	require.NoError(t, err)
	require.Equal(t, out, again)
}

func TestNilChaptersEncodeAsObject(t *testing.T) {
	doc := Bible{"Jude": &Book{Title: "Jude"}}
	out, err := doc.Encode()
	require.NoError(t, err)
	require.Contains(t, string(out), `"chapters": {}`)
}

func TestDecodeRoundTrip(t *testing.T) {
	doc := Bible{"Ps": &Book{Title: "Psalms", Chapters: Chapters{"23": {"1": "The Lord is my shepherd"}}}}
	out, err := doc.Encode()
	require.NoError(t, err)

	back, err := Decode(out)
	require.NoError(t, err)
	require.Equal(t, doc, back)
}

func TestDecodeRejectsWrongShape(t *testing.T) {
	for name, in := range map[string]string{
		"not json":         `{"Gen": `,
		"array":            `[]`,
		"null":             `null`,
		"missing title":    `{"Gen": {"chapters": {}}}`,
		"missing chapters": `{"Gen": {"title": "Genesis"}}`,
		"null chapters":    `{"Gen": {"title": "Genesis", "chapters": null}}`,
		"verse not string": `{"Gen": {"title": "Genesis", "chapters": {"1": {"1": 3}}}}`,
	} {
		_, err := Decode([]byte(in))
		require.Error(t, err, name)
	}
}

func TestCounts(t *testing.T) {
	doc := Bible{
		"Gen":  &Book{Title: "Genesis", Chapters: Chapters{"1": {"1": "a", "2": "b"}, "2": {"1": "c"}}},
		"Jude": NewBook("Jude"),
	}
	books, chapters, verses := doc.Counts()
	require.Equal(t, 2, books)
	require.Equal(t, 2, chapters)
	require.Equal(t, 3, verses)
}
