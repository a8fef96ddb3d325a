package model

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fragment is a piece of verse text as found in a source page, before noise
// stripping and merging. A verse split across several elements yields several
// fragments carrying the same token.
type Fragment struct {
	// Verse is the raw verse token. Empty means the fragment had no number.
	Verse string
	// Text is plain text. It is ignored when Markup is set.
	Text string
	// Order is the encounter order within the chapter.
	Order int
	// Markup is the enclosing element, if the extractor kept it.
	Markup *goquery.Selection `json:"-"`
}

// Verse is one merged verse.
type Verse struct {
	Number string
	Text   string
}

var validToken = regexp.MustCompile(`^(\d+[a-z]?|\d+-\d+)$`)

// NormalizeToken trims whitespace and a trailing period from a verse or
// chapter token.
func NormalizeToken(token string) string {
	token = strings.TrimSpace(token)
	token = strings.TrimRight(token, ".")
	return strings.TrimSpace(token)
}

// ValidToken reports whether token is a number, a number with a letter
// suffix, or a numeric range.
func ValidToken(token string) bool {
	return validToken.MatchString(token)
}

// leadingNumber splits a token into its leading integer and the rest.
func leadingNumber(token string) (int, string, bool) {
	i := 0
	for i < len(token) && token[i] >= '0' && token[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, token, false
	}
	n, err := strconv.Atoi(token[:i])
	if err != nil {
		return 0, token, false
	}
	return n, token[i:], true
}

// CompareTokens orders tokens numerically by their leading number, then by
// suffix. Non-numeric tokens sort after numeric ones.
func CompareTokens(a, b string) int {
	na, ra, oka := leadingNumber(a)
	nb, rb, okb := leadingNumber(b)
	switch {
	case oka && okb:
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
		return strings.Compare(ra, rb)
	case oka:
		return -1
	case okb:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// SortedKeys returns the keys of m in token order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return CompareTokens(keys[i], keys[j]) < 0
	})
	return keys
}
