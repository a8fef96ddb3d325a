// Package merge groups clean verse fragments by verse number and joins
// each group into one verse.
package merge

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"bible-scraper/model"
)

// Policy decides what happens to a fragment without a usable verse number.
type Policy int

const (
	// Discard drops unnumbered fragments as malformed.
	Discard Policy = iota
	// Continue appends unnumbered fragments to the last opened verse.
	Continue
)

func (p Policy) String() string {
	if p == Continue {
		return "continue"
	}
	return "discard"
}

// ParsePolicy accepts "discard" and "continue".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "discard":
		return Discard, nil
	case "continue":
		return Continue, nil
	default:
		return Discard, fmt.Errorf("unknown merge policy %q", s)
	}
}

type Result struct {
	Verses model.Chapter
	// Order lists verse tokens in first-encounter order.
	Order   []string
	Dropped []model.MalformedFragmentError
}

// List returns the merged verses in encounter order.
func (r Result) List() []model.Verse {
	out := make([]model.Verse, 0, len(r.Order))
	for _, n := range r.Order {
		out = append(out, model.Verse{Number: n, Text: r.Verses[n]})
	}
	return out
}

type group struct {
	token string
	parts []string
	first int
}

// Merge groups fragments by normalized verse token. Fragment texts are
// expected to be clean already. The input slice is not modified.
func Merge(frags []model.Fragment, policy Policy) Result {
	sorted := make([]model.Fragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	res := Result{Verses: model.Chapter{}}
	groups := make(map[string]*group)
	var order []*group
	var last *group

	for _, f := range sorted {
		token := model.NormalizeToken(f.Verse)
		if !model.ValidToken(token) {
			reason := "no verse number"
			if token != "" {
				reason = fmt.Sprintf("invalid verse number %q", token)
			}
			if policy == Discard {
				res.Dropped = append(res.Dropped, model.MalformedFragmentError{Order: f.Order, Verse: f.Verse, Reason: reason})
				continue
			}
			if last == nil {
				res.Dropped = append(res.Dropped, model.MalformedFragmentError{Order: f.Order, Verse: f.Verse, Reason: reason + " before the first verse"})
				continue
			}
			last.add(f.Text)
			continue
		}

		g, ok := groups[token]
		if !ok {
			g = &group{token: token, first: f.Order}
			groups[token] = g
			order = append(order, g)
		}
		g.add(f.Text)
		last = g
	}

	for _, g := range order {
		text := StripToken(strings.Join(g.parts, " "), g.token)
		if text == "" {
			res.Dropped = append(res.Dropped, model.MalformedFragmentError{Order: g.first, Verse: g.token, Reason: "empty verse"})
			continue
		}
		res.Verses[g.token] = text
		res.Order = append(res.Order, g.token)
	}
	return res
}

func (g *group) add(text string) {
	text = strings.TrimSpace(text)
	if text != "" {
		g.parts = append(g.parts, text)
	}
}

// StripToken removes token from the start of text once, but only when it is
// followed by the end of text or a character that is not a letter or digit.
// "3 Then" loses its number; "300 men" for verse 3 does not. One '.' or ':'
// right after the token goes with it.
func StripToken(text, token string) string {
	if token == "" || !strings.HasPrefix(text, token) {
		return text
	}
	rest := text[len(token):]
	if rest == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return text
	}
	if rest[0] == '.' || rest[0] == ':' {
		rest = rest[1:]
	}
	return strings.TrimSpace(rest)
}
