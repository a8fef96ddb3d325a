package validator

import (
	"bytes"
	"encoding/json"
	"fmt"

	"bible-scraper/model"
)

// ShapeIssue is a structural defect in one book of a raw document.
type ShapeIssue struct {
	Book    string
	Problem string
}

func (i ShapeIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Book, i.Problem)
}

// DiffShape checks one raw book value: it needs a title, a chapters object,
// chapters that are objects and verses that are strings.
func DiffShape(code string, raw json.RawMessage) []ShapeIssue {
	issue := func(format string, args ...any) ShapeIssue {
		return ShapeIssue{Book: code, Problem: fmt.Sprintf(format, args...)}
	}

	var book map[string]json.RawMessage
	if err := json.Unmarshal(raw, &book); err != nil || book == nil {
		return []ShapeIssue{issue("book must be an object")}
	}

	var issues []ShapeIssue
	if title, ok := book["title"]; !ok {
		issues = append(issues, issue("missing 'title' field"))
	} else if kind(title) != '"' {
		issues = append(issues, issue("'title' must be a string"))
	}

	rawChapters, ok := book["chapters"]
	if !ok {
		return append(issues, issue("missing 'chapters' field"))
	}
	var chapters map[string]json.RawMessage
	if kind(rawChapters) != '{' || json.Unmarshal(rawChapters, &chapters) != nil {
		return append(issues, issue("'chapters' must be an object"))
	}

	for _, ch := range model.SortedKeys(chapters) {
		var verses map[string]json.RawMessage
		if kind(chapters[ch]) != '{' || json.Unmarshal(chapters[ch], &verses) != nil {
			issues = append(issues, issue("chapter %s must be an object", ch))
			continue
		}
		for _, v := range model.SortedKeys(verses) {
			if kind(verses[v]) != '"' {
				issues = append(issues, issue("verse %s:%s must be a string", ch, v))
			}
		}
	}
	return issues
}

// kind returns the first significant byte of a JSON value.
func kind(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// Decode loads a document loosely. It fails only when the top level is not
// a JSON object; books with shape issues are reported and left out of the
// returned document.
func Decode(data []byte) (model.Bible, []ShapeIssue, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse document: %v", err)
	}
	if raw == nil {
		return nil, nil, fmt.Errorf("document must be an object")
	}

	doc := make(model.Bible, len(raw))
	var issues []ShapeIssue
	for _, code := range stub(raw).Codes() {
		found := DiffShape(code, raw[code])
		if len(found) > 0 {
			issues = append(issues, found...)
			continue
		}
		var book model.Book
		if err := json.Unmarshal(raw[code], &book); err != nil {
			issues = append(issues, ShapeIssue{Book: code, Problem: err.Error()})
			continue
		}
		doc[code] = &book
	}
	return doc, issues, nil
}

// stub gives raw's keys the document type so they sort canonically.
func stub(raw map[string]json.RawMessage) model.Bible {
	out := make(model.Bible, len(raw))
	for k := range raw {
		out[k] = nil
	}
	return out
}
