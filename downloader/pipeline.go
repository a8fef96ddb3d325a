// Package downloader runs a source through noise stripping, merging and the
// assembler, and builds the configured sources.
package downloader

import (
	"bible-scraper/merge"
	"bible-scraper/model"
	"bible-scraper/noise"
)

// Pipeline turns raw fragments of one chapter into verses.
type Pipeline struct {
	Stripper *noise.Stripper
	Policy   merge.Policy
}

// Process strips every fragment of chapter, markup first when the extractor
// kept it, then merges them.
func (p Pipeline) Process(chapter string, frags []model.Fragment) merge.Result {
	stripper := p.Stripper
	if stripper == nil {
		stripper = noise.Default()
	}
	stripper = stripper.WithChapter(chapter)
	cleaned := make([]model.Fragment, len(frags))
	for i, f := range frags {
		text := f.Text
		if f.Markup != nil {
			text = stripper.Strip(f.Markup)
		} else {
			text = stripper.StripText(text)
		}
		cleaned[i] = model.Fragment{Verse: f.Verse, Text: text, Order: f.Order}
	}
	return merge.Merge(cleaned, p.Policy)
}
