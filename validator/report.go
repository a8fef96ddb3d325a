package validator

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"

	"bible-scraper/canon"
	"bible-scraper/model"
)

const previewWidth = 48

// Report gathers every check for one document.
type Report struct {
	Path      string
	Manifest  string
	Structure StructureDiff
	Shape     []ShapeIssue
	Gaps      []Gap
	// Baseline comparisons; empty without a baseline.
	Baseline string
	Counts   []CountMismatch
	Totals   []TotalsMismatch
	Verses   []VerseDiff

	baseline model.Bible
}

// Validate runs the manifest and gap checks, and the baseline checks when
// baseline is non-nil.
func Validate(path string, doc model.Bible, shape []ShapeIssue, baselinePath string, baseline model.Bible) *Report {
	r := &Report{
		Path:      path,
		Manifest:  canon.ManifestVersion,
		Structure: DiffStructure(doc, canon.Codes()),
		Shape:     shape,
		Gaps:      FindGaps(doc),
	}
	if baseline != nil {
		r.Baseline = baselinePath
		r.baseline = baseline
		r.Counts = DiffCounts(baseline, doc)
		r.Totals = DiffBookTotals(baseline, doc)
		r.Verses = DiffVerses(baseline, doc)
	}
	return r
}

// OK is true when every manifest book is present and well formed.
func (r *Report) OK() bool {
	return len(r.Structure.Missing) == 0 && len(r.Shape) == 0
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.SetTitle(title)
	return t
}

// Render prints the report as tables.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "Validation of %s (manifest %s)\n", r.Path, r.Manifest)

	if len(r.Structure.Missing) > 0 || len(r.Structure.Extra) > 0 {
		t := newTable(w, "Books")
		t.AppendHeader(table.Row{"Code", "Name", "Status"})
		for _, code := range r.Structure.Missing {
			name, _ := canon.Name(code)
			t.AppendRow(table.Row{code, name, "missing"})
		}
		for _, code := range r.Structure.Extra {
			t.AppendRow(table.Row{code, "", "not in manifest"})
		}
		t.Render()
	}

	if len(r.Shape) > 0 {
		t := newTable(w, "Structure errors")
		t.AppendHeader(table.Row{"Book", "Problem"})
		for _, i := range r.Shape {
			t.AppendRow(table.Row{i.Book, i.Problem})
		}
		t.Render()
	}

	if len(r.Gaps) > 0 {
		t := newTable(w, "Gaps")
		t.AppendHeader(table.Row{"Book", "Chapter", "Missing", "Out of range"})
		for _, g := range r.Gaps {
			chapter := g.Chapter
			if chapter == "" {
				chapter = "(chapters)"
			}
			t.AppendRow(table.Row{g.Book, chapter, truncate(strings.Join(g.Missing, ", ")), truncate(strings.Join(g.OutOfRange, ", "))})
		}
		t.Render()
	}

	if r.Baseline != "" {
		r.renderBaseline(w)
	}

	if r.OK() {
		fmt.Fprintln(w, "Validation passed: all books present with correct structure")
	} else {
		fmt.Fprintln(w, "Validation failed: see issues above")
	}
}

func (r *Report) renderBaseline(w io.Writer) {
	if len(r.Totals) > 0 {
		t := newTable(w, "Totals against "+r.Baseline)
		t.AppendHeader(table.Row{"Book", "Chapters", "Baseline", "Verses", "Baseline"})
		for _, m := range r.Totals {
			t.AppendRow(table.Row{m.Book, m.CandidateChapters, m.BaselineChapters, m.CandidateVerses, m.BaselineVerses})
		}
		t.Render()
	}

	if len(r.Counts) > 0 {
		t := newTable(w, "Verse counts against "+r.Baseline)
		t.AppendHeader(table.Row{"Book", "Chapter", "Verses", "Baseline"})
		for _, m := range r.Counts {
			t.AppendRow(table.Row{m.Book, m.Chapter, m.Candidate, m.Baseline})
		}
		t.Render()
	}

	if len(r.Verses) > 0 {
		t := newTable(w, "Verse differences against "+r.Baseline)
		t.AppendHeader(table.Row{"Book", "Chapter", "Verse", "Status", "Baseline text"})
		for _, d := range r.Verses {
			for _, v := range d.MissingFromCandidate {
				t.AppendRow(table.Row{d.Book, d.Chapter, v, "missing", truncate(r.baselineText(d.Book, d.Chapter, v))})
			}
			for _, v := range d.ExtraInCandidate {
				t.AppendRow(table.Row{d.Book, d.Chapter, v, "extra", ""})
			}
		}
		t.Render()
	}
}

func (r *Report) baselineText(book, chapter, verse string) string {
	b := r.baseline[book]
	if b == nil {
		return ""
	}
	return b.Chapters[chapter][verse]
}

// truncate shortens s to previewWidth terminal cells.
func truncate(s string) string {
	return runewidth.Truncate(s, previewWidth, "…")
}
