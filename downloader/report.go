package downloader

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"

	"bible-scraper/canon"
	"bible-scraper/model"
)

// Skip is a unit the run gave up on. Chapter is empty when the whole book
// was skipped.
type Skip struct {
	Book    string
	Chapter string
	Err     error
}

// Report summarizes one run. Books, Chapters and Verses count what this run
// wrote; Totals is the document afterwards.
type Report struct {
	RunID    uuid.UUID
	Source   string
	Unit     model.Unit
	Books    int
	Chapters int
	Verses   int
	// Present counts units found in the document and not scraped again.
	Present int
	Dropped int
	Skipped []Skip
	Backup  string
	Digest  string
	Size    uint64
	Totals  struct{ Books, Chapters, Verses int }
	Elapsed time.Duration
}

func (r *Report) skip(book, chapter string, err error) {
	r.Skipped = append(r.Skipped, Skip{Book: book, Chapter: chapter, Err: err})
}

// Render prints the summary and the skipped units.
func (r *Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Run %s (%s)", r.RunID, r.Source))
	t.AppendRows([]table.Row{
		{"Unit", r.Unit.String()},
		{"Books written", humanize.Comma(int64(r.Books))},
		{"Chapters written", humanize.Comma(int64(r.Chapters))},
		{"Verses written", humanize.Comma(int64(r.Verses))},
		{"Already present", humanize.Comma(int64(r.Present))},
		{"Fragments dropped", humanize.Comma(int64(r.Dropped))},
		{"Units skipped", humanize.Comma(int64(len(r.Skipped)))},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Document", fmt.Sprintf("%d books, %d chapters, %s verses",
			r.Totals.Books, r.Totals.Chapters, humanize.Comma(int64(r.Totals.Verses)))},
		{"Size", humanize.Bytes(r.Size)},
		{"BLAKE3", r.Digest},
		{"Elapsed", r.Elapsed.Round(time.Millisecond).String()},
	})
	if r.Backup != "" {
		t.AppendRow(table.Row{"Backup", r.Backup})
	}
	t.Render()

	if len(r.Skipped) == 0 {
		return
	}
	s := table.NewWriter()
	s.SetStyle(table.StyleRounded)
	s.SetOutputMirror(w)
	s.SetTitle("Skipped")
	s.AppendHeader(table.Row{"Book", "Name", "Chapter", "Reason"})
	for _, skip := range r.Skipped {
		name, _ := canon.Name(skip.Book)
		chapter := skip.Chapter
		if chapter == "" {
			chapter = "(book)"
		}
		s.AppendRow(table.Row{skip.Book, name, chapter, skip.Err.Error()})
	}
	s.Render()
}
