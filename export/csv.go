package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"bible-scraper/model"
)

var csvHeader = []string{"book", "title", "chapter", "verse", "text"}

// WriteCSV writes one record per verse with a header line.
func WriteCSV(w io.Writer, doc model.Bible) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range Rows(doc) {
		if err := cw.Write([]string{r.Book, r.Title, r.Chapter, r.Verse, r.Text}); err != nil {
			return fmt.Errorf("failed to write %s %s:%s: %w", r.Book, r.Chapter, r.Verse, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
