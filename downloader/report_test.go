package downloader

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"bible-scraper/model"
)

func TestReportRender(t *testing.T) {
	r := &Report{
		RunID:    uuid.MustParse("0b7d3f4e-5a61-4c1f-9a0e-0f2f6c1d2e3a"),
		Source:   "gratis",
		Unit:     model.UnitBook,
		Books:    2,
		Chapters: 52,
		Verses:   1563,
		Size:     2048,
		Digest:   "abc123",
		Elapsed:  1500 * time.Millisecond,
		Backup:   "bible.json.bak.xz",
	}
	r.skip("Gen", "", errors.New("status 503"))
	r.skip("Exod", "4", errors.New("no verses extracted"))

	var buf bytes.Buffer
	r.Render(&buf)
	out := buf.String()
	require.Contains(t, out, "Run 0b7d3f4e-5a61-4c1f-9a0e-0f2f6c1d2e3a (gratis)")
	require.Contains(t, out, "1,563")
	require.Contains(t, out, "2.0 kB")
	require.Contains(t, out, "1.5s")
	require.Contains(t, out, "bible.json.bak.xz")
	require.Contains(t, out, "Genesis")
	require.Contains(t, out, "(book)")
	require.Contains(t, out, "no verses extracted")
}

func TestReportRenderWithoutSkips(t *testing.T) {
	var buf bytes.Buffer
	(&Report{Source: "vatican"}).Render(&buf)
	require.NotContains(t, buf.String(), "Skipped")
	require.NotContains(t, buf.String(), "Backup")
}
