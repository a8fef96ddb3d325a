package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveBooks(t *testing.T) {
	codes, err := resolveBooks([]string{"Gen", "Exodus", "psalms"})
	require.NoError(t, err)
	require.Equal(t, []string{"Gen", "Exod", "Ps"}, codes)

	_, err = resolveBooks([]string{"Necronomicon"})
	require.ErrorContains(t, err, "unknown book")
}

func TestExportFormat(t *testing.T) {
	cases := map[string]string{
		"bible.csv":    "csv",
		"bible.SQLite": "sqlite",
		"bible.db":     "sqlite",
		"bible.epub":   "epub",
		"out/text":     "text",
		"bible.pdf":    "",
	}
	for path, want := range cases {
		require.Equal(t, want, exportFormat(path), path)
	}
}
