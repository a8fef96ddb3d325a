package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bible-scraper/export"
	"bible-scraper/log"
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write the document as csv, sqlite, text or epub",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

type exportArgs struct {
	format   string
	title    string
	language string
	source   string
}

var eArgs exportArgs

func init() {
	exportCmd.Flags().StringVarP(&eArgs.format, "format", "F", "", "csv, sqlite, text or epub (default from the path extension)")
	exportCmd.Flags().StringVar(&eArgs.title, "title", "Bible", "book title (epub)")
	exportCmd.Flags().StringVar(&eArgs.language, "lang", "en", "language tag (epub)")
	exportCmd.Flags().StringVar(&eArgs.source, "source", "", "source name recorded in the metadata (epub)")
	RootCmd.AddCommand(exportCmd)
}

func exportFormat(path string) string {
	if eArgs.format != "" {
		return strings.ToLower(eArgs.format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	case ".epub":
		return "epub"
	case "":
		return "text"
	}
	return ""
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := log.NewLogger("export")
	path := args[0]
	format := exportFormat(path)

	store, err := loadDocument()
	if err != nil {
		return err
	}
	doc, err := store.Load()
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		err = writeFile(path, func(f *os.File) error { return export.WriteCSV(f, doc) })
	case "sqlite":
		err = export.WriteSQLite(cmd.Context(), path, doc)
	case "epub":
		meta := export.EPUBMeta{Title: eArgs.title, Language: eArgs.language, Source: eArgs.source}
		err = writeFile(path, func(f *os.File) error { return export.WriteEPUB(f, doc, meta) })
	case "text":
		var files []string
		files, err = export.WriteText(path, doc)
		if err == nil {
			logger.Info().Int("files", len(files)).Str("dir", path).Msg("Text written")
			return nil
		}
	default:
		return fmt.Errorf("unknown export format for %s; use --format", path)
	}
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", format, err)
	}

	books, chapters, verses := doc.Counts()
	size := ""
	if info, err := os.Stat(path); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	logger.Info().
		Str("format", format).
		Str("path", path).
		Int("books", books).
		Int("chapters", chapters).
		Int("verses", verses).
		Str("size", size).
		Msg("Document exported")
	return nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
