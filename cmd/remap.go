package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bible-scraper/log"
	"bible-scraper/model"
	"bible-scraper/remap"
)

var remapCmd = &cobra.Command{
	Use:   "remap",
	Short: "Renumber the chapters of one book with a remap table",
	Long: "Renumber the chapters of one book, typically the Psalms, with a table from the config file " +
		"or a built-in one (vulgate-to-modern). When several chapters land on the same number the " +
		"command fails unless --combine is given.",
	RunE: runRemap,
}

type remapArgs struct {
	book    string
	table   string
	combine bool
	dryRun  bool
}

var mArgs remapArgs

func init() {
	remapCmd.Flags().StringVarP(&mArgs.book, "book", "b", "Ps", "book code")
	remapCmd.Flags().StringVarP(&mArgs.table, "table", "t", "vulgate-to-modern", "remap table name")
	remapCmd.Flags().BoolVar(&mArgs.combine, "combine", false, "merge chapters that land on the same number")
	remapCmd.Flags().BoolVarP(&mArgs.dryRun, "dry-run", "n", false, "only list collisions")
	RootCmd.AddCommand(remapCmd)
}

func runRemap(cmd *cobra.Command, args []string) error {
	logger := log.NewLogger("remap")
	t, err := cfg.RemapTable(mArgs.table)
	if err != nil {
		return err
	}
	store, err := loadDocument()
	if err != nil {
		return err
	}
	doc, err := store.Load()
	if err != nil {
		return err
	}
	book := doc[mArgs.book]
	if book == nil {
		return fmt.Errorf("book %s is not in %s", mArgs.book, store.Path())
	}

	collisions, err := remap.Collisions(book, t.Mapping())
	if err != nil {
		return err
	}
	if len(collisions) > 0 {
		tw := table.NewWriter()
		tw.SetStyle(table.StyleRounded)
		tw.SetOutputMirror(cmd.OutOrStdout())
		tw.SetTitle(fmt.Sprintf("Collisions in %s (%s)", mArgs.book, mArgs.table))
		tw.AppendHeader(table.Row{"New chapter", "Old chapters"})
		for _, to := range model.SortedKeys(collisions) {
			tw.AppendRow(table.Row{to, strings.Join(collisions[to], ", ")})
		}
		tw.Render()
	}
	if mArgs.dryRun {
		return nil
	}

	if err := remap.RemapDocument(doc, mArgs.book, t.Mapping(), mArgs.combine); err != nil {
		return err
	}
	backup, err := store.Backup()
	if err != nil {
		return err
	}
	digest, err := store.Save(doc)
	if err != nil {
		return err
	}
	logger.Info().
		Str("book", mArgs.book).
		Str("table", mArgs.table).
		Int("chapters", len(doc[mArgs.book].Chapters)).
		Str("backup", backup).
		Str("blake3", digest).
		Msg("Book remapped")
	return nil
}
