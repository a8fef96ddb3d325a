package cmd

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bible-scraper/log"
)

var restoreCmd = &cobra.Command{
	Use:   "restore [backup]",
	Short: "List the document's backups, or restore one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRestore,
}

func init() {
	RootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	store, err := loadDocument()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		backups, err := store.Backups()
		if err != nil {
			return err
		}
		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetTitle("Backups of " + store.Path())
		t.AppendHeader(table.Row{"Backup", "Size", "Created"})
		for _, b := range backups {
			info, err := os.Stat(b)
			if err != nil {
				continue
			}
			t.AppendRow(table.Row{filepath.Base(b), humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime())})
		}
		t.Render()
		return nil
	}

	current, err := store.Backup()
	if err != nil {
		return err
	}
	digest, err := store.Restore(args[0])
	if err != nil {
		return err
	}
	logger := log.NewLogger("restore")
	logger.Info().
		Str("backup", args[0]).
		Str("document", store.Path()).
		Str("previous", current).
		Str("blake3", digest).
		Msg("Document restored")
	return nil
}
