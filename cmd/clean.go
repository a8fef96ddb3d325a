package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bible-scraper/log"
	"bible-scraper/noise"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Apply noise rules to every verse of an existing document",
	RunE:  runClean,
}

type cleanArgs struct {
	rules []string
}

var cArgs cleanArgs

func init() {
	cleanCmd.Flags().StringSliceVarP(&cArgs.rules, "rules", "r", nil,
		fmt.Sprintf("text rules to apply: %s, %s, %s",
			noise.NameBracketAnnotation, noise.NameParentheticalAnnotation, noise.NameTrailingAsterisk))
	cleanCmd.MarkFlagRequired("rules")
	RootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	logger := log.NewLogger("clean")
	stripper, err := noise.Parse(cArgs.rules)
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

	cleaned := stripper.CleanDocument(doc)
	for _, ref := range cleaned.Emptied {
		logger.Warn().Str("verse", ref).Msg("Verse empty after cleaning, removed")
	}
	if cleaned.Changed == 0 && len(cleaned.Emptied) == 0 {
		logger.Info().Msg("Nothing to clean")
		return nil
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
		Strs("rules", stripper.Names()).
		Int("changed", cleaned.Changed).
		Int("removed", len(cleaned.Emptied)).
		Str("backup", backup).
		Str("blake3", digest).
		Msg("Document cleaned")
	return nil
}
