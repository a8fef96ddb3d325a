package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"bible-scraper/assembler"
	"bible-scraper/config"
	"bible-scraper/log"
)

var RootCmd = &cobra.Command{
	Use:               "bible-scraper",
	Short:             "Scrape Bible translations into one canonical JSON document",
	Long:              "Scrape Bible translations from several sites, normalize them into one canonical JSON document, and validate, remap, clean or export that document.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

type rootArgs struct {
	configPath string
	logLevel   string
	output     string
}

var (
	rArgs rootArgs
	cfg   *config.Config
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&rArgs.configPath, "config", "c", "", "config file (default "+config.DefaultPath+" if present)")
	RootCmd.PersistentFlags().StringVar(&rArgs.logLevel, "log-level", "", "log level: debug, info, warn, error")
	RootCmd.PersistentFlags().StringVarP(&rArgs.output, "output", "o", "", "canonical document path")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path := rArgs.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err == nil {
			path = config.DefaultPath
		}
	}
	c, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return err
	}
	if rArgs.output != "" {
		c.Output = rArgs.output
	}
	if rArgs.logLevel != "" {
		c.LogLevel = rArgs.logLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := log.SetLevel(c.LogLevel); err != nil {
		return err
	}
	cfg = c
	return nil
}

// loadDocument reads the configured document. A missing file is an error
// for every command but scrape.
func loadDocument() (*assembler.Store, error) {
	if _, err := os.Stat(cfg.Output); err != nil {
		return nil, fmt.Errorf("failed to open document: %v", err)
	}
	return assembler.NewStore(cfg.Output), nil
}
