package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bible-scraper/assembler"
	"bible-scraper/canon"
	"bible-scraper/config"
	"bible-scraper/downloader"
	"bible-scraper/downloader/stepbible"
	"bible-scraper/log"
	"bible-scraper/utils"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape a source into the canonical document",
	Long: "Scrape a source into the canonical document. Units already in the document are skipped " +
		"unless --force is given, so an interrupted run can simply be started again.",
	RunE: runScrape,
}

type scrapeArgs struct {
	source  string
	books   []string
	limit   int
	force   bool
	workers int
	rules   []string
	policy  string
}

var sArgs scrapeArgs

func init() {
	scrapeCmd.Flags().StringVarP(&sArgs.source, "source", "s", "", fmt.Sprintf("source to scrape %v", downloader.Names))
	scrapeCmd.Flags().StringSliceVarP(&sArgs.books, "book", "b", nil, "only scrape these books (codes or names)")
	scrapeCmd.Flags().IntVarP(&sArgs.limit, "limit", "l", 0, "scrape at most this many chapters per book")
	scrapeCmd.Flags().BoolVarP(&sArgs.force, "force", "f", false, "back the document up and scrape present units again")
	scrapeCmd.Flags().IntVarP(&sArgs.workers, "workers", "w", 0, "chapters extracted at once (default from config)")
	scrapeCmd.Flags().StringSliceVar(&sArgs.rules, "rules", nil, "noise rules, replacing the source defaults")
	scrapeCmd.Flags().StringVar(&sArgs.policy, "policy", "", "merge policy for unnumbered fragments: discard or continue")
	scrapeCmd.MarkFlagRequired("source")
	RootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	if sArgs.workers > 0 {
		cfg.Workers = sArgs.workers
	}
	if len(sArgs.rules) > 0 || sArgs.policy != "" {
		sc := cfg.Source(sArgs.source)
		if len(sArgs.rules) > 0 {
			sc.Rules = sArgs.rules
		}
		if sArgs.policy != "" {
			sc.Policy = sArgs.policy
		}
		if cfg.Sources == nil {
			cfg.Sources = map[string]config.SourceConfig{}
		}
		cfg.Sources[sArgs.source] = sc
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	books, err := resolveBooks(sArgs.books)
	if err != nil {
		return err
	}

	fetchers := downloader.Fetchers{HTTP: utils.NewHTTPFetcher(cfg.FetchOptions())}
	if sArgs.source == stepbible.Name {
		browser := utils.NewBrowserFetcher(stepbible.WaitFor, cfg.FetchOptions())
		defer browser.Close()
		fetchers.Browser = browser
	}
	src, pipeline, err := downloader.New(sArgs.source, cfg, fetchers)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := downloader.NewRunner(src, pipeline, assembler.NewStore(cfg.Output), downloader.Options{
		Books:   books,
		Force:   sArgs.force,
		Limit:   sArgs.limit,
		Workers: cfg.Workers,
	}, log.NewLogger("scrape"))
	report, err := runner.Run(ctx)
	if report != nil {
		report.Render(cmd.OutOrStdout())
	}
	if err != nil {
		if ctx.Err() == context.Canceled {
			return fmt.Errorf("interrupted; completed units are saved, run again to resume")
		}
		return fmt.Errorf("failed to scrape %s: %w", sArgs.source, err)
	}
	return nil
}

// resolveBooks turns codes or names into canonical codes.
func resolveBooks(names []string) ([]string, error) {
	codes := make([]string, 0, len(names))
	for _, name := range names {
		if canon.IsCanonical(name) {
			codes = append(codes, name)
			continue
		}
		e, ok := canon.MasterTable().Resolve(name)
		if !ok {
			return nil, fmt.Errorf("unknown book %q", name)
		}
		codes = append(codes, e.Code)
	}
	return codes, nil
}
