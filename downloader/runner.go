package downloader

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bible-scraper/assembler"
	"bible-scraper/merge"
	"bible-scraper/model"
)

var (
	errNoVerses = errors.New("no verses extracted")
	// A present book-unit book counts as complete, so a book cut short by
	// Limit is never written.
	errTruncated = errors.New("chapter limit reached, book not committed")
)

type Options struct {
	// Books restricts the run to these codes, in source order.
	Books []string
	// Force backs the document up and scrapes units that are already present.
	Force bool
	// Limit caps the chapters taken per book. Zero means all. Book-unit
	// books cut short are extracted but not written.
	Limit int
	// Workers is the number of chapters extracted at once.
	Workers int
}

// Runner drives one source into one document. Extraction may run on several
// workers; only the Run goroutine touches the document and the store.
type Runner struct {
	source   model.Source
	pipeline Pipeline
	store    *assembler.Store
	opts     Options
	log      zerolog.Logger
}

func NewRunner(src model.Source, pipeline Pipeline, store *assembler.Store, opts Options, logger zerolog.Logger) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{
		source:   src,
		pipeline: pipeline,
		store:    store,
		opts:     opts,
		log:      logger.With().Str("source", src.Name()).Logger(),
	}
}

type chapterResult struct {
	ref    model.ChapterRef
	result merge.Result
	err    error
}

// Run scrapes every selected book. Fetch and extraction failures skip the
// unit and are listed in the report; a document that cannot be read or
// written aborts the run, as does ctx.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.New(), Source: r.source.Name(), Unit: r.source.Unit()}
	defer func() { report.Elapsed = time.Since(start) }()

	r.log.Info().Str("run", report.RunID.String()).Str("output", r.store.Path()).Msg("Starting run")

	doc, err := r.store.Load()
	if err != nil {
		return report, err
	}
	if r.opts.Force {
		backup, err := r.store.Backup()
		if err != nil {
			return report, errors.Wrap(err, "failed to back up document")
		}
		if backup != "" {
			r.log.Info().Str("backup", backup).Msg("Document backed up")
		}
		report.Backup = backup
	}

	books, err := r.source.Books(ctx)
	if err != nil {
		return report, errors.Wrap(err, "failed to list books")
	}
	for _, book := range r.selectBooks(books, report) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := r.runBook(ctx, doc, book, report); err != nil {
			return report, err
		}
	}

	report.Totals.Books, report.Totals.Chapters, report.Totals.Verses = doc.Counts()
	if info, err := os.Stat(r.store.Path()); err == nil {
		report.Size = uint64(info.Size())
	}
	r.log.Info().
		Int("books", report.Books).
		Int("chapters", report.Chapters).
		Int("verses", report.Verses).
		Int("skipped", len(report.Skipped)).
		Msg("Run finished")
	return report, nil
}

func (r *Runner) selectBooks(books []model.BookRef, report *Report) []model.BookRef {
	if len(r.opts.Books) == 0 {
		return books
	}
	wanted := make(map[string]bool, len(r.opts.Books))
	for _, code := range r.opts.Books {
		wanted[code] = true
	}
	var selected []model.BookRef
	for _, b := range books {
		if wanted[b.Code] {
			selected = append(selected, b)
			delete(wanted, b.Code)
		}
	}
	for _, code := range r.opts.Books {
		if wanted[code] {
			report.skip(code, "", fmt.Errorf("book not offered by %s", r.source.Name()))
			delete(wanted, code)
		}
	}
	return selected
}

func (r *Runner) runBook(ctx context.Context, doc model.Bible, ref model.BookRef, report *Report) error {
	log := r.log.With().Str("book", ref.Code).Logger()
	unit := r.source.Unit()

	if unit == model.UnitBook && !r.opts.Force && assembler.IsAlreadyScraped(doc, ref.Code) {
		log.Info().Msg("Book already scraped, skipping")
		report.Present++
		return nil
	}

	log.Info().Msg("Getting chapters")
	ref, chapters, err := r.source.Chapters(ctx, ref)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("Failed to list chapters, skipping book")
		report.skip(ref.Code, "", err)
		return nil
	}

	title := ref.Title
	if existing := doc[ref.Code]; title == "" && existing != nil {
		title = existing.Title
	}
	if title == "" {
		err := &model.MissingTitleError{Book: ref.Code}
		log.Warn().Err(err).Msg("Skipping book")
		report.skip(ref.Code, "", err)
		return nil
	}

	truncated := false
	if r.opts.Limit > 0 && len(chapters) > r.opts.Limit {
		chapters = chapters[:r.opts.Limit]
		truncated = true
	}
	if unit == model.UnitChapter && !r.opts.Force {
		pending := chapters[:0:0]
		for _, ch := range chapters {
			if assembler.IsChapterScraped(doc, ref.Code, model.NormalizeToken(ch.Number)) {
				report.Present++
				continue
			}
			pending = append(pending, ch)
		}
		chapters = pending
	}
	if len(chapters) == 0 {
		log.Info().Msg("Nothing to scrape")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	results := r.extract(ctx, ref, chapters)

	var staged *model.Book
	if unit == model.UnitBook {
		staged = model.NewBook(title)
	}
	written := 0
	for _, slot := range results {
		res := <-slot
		number := model.NormalizeToken(res.ref.Number)
		clog := log.With().Str("chapter", number).Logger()

		err := res.err
		if err == nil && len(res.result.Verses) == 0 {
			err = errNoVerses
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if unit == model.UnitBook {
				clog.Warn().Err(err).Msg("Chapter failed, book not committed")
				report.skip(ref.Code, "", errors.Wrapf(err, "chapter %s", number))
				return nil
			}
			clog.Warn().Err(err).Msg("Chapter failed, skipping")
			report.skip(ref.Code, number, err)
			continue
		}

		for _, d := range res.result.Dropped {
			clog.Debug().Err(&d).Msg("Fragment dropped")
		}
		report.Dropped += len(res.result.Dropped)

		if unit == model.UnitBook {
			staged.Chapters[number] = res.result.Verses
			continue
		}
		if err := assembler.UpsertChapter(doc, ref.Code, title, number, res.result.Verses); err != nil {
			return err
		}
		if err := r.save(doc, report); err != nil {
			return err
		}
		clog.Info().Int("verses", len(res.result.Verses)).Msg("Chapter saved")
		written++
		report.Chapters++
		report.Verses += len(res.result.Verses)
	}

	if unit == model.UnitBook && truncated {
		log.Warn().Int("chapters", len(staged.Chapters)).Msg("Chapter limit reached, book not committed")
		report.skip(ref.Code, "", errTruncated)
		return nil
	}
	if unit == model.UnitBook {
		if err := assembler.ReplaceBook(doc, ref.Code, staged); err != nil {
			return err
		}
		if err := r.save(doc, report); err != nil {
			return err
		}
		written = len(staged.Chapters)
		report.Chapters += written
		report.Verses += staged.VerseCount()
		log.Info().Int("chapters", written).Int("verses", staged.VerseCount()).Msg("Book saved")
	}
	if written > 0 {
		report.Books++
	}
	return nil
}

// extract fans chapters out to the workers. Slot i receives exactly one
// result for chapters[i], so the caller can consume them in order.
func (r *Runner) extract(ctx context.Context, book model.BookRef, chapters []model.ChapterRef) []chan chapterResult {
	slots := make([]chan chapterResult, len(chapters))
	for i := range slots {
		slots[i] = make(chan chapterResult, 1)
	}

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	go func() {
		for i, ch := range chapters {
			if err := ctx.Err(); err != nil {
				slots[i] <- chapterResult{ref: ch, err: err}
				continue
			}
			g.Go(func() error {
				r.log.Debug().Str("book", book.Code).Str("chapter", ch.Number).Msg("Getting chapter")
				frags, err := r.source.Chapter(ctx, book, ch)
				res := chapterResult{ref: ch, err: err}
				if err == nil {
					res.result = r.pipeline.Process(model.NormalizeToken(ch.Number), frags)
				}
				slots[i] <- res
				return nil
			})
		}
		_ = g.Wait()
	}()
	return slots
}

func (r *Runner) save(doc model.Bible, report *Report) error {
	digest, err := r.store.Save(doc)
	if err != nil {
		return errors.Wrap(err, "failed to save document")
	}
	report.Digest = digest
	return nil
}
