package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"bible-scraper/assembler"
	"bible-scraper/model"
)

type fakeSource struct {
	unit     model.Unit
	books    []model.BookRef
	chapters map[string]int
	// failures by "code" (chapter listing) or "code/chapter"
	failures map[string]error

	mu    sync.Mutex
	calls []string
}

func newFake(unit model.Unit) *fakeSource {
	return &fakeSource{
		unit: unit,
		books: []model.BookRef{
			{Code: "Gen", Title: "Genesis"},
			{Code: "Exod", Title: "Exodus"},
		},
		chapters: map[string]int{"Gen": 3, "Exod": 2},
		failures: map[string]error{},
	}
}

func (f *fakeSource) Name() string     { return "fake" }
func (f *fakeSource) Unit() model.Unit { return f.unit }

func (f *fakeSource) Books(ctx context.Context) ([]model.BookRef, error) {
	return f.books, nil
}

func (f *fakeSource) Chapters(ctx context.Context, book model.BookRef) (model.BookRef, []model.ChapterRef, error) {
	if err := f.failures[book.Code]; err != nil {
		return book, nil, err
	}
	var refs []model.ChapterRef
	for i := 1; i <= f.chapters[book.Code]; i++ {
		refs = append(refs, model.ChapterRef{Number: strconv.Itoa(i)})
	}
	return book, refs, nil
}

func (f *fakeSource) Chapter(ctx context.Context, book model.BookRef, chapter model.ChapterRef) ([]model.Fragment, error) {
	key := book.Code + "/" + chapter.Number
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()
	if err := f.failures[key]; err != nil {
		return nil, err
	}
	return []model.Fragment{
		{Verse: "1", Text: "1 first of " + key, Order: 0},
		{Verse: "2", Text: "second of", Order: 1},
		{Verse: "2", Text: key, Order: 2},
		{Verse: "", Text: "stray", Order: 3},
	}, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func run(t *testing.T, src model.Source, path string, opts Options) (*Report, error) {
	t.Helper()
	r := NewRunner(src, Pipeline{}, assembler.NewStore(path), opts, zerolog.Nop())
	return r.Run(context.Background())
}

func load(t *testing.T, path string) model.Bible {
	t.Helper()
	doc, err := assembler.NewStore(path).Load()
	require.NoError(t, err)
	return doc
}

func TestRunChapterUnit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bible.json")
	src := newFake(model.UnitChapter)

	report, err := run(t, src, path, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, report.Books)
	require.Equal(t, 5, report.Chapters)
	require.Equal(t, 10, report.Verses)
	require.Equal(t, 5, report.Dropped)
	require.Empty(t, report.Skipped)
	require.NotEmpty(t, report.Digest)
	require.Equal(t, 5, report.Totals.Chapters)

	doc := load(t, path)
	require.Equal(t, model.Chapter{"1": "first of Gen/1", "2": "second of Gen/1"}, doc["Gen"].Chapters["1"])
	require.Equal(t, "Exodus", doc["Exod"].Title)

	again, err := run(t, src, path, Options{})
	require.NoError(t, err)
	require.Equal(t, 5, again.Present)
	require.Zero(t, again.Chapters)
	require.Equal(t, 5, src.callCount())
}

func TestRunChapterUnitResumesAfterFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bible.json")
	src := newFake(model.UnitChapter)
	src.failures["Gen/2"] = &model.TransientFetchError{URL: "http://example/gen/2", Status: 503}

	report, err := run(t, src, path, Options{})
	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)
	require.Equal(t, "Gen", report.Skipped[0].Book)
	require.Equal(t, "2", report.Skipped[0].Chapter)
	require.ErrorIs(t, report.Skipped[0].Err, model.ErrTransientFetch)
	require.Len(t, load(t, path)["Gen"].Chapters, 2)

	delete(src.failures, "Gen/2")
	src.calls = nil
	report, err = run(t, src, path, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, report.Chapters)
	require.Equal(t, []string{"Gen/2"}, src.calls)
	require.Len(t, load(t, path)["Gen"].Chapters, 3)
}

func TestRunBookUnitCommitsWholeBooks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bible.json")
	src := newFake(model.UnitBook)
	src.failures["Exod/2"] = fmt.Errorf("no content found")

	report, err := run(t, src, path, Options{Workers: 3})
	require.NoError(t, err)
	require.Equal(t, 1, report.Books)
	require.Len(t, report.Skipped, 1)
	require.Equal(t, "Exod", report.Skipped[0].Book)
	require.Empty(t, report.Skipped[0].Chapter)

	doc := load(t, path)
	require.Len(t, doc["Gen"].Chapters, 3)
	require.NotContains(t, doc, "Exod")

	delete(src.failures, "Exod/2")
	report, err = run(t, src, path, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, report.Present)
	require.Equal(t, 1, report.Books)
	require.Len(t, load(t, path)["Exod"].Chapters, 2)
}

func TestRunWorkersMatchSequential(t *testing.T) {
	dir := t.TempDir()
	src := newFake(model.UnitChapter)
	src.chapters["Gen"] = 50

	_, err := run(t, src, filepath.Join(dir, "one.json"), Options{Workers: 1})
	require.NoError(t, err)
	_, err = run(t, src, filepath.Join(dir, "many.json"), Options{Workers: 8})
	require.NoError(t, err)

	one, err := os.ReadFile(filepath.Join(dir, "one.json"))
	require.NoError(t, err)
	many, err := os.ReadFile(filepath.Join(dir, "many.json"))
	require.NoError(t, err)
	require.Equal(t, string(one), string(many))
}

func TestRunMissingTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bible.json")
	src := newFake(model.UnitChapter)
	src.books[0].Title = ""

	report, err := run(t, src, path, Options{})
	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)
	require.ErrorIs(t, report.Skipped[0].Err, model.ErrMissingTitle)
	require.NotContains(t, load(t, path), "Gen")
}

func TestRunSelectsBooksAndLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bible.json")
	src := newFake(model.UnitChapter)

	report, err := run(t, src, path, Options{Books: []string{"Exod", "Rev"}, Limit: 1})
	require.NoError(t, err)
	require.Equal(t, 1, report.Chapters)
	require.Len(t, report.Skipped, 1)
	require.Equal(t, "Rev", report.Skipped[0].Book)
	require.Equal(t, []string{"Exod/1"}, src.calls)
}

func TestRunBookUnitLimitDoesNotCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bible.json")
	src := newFake(model.UnitBook)
	_, err := run(t, src, path, Options{})
	require.NoError(t, err)

	report, err := run(t, src, path, Options{Force: true, Limit: 1})
	require.NoError(t, err)
	require.Zero(t, report.Books)
	require.Len(t, report.Skipped, 2)
	require.ErrorIs(t, report.Skipped[0].Err, errTruncated)

	doc := load(t, path)
	require.Len(t, doc["Gen"].Chapters, 3)
	require.Len(t, doc["Exod"].Chapters, 2)

	fresh := filepath.Join(t.TempDir(), "fresh.json")
	report, err = run(t, src, fresh, Options{Books: []string{"Exod"}, Limit: 5})
	require.NoError(t, err)
	require.Equal(t, 1, report.Books)
	require.Len(t, load(t, fresh)["Exod"].Chapters, 2)
}

func TestRunCorruptDocumentAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bible.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Gen": {"title": "Genesis", "chap`), 0o644))

	_, err := run(t, newFake(model.UnitChapter), path, Options{})
	require.ErrorIs(t, err, model.ErrCorruptDocument)
}

func TestRunForceBacksUpAndRescrapes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bible.json")
	src := newFake(model.UnitBook)
	_, err := run(t, src, path, Options{})
	require.NoError(t, err)

	report, err := run(t, src, path, Options{Force: true})
	require.NoError(t, err)
	require.NotEmpty(t, report.Backup)
	require.FileExists(t, report.Backup)
	require.Equal(t, 2, report.Books)
	require.Zero(t, report.Present)
}

func TestRunStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bible.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(newFake(model.UnitChapter), Pipeline{}, assembler.NewStore(path), Options{}, zerolog.Nop())
	_, err := r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
