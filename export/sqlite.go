package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite"

	"bible-scraper/model"
)

const schema = `
CREATE TABLE books (
	code TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	book_order INTEGER NOT NULL
);
CREATE TABLE verses (
	book TEXT NOT NULL REFERENCES books(code),
	chapter TEXT NOT NULL,
	verse TEXT NOT NULL,
	verse_order INTEGER NOT NULL,
	text TEXT NOT NULL,
	PRIMARY KEY (book, chapter, verse)
);
CREATE INDEX idx_verses_order ON verses(verse_order);
`

// WriteSQLite writes doc to a new database at path, replacing any file
// already there. Chapter and verse tokens are kept as text; verse_order
// gives the document order.
func WriteSQLite(ctx context.Context, path string, doc model.Bible) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove old database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, code := range doc.Codes() {
		if doc[code] == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO books (code, title, book_order) VALUES (?, ?, ?)",
			code, doc[code].Title, i+1); err != nil {
			return fmt.Errorf("failed to insert book %s: %w", code, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO verses (book, chapter, verse, verse_order, text) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, r := range Rows(doc) {
		if _, err := stmt.ExecContext(ctx, r.Book, r.Chapter, r.Verse, i+1, r.Text); err != nil {
			return fmt.Errorf("failed to insert %s %s:%s: %w", r.Book, r.Chapter, r.Verse, err)
		}
	}
	return tx.Commit()
}
