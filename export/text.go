package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"bible-scraper/model"
	"bible-scraper/utils"
)

// WriteText writes one file per book into dir, named by canonical position
// and title. The directory is emptied first.
func WriteText(dir string, doc model.Bible) ([]string, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to remove output directory: %v", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %v", err)
	}

	var files []string
	for i, code := range doc.Codes() {
		book := doc[code]
		if book == nil {
			continue
		}
		title := book.Title
		if title == "" {
			title = code
		}
		path := filepath.Join(dir, fmt.Sprintf("%02d-%s.txt", i+1, utils.CleanDirName(title)))
		if err := writeBookText(path, book); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

func writeBookText(path string, book *model.Book) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create book file: %v", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "%s\n", book.Title)
	for _, ch := range model.SortedKeys(book.Chapters) {
		fmt.Fprintln(w)
		verses := book.Chapters[ch]
		for _, v := range model.SortedKeys(verses) {
			fmt.Fprintf(w, "%s:%s %s\n", ch, v, verses[v])
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write book file: %v", err)
	}
	return f.Close()
}
