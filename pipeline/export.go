package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aluiziolira/go-ingest-books/store"
)

// ExportJSONL streams every stored book to a JSON-lines file and
// returns how many records were written.
func ExportJSONL(st store.Store, filename string) (int, error) {
	books, err := st.Books()
	if err != nil {
		return 0, fmt.Errorf("read books for export: %w", err)
	}

	if err := ensureDir(filename); err != nil {
		return 0, err
	}
	f, err := os.Create(filename)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := range books {
		if err := enc.Encode(&books[i]); err != nil {
			f.Close()
			return 0, fmt.Errorf("encode book %s: %w", books[i].ISBN, err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return 0, fmt.Errorf("flush export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close export file: %w", err)
	}
	return len(books), nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}
