package store

import (
	"path/filepath"
	"testing"

	"github.com/aluiziolira/go-ingest-books/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := st.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

func sampleBook(isbn string) *models.Book {
	return &models.Book{
		Title:       "Tutunamayanlar",
		Author:      "Oğuz Atay",
		Publisher:   "İletişim Yayınları",
		ISBN:        isbn,
		PageCount:   724,
		Language:    "TÜRKÇE",
		PublishDate: "1984",
		Price:       "120,00 TL",
		Description: "Roman.",
		ImageURL:    "https://img.example/cover.jpg",
	}
}

func TestInsertAndExists(t *testing.T) {
	st := newTestStore(t)

	exists, err := st.Exists("9781234567897")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("empty store should not contain the isbn")
	}

	outcome, err := st.Insert(sampleBook("9781234567897"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if outcome != models.OutcomeAdded {
		t.Fatalf("outcome = %v, want added", outcome)
	}

	exists, err = st.Exists("9781234567897")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("stored isbn should be found")
	}
}

func TestInsertDuplicateIsNoOp(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.Insert(sampleBook("9781234567897")); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	outcome, err := st.Insert(sampleBook("9781234567897"))
	if err != nil {
		t.Fatalf("second insert must not error: %v", err)
	}
	if outcome != models.OutcomeDuplicate {
		t.Fatalf("outcome = %v, want duplicate", outcome)
	}

	books, err := st.Books()
	if err != nil {
		t.Fatalf("books: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("book count = %d, want 1 after duplicate insert", len(books))
	}
}

func TestUniqueConstraintBackstop(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.Insert(sampleBook("9789750718533")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Bypass the existence check to hit the schema constraint directly.
	_, err := st.db.Exec(
		`INSERT INTO books (title, isbn) VALUES (?, ?)`,
		"Other Title", "9789750718533",
	)
	if err == nil {
		t.Fatalf("expected UNIQUE constraint violation")
	}

	// The Insert path maps the same violation to the duplicate outcome.
	fresh, err := NewSQLiteStore(st.dbPath)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := fresh.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() { _ = fresh.Close() }()

	outcome, err := fresh.Insert(sampleBook("9789750718533"))
	if err != nil {
		t.Fatalf("insert against existing row: %v", err)
	}
	if outcome != models.OutcomeDuplicate {
		t.Fatalf("outcome = %v, want duplicate", outcome)
	}
}

func TestBooksRoundTrip(t *testing.T) {
	st := newTestStore(t)

	want := sampleBook("9789750718533")
	if _, err := st.Insert(want); err != nil {
		t.Fatalf("insert: %v", err)
	}

	books, err := st.Books()
	if err != nil {
		t.Fatalf("books: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("book count = %d, want 1", len(books))
	}
	got := books[0]
	if got.Title != want.Title || got.ISBN != want.ISBN || got.PageCount != want.PageCount {
		t.Fatalf("round trip mismatch: got %+v", got)
	}
}

func TestPublishers(t *testing.T) {
	st := newTestStore(t)

	seeds := []models.PublisherSeed{
		{Name: "Can Yayınları", URL: "https://www.kitapyurdu.com/yayinevi/100.html", ImageURL: "https://img.example/100.png"},
		{Name: "İletişim Yayınları", URL: "https://www.kitapyurdu.com/yayinevi/200.html", ImageURL: "https://img.example/200.png"},
	}
	for _, seed := range seeds {
		if err := st.InsertPublisher(seed); err != nil {
			t.Fatalf("insert publisher: %v", err)
		}
	}

	got, err := st.Publishers()
	if err != nil {
		t.Fatalf("publishers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("publishers = %d, want 2", len(got))
	}
	if got[0].Name != seeds[0].Name || got[0].URL != seeds[0].URL {
		t.Fatalf("first seed = %+v", got[0])
	}
	if got[1].ID <= got[0].ID {
		t.Fatalf("ids should be ascending, got %d then %d", got[0].ID, got[1].ID)
	}
}
