package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"

	"github.com/aluiziolira/go-ingest-books/models"
)

// knownISBNCacheSize bounds the in-memory cache of ISBNs already
// confirmed present, which short-circuits repeated point lookups when
// the same title shows up under several publishers.
const knownISBNCacheSize = 65536

const publishersSchema = `CREATE TABLE IF NOT EXISTS publishers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	url TEXT NOT NULL,
	image_url TEXT NOT NULL
)`

const booksSchema = `CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT,
	author TEXT,
	publisher TEXT,
	isbn TEXT UNIQUE,
	page_count INTEGER,
	language TEXT,
	publish_date TEXT,
	price TEXT,
	description TEXT,
	image_url TEXT
)`

// SQLiteStore implements Store on a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	known  *lru.Cache[string, struct{}]
}

// NewSQLiteStore creates a store instance for the given database path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	known, err := lru.New[string, struct{}](knownISBNCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create isbn cache: %w", err)
	}
	return &SQLiteStore{
		dbPath: dbPath,
		known:  known,
	}, nil
}

// Connect opens the database and creates the schema if missing.
func (s *SQLiteStore) Connect() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	for _, schema := range []string{publishersSchema, booksSchema} {
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			return fmt.Errorf("create table: %w", err)
		}
	}
	s.db = db
	return nil
}

// Publishers returns all seed rows.
func (s *SQLiteStore) Publishers() ([]models.PublisherSeed, error) {
	rows, err := s.db.Query(`SELECT id, name, url, image_url FROM publishers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query publishers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var seeds []models.PublisherSeed
	for rows.Next() {
		var seed models.PublisherSeed
		if err := rows.Scan(&seed.ID, &seed.Name, &seed.URL, &seed.ImageURL); err != nil {
			return nil, fmt.Errorf("scan publisher: %w", err)
		}
		seeds = append(seeds, seed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate publishers: %w", err)
	}
	return seeds, nil
}

// InsertPublisher writes one seed row.
func (s *SQLiteStore) InsertPublisher(seed models.PublisherSeed) error {
	_, err := s.db.Exec(
		`INSERT INTO publishers (name, url, image_url) VALUES (?, ?, ?)`,
		seed.Name, seed.URL, seed.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("insert publisher %s: %w", seed.Name, err)
	}
	return nil
}

// Exists reports whether a book with the given ISBN is stored.
func (s *SQLiteStore) Exists(isbn string) (bool, error) {
	if _, ok := s.known.Get(isbn); ok {
		return true, nil
	}

	var id int64
	err := s.db.QueryRow(`SELECT id FROM books WHERE isbn = ?`, isbn).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup isbn %s: %w", isbn, err)
	}
	s.known.Add(isbn, struct{}{})
	return true, nil
}

// Insert writes the record unless its ISBN already exists. The UNIQUE
// constraint on isbn backstops the existence check: a constraint
// violation from any other code path still resolves to the duplicate
// outcome rather than an error.
func (s *SQLiteStore) Insert(book *models.Book) (models.InsertOutcome, error) {
	exists, err := s.Exists(book.ISBN)
	if err != nil {
		return models.OutcomeUnknown, err
	}
	if exists {
		return models.OutcomeDuplicate, nil
	}

	_, err = s.db.Exec(
		`INSERT INTO books (title, author, publisher, isbn, page_count, language, publish_date, price, description, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.Title, book.Author, book.Publisher, book.ISBN, book.PageCount,
		book.Language, book.PublishDate, book.Price, book.Description, book.ImageURL,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			s.known.Add(book.ISBN, struct{}{})
			return models.OutcomeDuplicate, nil
		}
		return models.OutcomeUnknown, fmt.Errorf("insert book %s: %w", book.ISBN, err)
	}

	s.known.Add(book.ISBN, struct{}{})
	return models.OutcomeAdded, nil
}

// Books returns all stored book records in insertion order.
func (s *SQLiteStore) Books() ([]models.Book, error) {
	rows, err := s.db.Query(
		`SELECT title, author, publisher, isbn, page_count, language, publish_date, price, description, image_url
		 FROM books ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var books []models.Book
	for rows.Next() {
		var book models.Book
		if err := rows.Scan(
			&book.Title, &book.Author, &book.Publisher, &book.ISBN, &book.PageCount,
			&book.Language, &book.PublishDate, &book.Price, &book.Description, &book.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
