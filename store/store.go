// Package store persists publisher seeds and book records in a local
// SQLite database, enforcing ISBN uniqueness at insert time and again
// via a schema constraint.
package store

import "github.com/aluiziolira/go-ingest-books/models"

// Store is the persistence surface the pipeline drives.
type Store interface {
	// Connect opens the store and ensures the schema exists.
	Connect() error

	// Publishers returns all seed rows in insertion order.
	Publishers() ([]models.PublisherSeed, error)

	// InsertPublisher writes one seed row.
	InsertPublisher(seed models.PublisherSeed) error

	// Exists reports whether a book with the given ISBN is stored.
	Exists(isbn string) (bool, error)

	// Insert writes a book record unless its ISBN is already present,
	// in which case it is a no-op reporting OutcomeDuplicate. Safe to
	// call repeatedly with logically identical records.
	Insert(book *models.Book) (models.InsertOutcome, error)

	// Books returns all stored book records.
	Books() ([]models.Book, error)

	// Close releases the underlying connection.
	Close() error
}
