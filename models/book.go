// Package models defines data structures shared across the ingester.
package models

import "time"

// PublisherSeed is one row of the publishers table. Seeds drive the
// listing crawl; identity is the canonical URL.
type PublisherSeed struct {
	ID       int64
	Name     string
	URL      string
	ImageURL string
}

// ListingItem is one entry scraped from a publisher listing page. It is
// consumed immediately by the assembler and never persisted on its own.
type ListingItem struct {
	DetailURL     string
	CoverImageURL string
}

// Book represents one fully assembled catalog record. Records are
// never mutated after persistence.
type Book struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	ISBN        string `json:"isbn"`
	PageCount   int    `json:"page_count"`
	Language    string `json:"language"`
	PublishDate string `json:"publish_date"`
	Price       string `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// InsertOutcome reports what the store did with a record.
type InsertOutcome int

const (
	// OutcomeUnknown is the zero value, reported on store errors.
	OutcomeUnknown InsertOutcome = iota
	// OutcomeAdded means a new row was written.
	OutcomeAdded
	// OutcomeDuplicate means a row with the same ISBN already existed.
	OutcomeDuplicate
)

func (o InsertOutcome) String() string {
	switch o {
	case OutcomeAdded:
		return "added"
	case OutcomeDuplicate:
		return "already_present"
	default:
		return "unknown"
	}
}

// RunSummary holds the overall result of one ingestion run.
type RunSummary struct {
	StartTime    time.Time
	EndTime      time.Time
	Publishers   int
	FailedSeeds  int
	Listed       int
	Added        int
	Duplicates   int
	SkippedItems int
	ErrorsByType map[string]int
}
