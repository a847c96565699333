package scraper

import (
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-ingest-books/config"
	"github.com/aluiziolira/go-ingest-books/models"
)

var (
	directoryItemSel = Selector{Tag: "div", Match: MatchClass, Value: "column list-item"}
	directoryLinkSel = Selector{Tag: "a", Match: MatchClass, Value: "alt list-item-link"}
	directoryLogoSel = Selector{Tag: "img", Match: MatchClass, Value: "list-item-logo"}
	directoryNameSel = Selector{Tag: "div", Match: MatchClass, Value: "list-item-name"}
)

// Discoverer scrapes the publisher directory page into seed records.
// Discovery runs as a separate pass before ingestion; the pipeline only
// reads seeds that discovery has stored.
type Discoverer struct {
	cfg     *config.Config
	fetcher *Fetcher
}

// NewDiscoverer builds a discoverer sharing the given fetcher.
func NewDiscoverer(cfg *config.Config, fetcher *Fetcher) *Discoverer {
	return &Discoverer{cfg: cfg, fetcher: fetcher}
}

// Discover fetches the directory page and returns one seed per complete
// directory entry. Entries missing a name, link or logo are skipped.
func (d *Discoverer) Discover() ([]models.PublisherSeed, error) {
	doc, err := d.fetcher.Fetch(phaseDirectory, d.cfg.DirectoryURL)
	if err != nil {
		return nil, fmt.Errorf("publisher directory: %w", err)
	}

	var seeds []models.PublisherSeed
	directoryItemSel.find(doc.Selection).Each(func(_ int, entry *goquery.Selection) {
		name := ExtractText(entry, directoryNameSel, "")
		link := ExtractAttr(entry, directoryLinkSel, "href", "")
		logo := ExtractAttr(entry, directoryLogoSel, "src", "")
		if name == "" || link == "" || logo == "" {
			slog.Debug("incomplete directory entry skipped",
				slog.String("name", name),
				slog.String("url", link),
			)
			return
		}
		seeds = append(seeds, models.PublisherSeed{
			Name:     name,
			URL:      link,
			ImageURL: logo,
		})
	})
	return seeds, nil
}
