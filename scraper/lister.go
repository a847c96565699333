package scraper

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-ingest-books/config"
	"github.com/aluiziolira/go-ingest-books/models"
)

var (
	listingItemSel = Selector{Tag: "div", Match: MatchClass, Value: "product-cr"}
	detailLinkSel  = Selector{Tag: "a", Match: MatchClass, Value: "pr-img-link"}
	thumbnailSel   = Selector{Tag: "img", Match: MatchAny}
)

// Lister paginates through one publisher's product listing and collects
// the detail-page URL and thumbnail of every item.
type Lister struct {
	cfg     *config.Config
	fetcher *Fetcher
	metrics *Metrics
}

// NewLister builds a lister sharing the given fetcher.
func NewLister(cfg *config.Config, fetcher *Fetcher, metrics *Metrics) *Lister {
	return &Lister{
		cfg:     cfg,
		fetcher: fetcher,
		metrics: metrics,
	}
}

// PublisherID derives the stable listing identifier from a publisher's
// canonical URL: the trailing path segment before any extension,
// ".../yayinevi/12345.html" yields "12345".
func PublisherID(rawURL string) string {
	segment := rawURL
	if idx := strings.LastIndex(segment, "/"); idx >= 0 {
		segment = segment[idx+1:]
	}
	if dot := strings.Index(segment, "."); dot >= 0 {
		segment = segment[:dot]
	}
	return segment
}

// ListItems fetches listing pages for one seed until a page carries no
// item containers. That empty page is the sole termination signal;
// MaxPages only bounds a misbehaving listing that never goes empty. The
// full item slice is materialized before any detail fetch happens.
func (l *Lister) ListItems(seed models.PublisherSeed) ([]models.ListingItem, error) {
	publisherID := PublisherID(seed.URL)

	var items []models.ListingItem
	for page := 1; ; page++ {
		if page > l.cfg.MaxPages {
			slog.Warn("listing exceeded page bound",
				slog.String("publisher", seed.Name),
				slog.Int("max_pages", l.cfg.MaxPages),
			)
			break
		}

		pageURL := l.cfg.ListingURL(publisherID, page)
		doc, err := l.fetcher.Fetch(phaseListing, pageURL)
		if err != nil {
			return nil, fmt.Errorf("listing page %d of publisher %s: %w", page, publisherID, err)
		}

		containers := listingItemSel.find(doc.Selection)
		if containers.Length() == 0 {
			break
		}

		containers.Each(func(_ int, container *goquery.Selection) {
			detailURL := ExtractAttr(container, detailLinkSel, "href", "")
			if detailURL == "" {
				slog.Warn("listing item without detail link skipped",
					slog.String("page_url", pageURL),
				)
				return
			}
			items = append(items, models.ListingItem{
				DetailURL:     detailURL,
				CoverImageURL: ExtractAttr(container, thumbnailSel, "src", ""),
			})
			l.metrics.IncListed()
		})
	}
	return items, nil
}
