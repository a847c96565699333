package scraper

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-ingest-books/models"
)

// Detail-page selectors for the catalog's book pages.
var (
	titleSel       = Selector{Tag: "h1", Match: MatchClass, Value: "pr_header__heading"}
	authorSel      = Selector{Tag: "div", Match: MatchClass, Value: "pr_producers__item"}
	publisherSel   = Selector{Tag: "div", Match: MatchClass, Value: "pr_producers__publisher"}
	isbnSel        = Selector{Tag: "td", Match: MatchText, Value: "ISBN:"}
	pageCountSel   = Selector{Tag: "td", Match: MatchText, Value: "Sayfa Sayısı:"}
	languageSel    = Selector{Tag: "td", Match: MatchText, Value: "Dil:"}
	publishDateSel = Selector{Tag: "td", Match: MatchText, Value: "Yayın Tarihi:"}
	priceSel       = Selector{Tag: "div", Match: MatchClass, Value: "price__item"}
	descriptionSel = Selector{Tag: "div", Match: MatchID, Value: "description_text"}
	coverSel       = Selector{Tag: "div", Match: MatchClass, Value: "book-front"}
)

// Fallbacks substituted when an optional field cannot be extracted.
const (
	fallbackAuthor      = "author information not found"
	fallbackPublisher   = "publisher information not found"
	fallbackLanguage    = "language information not found"
	fallbackPublishDate = "publish date not found"
	fallbackPrice       = "price information not found"
	fallbackDescription = "description not found"
	fallbackImage       = "image not found"
)

// Assembler builds one complete book record per listing item by
// fetching its detail page and running the field extractors.
type Assembler struct {
	fetcher *Fetcher
}

// NewAssembler builds an assembler sharing the given fetcher.
func NewAssembler(fetcher *Fetcher) *Assembler {
	return &Assembler{fetcher: fetcher}
}

// Assemble fetches the item's detail page and extracts the full record.
// Title and ISBN are load-bearing: if either structural element is
// missing, or the ISBN cell is empty, Assemble returns an ExtractError
// instead of a partial record. Every other field resolves to its
// fallback. The listing thumbnail always replaces whatever cover image
// the detail page carries.
func (a *Assembler) Assemble(item models.ListingItem) (*models.Book, error) {
	doc, err := a.fetcher.Fetch(phaseDetail, item.DetailURL)
	if err != nil {
		return nil, err
	}
	root := doc.Selection

	if !Exists(root, titleSel) {
		return nil, &ExtractError{URL: item.DetailURL, Field: "title"}
	}
	if !Exists(root, isbnSel) {
		return nil, &ExtractError{URL: item.DetailURL, Field: "isbn"}
	}
	isbn := ExtractSiblingText(root, isbnSel, "")
	if isbn == "" {
		// A record without an ISBN is unidentifiable and would poison
		// the store's uniqueness key. Never defaulted.
		return nil, &ExtractError{URL: item.DetailURL, Field: "isbn"}
	}

	book := &models.Book{
		Title:       ExtractText(root, titleSel, ""),
		Author:      ExtractText(root, authorSel, fallbackAuthor),
		Publisher:   ExtractText(root, publisherSel, fallbackPublisher),
		ISBN:        isbn,
		PageCount:   ExtractSiblingInt(root, pageCountSel),
		Language:    ExtractSiblingText(root, languageSel, fallbackLanguage),
		PublishDate: ExtractSiblingText(root, publishDateSel, fallbackPublishDate),
		Price:       ExtractText(root, priceSel, fallbackPrice),
		Description: ExtractText(root, descriptionSel, fallbackDescription),
		ImageURL:    extractCover(root),
	}

	// Listing thumbnails are more reliably present than detail-page
	// covers, so the listing-supplied image wins.
	book.ImageURL = item.CoverImageURL

	return book, nil
}

func extractCover(root *goquery.Selection) string {
	container := coverSel.find(root)
	if container.Length() == 0 {
		return fallbackImage
	}
	return ExtractAttr(container.First(), thumbnailSel, "src", fallbackImage)
}
