// Package scraper implements the crawl side of the ingester: fetching
// catalog pages, extracting fields from their markup, paginating
// publisher listings and assembling complete book records.
package scraper

import (
	"bytes"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-ingest-books/config"
	"github.com/gocolly/colly/v2"
)

const (
	phaseDirectory = "directory"
	phaseListing   = "listing"
	phaseDetail    = "detail"
)

// Fetcher wraps a synchronous colly collector and turns fetched pages
// into goquery documents. All crawl components share one Fetcher so the
// transport, user agent and timeout are configured in a single place.
type Fetcher struct {
	cfg       *config.Config
	collector *colly.Collector
	metrics   *Metrics
}

// NewFetcher builds a fetcher configured from cfg.
func NewFetcher(cfg *config.Config, metrics *Metrics) (*Fetcher, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = true
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	return &Fetcher{
		cfg:       cfg,
		collector: collector,
		metrics:   metrics,
	}, nil
}

// WithTransport replaces the HTTP round tripper. Used by tests to
// inject a mock transport.
func (f *Fetcher) WithTransport(rt http.RoundTripper) {
	f.collector.WithTransport(rt)
}

// Fetch retrieves one page and parses it into a document. Transport
// failures and non-2xx statuses come back classified (timeout,
// connection, not_found, ...) so callers can label and scope them.
func (f *Fetcher) Fetch(phase, pageURL string) (*goquery.Document, error) {
	f.metrics.IncRequest(phase)

	c := f.collector.Clone()

	var doc *goquery.Document
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		parsed, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			fetchErr = fmt.Errorf("parse %s: %w", pageURL, err)
			return
		}
		doc = parsed
	})
	c.OnError(func(r *colly.Response, err error) {
		statusCode := 0
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = classifyError(err, statusCode)
	})

	start := time.Now()
	err := c.Visit(pageURL)
	f.metrics.ObserveDuration(time.Since(start))

	if fetchErr != nil {
		return nil, fetchErr
	}
	if err != nil {
		return nil, classifyError(err, 0)
	}
	if doc == nil {
		return nil, fmt.Errorf("no response received for %s", pageURL)
	}
	return doc, nil
}
