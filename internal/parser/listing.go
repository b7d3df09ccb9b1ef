package parser

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/novadev/novaauto-scraper/internal/models"
)

// Selectors for the Nova Autoland listing markup. A site redesign
// silently yields zero listings rather than an error.
const (
	listingSelector = "div.vehicle-listing"
	titleSelector   = "h2.vehicle-title"
	priceSelector   = ".price"
	mileageSelector = ".mileage"
	linkSelector    = "a.vehicle-link"
	imageSelector   = "img.vehicle-image"
)

// ListingParser extracts vehicle records from a listings page. Missing
// sub-elements null the corresponding field; a listing is skipped as a
// whole only when extraction itself fails.
type ListingParser struct {
	baseURL *url.URL
	logger  *slog.Logger
}

func NewListingParser(baseURL string, logger *slog.Logger) (*ListingParser, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	return &ListingParser{
		baseURL: base,
		logger:  logger.With("component", "parser"),
	}, nil
}

// ParseListings returns the records for every listing node in document
// order. Skipped listings are logged and never counted.
func (p *ListingParser) ParseListings(html string) ([]models.Vehicle, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	vehicles := []models.Vehicle{}
	doc.Find(listingSelector).Each(func(i int, s *goquery.Selection) {
		res := p.extractListing(s)
		if res.Skip != nil {
			p.logger.Error("skipping listing", "index", i, "error", res.Skip)
			return
		}
		vehicles = append(vehicles, res.Vehicle)
	})

	return vehicles, nil
}

// listingResult is either a complete record or a skip reason, so the
// drop-and-continue policy is an explicit branch in the caller.
type listingResult struct {
	Vehicle models.Vehicle
	Skip    error
}

func (p *ListingParser) extractListing(s *goquery.Selection) listingResult {
	link, err := p.extractLink(s)
	if err != nil {
		return listingResult{Skip: err}
	}

	return listingResult{Vehicle: models.Vehicle{
		Title:   selectText(s, titleSelector),
		Price:   selectText(s, priceSelector),
		Mileage: selectText(s, mileageSelector),
		Link:    link,
		Image:   selectAttr(s, imageSelector, "src"),
	}}
}

// extractLink resolves the listing href against the base URL. Absolute
// hrefs pass through unchanged.
func (p *ListingParser) extractLink(s *goquery.Selection) (*string, error) {
	href := selectAttr(s, linkSelector, "href")
	if href == nil {
		return nil, nil
	}

	ref, err := url.Parse(strings.TrimSpace(*href))
	if err != nil {
		return nil, fmt.Errorf("parse href %q: %w", *href, err)
	}

	resolved := p.baseURL.ResolveReference(ref).String()
	return &resolved, nil
}

func selectText(s *goquery.Selection, selector string) *string {
	found := s.Find(selector).First()
	if found.Length() == 0 {
		return nil
	}

	text := strings.TrimSpace(found.Text())
	return &text
}

func selectAttr(s *goquery.Selection, selector, name string) *string {
	found := s.Find(selector).First()
	if found.Length() == 0 {
		return nil
	}

	value, ok := found.Attr(name)
	if !ok {
		return nil
	}
	return &value
}
