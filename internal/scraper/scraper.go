package scraper

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/novadev/novaauto-scraper/internal/models"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Parser interface {
	ParseListings(html string) ([]models.Vehicle, error)
}

// Collector runs one scrape of the configured listings page.
type Collector struct {
	fetcher Fetcher
	parser  Parser
	baseURL string
	logger  *slog.Logger
}

func NewCollector(fetcher Fetcher, parser Parser, baseURL string, logger *slog.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		parser:  parser,
		baseURL: baseURL,
		logger:  logger.With("component", "collector"),
	}
}

// Collect fetches the listings page and returns the extracted records.
// It never fails: exhausted retries or an unparseable body degrade to
// an empty result.
func (c *Collector) Collect(ctx context.Context) []models.Vehicle {
	log := c.logger.With("run_id", uuid.NewString())
	log.Info("starting scrape", "url", c.baseURL)

	html, err := c.fetcher.Fetch(ctx, c.baseURL)
	if err != nil {
		log.Error("scrape failed", "error", err)
		return []models.Vehicle{}
	}

	vehicles, err := c.parser.ParseListings(html)
	if err != nil {
		log.Error("parse failed", "error", err)
		return []models.Vehicle{}
	}

	log.Info("scrape completed", "count", len(vehicles))
	return vehicles
}
