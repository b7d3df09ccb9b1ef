package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/novadev/novaauto-scraper/internal/cache"
	"github.com/novadev/novaauto-scraper/internal/models"
)

type Collector interface {
	Collect(ctx context.Context) []models.Vehicle
}

type Handlers struct {
	collector Collector
	cache     *cache.Cache
	baseURL   string
	logger    *slog.Logger
}

func NewHandlers(collector Collector, cache *cache.Cache, baseURL string, logger *slog.Logger) *Handlers {
	return &Handlers{
		collector: collector,
		cache:     cache,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// ScrapeResponse is the success envelope for GET /scrape.
type ScrapeResponse struct {
	Status string           `json:"status"`
	Count  int              `json:"count"`
	Data   []models.Vehicle `json:"data"`
}

// ErrorResponse is the failure envelope for uncaught errors.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ScrapeVehicles handles GET /scrape. A failed scrape still yields a
// success envelope with count 0; only an escaped panic produces the
// error envelope (see Recover).
func (h *Handlers) ScrapeVehicles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := cache.Key(h.baseURL)

	if result, hit := h.cache.Get(ctx, key); hit {
		h.logger.Debug("serving cached scrape", "count", result.Count)
		h.respondResult(w, result)
		return
	}

	result := models.NewScrapeResult(h.collector.Collect(ctx))
	h.cache.Set(ctx, key, result)

	h.respondResult(w, result)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Recover converts an escaped panic into the error envelope with a 500.
func (h *Handlers) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("handler panic", "path", r.URL.Path, "panic", rec)
				h.respondJSON(w, http.StatusInternalServerError, ErrorResponse{
					Status:  "error",
					Message: "internal server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) respondResult(w http.ResponseWriter, result *models.ScrapeResult) {
	h.respondJSON(w, http.StatusOK, ScrapeResponse{
		Status: "success",
		Count:  result.Count,
		Data:   result.Records,
	})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
