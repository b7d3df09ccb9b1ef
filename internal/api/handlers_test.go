package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novadev/novaauto-scraper/internal/models"
)

type stubCollector struct {
	vehicles []models.Vehicle
}

func (s *stubCollector) Collect(ctx context.Context) []models.Vehicle {
	return s.vehicles
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScrapeVehiclesSuccessEnvelope(t *testing.T) {
	collector := &stubCollector{vehicles: []models.Vehicle{
		{
			Title:   models.StringPtr("2020 Civic"),
			Price:   models.StringPtr("$18,000"),
			Mileage: models.StringPtr("30,000 mi"),
			Link:    models.StringPtr("https://novaautoland.com/v/1"),
			Image:   models.StringPtr("/i/1.jpg"),
		},
		{
			Title:   models.StringPtr("2019 Accord"),
			Mileage: models.StringPtr("45,000 mi"),
			Link:    models.StringPtr("https://novaautoland.com/v/2"),
			Image:   models.StringPtr("/i/2.jpg"),
		},
	}}

	h := NewHandlers(collector, nil, "https://novaautoland.com", testLogger())

	rec := httptest.NewRecorder()
	h.ScrapeVehicles(rec, httptest.NewRequest(http.MethodGet, "/scrape", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ScrapeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "2020 Civic", *resp.Data[0].Title)

	// Missing fields must serialize as JSON null, not be omitted.
	assert.Contains(t, rec.Body.String(), `"price":null`)
}

func TestScrapeVehiclesEmptyResult(t *testing.T) {
	h := NewHandlers(&stubCollector{vehicles: []models.Vehicle{}}, nil, "https://novaautoland.com", testLogger())

	rec := httptest.NewRecorder()
	h.ScrapeVehicles(rec, httptest.NewRequest(http.MethodGet, "/scrape", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ScrapeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Data)
}

func TestRecoverConvertsPanicToErrorEnvelope(t *testing.T) {
	h := NewHandlers(&stubCollector{}, nil, "https://novaautoland.com", testLogger())

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	h.Recover(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scrape", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.Message)
}

func TestRecoverPassesThroughNormalResponses(t *testing.T) {
	h := NewHandlers(&stubCollector{}, nil, "https://novaautoland.com", testLogger())

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "fine")
	})

	rec := httptest.NewRecorder()
	h.Recover(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fine", rec.Body.String())
}

func TestHealth(t *testing.T) {
	h := NewHandlers(&stubCollector{}, nil, "https://novaautoland.com", testLogger())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"status":"ok"`))
}
