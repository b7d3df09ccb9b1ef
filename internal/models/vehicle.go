package models

// Vehicle is a single listing scraped from the dealer site. Fields the
// page didn't provide are nil and serialize as JSON null.
type Vehicle struct {
	Title   *string `json:"title"`
	Price   *string `json:"price"`
	Mileage *string `json:"mileage"`
	Link    *string `json:"link"`
	Image   *string `json:"image"`
}

// ScrapeResult holds the records from one scrape run, in document order.
type ScrapeResult struct {
	Records []Vehicle `json:"records"`
	Count   int       `json:"count"`
}

func NewScrapeResult(records []Vehicle) *ScrapeResult {
	return &ScrapeResult{
		Records: records,
		Count:   len(records),
	}
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
