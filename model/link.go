package model

// LinkRecord is one shortened link as reported by GET /api/urls
type LinkRecord struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	Clicks      int    `json:"clicks"`
}

// AnalyticsPoint is one traffic bucket as reported by GET /api/analytics
type AnalyticsPoint struct {
	Name   string `json:"name"`   // Bucket label (country code)
	Clicks int    `json:"clicks"` // Clicks recorded for the bucket
}
