package handler

import (
	"encoding/json"
	"net/http"

	"short-url-client/model"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DashboardResponse is the dashboard session as seen by a browser
type DashboardResponse struct {
	SessionID string                 `json:"sessionID"`
	Mode      string                 `json:"mode"`
	Status    string                 `json:"status"` // "connecting" until the first successful sync, then "live"
	Notice    string                 `json:"notice,omitempty"`
	Links     []model.LinkRecord     `json:"links"`
	Analytics []model.AnalyticsPoint `json:"analytics"`
}

// ShortenResponse is returned by POST /api/shorten
type ShortenResponse struct {
	ShortCode string `json:"shortCode"`
	ShortURL  string `json:"shortURL"`
	Existed   bool   `json:"existed"`
	QRCodeURL string `json:"qrCodeURL"`
}

// VisitResponse is returned by POST /api/visit/{code}
type VisitResponse struct {
	ShortCode string `json:"shortCode"`
	Location  string `json:"location"`
}

// LogsResponse is returned by GET /api/logs
type LogsResponse struct {
	Total   int              `json:"total"`
	Entries []model.LogEntry `json:"entries"`
}

// SendJSONError sends a JSON error response
func SendJSONError(w http.ResponseWriter, statusCode int, err error, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   err.Error(),
		Message: message,
	}

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		log.Error().Err(encodeErr).Msg("Failed to encode error response")
	}
}

// SendJSONSuccess sends a JSON success response
func SendJSONSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode success response")
	}
}
