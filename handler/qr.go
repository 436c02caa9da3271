package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

// GenerateQR handles GET /qr/{code} - renders the full short link as a PNG QR code.
// The code is not looked up: a lookup would count as a click.
func (h *GatewayHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if code == "" {
		SendJSONError(w, http.StatusBadRequest, errors.New("missing short code"), "")
		return
	}

	query := r.URL.Query()

	// Get size parameter (default: 256, min: 128, max: 1024)
	size := 256
	if sizeStr := query.Get("size"); sizeStr != "" {
		parsedSize, err := strconv.Atoi(sizeStr)
		if err != nil {
			SendJSONError(w, http.StatusBadRequest, errors.New("invalid size parameter"), "Size must be a number")
			return
		}
		if parsedSize < 128 || parsedSize > 1024 {
			SendJSONError(w, http.StatusBadRequest, errors.New("size out of range"), "Size must be between 128 and 1024")
			return
		}
		size = parsedSize
	}

	level, ok := parseLevel(query.Get("level"))
	if !ok {
		SendJSONError(w, http.StatusBadRequest, errors.New("invalid level parameter"), "Level must be: low, medium, high, or highest")
		return
	}

	fullURL := h.dashboard.ShortLink(code)

	png, err := qrcode.Encode(fullURL, level, size)
	if err != nil {
		log.Error().Err(err).Str("url", fullURL).Msg("Failed to generate QR code")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))

	if _, err := w.Write(png); err != nil {
		log.Error().Err(err).Msg("Failed to write QR code response")
		return
	}

	log.Debug().
		Str("short_code", code).
		Str("full_url", fullURL).
		Int("size", size).
		Msg("QR code generated")
}

// parseLevel maps the level query parameter to a recovery level; empty means medium
func parseLevel(s string) (qrcode.RecoveryLevel, bool) {
	switch s {
	case "", "medium":
		return qrcode.Medium, true
	case "low":
		return qrcode.Low, true
	case "high":
		return qrcode.High, true
	case "highest":
		return qrcode.Highest, true
	default:
		return qrcode.Medium, false
	}
}
