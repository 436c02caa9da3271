package handler

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"short-url-client/utils"

	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openAPIDoc []byte

// SwaggerDoc handles GET /swagger/doc.json with the gateway's OpenAPI document,
// rebased onto the mount prefix
func (h *GatewayHandler) SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	var doc map[string]interface{}
	if err := json.Unmarshal(openAPIDoc, &doc); err != nil {
		log.Error().Err(err).Msg("Failed to parse OpenAPI document")
		SendJSONError(w, http.StatusInternalServerError, err, "API documentation unavailable")
		return
	}
	doc["basePath"] = utils.RootPath(h.prefix)
	if r.Host != "" {
		doc["host"] = r.Host
	}

	SendJSONSuccess(w, http.StatusOK, doc)
}

// swaggerUI serves Swagger UI pointed at SwaggerDoc
func (h *GatewayHandler) swaggerUI() http.Handler {
	return httpSwagger.Handler(httpSwagger.URL(h.prefix + "/swagger/doc.json"))
}
