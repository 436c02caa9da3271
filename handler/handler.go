package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"short-url-client/backend"
	"short-url-client/cache"
	"short-url-client/client"
	"short-url-client/model"
	"short-url-client/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const noticeInvalid = "invalid"

// GatewayHandler serves the client over HTTP: the long-lived dashboard session,
// and one short-lived redirect session per short link visited
type GatewayHandler struct {
	dashboard *client.Session
	opts      client.Options // Template for redirect sessions
	cache     *cache.Cache
	prefix    string
}

// NewGatewayHandler creates a gateway around a dashboard session.
// Redirect sessions reuse opts, including its event log.
func NewGatewayHandler(dashboard *client.Session, opts client.Options, unknown *cache.Cache) *GatewayHandler {
	return &GatewayHandler{
		dashboard: dashboard,
		opts:      opts,
		cache:     unknown,
		prefix:    utils.NormalizeMountPrefix(opts.MountPrefix),
	}
}

// Routes registers every gateway route on r.
// The short code route is a catch-all for single path segments and goes last.
func (h *GatewayHandler) Routes(r *mux.Router) {
	p := h.prefix
	r.HandleFunc(p+"/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc(p+"/cache/metrics", h.CacheMetrics).Methods(http.MethodGet)
	r.HandleFunc(p+"/api/state", h.Dashboard).Methods(http.MethodGet)
	r.HandleFunc(p+"/api/logs", h.Logs).Methods(http.MethodGet)
	r.HandleFunc(p+"/api/shorten", h.Shorten).Methods(http.MethodPost)
	r.HandleFunc(p+"/api/visit/{code}", h.Visit).Methods(http.MethodPost)
	r.HandleFunc(p+"/qr/{code}", h.GenerateQR).Methods(http.MethodGet)

	// Swagger UI
	r.HandleFunc(p+"/swagger/doc.json", h.SwaggerDoc).Methods(http.MethodGet)
	r.PathPrefix(p + "/swagger/").Handler(h.swaggerUI())

	// Browsers ask for it on every page load; it is never a short code
	r.HandleFunc(p+"/favicon.ico", http.NotFound).Methods(http.MethodGet)

	r.HandleFunc(p+"/", h.Dashboard).Methods(http.MethodGet)
	if p != "" {
		r.HandleFunc(p, h.Dashboard).Methods(http.MethodGet)
	}
	r.HandleFunc(p+"/{code:[^/]+}", h.RedirectURL).Methods(http.MethodGet)
	r.HandleFunc(p+"/{code:[^/]+}/", h.RedirectURL).Methods(http.MethodGet)
}

// Dashboard handles GET / and GET /api/state
func (h *GatewayHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	state := h.dashboard.State()

	resp := DashboardResponse{
		SessionID: h.dashboard.ID,
		Mode:      state.Mode().String(),
		Status:    state.Status(),
		Links:     state.Links(),
		Analytics: state.Analytics(),
	}
	if resp.Links == nil {
		resp.Links = []model.LinkRecord{}
	}
	if resp.Analytics == nil {
		resp.Analytics = []model.AnalyticsPoint{}
	}
	if r.URL.Query().Get("notice") == noticeInvalid {
		resp.Notice = client.InvalidShortURLNotice
	}

	SendJSONSuccess(w, http.StatusOK, resp)
}

// Logs handles GET /api/logs?since=n
func (h *GatewayHandler) Logs(w http.ResponseWriter, r *http.Request) {
	since := 0
	if s := r.URL.Query().Get("since"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			SendJSONError(w, http.StatusBadRequest, errors.New("invalid since parameter"), "since must be a non-negative number")
			return
		}
		since = n
	}

	events := h.dashboard.Log()
	entries := events.Since(since)
	if entries == nil {
		entries = []model.LogEntry{}
	}
	SendJSONSuccess(w, http.StatusOK, LogsResponse{Total: events.Len(), Entries: entries})
}

// Shorten handles POST /api/shorten
func (h *GatewayHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	var input model.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Error().Err(err).Msg("Failed to decode request body")
		SendJSONError(w, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	resp, err := h.dashboard.Shorten(r.Context(), input.URL)
	if err != nil {
		status, message := statusFor(err)
		SendJSONError(w, status, err, message)
		return
	}

	SendJSONSuccess(w, http.StatusCreated, ShortenResponse{
		ShortCode: resp.ShortCode,
		ShortURL:  h.dashboard.ShortLink(resp.ShortCode),
		Existed:   resp.Existed,
		QRCodeURL: h.dashboard.ShortLink("qr/" + resp.ShortCode),
	})
}

// Visit handles POST /api/visit/{code}
func (h *GatewayHandler) Visit(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if code == "" {
		SendJSONError(w, http.StatusBadRequest, errors.New("missing short code"), "")
		return
	}

	location, err := h.dashboard.SimulateVisit(r.Context(), code)
	if err != nil {
		status, message := statusFor(err)
		SendJSONError(w, status, err, message)
		return
	}

	SendJSONSuccess(w, http.StatusOK, VisitResponse{ShortCode: code, Location: location})
}

// RedirectURL handles GET /{code}: a page load in redirect mode
func (h *GatewayHandler) RedirectURL(w http.ResponseWriter, r *http.Request) {
	if utils.IsDashboardPath(r.URL.Path, h.prefix) {
		h.Dashboard(w, r)
		return
	}

	nav := &responseNavigator{}
	opts := h.opts
	opts.Navigator = nav
	session := client.NewSession(opts, r.URL.Path)

	state := session.Resolve(r.Context())
	log.Info().
		Str("session_id", session.ID).
		Str("short_code", session.Code()).
		Str("outcome", state.String()).
		Str("remote_addr", r.RemoteAddr).
		Msg("Redirect session finished")

	if state == model.ResolverNavigated {
		http.Redirect(w, r, nav.destination, http.StatusFound)
		return
	}

	target := nav.path
	if target == "" {
		target = utils.RootPath(h.prefix)
	}
	if nav.notice != "" {
		target += "?notice=" + url.QueryEscape(noticeInvalid)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// CacheMetrics handles GET /cache/metrics
func (h *GatewayHandler) CacheMetrics(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		SendJSONError(w, http.StatusServiceUnavailable, errors.New("cache is disabled"), "")
		return
	}
	SendJSONSuccess(w, http.StatusOK, h.cache.GetMetricsSnapshot())
}

// HealthCheck handles GET /health.
// The gateway is healthy even while the backend is still waking up.
func (h *GatewayHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	SendJSONSuccess(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"backend": h.dashboard.State().Status(),
	})
}

// statusFor maps an engine error to the gateway's HTTP status
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, utils.ErrEmptyURL), errors.Is(err, utils.ErrInvalidURL),
		errors.Is(err, utils.ErrInvalidScheme), errors.Is(err, utils.ErrEmptyHost):
		return http.StatusBadRequest, ""
	case backend.IsUnknownCode(err):
		return http.StatusNotFound, client.InvalidShortURLNotice
	case backend.IsTransport(err):
		return http.StatusBadGateway, "Backend unreachable"
	case backend.IsRejection(err):
		return http.StatusBadGateway, "Backend rejected the request"
	default:
		return http.StatusInternalServerError, ""
	}
}

// responseNavigator records what a redirect session asked the browser to do
type responseNavigator struct {
	destination string
	path        string
	notice      string
}

func (n *responseNavigator) Navigate(destination string) { n.destination = destination }
func (n *responseNavigator) ReplacePath(path string)     { n.path = path }
func (n *responseNavigator) Alert(message string)        { n.notice = message }
