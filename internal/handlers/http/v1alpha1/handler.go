// Package v1alpha1 serves search and character creation as JSON over HTTP
package v1alpha1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
	"github.com/KirkDiggler/rpg-compendium/internal/errors"
	"github.com/KirkDiggler/rpg-compendium/internal/metrics"
	"github.com/KirkDiggler/rpg-compendium/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-compendium/internal/orchestrators/search"
)

// maxBodyBytes bounds POST bodies
const maxBodyBytes = 64 << 10

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	SearchService    search.Service
	CharacterService character.Service
	Features         map[string]*compendium.Feature
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SearchService == nil {
		vb.RequiredField("SearchService")
	}
	if c.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}
	if len(c.Features) == 0 {
		vb.RequiredField("Features")
	}

	return vb.Build()
}

// Handler implements the HTTP API
type Handler struct {
	searchService    search.Service
	characterService character.Service
	features         map[string]*compendium.Feature
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		searchService:    cfg.SearchService,
		characterService: cfg.CharacterService,
		features:         cfg.Features,
	}, nil
}

// Routes builds the router with the middleware stack
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(requestLogger)

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/character-options", h.ListCharacterOptions)
		r.Post("/characters", h.CreateCharacter)
		r.Get("/{feature}", h.Search)
		r.Get("/{feature}/popular", h.Popular)
	})

	return r
}

// Healthz handles GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Search handles GET /v1/{feature}?q=&filter=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	feature, ok := h.feature(w, r)
	if !ok {
		return
	}

	params := r.URL.Query()
	raw := params.Get("filter")
	if raw == "" && feature.FilterParam != "" {
		raw = params.Get(feature.FilterParam)
	}

	filter, err := feature.ParseFilter(raw)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := h.searchService.Search(r.Context(), &search.SearchInput{
		Feature: feature,
		Query: compendium.Query{
			Text:   params.Get("q"),
			Filter: filter,
		},
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeResult(w, feature, out.InvocationID, out.Result)
}

// Popular handles GET /v1/{feature}/popular
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	feature, ok := h.feature(w, r)
	if !ok {
		return
	}

	out, err := h.searchService.Preload(r.Context(), &search.PreloadInput{
		Feature: feature,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeResult(w, feature, out.InvocationID, out.Result)
}

// ListCharacterOptions handles GET /v1/character-options
func (h *Handler) ListCharacterOptions(w http.ResponseWriter, r *http.Request) {
	out, err := h.characterService.ListOptions(r.Context(), &character.ListOptionsInput{})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, optionsResponse{
		Races:   toOptions(out.Races),
		Classes: toOptions(out.Classes),
	})
}

// CreateCharacter handles POST /v1/characters
func (h *Handler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req createCharacterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid request body"))
		return
	}

	out, err := h.characterService.CreateCharacter(r.Context(), &character.CreateCharacterInput{
		Name:    req.Name,
		RaceID:  req.Race,
		ClassID: req.Class,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCharacterResponse(out.Character))
}

func (h *Handler) feature(w http.ResponseWriter, r *http.Request) (*compendium.Feature, bool) {
	name := strings.ToLower(chi.URLParam(r, "feature"))
	feature, ok := h.features[name]
	if !ok {
		writeError(w, errors.NotFoundf("unknown feature %q", name))
		return nil, false
	}
	return feature, true
}

func writeResult(w http.ResponseWriter, feature *compendium.Feature, invocationID string, result *compendium.Result) {
	resp := resultResponse{
		Status:       string(result.Status),
		InvocationID: invocationID,
		Records:      make([]map[string]any, 0, len(result.Records)),
		Reason:       string(result.Reason),
		Message:      renderMessage(feature, result),
	}
	for _, record := range result.Records {
		resp.Records = append(resp.Records, record.Fields)
	}

	status := http.StatusOK
	if result.IsFailure() {
		code := errors.CodeUnavailable
		if result.Kind == compendium.ErrorKindCanceled {
			code = errors.CodeCanceled
		}
		status = code.HTTPStatus()
		resp.Error = &errorResponse{
			Kind:    string(result.Kind),
			Message: resp.Message,
		}
	}

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "code", code, "error", err)
	} else {
		slog.Debug("Request rejected", "code", code, "error", err)
	}

	writeJSON(w, status, errorEnvelope{
		Status: string(compendium.StatusFailure),
		Error: &errorResponse{
			Kind:    code.String(),
			Message: errors.GetMessage(err),
			Fields:  validationFields(err),
		},
	})
}

func validationFields(err error) map[string][]string {
	fields, _ := errors.GetMeta(err)["validation_errors"].(map[string][]string)
	return fields
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
