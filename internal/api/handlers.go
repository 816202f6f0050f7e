// Package api serves basket analysis over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/huangsam/basket/core"
	"github.com/huangsam/basket/internal/contract"
	"github.com/huangsam/basket/internal/ingest"
	"github.com/huangsam/basket/schema"
)

// MaxBodySize caps the size of an uploaded dataset.
const MaxBodySize = 32 << 20

// Handler holds the configuration shared by every request.
type Handler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// NewHandler creates a Handler. Each request works on a clone of cfg.
func NewHandler(cfg *contract.Config, mgr contract.StoreManager) *Handler {
	return &Handler{baseCfg: cfg, mgr: mgr}
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Records   []json.RawMessage `json:"records"`
	Threshold *float64          `json:"threshold,omitempty"`
	TopItems  *int              `json:"top_items,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes mounts the API on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.HealthCheck)
	r.Get("/api/status", h.GetAnalysisStatus)
	r.Post("/api/analyze", h.Analyze)
	r.Post("/api/analyze/csv", h.AnalyzeCSV)
}

// HealthCheck reports that the server is up.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Analyze runs an analysis over a JSON list of records.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	cfg := h.baseCfg.Clone()
	if req.Threshold != nil {
		cfg.Threshold = *req.Threshold
	}
	if req.TopItems != nil {
		cfg.TopItems = *req.TopItems
	}

	records := make([]schema.Record, 0, len(req.Records))
	for i, raw := range req.Records {
		rec, err := ingest.DecodeRecord(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, &core.InvalidInputError{Index: i, Reason: err.Error()})
			return
		}
		records = append(records, rec)
	}

	h.runAnalysis(w, r, cfg, records)
}

// AnalyzeCSV runs an analysis over a CSV body. The threshold comes from the query string.
func (h *Handler) AnalyzeCSV(w http.ResponseWriter, r *http.Request) {
	cfg := h.baseCfg.Clone()
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		th, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid threshold %q: %w", raw, err))
			return
		}
		cfg.Threshold = th
	}

	records, err := ingest.Read(http.MaxBytesReader(w, r.Body, MaxBodySize), schema.CSVIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	h.runAnalysis(w, r, cfg, records)
}

// GetAnalysisStatus reports the state of run tracking.
func (h *Handler) GetAnalysisStatus(w http.ResponseWriter, _ *http.Request) {
	var store contract.AnalysisStore
	if h.mgr != nil {
		store = h.mgr.GetAnalysisStore()
	}
	if store == nil {
		writeJSON(w, http.StatusOK, schema.AnalysisStatus{Backend: string(schema.NoneBackend)})
		return
	}
	status, err := store.GetStatus()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) runAnalysis(w http.ResponseWriter, r *http.Request, cfg *contract.Config, records []schema.Record) {
	ctx := core.WithSuppressHeader(r.Context())
	result, _, err := core.GetAnalysisResults(ctx, cfg, h.mgr, records)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// statusFor maps analysis errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case core.IsInvalidInput(err), errors.Is(err, core.ErrInvalidThreshold), errors.Is(err, core.ErrInvalidTopItems):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrEmptyAnalysis):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
