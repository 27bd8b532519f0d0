package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/opentariff/landedcost/internal/archive"
	"github.com/opentariff/landedcost/internal/catalogue"
	"github.com/opentariff/landedcost/internal/quote/model"
	"github.com/opentariff/landedcost/internal/quote/service"
	"github.com/opentariff/landedcost/internal/valuation"
)

// QuoteRouter exposes the rate-quoting HTTP surface.
type QuoteRouter struct {
	qs *service.QuoteService
	cs *catalogue.Service
	as *archive.Service
}

func NewQuoteRouter(qs *service.QuoteService, cs *catalogue.Service, as *archive.Service) *QuoteRouter {
	return &QuoteRouter{qs: qs, cs: cs, as: as}
}

// HandleCreateQuote handles POST /api/quotes requests.
// The mode field selects the pipeline: "calculate" (default) or "optimize".
func (qr *QuoteRouter) HandleCreateQuote(w http.ResponseWriter, r *http.Request) {
	var req model.QuoteRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	defer r.Body.Close()

	if len(req.Products) == 0 {
		writeJSONError(w, http.StatusBadRequest, "at least one product is required")
		return
	}
	for i := range req.Products {
		if req.Products[i].Description == "" {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("product %d: description is required", i))
			return
		}
	}
	if req.ExportCountry == "" || req.ImportCountry == "" {
		writeJSONError(w, http.StatusBadRequest, "exportCountry and importCountry are required")
		return
	}
	if req.Mode == "" {
		req.Mode = model.ModeCalculate
	}

	// Reference data is loaded once per request cycle; the pipelines only
	// read the snapshot.
	lookup, err := qr.cs.LoadLookup(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load catalogue", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to load catalogue")
		return
	}

	switch req.Mode {
	case model.ModeCalculate:
		qr.runCalculate(w, r, &req, lookup)
	case model.ModeOptimize:
		qr.runOptimize(w, r, &req, lookup)
	default:
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown mode: %s", req.Mode))
	}
}

func (qr *QuoteRouter) runCalculate(w http.ResponseWriter, r *http.Request, req *model.QuoteRequestDTO, lookup *catalogue.Lookup) {
	quoteID := uuid.New()

	results, raw, err := qr.qs.Calculate(r.Context(), req, lookup)
	if err != nil {
		if errors.Is(err, valuation.ErrServiceUnavailable) {
			writeJSONError(w, http.StatusBadGateway, "valuation service unavailable")
			return
		}
		if errors.Is(err, valuation.ErrMalformedResponse) {
			writeJSONError(w, http.StatusBadGateway, "valuation service returned an unexpected response")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("calculate failed: %v", err))
		return
	}

	resp := model.CalculateResponseDTO{
		QuoteID:     quoteID.String(),
		Results:     results,
		Diagnostics: raw,
	}
	resp.ArchiveURL = qr.archiveRaw(r, quoteID, raw)

	writeJSONResponse(w, http.StatusOK, resp)
}

func (qr *QuoteRouter) runOptimize(w http.ResponseWriter, r *http.Request, req *model.QuoteRequestDTO, lookup *catalogue.Lookup) {
	quoteID := uuid.New()

	results, debug, err := qr.qs.Optimize(r.Context(), req, lookup)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("optimize failed: %v", err))
		return
	}

	resp := model.OptimizeResponseDTO{
		QuoteID:     quoteID.String(),
		Results:     results,
		Diagnostics: debug,
	}
	if raw, err := json.Marshal(debug); err == nil {
		resp.ArchiveURL = qr.archiveRaw(r, quoteID, raw)
	}

	writeJSONResponse(w, http.StatusOK, resp)
}

// archiveRaw stores the diagnostics payload; archiving is best-effort and
// never fails the quote itself.
func (qr *QuoteRouter) archiveRaw(r *http.Request, quoteID uuid.UUID, raw []byte) string {
	if qr.as == nil || len(raw) == 0 {
		return ""
	}
	record, err := qr.as.StoreRaw(r.Context(), quoteID, raw)
	if err != nil {
		slog.WarnContext(r.Context(), "failed to archive diagnostics", "quote_id", quoteID, "error", err)
		return ""
	}
	return record.URL
}

// HandleGetRawQuote handles GET /api/quotes/{quoteID}/raw requests, streaming
// back the archived diagnostics payload.
func (qr *QuoteRouter) HandleGetRawQuote(w http.ResponseWriter, r *http.Request) {
	if qr.as == nil {
		writeJSONError(w, http.StatusNotFound, "diagnostics archiving is not enabled")
		return
	}

	quoteIDStr := r.PathValue("quoteID")
	if quoteIDStr == "" {
		writeJSONError(w, http.StatusBadRequest, "missing quoteID in path")
		return
	}

	quoteID, err := uuid.Parse(quoteIDStr)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid quoteID: %v", err))
		return
	}

	reader, contentType, err := qr.as.Fetch(r.Context(), quoteID)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "diagnostics not found")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, reader)
}

// HandleGetCatalogue handles GET /api/catalogue requests.
// Optional query filters: offset, limit, descriptionStartsWith
func (qr *QuoteRouter) HandleGetCatalogue(w http.ResponseWriter, r *http.Request) {
	var filter catalogue.EntryFilter

	if prefix := r.URL.Query().Get("descriptionStartsWith"); prefix != "" {
		filter.DescriptionStartsWith = &prefix
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid 'limit' query parameter, must be an integer")
			return
		}
		filter.Limit = &limit
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid 'offset' query parameter, must be an integer")
			return
		}
		filter.Offset = &offset
	}

	entries, err := qr.cs.List(r.Context(), filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list catalogue: %v", err))
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
