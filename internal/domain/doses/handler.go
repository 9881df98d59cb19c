package doses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"peptide-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/doses", func(dr chi.Router) {
		dr.Post("/", logDoseHandler(svc))
		dr.Get("/", listDosesHandler(svc))
		dr.Get("/export.csv", exportDosesHandler(svc))
		dr.Get("/{doseID}", getDoseHandler(svc))
		dr.Delete("/{doseID}", deleteDoseHandler(svc))
	})
}

type logDoseRequest struct {
	CompoundID     string  `json:"compound_id"`
	ProtocolItemID string  `json:"protocol_item_id"`
	LoggedAt       string  `json:"logged_at"` // RFC3339
	Amount         float64 `json:"amount"`
	Unit           string  `json:"unit"`
	Route          string  `json:"route"`
	InjectionSite  string  `json:"injection_site"`
	LotNumber      string  `json:"lot_number"`
	Provider       string  `json:"provider"`
	Notes          string  `json:"notes"`
}

type doseResponse struct {
	ID             string    `json:"id"`
	CompoundID     string    `json:"compound_id"`
	ProtocolItemID string    `json:"protocol_item_id,omitempty"`
	LoggedAt       time.Time `json:"logged_at"`
	Amount         float64   `json:"amount"`
	Unit           string    `json:"unit"`
	Route          string    `json:"route,omitempty"`
	InjectionSite  string    `json:"injection_site,omitempty"`
	LotNumber      string    `json:"lot_number,omitempty"`
	Provider       string    `json:"provider,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// logDoseHandler godoc
// @Summary Log a dose
// @Description Records one administration for the caller. Amount must be a positive number and the compound must exist. Auth: `X-Debug-User-ID` (dev) or `Authorization: Bearer <token>`.
// @Tags doses
// @Accept json
// @Produce json
// @Param body body logDoseRequest true "Dose"
// @Success 201 {object} doseResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /me/doses [post]
func logDoseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req logDoseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		at, err := time.Parse(time.RFC3339, strings.TrimSpace(req.LoggedAt))
		if err != nil {
			http.Error(w, "logged_at must be RFC3339", http.StatusBadRequest)
			return
		}

		d, err := svc.Log(r.Context(), userID, LogInput{
			CompoundID:     req.CompoundID,
			ProtocolItemID: req.ProtocolItemID,
			LoggedAt:       at,
			Amount:         req.Amount,
			Unit:           req.Unit,
			Route:          req.Route,
			InjectionSite:  req.InjectionSite,
			LotNumber:      req.LotNumber,
			Provider:       req.Provider,
			Notes:          req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toDoseResponse(d))
	}
}

// listDosesHandler godoc
// @Summary List my doses
// @Tags doses
// @Produce json
// @Param limit query int false "1-200, default 50"
// @Param compound query string false "Compound id"
// @Param from query string false "Minimum logged_at (RFC3339)"
// @Param to query string false "Maximum logged_at (RFC3339)"
// @Success 200 {array} doseResponse
// @Failure 400 {string} string "invalid filter"
// @Failure 401 {string} string "unauthorized"
// @Router /me/doses [get]
func listDosesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), userID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]doseResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDoseResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getDoseHandler godoc
// @Summary Get one of my doses
// @Tags doses
// @Produce json
// @Param doseID path string true "Dose id"
// @Success 200 {object} doseResponse
// @Failure 404 {string} string "dose not found"
// @Router /me/doses/{doseID} [get]
func getDoseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		d, err := svc.Get(r.Context(), userID, chi.URLParam(r, "doseID"))
		if err != nil {
			writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponse(d))
	}
}

// deleteDoseHandler godoc
// @Summary Delete one of my doses
// @Tags doses
// @Param doseID path string true "Dose id"
// @Success 204
// @Failure 404 {string} string "dose not found"
// @Router /me/doses/{doseID} [delete]
func deleteDoseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), userID, chi.URLParam(r, "doseID")); err != nil {
			writeLookupError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// exportDosesHandler godoc
// @Summary Export my dose history as CSV
// @Tags doses
// @Produce text/csv
// @Param tz query string false "IANA time zone for the date/time columns, default UTC"
// @Success 200 {string} string "csv"
// @Failure 400 {string} string "unknown tz"
// @Router /me/doses/export.csv [get]
func exportDosesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		loc := time.UTC
		if v := strings.TrimSpace(r.URL.Query().Get("tz")); v != "" {
			l, err := time.LoadLocation(v)
			if err != nil {
				http.Error(w, "unknown tz", http.StatusBadRequest)
				return
			}
			loc = l
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="dose-history.csv"`)
		// headers are already sent when this fails; the body is just cut short
		_ = svc.ExportCSV(r.Context(), userID, w, loc)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{Limit: DefaultListLimit}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxListLimit {
			filter.Limit = n
		}
	}
	filter.CompoundID = strings.TrimSpace(q.Get("compound"))

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}
	return filter, nil
}

func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput):
		http.Error(w, "dose not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toDoseResponse(d Dose) doseResponse {
	return doseResponse{
		ID:             d.ID,
		CompoundID:     d.CompoundID,
		ProtocolItemID: d.ProtocolItemID,
		LoggedAt:       d.LoggedAt,
		Amount:         d.Amount,
		Unit:           d.Unit,
		Route:          d.Route,
		InjectionSite:  d.InjectionSite,
		LotNumber:      d.LotNumber,
		Provider:       d.Provider,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
