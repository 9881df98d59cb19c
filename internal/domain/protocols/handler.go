package protocols

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"peptide-tracker/internal/middleware"
	"peptide-tracker/internal/schedule"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/protocols", func(pr chi.Router) {
		pr.Post("/", createProtocolHandler(svc))
		pr.Get("/", listProtocolsHandler(svc))
		pr.Get("/{protocolID}", getProtocolHandler(svc))
		pr.Delete("/{protocolID}", deleteProtocolHandler(svc))
		pr.Post("/{protocolID}/activate", setActiveHandler(svc, true))
		pr.Post("/{protocolID}/deactivate", setActiveHandler(svc, false))
	})
}

type createProtocolRequest struct {
	Name          string              `json:"name"`
	Active        bool                `json:"active"`
	StartDate     string              `json:"start_date"` // YYYY-MM-DD
	EndDate       string              `json:"end_date"`
	CycleOnWeeks  *int                `json:"cycle_on_weeks"`
	CycleOffWeeks *int                `json:"cycle_off_weeks"`
	Notes         string              `json:"notes"`
	Items         []createItemRequest `json:"items"`
}

type createItemRequest struct {
	CompoundID    string  `json:"compound_id"`
	CustomName    string  `json:"custom_name"`
	DoseAmount    float64 `json:"dose_amount"`
	DoseUnit      string  `json:"dose_unit"`
	Route         string  `json:"route"`
	Frequency     string  `json:"frequency"` // daily|eod|3x_week|weekly|custom; empty = compound default
	FrequencyDays []int   `json:"frequency_days"`
	PreferredTime string  `json:"preferred_time"` // HH:MM
}

type protocolResponse struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Active        bool           `json:"active"`
	StartDate     *string        `json:"start_date,omitempty"`
	EndDate       *string        `json:"end_date,omitempty"`
	CycleOnWeeks  *int           `json:"cycle_on_weeks,omitempty"`
	CycleOffWeeks *int           `json:"cycle_off_weeks,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	Items         []itemResponse `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
}

type itemResponse struct {
	ID            string  `json:"id"`
	CompoundID    string  `json:"compound_id"`
	CustomName    string  `json:"custom_name,omitempty"`
	DoseAmount    float64 `json:"dose_amount"`
	DoseUnit      string  `json:"dose_unit"`
	Route         string  `json:"route,omitempty"`
	Frequency     string  `json:"frequency"`
	IntervalDays  float64 `json:"interval_days"`
	FrequencyDays []int   `json:"frequency_days,omitempty"`
	PreferredTime string  `json:"preferred_time,omitempty"`
}

// createProtocolHandler godoc
// @Summary Create a protocol
// @Description Creates a dosing plan with one or more items. Item frequency defaults to the compound's usual frequency; `custom` needs `frequency_days` (0=Sunday..6).
// @Tags protocols
// @Accept json
// @Produce json
// @Param body body createProtocolRequest true "Protocol"
// @Success 201 {object} protocolResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /me/protocols [post]
func createProtocolHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createProtocolRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		start, err := parseDate(req.StartDate)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		end, err := parseDate(req.EndDate)
		if err != nil {
			http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		in := CreateInput{
			Name:          req.Name,
			Active:        req.Active,
			StartDate:     start,
			EndDate:       end,
			CycleOnWeeks:  req.CycleOnWeeks,
			CycleOffWeeks: req.CycleOffWeeks,
			Notes:         req.Notes,
		}
		for _, it := range req.Items {
			in.Items = append(in.Items, ItemInput{
				CompoundID:    it.CompoundID,
				CustomName:    it.CustomName,
				DoseAmount:    it.DoseAmount,
				DoseUnit:      it.DoseUnit,
				Route:         it.Route,
				Frequency:     schedule.FrequencyKind(it.Frequency),
				FrequencyDays: it.FrequencyDays,
				PreferredTime: it.PreferredTime,
			})
		}

		p, err := svc.Create(r.Context(), userID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toProtocolResponse(p))
	}
}

// listProtocolsHandler godoc
// @Summary List my protocols
// @Tags protocols
// @Produce json
// @Success 200 {array} protocolResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/protocols [get]
func listProtocolsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]protocolResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProtocolResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getProtocolHandler godoc
// @Summary Get one of my protocols
// @Tags protocols
// @Produce json
// @Param protocolID path string true "Protocol id"
// @Success 200 {object} protocolResponse
// @Failure 404 {string} string "protocol not found"
// @Router /me/protocols/{protocolID} [get]
func getProtocolHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Get(r.Context(), userID, chi.URLParam(r, "protocolID"))
		if err != nil {
			writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProtocolResponse(p))
	}
}

// deleteProtocolHandler godoc
// @Summary Delete one of my protocols
// @Tags protocols
// @Param protocolID path string true "Protocol id"
// @Success 204
// @Failure 404 {string} string "protocol not found"
// @Router /me/protocols/{protocolID} [delete]
func deleteProtocolHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), userID, chi.URLParam(r, "protocolID")); err != nil {
			writeLookupError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// setActiveHandler godoc
// @Summary Activate or deactivate a protocol
// @Tags protocols
// @Produce json
// @Param protocolID path string true "Protocol id"
// @Success 200 {object} protocolResponse
// @Failure 404 {string} string "protocol not found"
// @Router /me/protocols/{protocolID}/activate [post]
// @Router /me/protocols/{protocolID}/deactivate [post]
func setActiveHandler(svc *Service, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.SetActive(r.Context(), userID, chi.URLParam(r, "protocolID"), active)
		if err != nil {
			writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toProtocolResponse(p))
	}
}

func parseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput):
		http.Error(w, "protocol not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toProtocolResponse(p Protocol) protocolResponse {
	items := make([]itemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, itemResponse{
			ID:            it.ID,
			CompoundID:    it.CompoundID,
			CustomName:    it.CustomName,
			DoseAmount:    it.DoseAmount,
			DoseUnit:      it.DoseUnit,
			Route:         it.Route,
			Frequency:     string(it.Frequency),
			IntervalDays:  schedule.IntervalDays(it.Frequency),
			FrequencyDays: it.FrequencyDays,
			PreferredTime: it.PreferredTime,
		})
	}
	return protocolResponse{
		ID:            p.ID,
		Name:          p.Name,
		Active:        p.Active,
		StartDate:     formatDate(p.StartDate),
		EndDate:       formatDate(p.EndDate),
		CycleOnWeeks:  p.CycleOnWeeks,
		CycleOffWeeks: p.CycleOffWeeks,
		Notes:         p.Notes,
		Items:         items,
		CreatedAt:     p.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
