package wellness

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
	r.Route("/me/wellness", func(wr chi.Router) {
		wr.Get("/", listEntriesHandler(svc))
		wr.Get("/stats", statsHandler(svc))
		wr.Put("/{date}", upsertEntryHandler(svc))
	})
}

type upsertEntryRequest struct {
	SleepQuality *int     `json:"sleep_quality"`
	EnergyLevel  *int     `json:"energy_level"`
	Mood         *int     `json:"mood"`
	WeightKg     *float64 `json:"weight_kg"`
	SideEffects  []string `json:"side_effects"`
	Notes        string   `json:"notes"`
}

type entryResponse struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	SleepQuality *int      `json:"sleep_quality"`
	EnergyLevel  *int      `json:"energy_level"`
	Mood         *int      `json:"mood"`
	WeightKg     *float64  `json:"weight_kg"`
	SideEffects  []string  `json:"side_effects"`
	Notes        string    `json:"notes,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type statsResponse struct {
	Range         Range   `json:"range"`
	StartWeight   float64 `json:"start_weight"`
	CurrentWeight float64 `json:"current_weight"`
	TotalChange   float64 `json:"total_change"`
	PercentChange float64 `json:"percent_change"`
	WeeklyAverage float64 `json:"weekly_average"`
	Samples       int     `json:"samples"`
}

// upsertEntryHandler godoc
// @Summary Write the wellness entry for a day
// @Description Replaces the caller's entry for `date`. Scores are 1-10 and optional.
// @Tags wellness
// @Accept json
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Param body body upsertEntryRequest true "Entry"
// @Success 200 {object} entryResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /me/wellness/{date} [put]
func upsertEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		date, err := time.Parse(DateLayout, chi.URLParam(r, "date"))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		var req upsertEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.Upsert(r.Context(), userID, date, UpsertInput{
			SleepQuality: req.SleepQuality,
			EnergyLevel:  req.EnergyLevel,
			Mood:         req.Mood,
			WeightKg:     req.WeightKg,
			SideEffects:  req.SideEffects,
			Notes:        req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toEntryResponse(e))
	}
}

// listEntriesHandler godoc
// @Summary List my wellness entries
// @Tags wellness
// @Produce json
// @Param range query string false "1M, 3M (default), 6M or ALL"
// @Success 200 {array} entryResponse
// @Failure 400 {string} string "invalid range"
// @Router /me/wellness [get]
func listEntriesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rng, err := ParseRange(r.URL.Query().Get("range"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), userID, rng)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// statsHandler godoc
// @Summary Weight progress over a range
// @Tags wellness
// @Produce json
// @Param range query string false "1M, 3M (default), 6M or ALL"
// @Param start_weight query number false "Baseline weight in kg; defaults to the first weigh-in in range"
// @Success 200 {object} statsResponse
// @Success 204 "no weigh-ins in range"
// @Failure 400 {string} string "invalid range"
// @Router /me/wellness/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rng, err := ParseRange(r.URL.Query().Get("range"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var start *float64
		if v := strings.TrimSpace(r.URL.Query().Get("start_weight")); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				http.Error(w, "start_weight must be a number", http.StatusBadRequest)
				return
			}
			start = &f
		}

		st, ok, err := svc.Stats(r.Context(), userID, rng, start)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, statsResponse{
			Range:         rng,
			StartWeight:   st.StartWeight,
			CurrentWeight: st.CurrentWeight,
			TotalChange:   st.TotalChange,
			PercentChange: st.PercentChange,
			WeeklyAverage: st.WeeklyAverage,
			Samples:       st.Samples,
		})
	}
}

func toEntryResponse(e Entry) entryResponse {
	se := e.SideEffects
	if se == nil {
		se = []string{}
	}
	return entryResponse{
		ID:           e.ID,
		Date:         e.Date.Format(DateLayout),
		SleepQuality: e.SleepQuality,
		EnergyLevel:  e.EnergyLevel,
		Mood:         e.Mood,
		WeightKg:     e.WeightKg,
		SideEffects:  se,
		Notes:        e.Notes,
		UpdatedAt:    e.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
