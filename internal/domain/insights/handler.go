package insights

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"peptide-tracker/internal/domain/wellness"
	"peptide-tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// plain routes; /me/* subrouters belong to the other modules
	r.Get("/me/levels", levelsHandler(svc))
	r.Get("/me/levels.png", levelsChartHandler(svc))
	r.Get("/me/next-dose", nextDoseHandler(svc))
	r.Get("/me/next-dose.png", nextDoseGaugeHandler(svc))
}

type sampleResponse struct {
	At    time.Time `json:"at"`
	Level float64   `json:"level"`
}

type peakResponse struct {
	Value float64   `json:"value"`
	At    time.Time `json:"at"`
}

type seriesResponse struct {
	CompoundID string           `json:"compound_id"`
	Name       string           `json:"name,omitempty"`
	Unit       string           `json:"unit,omitempty"`
	Visible    bool             `json:"visible"`
	Peak       *peakResponse    `json:"peak,omitempty"`
	Samples    []sampleResponse `json:"samples"`
}

type levelsResponse struct {
	Window string           `json:"window"`
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Steps  int              `json:"steps"`
	Max    float64          `json:"max"`
	Series []seriesResponse `json:"series"`
}

type nextDoseResponse struct {
	CompoundID     string     `json:"compound_id"`
	CompoundName   string     `json:"compound_name,omitempty"`
	DoseAmount     float64    `json:"dose_amount"`
	DoseUnit       string     `json:"dose_unit"`
	Frequency      string     `json:"frequency"`
	NextDueAt      time.Time  `json:"next_due_at"`
	IntervalDays   float64    `json:"interval_days"`
	Progress       float64    `json:"progress"`
	Overdue        bool       `json:"overdue"`
	HasHistory     bool       `json:"has_history"`
	RemainingHours float64    `json:"remaining_hours"`
	ProtocolItemID string     `json:"protocol_item_id"`
	PreferredTime  string     `json:"preferred_time,omitempty"`
	ComputedAt     time.Time  `json:"computed_at"`
	HalfLifeHours  *float64   `json:"half_life_hours,omitempty"`
	LastDoseAt     *time.Time `json:"last_dose_at,omitempty"`
}

func parseLevelsQuery(r *http.Request) (LevelsQuery, error) {
	q := r.URL.Query()
	win, err := ParseWindow(q.Get("window"))
	if err != nil {
		return LevelsQuery{}, err
	}
	rng, err := wellness.ParseRange(q.Get("range"))
	if err != nil {
		return LevelsQuery{}, err
	}
	return LevelsQuery{Window: win, Range: rng, CompoundID: q.Get("compound")}, nil
}

// levelsHandler godoc
// @Summary Estimated concentration curves
// @Description Superposes first-order decay of every logged dose. `short` is now-24h..now+24h (fallback half-life 4h); `long` samples daily over `range` (fallback 24h). Compounds whose peak is negligible are returned with `visible=false`.
// @Tags insights
// @Produce json
// @Param window query string false "short (default) or long"
// @Param range query string false "long window only: 1M, 3M (default), 6M, ALL"
// @Param compound query string false "Only this compound id"
// @Success 200 {object} levelsResponse
// @Failure 400 {string} string "invalid query"
// @Failure 401 {string} string "unauthorized"
// @Router /me/levels [get]
func levelsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q, err := parseLevelsQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		l, err := svc.Levels(r.Context(), userID, q)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toLevelsResponse(l))
	}
}

// levelsChartHandler godoc
// @Summary Estimated concentration chart
// @Tags insights
// @Produce png
// @Param window query string false "short (default) or long"
// @Param range query string false "1M, 3M (default), 6M, ALL"
// @Param compound query string false "Only this compound id"
// @Success 200 {file} binary
// @Failure 400 {string} string "invalid query"
// @Router /me/levels.png [get]
func levelsChartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q, err := parseLevelsQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var buf bytes.Buffer
		if err := svc.RenderLevels(r.Context(), userID, q, &buf); err != nil {
			writeRenderError(w, err)
			return
		}
		writePNG(w, buf.Bytes())
	}
}

// nextDoseHandler godoc
// @Summary Next dose of the active protocol
// @Description Uses the first item of the newest active protocol. With no prior dose the dose is due now. A past `next_due_at` with `overdue=true` means the dose was missed.
// @Tags insights
// @Produce json
// @Success 200 {object} nextDoseResponse
// @Success 204 "no active protocol"
// @Failure 401 {string} string "unauthorized"
// @Router /me/next-dose [get]
func nextDoseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		n, ok, err := svc.NextDose(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, toNextDoseResponse(n))
	}
}

// nextDoseGaugeHandler godoc
// @Summary Next dose gauge
// @Tags insights
// @Produce png
// @Success 200 {file} binary
// @Success 204 "no active protocol"
// @Router /me/next-dose.png [get]
func nextDoseGaugeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var buf bytes.Buffer
		ok, err := svc.RenderNextDose(r.Context(), userID, &buf)
		if err != nil {
			writeRenderError(w, err)
			return
		}
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writePNG(w, buf.Bytes())
	}
}

func writeRenderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoRenderer):
		http.Error(w, "charts disabled", http.StatusNotImplemented)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writePNG(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func toLevelsResponse(l Levels) levelsResponse {
	visible := map[string]bool{}
	for _, id := range l.Result.Visible {
		visible[id] = true
	}

	ids := make([]string, 0, len(l.Result.PerCompound))
	for id := range l.Result.PerCompound {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := levelsResponse{
		Window: string(l.Window),
		Start:  l.Result.Window.Start,
		End:    l.Result.Window.End,
		Steps:  l.Result.Window.Steps,
		Max:    l.Result.Max,
		Series: make([]seriesResponse, 0, len(ids)),
	}
	for _, id := range ids {
		sr := seriesResponse{CompoundID: id, Visible: visible[id]}
		if c, ok := l.Compounds[id]; ok {
			sr.Name = c.Name
			sr.Unit = c.DoseUnit
		}
		if p, ok := l.Result.Peaks[id]; ok {
			sr.Peak = &peakResponse{Value: p.Value, At: p.At}
		}
		for _, s := range l.Result.PerCompound[id] {
			sr.Samples = append(sr.Samples, sampleResponse{At: s.At, Level: s.Level})
		}
		out.Series = append(out.Series, sr)
	}
	return out
}

func toNextDoseResponse(n NextDose) nextDoseResponse {
	out := nextDoseResponse{
		CompoundID:     n.Item.CompoundID,
		DoseAmount:     n.Item.DoseAmount,
		DoseUnit:       n.Item.DoseUnit,
		Frequency:      string(n.Item.Frequency),
		NextDueAt:      n.Prediction.NextDueAt,
		IntervalDays:   n.Prediction.IntervalDays,
		Progress:       n.Progress(),
		Overdue:        n.Overdue(),
		HasHistory:     n.Prediction.HasHistory,
		RemainingHours: n.Remaining().Hours(),
		ProtocolItemID: n.Item.ID,
		PreferredTime:  n.Item.PreferredTime,
		ComputedAt:     n.Now,
	}
	if n.Compound != nil {
		out.CompoundName = n.Compound.Name
		out.HalfLifeHours = n.Compound.HalfLifeHours
	}
	if n.Item.CustomName != "" {
		out.CompoundName = n.Item.CustomName
	}
	out.LastDoseAt = n.LastDoseAt
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
