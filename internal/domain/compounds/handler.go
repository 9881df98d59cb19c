package compounds

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/compounds", func(cr chi.Router) {
		cr.Get("/", listCompoundsHandler(svc))
		cr.Get("/{compoundID}", getCompoundHandler(svc))
	})
}

// compoundResponse is a library entry.
type compoundResponse struct {
	ID               string   `json:"id"`
	Slug             string   `json:"slug"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Routes           []string `json:"routes"`
	Tags             []string `json:"tags"`
	TypicalDoseMin   float64  `json:"typical_dose_min"`
	TypicalDoseMax   float64  `json:"typical_dose_max"`
	DoseUnit         string   `json:"dose_unit"`
	HalfLifeHours    *float64 `json:"half_life_hours"`
	DefaultFrequency string   `json:"default_frequency"`
}

// listCompoundsHandler godoc
// @Summary List the compound library
// @Tags compounds
// @Produce json
// @Param q query string false "Name or slug substring"
// @Param tag query string false "Tag filter (e.g. healing)"
// @Success 200 {array} compoundResponse
// @Failure 500 {string} string "internal error"
// @Router /compounds [get]
func listCompoundsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), ListFilter{
			Query: r.URL.Query().Get("q"),
			Tag:   r.URL.Query().Get("tag"),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]compoundResponse, 0, len(items))
		for _, c := range items {
			out = append(out, ToResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getCompoundHandler godoc
// @Summary Get one compound by id or slug
// @Tags compounds
// @Produce json
// @Param compoundID path string true "Compound id or slug"
// @Success 200 {object} compoundResponse
// @Failure 404 {string} string "compound not found"
// @Router /compounds/{compoundID} [get]
func getCompoundHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Resolve(r.Context(), chi.URLParam(r, "compoundID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
				http.Error(w, "compound not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(c))
	}
}

// ToResponse is shared with handlers that embed compound info.
func ToResponse(c Compound) compoundResponse {
	routes := c.Routes
	if routes == nil {
		routes = []string{}
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return compoundResponse{
		ID:               c.ID,
		Slug:             c.Slug,
		Name:             c.Name,
		Description:      c.Description,
		Routes:           routes,
		Tags:             tags,
		TypicalDoseMin:   c.TypicalDoseMin,
		TypicalDoseMax:   c.TypicalDoseMax,
		DoseUnit:         c.DoseUnit,
		HalfLifeHours:    c.HalfLifeHours,
		DefaultFrequency: string(c.DefaultFrequency),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
