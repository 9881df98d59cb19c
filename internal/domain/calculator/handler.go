package calculator

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router) {
	r.Post("/calculator/reconstitution", reconstitutionHandler())
}

type reconstitutionRequest struct {
	VialMg     float64 `json:"vial_mg"`
	WaterMl    float64 `json:"water_ml"`
	DesiredMcg float64 `json:"desired_mcg"`
	Syringe    string  `json:"syringe"` // u100 (default) or u40
}

type reconstitutionResponse struct {
	ConcentrationMcgPerMl float64 `json:"concentration_mcg_per_ml"`
	MlNeeded              float64 `json:"ml_needed"`
	Units                 float64 `json:"units"`
	FillPercent           float64 `json:"fill_percent"`
	CapacityMl            float64 `json:"capacity_ml"`
	Overfill              bool    `json:"overfill"`
	Syringe               Syringe `json:"syringe"`
}

// reconstitutionHandler godoc
// @Summary Reconstitution calculator
// @Description Concentration after adding bacteriostatic water, and how much to draw for a dose. No auth required.
// @Tags calculator
// @Accept json
// @Produce json
// @Param body body reconstitutionRequest true "Vial and dose"
// @Success 200 {object} reconstitutionResponse
// @Failure 400 {string} string "invalid input"
// @Router /calculator/reconstitution [post]
func reconstitutionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reconstitutionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		syr, err := ParseSyringe(req.Syringe)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		res, err := Reconstitute(Input{
			VialMg:     req.VialMg,
			WaterMl:    req.WaterMl,
			DesiredMcg: req.DesiredMcg,
			Syringe:    syr,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, reconstitutionResponse{
			ConcentrationMcgPerMl: res.ConcentrationMcgPerMl,
			MlNeeded:              res.MlNeeded,
			Units:                 res.Units,
			FillPercent:           res.FillPercent,
			CapacityMl:            res.CapacityMl,
			Overfill:              res.Overfill,
			Syringe:               syr,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
