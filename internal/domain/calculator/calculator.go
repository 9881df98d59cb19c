// Package calculator converts a reconstituted vial into syringe units.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

type Syringe string

const (
	SyringeU100 Syringe = "u100"
	SyringeU40  Syringe = "u40"
)

type syringeSpec struct {
	unitsPerMl float64
	capacityMl float64
}

var syringes = map[Syringe]syringeSpec{
	SyringeU100: {unitsPerMl: 100, capacityMl: 1},
	SyringeU40:  {unitsPerMl: 40, capacityMl: 2.5},
}

func ParseSyringe(s string) (Syringe, error) {
	v := Syringe(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "")))
	if v == "" {
		return SyringeU100, nil
	}
	if _, ok := syringes[v]; !ok {
		return "", fmt.Errorf("%w: syringe must be u100 or u40", ErrInvalidInput)
	}
	return v, nil
}

type Input struct {
	VialMg     float64
	WaterMl    float64
	DesiredMcg float64
	Syringe    Syringe
}

type Result struct {
	ConcentrationMcgPerMl float64
	MlNeeded              float64
	Units                 float64
	FillPercent           float64 // of the syringe barrel, capped at 100
	CapacityMl            float64
	Overfill              bool
}

// Reconstitute: mcg/ml = vial mg * 1000 / water ml; ml = desired / mcg per ml.
func Reconstitute(in Input) (Result, error) {
	for name, v := range map[string]float64{"vial_mg": in.VialMg, "water_ml": in.WaterMl} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return Result{}, fmt.Errorf("%w: %s must be positive", ErrInvalidInput, name)
		}
	}
	if math.IsNaN(in.DesiredMcg) || math.IsInf(in.DesiredMcg, 0) || in.DesiredMcg < 0 {
		return Result{}, fmt.Errorf("%w: desired_mcg must be >= 0", ErrInvalidInput)
	}
	syr := in.Syringe
	if syr == "" {
		syr = SyringeU100
	}
	sy, ok := syringes[syr]
	if !ok {
		return Result{}, fmt.Errorf("%w: syringe must be u100 or u40", ErrInvalidInput)
	}

	conc := in.VialMg * 1000 / in.WaterMl
	ml := in.DesiredMcg / conc
	fill := ml / sy.capacityMl * 100

	return Result{
		ConcentrationMcgPerMl: conc,
		MlNeeded:              ml,
		Units:                 ml * sy.unitsPerMl,
		FillPercent:           math.Min(fill, 100),
		CapacityMl:            sy.capacityMl,
		Overfill:              fill > 100,
	}, nil
}
