package compounds

import (
	"strings"

	"peptide-tracker/internal/schedule"
)

func hours(h float64) *float64 { return &h }

// builtin is the library seeded on first start. Half-lives are rough
// literature figures; nil where nothing usable is published.
var builtin = []Compound{
	{Slug: "semaglutide", Name: "Semaglutide", Tags: []string{"weight_loss", "glp1"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 0.25, TypicalDoseMax: 2.4, DoseUnit: "mg", HalfLifeHours: hours(168)},
	{Slug: "tirzepatide", Name: "Tirzepatide", Tags: []string{"weight_loss", "glp1"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 2.5, TypicalDoseMax: 15, DoseUnit: "mg", HalfLifeHours: hours(120)},
	{Slug: "retatrutide", Name: "Retatrutide", Tags: []string{"weight_loss", "glp1"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 1, TypicalDoseMax: 12, DoseUnit: "mg", HalfLifeHours: hours(144)},
	{Slug: "liraglutide", Name: "Liraglutide", Tags: []string{"weight_loss", "glp1"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 0.6, TypicalDoseMax: 3, DoseUnit: "mg", HalfLifeHours: hours(13)},
	{Slug: "cagrilintide", Name: "Cagrilintide", Tags: []string{"weight_loss"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 0.3, TypicalDoseMax: 2.4, DoseUnit: "mg", HalfLifeHours: hours(168)},
	{Slug: "bpc-157", Name: "BPC-157", Tags: []string{"healing"}, Routes: []string{"subcutaneous", "oral"}, TypicalDoseMin: 250, TypicalDoseMax: 500, DoseUnit: "mcg", HalfLifeHours: hours(4)},
	{Slug: "tb-500", Name: "TB-500", Tags: []string{"healing"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 2, TypicalDoseMax: 5, DoseUnit: "mg"},
	{Slug: "ghk-cu", Name: "GHK-Cu", Tags: []string{"healing", "skin"}, Routes: []string{"subcutaneous", "topical"}, TypicalDoseMin: 1, TypicalDoseMax: 2, DoseUnit: "mg"},
	{Slug: "kpv", Name: "KPV", Tags: []string{"healing"}, Routes: []string{"subcutaneous", "oral"}, TypicalDoseMin: 200, TypicalDoseMax: 500, DoseUnit: "mcg"},
	{Slug: "ipamorelin", Name: "Ipamorelin", Tags: []string{"growth_hormone"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 100, TypicalDoseMax: 300, DoseUnit: "mcg", HalfLifeHours: hours(2)},
	{Slug: "cjc-1295-no-dac", Name: "CJC-1295 no DAC", Tags: []string{"growth_hormone"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 100, TypicalDoseMax: 300, DoseUnit: "mcg", HalfLifeHours: hours(0.5)},
	{Slug: "cjc-1295-dac", Name: "CJC-1295 DAC", Tags: []string{"growth_hormone"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 1, TypicalDoseMax: 2, DoseUnit: "mg", HalfLifeHours: hours(168)},
	{Slug: "sermorelin", Name: "Sermorelin", Tags: []string{"growth_hormone"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 200, TypicalDoseMax: 500, DoseUnit: "mcg", HalfLifeHours: hours(0.2)},
	{Slug: "tesamorelin", Name: "Tesamorelin", Tags: []string{"growth_hormone"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 1, TypicalDoseMax: 2, DoseUnit: "mg", HalfLifeHours: hours(0.5)},
	{Slug: "semax", Name: "Semax", Tags: []string{"cognitive"}, Routes: []string{"nasal"}, TypicalDoseMin: 200, TypicalDoseMax: 900, DoseUnit: "mcg"},
	{Slug: "selank", Name: "Selank", Tags: []string{"cognitive"}, Routes: []string{"nasal"}, TypicalDoseMin: 250, TypicalDoseMax: 750, DoseUnit: "mcg"},
	{Slug: "mots-c", Name: "MOTS-c", Tags: []string{"metabolic"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 5, TypicalDoseMax: 10, DoseUnit: "mg"},
	{Slug: "aod-9604", Name: "AOD-9604", Tags: []string{"metabolic", "weight_loss"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 250, TypicalDoseMax: 500, DoseUnit: "mcg"},
	{Slug: "epitalon", Name: "Epitalon", Tags: []string{"longevity"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 5, TypicalDoseMax: 10, DoseUnit: "mg"},
	{Slug: "thymosin-alpha-1", Name: "Thymosin Alpha 1", Tags: []string{"immune"}, Routes: []string{"subcutaneous"}, TypicalDoseMin: 1, TypicalDoseMax: 1.6, DoseUnit: "mg", HalfLifeHours: hours(2)},
	{Slug: "pt-141", Name: "PT-141", Tags: []string{"sexual_health"}, Routes: []string{"subcutaneous", "nasal"}, TypicalDoseMin: 0.5, TypicalDoseMax: 2, DoseUnit: "mg", HalfLifeHours: hours(2.7)},
}

// defaultFrequencies maps lowercase names and common aliases (including the
// Spanish spellings users type) to a starting frequency for new protocol items.
var defaultFrequencies = map[string]schedule.FrequencyKind{
	"retatrutide": schedule.FrequencyWeekly, "retatrutida": schedule.FrequencyWeekly,
	"tirzepatide": schedule.FrequencyWeekly, "tirzepatida": schedule.FrequencyWeekly,
	"semaglutide": schedule.FrequencyWeekly, "semaglutida": schedule.FrequencyWeekly,
	"liraglutide": schedule.FrequencyDaily, "liraglutida": schedule.FrequencyDaily,
	"dulaglutide": schedule.FrequencyWeekly, "dulaglutida": schedule.FrequencyWeekly,
	"cagrilintide": schedule.FrequencyWeekly, "cagrilintida": schedule.FrequencyWeekly,
	"mazdutide": schedule.FrequencyWeekly, "survodutide": schedule.FrequencyWeekly,

	"bpc-157": schedule.FrequencyDaily,
	"tb-500":  schedule.FrequencyDaily,
	"kpv":     schedule.FrequencyDaily,
	"ghk-cu":  schedule.FrequencyDaily,

	"ipamorelin":      schedule.FrequencyDaily,
	"cjc-1295 no dac": schedule.FrequencyDaily,
	"cjc-1295 dac":    schedule.FrequencyWeekly,
	"sermorelin":      schedule.FrequencyDaily,
	"tesamorelin":     schedule.FrequencyDaily,
	"mk-677":          schedule.FrequencyDaily,

	"semax":  schedule.FrequencyDaily,
	"selank": schedule.FrequencyDaily,

	"mots-c":   schedule.FrequencyThreeTimesWeekly,
	"aod-9604": schedule.FrequencyDaily,

	"epitalon":         schedule.FrequencyDaily,
	"thymosin alpha 1": schedule.FrequencyEveryOtherDay,
	"foxo4-dri":        schedule.FrequencyEveryOtherDay,

	"pt-141":      schedule.FrequencyDaily,
	"melanotan 2": schedule.FrequencyDaily,
	"ace-031":     schedule.FrequencyWeekly,
}

// DefaultFrequency looks name up by exact match, then by prefix so that
// "Semaglutide 2.4" still resolves. Unknown names start daily.
func DefaultFrequency(name string) schedule.FrequencyKind {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return schedule.FrequencyDaily
	}
	if f, ok := defaultFrequencies[key]; ok {
		return f
	}
	if f, ok := defaultFrequencies[strings.ReplaceAll(key, "-", " ")]; ok {
		return f
	}

	best := ""
	for k := range defaultFrequencies {
		if strings.HasPrefix(key, k) && len(k) > len(best) {
			best = k
		}
	}
	if best != "" {
		return defaultFrequencies[best]
	}
	return schedule.FrequencyDaily
}

// Builtin returns a copy of the seed catalog.
func Builtin() []Compound {
	out := make([]Compound, len(builtin))
	copy(out, builtin)
	return out
}
