package render

import (
	"bytes"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peptide-tracker/internal/domain/insights"
	"peptide-tracker/internal/kinetics"
)

func TestChart_EncodesPNG(t *testing.T) {
	now := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	res := kinetics.ShortTerm().Simulate([]kinetics.Dose{
		{CompoundID: "bpc", At: now.Add(-4 * time.Hour), Amount: 250},
	}, kinetics.ShortTermWindow(now))

	r := NewPNG(Options{ChartWidth: 400, ChartHeight: 200})
	var buf bytes.Buffer
	require.NoError(t, r.Chart(&buf, insights.Chart{
		Title: "levels",
		Start: res.Window.Start,
		End:   res.Window.End,
		Now:   now,
		Max:   res.Max,
		Series: []insights.Series{
			{Label: "BPC-157", Points: res.PerCompound["bpc"], Peak: res.Peaks["bpc"]},
		},
	}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestChart_EmptyAndDegenerate(t *testing.T) {
	now := time.Now()
	r := NewPNG(Options{})
	var buf bytes.Buffer
	require.NoError(t, r.Chart(&buf, insights.Chart{Start: now, End: now, Max: math.NaN()}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions().ChartWidth, img.Bounds().Dx())
}

func TestGauge_EncodesPNG(t *testing.T) {
	r := NewPNG(Options{GaugeSize: 200})
	for _, g := range []insights.Gauge{
		{Progress: 0.5, Title: "BPC-157 250mcg", Caption: "24h left"},
		{Progress: 0, Overdue: true, Caption: "overdue by 9d"},
		{Progress: math.NaN()},
	} {
		var buf bytes.Buffer
		require.NoError(t, r.Gauge(&buf, g))
		img, err := png.Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, 200, img.Bounds().Dx())
	}
}
