package insights

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
)

var ErrNoRenderer = errors.New("no renderer configured")

// ChartFor turns simulated levels into renderer input.
func ChartFor(l Levels) Chart {
	title := "Estimated levels (48h)"
	if l.Window == WindowLong {
		title = "Estimated levels (daily)"
	}
	c := Chart{
		Title: title,
		Start: l.Result.Window.Start,
		End:   l.Result.Window.End,
		Now:   l.Now,
		Max:   l.Result.Max,
	}
	for _, id := range l.Result.Visible {
		label := id
		if comp, ok := l.Compounds[id]; ok {
			label = comp.Name
			if comp.DoseUnit != "" {
				label += " (" + comp.DoseUnit + ")"
			}
		}
		c.Series = append(c.Series, Series{
			Label:  label,
			Points: l.Result.PerCompound[id],
			Peak:   l.Result.Peaks[id],
		})
	}
	return c
}

// GaugeFor describes the next-dose arc.
func GaugeFor(n NextDose) Gauge {
	name := n.Item.CustomName
	if name == "" && n.Compound != nil {
		name = n.Compound.Name
	}
	if name == "" {
		name = n.Item.CompoundID
	}

	caption := "due now"
	switch {
	case n.Overdue():
		caption = "overdue by " + hoursText(n.Now.Sub(n.Prediction.NextDueAt).Hours())
	case n.Prediction.HasHistory:
		caption = hoursText(n.Remaining().Hours()) + " left"
	}

	return Gauge{
		Progress: n.Progress(),
		Overdue:  n.Overdue(),
		Title:    fmt.Sprintf("%s %g%s", name, n.Item.DoseAmount, n.Item.DoseUnit),
		Caption:  caption,
	}
}

func hoursText(h float64) string {
	if h >= 48 {
		return fmt.Sprintf("%.0fd", math.Floor(h/24))
	}
	return fmt.Sprintf("%.0fh", math.Ceil(h))
}

func (s *Service) RenderLevels(ctx context.Context, userID string, q LevelsQuery, w io.Writer) error {
	if s.renderer == nil {
		return ErrNoRenderer
	}
	l, err := s.Levels(ctx, userID, q)
	if err != nil {
		return err
	}
	return s.renderer.Chart(w, ChartFor(l))
}

// RenderNextDose draws the gauge; ok is false when there is no active protocol.
func (s *Service) RenderNextDose(ctx context.Context, userID string, w io.Writer) (bool, error) {
	if s.renderer == nil {
		return false, ErrNoRenderer
	}
	n, ok, err := s.NextDose(ctx, userID)
	if err != nil || !ok {
		return ok, err
	}
	return true, s.renderer.Gauge(w, GaugeFor(n))
}
