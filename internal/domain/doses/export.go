package doses

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strconv"
	"time"

	"peptide-tracker/internal/domain/compounds"
)

var csvHeader = []string{"date", "time", "compound", "amount", "unit", "route", "site", "lot", "provider", "notes"}

// ExportCSV writes the user's whole history, oldest first, in loc.
func (s *Service) ExportCSV(ctx context.Context, userID string, w io.Writer, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	items, err := s.repo.ListByUser(ctx, userID, ListFilter{})
	if err != nil {
		return err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].LoggedAt.Before(items[j].LoggedAt)
	})

	names := map[string]string{}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, d := range items {
		name, ok := names[d.CompoundID]
		if !ok {
			c, err := s.compounds.GetByID(ctx, d.CompoundID)
			switch {
			case err == nil:
				name = c.Name
			case errors.Is(err, compounds.ErrNotFound):
				name = d.CompoundID
			default:
				return err
			}
			names[d.CompoundID] = name
		}

		at := d.LoggedAt.In(loc)
		if err := cw.Write([]string{
			at.Format("2006-01-02"),
			at.Format("15:04"),
			name,
			strconv.FormatFloat(d.Amount, 'f', -1, 64),
			d.Unit,
			d.Route,
			d.InjectionSite,
			d.LotNumber,
			d.Provider,
			d.Notes,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
