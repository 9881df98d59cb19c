package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"peptide-tracker/internal/domain/wellness"
)

type WellnessRepo struct {
	db *DB
}

func NewWellnessRepo(db *DB) *WellnessRepo {
	return &WellnessRepo{db: db}
}

const wellnessColumns = `
	id, user_id, entry_date,
	sleep_quality, energy_level, mood, weight_kg,
	side_effects, notes, created_at, updated_at`

// Upsert keys on (user_id, entry_date); id and created_at of an existing row win.
func (r *WellnessRepo) Upsert(ctx context.Context, e wellness.Entry) error {
	_, err := r.db.exec(ctx, `
		INSERT INTO wellness_entries (`+wellnessColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (user_id, entry_date) DO UPDATE SET
			sleep_quality = excluded.sleep_quality,
			energy_level = excluded.energy_level,
			mood = excluded.mood,
			weight_kg = excluded.weight_kg,
			side_effects = excluded.side_effects,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`,
		e.ID,
		e.UserID,
		e.Date.Format(wellness.DateLayout),
		nullInt(e.SleepQuality),
		nullInt(e.EnergyLevel),
		nullInt(e.Mood),
		nullFloat(e.WeightKg),
		encodeStrings(e.SideEffects),
		e.Notes,
		r.db.t(e.CreatedAt),
		r.db.t(e.UpdatedAt),
	)
	return err
}

func (r *WellnessRepo) GetByDate(ctx context.Context, userID string, date time.Time) (wellness.Entry, error) {
	row := r.db.queryRow(ctx, `
		SELECT `+wellnessColumns+`
		FROM wellness_entries
		WHERE user_id = ? AND entry_date = ?
	`, userID, date.Format(wellness.DateLayout))
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return wellness.Entry{}, wellness.ErrNotFound
	}
	return e, err
}

func (r *WellnessRepo) ListByUser(ctx context.Context, userID string, from *time.Time) ([]wellness.Entry, error) {
	q := `SELECT ` + wellnessColumns + ` FROM wellness_entries WHERE user_id = ?`
	args := []any{userID}
	if from != nil {
		// YYYY-MM-DD sorts lexically
		q += ` AND entry_date >= ?`
		args = append(args, from.UTC().Format(wellness.DateLayout))
	}
	q += ` ORDER BY entry_date ASC`

	rows, err := r.db.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]wellness.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(s scanner) (wellness.Entry, error) {
	var (
		e                   wellness.Entry
		date, sideEffects   string
		sleep, energy, mood sql.NullInt64
		weight              sql.NullFloat64
	)
	if err := s.Scan(
		&e.ID,
		&e.UserID,
		&date,
		&sleep,
		&energy,
		&mood,
		&weight,
		&sideEffects,
		&e.Notes,
		dbTime{&e.CreatedAt},
		dbTime{&e.UpdatedAt},
	); err != nil {
		return wellness.Entry{}, err
	}

	d, err := time.Parse(wellness.DateLayout, date)
	if err != nil {
		return wellness.Entry{}, err
	}
	e.Date = d
	if e.SideEffects, err = decodeStrings(sideEffects); err != nil {
		return wellness.Entry{}, err
	}
	e.SleepQuality = intPtr(sleep)
	e.EnergyLevel = intPtr(energy)
	e.Mood = intPtr(mood)
	e.WeightKg = floatPtr(weight)
	return e, nil
}
