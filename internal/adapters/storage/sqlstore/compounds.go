package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"peptide-tracker/internal/domain/compounds"
	"peptide-tracker/internal/schedule"
)

type CompoundsRepo struct {
	db *DB
}

func NewCompoundsRepo(db *DB) *CompoundsRepo {
	return &CompoundsRepo{db: db}
}

const compoundColumns = `
	id, slug, name, description, routes, tags,
	typical_dose_min, typical_dose_max, dose_unit,
	half_life_hours, default_frequency, created_at`

func (r *CompoundsRepo) Upsert(ctx context.Context, c compounds.Compound) error {
	_, err := r.db.exec(ctx, `
		INSERT INTO compounds (`+compoundColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET
			slug = excluded.slug,
			name = excluded.name,
			description = excluded.description,
			routes = excluded.routes,
			tags = excluded.tags,
			typical_dose_min = excluded.typical_dose_min,
			typical_dose_max = excluded.typical_dose_max,
			dose_unit = excluded.dose_unit,
			half_life_hours = excluded.half_life_hours,
			default_frequency = excluded.default_frequency
	`,
		c.ID,
		c.Slug,
		c.Name,
		c.Description,
		encodeStrings(c.Routes),
		encodeStrings(c.Tags),
		c.TypicalDoseMin,
		c.TypicalDoseMax,
		c.DoseUnit,
		nullFloat(c.HalfLifeHours),
		string(c.DefaultFrequency),
		r.db.t(c.CreatedAt),
	)
	return err
}

func (r *CompoundsRepo) GetByID(ctx context.Context, id string) (compounds.Compound, error) {
	row := r.db.queryRow(ctx, `SELECT `+compoundColumns+` FROM compounds WHERE id = ?`, id)
	c, err := scanCompound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return compounds.Compound{}, compounds.ErrNotFound
	}
	return c, err
}

func (r *CompoundsRepo) GetBySlug(ctx context.Context, slug string) (compounds.Compound, error) {
	row := r.db.queryRow(ctx, `SELECT `+compoundColumns+` FROM compounds WHERE slug = ?`, slug)
	c, err := scanCompound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return compounds.Compound{}, compounds.ErrNotFound
	}
	return c, err
}

func (r *CompoundsRepo) List(ctx context.Context, filter compounds.ListFilter) ([]compounds.Compound, error) {
	q := `SELECT ` + compoundColumns + ` FROM compounds WHERE 1=1`
	var args []any
	if s := strings.ToLower(strings.TrimSpace(filter.Query)); s != "" {
		q += ` AND (LOWER(name) LIKE ? OR slug LIKE ?)`
		like := "%" + s + "%"
		args = append(args, like, like)
	}
	q += ` ORDER BY LOWER(name) ASC`

	rows, err := r.db.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]compounds.Compound, 0)
	for rows.Next() {
		c, err := scanCompound(rows)
		if err != nil {
			return nil, err
		}
		// tags live in a JSON column; filter here rather than per dialect
		if filter.Tag != "" && !containsFold(c.Tags, filter.Tag) {
			continue
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompound(s scanner) (compounds.Compound, error) {
	var (
		c            compounds.Compound
		routes, tags string
		halfLife     sql.NullFloat64
		freq         string
	)
	if err := s.Scan(
		&c.ID,
		&c.Slug,
		&c.Name,
		&c.Description,
		&routes,
		&tags,
		&c.TypicalDoseMin,
		&c.TypicalDoseMax,
		&c.DoseUnit,
		&halfLife,
		&freq,
		dbTime{&c.CreatedAt},
	); err != nil {
		return compounds.Compound{}, err
	}
	var err error
	if c.Routes, err = decodeStrings(routes); err != nil {
		return compounds.Compound{}, err
	}
	if c.Tags, err = decodeStrings(tags); err != nil {
		return compounds.Compound{}, err
	}
	c.HalfLifeHours = floatPtr(halfLife)
	c.DefaultFrequency = schedule.FrequencyKind(freq)
	return c, nil
}

func encodeStrings(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeStrings(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
