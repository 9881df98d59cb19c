package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"peptide-tracker/internal/domain/doses"
)

type DosesRepo struct {
	db *DB
}

func NewDosesRepo(db *DB) *DosesRepo {
	return &DosesRepo{db: db}
}

const doseColumns = `
	id, user_id, compound_id, protocol_item_id,
	logged_at, amount, unit,
	route, injection_site, lot_number, provider, notes,
	created_at`

func (r *DosesRepo) Create(ctx context.Context, d doses.Dose) error {
	_, err := r.db.exec(ctx, `
		INSERT INTO dose_events (`+doseColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		d.ID,
		d.UserID,
		d.CompoundID,
		d.ProtocolItemID,
		r.db.t(d.LoggedAt),
		d.Amount,
		d.Unit,
		d.Route,
		d.InjectionSite,
		d.LotNumber,
		d.Provider,
		d.Notes,
		r.db.t(d.CreatedAt),
	)
	return err
}

func (r *DosesRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	row := r.db.queryRow(ctx, `SELECT `+doseColumns+` FROM dose_events WHERE id = ?`, id)
	d, err := scanDose(row)
	if errors.Is(err, sql.ErrNoRows) {
		return doses.Dose{}, doses.ErrNotFound
	}
	return d, err
}

func (r *DosesRepo) ListByUser(ctx context.Context, userID string, filter doses.ListFilter) ([]doses.Dose, error) {
	q := `SELECT ` + doseColumns + ` FROM dose_events WHERE user_id = ?`
	args := []any{userID}
	if filter.CompoundID != "" {
		q += ` AND compound_id = ?`
		args = append(args, filter.CompoundID)
	}
	if filter.From != nil {
		q += ` AND logged_at >= ?`
		args = append(args, r.db.t(*filter.From))
	}
	if filter.To != nil {
		q += ` AND logged_at <= ?`
		args = append(args, r.db.t(*filter.To))
	}
	// ULIDs break ties in creation order
	q += ` ORDER BY logged_at DESC, id DESC`
	if filter.Limit > 0 {
		q += ` LIMIT ` + strconv.Itoa(filter.Limit)
	}

	rows, err := r.db.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]doses.Dose, 0)
	for rows.Next() {
		d, err := scanDose(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DosesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.exec(ctx, `DELETE FROM dose_events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return doses.ErrNotFound
	}
	return nil
}

func scanDose(s scanner) (doses.Dose, error) {
	var d doses.Dose
	err := s.Scan(
		&d.ID,
		&d.UserID,
		&d.CompoundID,
		&d.ProtocolItemID,
		dbTime{&d.LoggedAt},
		&d.Amount,
		&d.Unit,
		&d.Route,
		&d.InjectionSite,
		&d.LotNumber,
		&d.Provider,
		&d.Notes,
		dbTime{&d.CreatedAt},
	)
	return d, err
}
