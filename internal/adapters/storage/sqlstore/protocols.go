package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"peptide-tracker/internal/domain/protocols"
	"peptide-tracker/internal/schedule"
)

type ProtocolsRepo struct {
	db *DB
}

func NewProtocolsRepo(db *DB) *ProtocolsRepo {
	return &ProtocolsRepo{db: db}
}

const protocolColumns = `
	id, user_id, name, active,
	start_date, end_date, cycle_on_weeks, cycle_off_weeks,
	notes, created_at`

const itemColumns = `
	id, protocol_id, position, compound_id, custom_name,
	dose_amount, dose_unit, route,
	frequency, frequency_days, preferred_time`

// Create writes the protocol and its items in one transaction.
func (r *ProtocolsRepo) Create(ctx context.Context, p protocols.Protocol) error {
	d := r.db.dialect
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, d.rebind(`
			INSERT INTO protocols (`+protocolColumns+`)
			VALUES (?,?,?,?,?,?,?,?,?,?)
		`),
			p.ID,
			p.UserID,
			p.Name,
			p.Active,
			nullDate(p.StartDate),
			nullDate(p.EndDate),
			nullInt(p.CycleOnWeeks),
			nullInt(p.CycleOffWeeks),
			p.Notes,
			d.timeArg(p.CreatedAt),
		); err != nil {
			return err
		}

		for _, it := range p.Items {
			days, err := json.Marshal(it.FrequencyDays)
			if err != nil {
				return err
			}
			if it.FrequencyDays == nil {
				days = []byte("[]")
			}
			if _, err := tx.ExecContext(ctx, d.rebind(`
				INSERT INTO protocol_items (`+itemColumns+`)
				VALUES (?,?,?,?,?,?,?,?,?,?,?)
			`),
				it.ID,
				p.ID,
				it.Position,
				it.CompoundID,
				it.CustomName,
				it.DoseAmount,
				it.DoseUnit,
				it.Route,
				string(it.Frequency),
				string(days),
				it.PreferredTime,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProtocolsRepo) GetByID(ctx context.Context, id string) (protocols.Protocol, error) {
	row := r.db.queryRow(ctx, `SELECT `+protocolColumns+` FROM protocols WHERE id = ?`, id)
	p, err := scanProtocol(row)
	if errors.Is(err, sql.ErrNoRows) {
		return protocols.Protocol{}, protocols.ErrNotFound
	}
	if err != nil {
		return protocols.Protocol{}, err
	}

	list := []protocols.Protocol{p}
	if err := r.attachItems(ctx, list); err != nil {
		return protocols.Protocol{}, err
	}
	return list[0], nil
}

func (r *ProtocolsRepo) ListByUser(ctx context.Context, userID string) ([]protocols.Protocol, error) {
	return r.list(ctx, `WHERE user_id = ?`, userID)
}

func (r *ProtocolsRepo) ListActive(ctx context.Context) ([]protocols.Protocol, error) {
	return r.list(ctx, `WHERE active = ?`, true)
}

func (r *ProtocolsRepo) list(ctx context.Context, where string, args ...any) ([]protocols.Protocol, error) {
	rows, err := r.db.query(ctx, `
		SELECT `+protocolColumns+`
		FROM protocols
		`+where+`
		ORDER BY created_at DESC, id DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]protocols.Protocol, 0)
	for rows.Next() {
		p, err := scanProtocol(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachItems loads items for all protocols with one query.
func (r *ProtocolsRepo) attachItems(ctx context.Context, list []protocols.Protocol) error {
	if len(list) == 0 {
		return nil
	}
	idx := make(map[string]int, len(list))
	marks := make([]string, 0, len(list))
	args := make([]any, 0, len(list))
	for i, p := range list {
		idx[p.ID] = i
		marks = append(marks, "?")
		args = append(args, p.ID)
	}

	rows, err := r.db.query(ctx, `
		SELECT `+itemColumns+`
		FROM protocol_items
		WHERE protocol_id IN (`+strings.Join(marks, ",")+`)
		ORDER BY protocol_id, position ASC
	`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it   protocols.Item
			freq string
			days string
		)
		if err := rows.Scan(
			&it.ID,
			&it.ProtocolID,
			&it.Position,
			&it.CompoundID,
			&it.CustomName,
			&it.DoseAmount,
			&it.DoseUnit,
			&it.Route,
			&freq,
			&days,
			&it.PreferredTime,
		); err != nil {
			return err
		}
		it.Frequency = schedule.FrequencyKind(freq)
		if days != "" && days != "[]" {
			if err := json.Unmarshal([]byte(days), &it.FrequencyDays); err != nil {
				return err
			}
		}
		i := idx[it.ProtocolID]
		list[i].Items = append(list[i].Items, it)
	}
	return rows.Err()
}

func (r *ProtocolsRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.exec(ctx, `UPDATE protocols SET active = ? WHERE id = ?`, active, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return protocols.ErrNotFound
	}
	return nil
}

// Delete removes items explicitly so it does not depend on the
// connection having foreign keys enabled.
func (r *ProtocolsRepo) Delete(ctx context.Context, id string) error {
	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		d := r.db.dialect
		if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM protocol_items WHERE protocol_id = ?`), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM protocols WHERE id = ?`), id)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return protocols.ErrNotFound
		}
		return nil
	})
}

func scanProtocol(s scanner) (protocols.Protocol, error) {
	var (
		p          protocols.Protocol
		start, end sql.NullString
		on, off    sql.NullInt64
	)
	if err := s.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Active,
		&start,
		&end,
		&on,
		&off,
		&p.Notes,
		dbTime{&p.CreatedAt},
	); err != nil {
		return protocols.Protocol{}, err
	}

	var err error
	if p.StartDate, err = parseNullDate(nullString(start)); err != nil {
		return protocols.Protocol{}, err
	}
	if p.EndDate, err = parseNullDate(nullString(end)); err != nil {
		return protocols.Protocol{}, err
	}
	p.CycleOnWeeks = intPtr(on)
	p.CycleOffWeeks = intPtr(off)
	return p, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
