package sqlstore

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect covers the few places Postgres and SQLite disagree: placeholder
// style and how timestamps are stored.
type Dialect struct {
	Name   string
	driver string

	numbered bool   // $1, $2 ... instead of ?
	timeType string // column type for instants
}

var (
	Postgres = Dialect{Name: "postgres", driver: "pgx", numbered: true, timeType: "TIMESTAMPTZ"}
	SQLite   = Dialect{Name: "sqlite", driver: "sqlite", timeType: "TEXT"}
)

func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "pgx":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("sqlstore: unknown dialect %q", name)
	}
}

// rebind rewrites ? placeholders for numbered dialects. Queries here never
// carry literal question marks.
func (d Dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}
	var sb strings.Builder
	sb.Grow(len(q) + 8)
	n := 1
	for _, r := range q {
		if r == '?' {
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// timeLayout is fixed-width so TEXT columns sort and compare chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func (d Dialect) timeArg(t time.Time) any {
	if d.numbered {
		return t.UTC()
	}
	return t.UTC().Format(timeLayout)
}

// dbTime scans either a native timestamp or its text form.
type dbTime struct{ t *time.Time }

func (s dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*s.t = v.UTC()
		return nil
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("sqlstore: cannot scan %T into time", src)
	}
}

func (s dbTime) parse(v string) error {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		if t, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return fmt.Errorf("sqlstore: bad time %q: %w", v, err)
		}
	}
	*s.t = t.UTC()
	return nil
}

// nullDate stores an optional calendar date as YYYY-MM-DD text.
func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

const dateLayout = "2006-01-02"

func parseNullDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
