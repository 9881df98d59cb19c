package doses

import "time"

// Dose is a logged administration. Immutable once created; only deleted.
type Dose struct {
	ID             string // ULID, sorts by creation time
	UserID         string
	CompoundID     string
	ProtocolItemID string // optional

	LoggedAt time.Time
	Amount   float64
	Unit     string

	Route         string
	InjectionSite string
	LotNumber     string
	Provider      string
	Notes         string

	CreatedAt time.Time
}
