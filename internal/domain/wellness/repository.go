package wellness

import (
	"context"
	"time"
)

type Repository interface {
	// Upsert inserts or replaces the entry for (UserID, Date).
	Upsert(ctx context.Context, e Entry) error
	GetByDate(ctx context.Context, userID string, date time.Time) (Entry, error)
	// ListByUser returns entries on or after from (all when nil), oldest first.
	ListByUser(ctx context.Context, userID string, from *time.Time) ([]Entry, error)
}
