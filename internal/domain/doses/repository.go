package doses

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, d Dose) error
	GetByID(ctx context.Context, id string) (Dose, error)
	// ListByUser returns doses newest first. Limit 0 means no limit.
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Dose, error)
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	CompoundID string
	From       *time.Time
	To         *time.Time
	Limit      int
}
