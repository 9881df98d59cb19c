package protocols

import "context"

type Repository interface {
	Create(ctx context.Context, p Protocol) error
	GetByID(ctx context.Context, id string) (Protocol, error)
	// ListByUser returns protocols newest first, items included.
	ListByUser(ctx context.Context, userID string) ([]Protocol, error)
	// ListActive returns every active protocol across users.
	ListActive(ctx context.Context) ([]Protocol, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}
