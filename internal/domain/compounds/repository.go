package compounds

import "context"

type Repository interface {
	Upsert(ctx context.Context, c Compound) error
	GetByID(ctx context.Context, id string) (Compound, error)
	GetBySlug(ctx context.Context, slug string) (Compound, error)
	List(ctx context.Context, filter ListFilter) ([]Compound, error)
}

type ListFilter struct {
	Query string // name/slug substring
	Tag   string
}
