package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"peptide-tracker/internal/domain/protocols"
)

type protocolRepo struct {
	mu   sync.RWMutex
	byID map[string]protocols.Protocol
}

func NewProtocolRepo() protocols.Repository {
	return &protocolRepo{
		byID: make(map[string]protocols.Protocol),
	}
}

func (r *protocolRepo) Create(ctx context.Context, p protocols.Protocol) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("protocol id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("protocol already exists")
	}
	r.byID[p.ID] = cloneProtocol(p)
	return nil
}

func (r *protocolRepo) GetByID(ctx context.Context, id string) (protocols.Protocol, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return protocols.Protocol{}, protocols.ErrNotFound
	}
	return cloneProtocol(p), nil
}

func (r *protocolRepo) ListByUser(ctx context.Context, userID string) ([]protocols.Protocol, error) {
	return r.list(func(p protocols.Protocol) bool { return p.UserID == userID }), nil
}

func (r *protocolRepo) ListActive(ctx context.Context) ([]protocols.Protocol, error) {
	return r.list(func(p protocols.Protocol) bool { return p.Active }), nil
}

func (r *protocolRepo) list(keep func(protocols.Protocol) bool) []protocols.Protocol {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]protocols.Protocol, 0)
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, cloneProtocol(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *protocolRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return protocols.ErrNotFound
	}
	p.Active = active
	r.byID[id] = p
	return nil
}

func (r *protocolRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return protocols.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// cloneProtocol keeps callers from mutating stored item slices.
func cloneProtocol(p protocols.Protocol) protocols.Protocol {
	items := make([]protocols.Item, len(p.Items))
	for i, it := range p.Items {
		if it.FrequencyDays != nil {
			it.FrequencyDays = append([]int(nil), it.FrequencyDays...)
		}
		items[i] = it
	}
	p.Items = items
	return p
}
