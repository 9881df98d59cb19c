package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"peptide-tracker/internal/domain/wellness"
)

type wellnessRepo struct {
	mu    sync.RWMutex
	byKey map[string]wellness.Entry // user|date
}

func NewWellnessRepo() wellness.Repository {
	return &wellnessRepo{
		byKey: make(map[string]wellness.Entry),
	}
}

func entryKey(userID string, date time.Time) string {
	return userID + "|" + date.UTC().Format(wellness.DateLayout)
}

func (r *wellnessRepo) Upsert(ctx context.Context, e wellness.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.UserID) == "" {
		return errors.New("entry id and user required")
	}
	r.byKey[entryKey(e.UserID, e.Date)] = e
	return nil
}

func (r *wellnessRepo) GetByDate(ctx context.Context, userID string, date time.Time) (wellness.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byKey[entryKey(userID, date)]
	if !ok {
		return wellness.Entry{}, wellness.ErrNotFound
	}
	return e, nil
}

func (r *wellnessRepo) ListByUser(ctx context.Context, userID string, from *time.Time) ([]wellness.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]wellness.Entry, 0)
	for _, e := range r.byKey {
		if e.UserID != userID {
			continue
		}
		if from != nil && e.Date.Before(*from) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}
