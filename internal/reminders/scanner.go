// Package reminders periodically scans active protocols and reports doses
// that are past due. Reports go to the structured log.
package reminders

import (
	"context"
	"sync"
	"time"

	"peptide-tracker/internal/domain/doses"
	"peptide-tracker/internal/domain/protocols"
	"peptide-tracker/internal/platform/logger"
	"peptide-tracker/internal/schedule"
)

type PlanSource interface {
	ListActive(ctx context.Context) ([]protocols.Protocol, error)
}

type DoseSource interface {
	List(ctx context.Context, userID string, filter doses.ListFilter) ([]doses.Dose, error)
}

// Reminder is one overdue plan item.
type Reminder struct {
	UserID     string
	ProtocolID string
	ItemID     string
	CompoundID string
	NextDueAt  time.Time
	Overdue    time.Duration
}

type Scanner struct {
	plans    PlanSource
	doses    DoseSource
	log      logger.Logger
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	notified map[string]time.Time // item id -> due time already reported
}

func NewScanner(plans PlanSource, ds DoseSource, log logger.Logger, interval time.Duration) *Scanner {
	if log == nil {
		log = logger.NewNop()
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scanner{
		plans:    plans,
		doses:    ds,
		log:      log.With(map[string]any{"component": "reminders"}),
		interval: interval,
		now:      time.Now,
		notified: make(map[string]time.Time),
	}
}

// Run scans once immediately and then every interval until ctx is done.
func (s *Scanner) Run(ctx context.Context) error {
	s.log.Info("reminders started", map[string]any{"interval": s.interval.String()})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.Scan(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("reminder scan failed", map[string]any{"err": err})
		}
		select {
		case <-ctx.Done():
			s.log.Info("reminders stopped", nil)
			return nil
		case <-ticker.C:
		}
	}
}

// Scan returns reminders that became overdue since the last scan. An item
// is reported once per due time; logging a dose moves the due time on.
func (s *Scanner) Scan(ctx context.Context) ([]Reminder, error) {
	active, err := s.plans.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]Reminder, 0)
	for _, p := range active {
		for _, it := range p.Items {
			if it.CompoundID == "" {
				continue
			}
			r, ok, err := s.check(ctx, p, it, now)
			if err != nil {
				return out, err
			}
			if !ok || !s.markNew(it.ID, r.NextDueAt) {
				continue
			}
			s.log.Warn("dose overdue", map[string]any{
				"user_id":     r.UserID,
				"protocol_id": r.ProtocolID,
				"item_id":     r.ItemID,
				"compound_id": r.CompoundID,
				"next_due_at": r.NextDueAt.Format(time.RFC3339),
				"overdue_by":  r.Overdue.Round(time.Minute).String(),
			})
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Scanner) check(ctx context.Context, p protocols.Protocol, it protocols.Item, now time.Time) (Reminder, bool, error) {
	latest, err := s.doses.List(ctx, p.UserID, doses.ListFilter{CompoundID: it.CompoundID, Limit: 1})
	if err != nil {
		return Reminder{}, false, err
	}
	events := make([]schedule.Event, 0, len(latest))
	for _, d := range latest {
		events = append(events, schedule.Event{CompoundID: d.CompoundID, At: d.LoggedAt})
	}

	pred := schedule.PredictNext(it.ScheduleItem(), schedule.LastMatching(events, it.CompoundID), now)
	if !pred.Overdue(now) {
		return Reminder{}, false, nil
	}
	return Reminder{
		UserID:     p.UserID,
		ProtocolID: p.ID,
		ItemID:     it.ID,
		CompoundID: it.CompoundID,
		NextDueAt:  pred.NextDueAt,
		Overdue:    now.Sub(pred.NextDueAt),
	}, true, nil
}

func (s *Scanner) markNew(itemID string, due time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.notified[itemID]; ok && prev.Equal(due) {
		return false
	}
	s.notified[itemID] = due
	return true
}
