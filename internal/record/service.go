package record

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"iffidb/internal/audit"
	"iffidb/internal/store"
)

// Delays configures the artificial latency applied to service calls to
// mirror a remote backend. Zero values disable the latency, which is what
// tests inject.
type Delays struct {
	Read   time.Duration
	Mutate time.Duration
}

// DefaultDelays are the documented latency constants.
var DefaultDelays = Delays{
	Read:   100 * time.Millisecond,
	Mutate: 300 * time.Millisecond,
}

// Service exposes the record operations. All methods honor context
// cancellation during their simulated latency.
type Service struct {
	store    *store.Store
	audit    *audit.Log
	notifier *store.Notifier
	saver    Saver
	delays   Delays
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithDelays overrides the artificial latency constants.
func WithDelays(d Delays) Option {
	return func(s *Service) { s.delays = d }
}

// WithSaver overrides how CSV exports are delivered.
func WithSaver(saver Saver) Option {
	return func(s *Service) { s.saver = saver }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a Service over the given store, audit log, and notifier.
func NewService(st *store.Store, log *audit.Log, notifier *store.Notifier, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:    st,
		audit:    log,
		notifier: notifier,
		saver:    DirSaver{Dir: "exports"},
		delays:   DefaultDelays,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all records, most recently created first.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	if err := sleepCtx(ctx, s.delays.Read); err != nil {
		return nil, err
	}
	var records []Record
	if _, err := s.store.Read(store.KeyRecords, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Create validates the fields, assigns a fresh id and creation timestamp,
// inserts the record at the head of the collection, writes a CREATE audit
// entry, and publishes a change.
func (s *Service) Create(ctx context.Context, f Fields) (Record, error) {
	if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Email) == "" {
		return Record{}, &ValidationError{Reason: "Name and Email are required."}
	}
	if err := sleepCtx(ctx, s.delays.Mutate); err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:      uuid.NewString(),
		Name:    f.Name,
		Email:   f.Email,
		Phone:   orSentinel(f.Phone),
		Address: orSentinel(f.Address),
	}

	err := s.store.Locked(func() error {
		var records []Record
		if _, err := s.store.Read(store.KeyRecords, &records); err != nil {
			return err
		}
		// Timestamp inside the lock so CreatedAt is non-decreasing in
		// insertion order even under concurrent creates.
		rec.CreatedAt = s.now().UnixMilli()
		records = append([]Record{rec}, records...)
		return s.store.Write(store.KeyRecords, records)
	})
	if err != nil {
		return Record{}, fmt.Errorf("failed to persist record: %w", err)
	}

	s.logger.Debug("Record created", zap.String("id", rec.ID), zap.String("name", rec.Name))
	s.audit.Append(audit.ActionCreate, fmt.Sprintf("Created record: %s", rec.Name))
	s.notifier.Publish()
	return rec, nil
}

// Update merges the partial over the record with the given id, writes an
// UPDATE audit entry, publishes, and returns the merged record.
func (s *Service) Update(ctx context.Context, id string, p Partial) (Record, error) {
	if err := sleepCtx(ctx, s.delays.Mutate); err != nil {
		return Record{}, err
	}

	var updated Record
	found := false
	err := s.store.Locked(func() error {
		var records []Record
		if _, err := s.store.Read(store.KeyRecords, &records); err != nil {
			return err
		}
		for i := range records {
			if records[i].ID != id {
				continue
			}
			p.apply(&records[i])
			updated = records[i]
			found = true
			return s.store.Write(store.KeyRecords, records)
		}
		return nil
	})
	if err != nil {
		return Record{}, fmt.Errorf("failed to persist record: %w", err)
	}
	if !found {
		s.audit.Append(audit.ActionError, fmt.Sprintf("Update failed: Record %s not found.", id))
		return Record{}, &NotFoundError{ID: id}
	}

	s.audit.Append(audit.ActionUpdate, fmt.Sprintf("Updated record: %s", updated.Name))
	s.notifier.Publish()
	return updated, nil
}

// Delete permanently removes the record with the given id, writes a DELETE
// audit entry naming the removed record, and publishes.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := sleepCtx(ctx, s.delays.Mutate); err != nil {
		return err
	}

	name := ""
	found := false
	err := s.store.Locked(func() error {
		var records []Record
		if _, err := s.store.Read(store.KeyRecords, &records); err != nil {
			return err
		}
		for i := range records {
			if records[i].ID != id {
				continue
			}
			name = records[i].Name
			found = true
			records = append(records[:i], records[i+1:]...)
			return s.store.Write(store.KeyRecords, records)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist record removal: %w", err)
	}
	if !found {
		s.audit.Append(audit.ActionError, fmt.Sprintf("Delete failed: Record %s not found.", id))
		return &NotFoundError{ID: id}
	}

	if name == "" {
		name = id
	}
	s.audit.Append(audit.ActionDelete, fmt.Sprintf("Deleted record: %s", name))
	s.notifier.Publish()
	return nil
}

// Stats computes the dashboard figures. DeletedCount is a placeholder drawn
// from [5, 25) per read, not a tracked quantity.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var records []Record
	if _, err := s.store.Read(store.KeyRecords, &records); err != nil {
		return Stats{}, err
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).UnixMilli()

	newToday := 0
	for _, r := range records {
		if r.CreatedAt >= midnight {
			newToday++
		}
	}

	last := records
	if len(last) > 5 {
		last = last[:5]
	}

	return Stats{
		TotalRecords: len(records),
		NewToday:     newToday,
		DeletedCount: rand.Intn(20) + 5,
		LastAdded:    last,
	}, nil
}

func orSentinel(v string) string {
	if strings.TrimSpace(v) == "" {
		return SentinelNA
	}
	return v
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
