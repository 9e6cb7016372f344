// Package audit provides the append-only, capacity-bounded history of
// system events. Every mutating operation and every authentication attempt
// writes here; the console renders it as the log panel.
package audit

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"iffidb/internal/store"
)

// Action tags an entry with the kind of event. The set is closed.
type Action string

const (
	ActionLogin  Action = "LOGIN"
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionError  Action = "ERROR"
	ActionSystem Action = "SYSTEM"
)

// MaxEntries bounds the persisted log collection. Insertion is always at
// the head; the oldest entries are evicted once the cap is exceeded.
const MaxEntries = 100

// DefaultOperator is the attribution used when no user is given.
const DefaultOperator = "Admin"

// Entry is one audit event. Entries are immutable once written.
type Entry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
	Action    Action `json:"action"`
	Details   string `json:"details"`
	User      string `json:"user,omitempty"`
}

// Log appends to and reads the bounded audit collection in the store.
type Log struct {
	store    *store.Store
	operator string
	logger   *zap.Logger
	now      func() time.Time
}

// New returns a Log attributing entries to operator, or to DefaultOperator
// when operator is empty.
func New(st *store.Store, operator string, logger *zap.Logger) *Log {
	if operator == "" {
		operator = DefaultOperator
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{store: st, operator: operator, logger: logger, now: time.Now}
}

// Append constructs an entry attributed to the default operator, prepends
// it to the stored collection, truncates to the most recent MaxEntries,
// persists, and returns the new entry.
func (l *Log) Append(action Action, details string) Entry {
	return l.AppendAs(action, details, l.operator)
}

// AppendAs is Append with explicit attribution.
func (l *Log) AppendAs(action Action, details, user string) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		Timestamp: l.now().UnixMilli(),
		Action:    action,
		Details:   details,
		User:      user,
	}

	err := l.store.Locked(func() error {
		var entries []Entry
		if _, err := l.store.Read(store.KeyLogs, &entries); err != nil {
			return err
		}
		entries = append([]Entry{entry}, entries...)
		if len(entries) > MaxEntries {
			entries = entries[:MaxEntries]
		}
		return l.store.Write(store.KeyLogs, entries)
	})
	if err != nil {
		// The caller only observes log-panel output; a persistence failure
		// must not turn an otherwise-successful operation into an error.
		l.logger.Error("Failed to persist audit entry",
			zap.String("action", string(action)), zap.Error(err))
	}
	return entry
}

// List returns the full bounded collection, most recent first.
func (l *Log) List() []Entry {
	var entries []Entry
	if _, err := l.store.Read(store.KeyLogs, &entries); err != nil {
		l.logger.Error("Failed to read audit log", zap.Error(err))
		return nil
	}
	return entries
}
