// Package memory implements the repository contracts on top of in-process maps.
// It backs service and handler tests and supports rollback plus fault injection
// so transactional behaviour can be exercised without PostgreSQL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/correction"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/database"
	"github.com/google/uuid"
)

type refreshToken struct {
	userID    string
	expiresAt time.Time
	revoked   bool
}

type state struct {
	users         map[string]user.User
	attendances   map[string]attendance.Attendance
	restTimes     map[string]attendance.RestTime
	corrections   map[string]correction.CorrectionRequest
	refreshTokens map[string]refreshToken
	seq           map[string]int64
}

func newState() state {
	return state{
		users:         make(map[string]user.User),
		attendances:   make(map[string]attendance.Attendance),
		restTimes:     make(map[string]attendance.RestTime),
		corrections:   make(map[string]correction.CorrectionRequest),
		refreshTokens: make(map[string]refreshToken),
		seq:           make(map[string]int64),
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.attendances {
		c.attendances[k] = v
	}
	for k, v := range s.restTimes {
		c.restTimes[k] = v
	}
	for k, v := range s.corrections {
		v.RequestedBreaks = append([]attendance.BreakSpan(nil), v.RequestedBreaks...)
		c.corrections[k] = v
	}
	for k, v := range s.refreshTokens {
		c.refreshTokens[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

// Store holds every table. Repositories created from the same Store share data.
type Store struct {
	mu      sync.Mutex
	txMu    sync.Mutex
	data    state
	counter int64
	faults  map[string]error
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		data:   newState(),
		faults: make(map[string]error),
		now:    time.Now,
	}
}

// FailOn makes the named repository operation (for example "correction.MarkApproved")
// return err until ClearFaults is called.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]error)
}

// fault must be called with mu held.
func (s *Store) fault(op string) error {
	return s.faults[op]
}

// nextID must be called with mu held.
func (s *Store) nextID() string {
	s.counter++
	id := uuid.Must(uuid.NewV7()).String()
	s.data.seq[id] = s.counter
	return id
}

type txKey struct{}

type txManager struct {
	store *Store
}

// TxManager returns a transaction manager that serialises transactions and
// restores the pre-transaction state when fn fails.
func (s *Store) TxManager() database.TxManager {
	return &txManager{store: s}
}

func (m *txManager) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	m.store.mu.Lock()
	snapshot := m.store.data.clone()
	m.store.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			m.store.restore(snapshot)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		m.store.restore(snapshot)
		return err
	}
	return nil
}

func (s *Store) restore(snapshot state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = snapshot
}
