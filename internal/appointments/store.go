package appointments

import (
	"context"
	"sort"
	"sync"
)

// Store abstracts appointment persistence. The durable Postgres store and
// the in-process memory store are interchangeable; the controller only
// depends on this interface.
//
// CompleteAndReserve is the one concurrency-sensitive operation: it must
// atomically check the record is pending, check the (date, time) slot is
// free, and only then complete the record and reserve the slot. Two
// concurrent calls racing for the same slot must not both succeed.
type Store interface {
	Insert(ctx context.Context, appt *Appointment) error
	Get(ctx context.Context, id string) (*Appointment, error)
	AttachOrder(ctx context.Context, id, orderRef string) error
	CompleteAndReserve(ctx context.Context, id, paymentRef string) error
	MarkFailed(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Appointment, error)
	OccupiedTimes(ctx context.Context, date string) (map[string]bool, error)
}

// MemoryStore keeps appointments and the slot occupancy index in process
// memory. A single mutex guards both maps, which makes CompleteAndReserve
// linearizable across all (date, time) keys.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string]*Appointment
	occupied map[string]map[string]bool // date -> time label -> reserved
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[string]*Appointment),
		occupied: make(map[string]map[string]bool),
	}
}

// Insert stores a new pending appointment.
func (s *MemoryStore) Insert(ctx context.Context, appt *Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[appt.ID]; exists {
		return ErrDuplicateID
	}
	s.records[appt.ID] = appt.Clone()
	return nil
}

// Get returns a copy of the appointment.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return appt.Clone(), nil
}

// AttachOrder records the gateway order reference on an existing record.
func (s *MemoryStore) AttachOrder(ctx context.Context, id, orderRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	appt.OrderRef = orderRef
	return nil
}

// CompleteAndReserve atomically finalizes payment and claims the slot.
func (s *MemoryStore) CompleteAndReserve(ctx context.Context, id, paymentRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	if appt.Status != StatusPending {
		return ErrTerminalState
	}
	if s.occupied[appt.Date][appt.Time] {
		return ErrSlotTaken
	}

	appt.Status = StatusCompleted
	appt.PaymentRef = paymentRef
	if s.occupied[appt.Date] == nil {
		s.occupied[appt.Date] = make(map[string]bool)
	}
	s.occupied[appt.Date][appt.Time] = true
	return nil
}

// MarkFailed transitions pending to failed. Terminal records are left
// untouched so a late failure signal can never overwrite a completed
// booking.
func (s *MemoryStore) MarkFailed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	if appt.Status.Terminal() {
		return nil
	}
	appt.Status = StatusFailed
	return nil
}

// List returns all appointments, newest first.
func (s *MemoryStore) List(ctx context.Context) ([]*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Appointment, 0, len(s.records))
	for _, appt := range s.records {
		out = append(out, appt.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// OccupiedTimes returns the reserved slot labels for a date.
func (s *MemoryStore) OccupiedTimes(ctx context.Context, date string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	taken := make(map[string]bool, len(s.occupied[date]))
	for label, reserved := range s.occupied[date] {
		if reserved {
			taken[label] = true
		}
	}
	return taken, nil
}
