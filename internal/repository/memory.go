package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/table-reservation/internal/lock"
	"github.com/iliyamo/table-reservation/internal/model"
)

// MemoryRepo is an in-process reservation store with the same semantics as
// ReservationRepo. The handler and router tests run against it.
type MemoryRepo struct {
	mu   sync.Mutex
	rows map[string]model.Reservation
	// Err, when set, is returned by every read, simulating an outage.
	Err error

	// rowLocks plays the part of SELECT ... FOR UPDATE: Update holds the
	// row's lock from read to write.
	rowLocks *lock.LocalLocker
}

// NewMemoryRepo returns an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: map[string]model.Reservation{}, rowLocks: lock.NewLocalLocker()}
}

func clone(r model.Reservation) model.Reservation {
	r.History = append([]model.HistoryEntry(nil), r.History...)
	return r
}

func (m *MemoryRepo) filter(keep func(model.Reservation) bool) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []model.Reservation
	for _, r := range m.rows {
		if keep(r) {
			out = append(out, clone(r))
		}
	}
	return out, nil
}

// QueryActive implements availability.Store.
func (m *MemoryRepo) QueryActive(_ context.Context, salon, table, date string) ([]model.Reservation, error) {
	out, err := m.filter(func(r model.Reservation) bool {
		return r.Salon == salon && r.Masa == table && r.Date == date && r.Active()
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, err
}

// List returns the reservations matching f, newest first.
func (m *MemoryRepo) List(_ context.Context, f ListFilter) ([]model.Reservation, error) {
	out, err := m.filter(f.Matches)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

// ListActiveByDate returns the active reservations of a date by start time.
func (m *MemoryRepo) ListActiveByDate(_ context.Context, date string) ([]model.Reservation, error) {
	out, err := m.filter(func(r model.Reservation) bool { return r.Date == date && r.Active() })
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, err
}

// GetByID fetches a reservation by id.
func (m *MemoryRepo) GetByID(_ context.Context, id string) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return model.Reservation{}, m.Err
	}
	r, ok := m.rows[id]
	if !ok {
		return model.Reservation{}, ErrReservationNotFound
	}
	return clone(r), nil
}

// GetByCode fetches a reservation by code.
func (m *MemoryRepo) GetByCode(_ context.Context, code string) (model.Reservation, error) {
	out, err := m.filter(func(r model.Reservation) bool { return r.Code == code })
	if err != nil {
		return model.Reservation{}, err
	}
	if len(out) == 0 {
		return model.Reservation{}, ErrReservationNotFound
	}
	return out[0], nil
}

// Create stores a copy of r.
func (m *MemoryRepo) Create(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.rows {
		if x.Code == r.Code {
			return ErrDuplicateCode
		}
	}
	m.rows[r.ID] = clone(*r)
	return nil
}

// Update mirrors ReservationRepo.Update: fn edits a copy, and the copy is
// stored only when fn reports a change without error. Concurrent updates
// of one reservation are serialised for the whole read-mutate-write.
func (m *MemoryRepo) Update(ctx context.Context, id string, fn MutateFunc) (model.Reservation, error) {
	unlock, err := m.rowLocks.Lock(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	defer unlock()

	r, err := m.GetByID(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	changed, err := fn(&r, m)
	if err != nil {
		return model.Reservation{}, err
	}
	if changed {
		m.mu.Lock()
		m.rows[id] = clone(r)
		m.mu.Unlock()
	}
	return r, nil
}

// Ping always succeeds unless Err is set.
func (m *MemoryRepo) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}
