// Package service holds the reservation use cases. Every path that writes
// a table assignment runs the availability check and the write under the
// booking lock of that (salon, table, date), so two requests can never
// both pass the check for the same slot.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/table-reservation/internal/availability"
	"github.com/iliyamo/table-reservation/internal/catalog"
	"github.com/iliyamo/table-reservation/internal/history"
	"github.com/iliyamo/table-reservation/internal/lock"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/utils"
	"github.com/iliyamo/table-reservation/internal/wallclock"
)

// codeAttempts bounds the retries for a unique reservation code.
const codeAttempts = 5

// Repository is the persistence the service needs.
type Repository interface {
	availability.Store
	Create(ctx context.Context, r *model.Reservation) error
	Update(ctx context.Context, id string, fn repository.MutateFunc) (model.Reservation, error)
	GetByID(ctx context.Context, id string) (model.Reservation, error)
	GetByCode(ctx context.Context, code string) (model.Reservation, error)
	List(ctx context.Context, f repository.ListFilter) ([]model.Reservation, error)
	ListActiveByDate(ctx context.Context, date string) ([]model.Reservation, error)
}

// Publisher announces accepted reservations.
type Publisher interface {
	PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error
}

// ReservationService implements creation, editing and lookup of
// reservations.
type ReservationService struct {
	repo    Repository
	checker *availability.Checker
	locker  lock.Locker
	pub     Publisher
	now     func() time.Time
	rand    io.Reader
}

// Option customises a ReservationService.
type Option func(*ReservationService)

// WithClock replaces time.Now, e.g. in tests.
func WithClock(now func() time.Time) Option { return func(s *ReservationService) { s.now = now } }

// WithCodeSource sets the randomness used for reservation codes.
func WithCodeSource(r io.Reader) Option { return func(s *ReservationService) { s.rand = r } }

// NewReservationService wires the service. pub may be nil, in which case
// no events are published.
func NewReservationService(repo Repository, locker lock.Locker, pub Publisher, opts ...Option) *ReservationService {
	if repo == nil || locker == nil {
		panic("nil repository or locker passed to NewReservationService")
	}
	s := &ReservationService{
		repo:    repo,
		checker: availability.NewChecker(repo),
		locker:  locker,
		pub:     pub,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Checker exposes the availability checker backed by the same repository.
func (s *ReservationService) Checker() *availability.Checker { return s.checker }

// CreateInput carries the fields of a new reservation. Salon and Masa are
// optional but must be given together.
type CreateInput struct {
	FullName   string
	Phone      string
	Notes      string
	Date       string
	Time       string
	Guests     int
	ChildCount int
	Salon      string
	Masa       string
}

// InfoInput replaces the guest-facing fields of a reservation.
type InfoInput struct {
	FullName   string
	Phone      string
	Notes      string
	Date       string
	Time       string
	Guests     int
	ChildCount int
}

func validateInfo(in *InfoInput) error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Notes = strings.TrimSpace(in.Notes)
	in.Phone = utils.NormalizePhone(in.Phone)
	switch {
	case in.FullName == "":
		return invalid("full name is required")
	case !utils.ValidatePhone(in.Phone):
		return invalid("invalid phone number %q", in.Phone)
	case !wallclock.ValidDate(in.Date):
		return invalid("invalid date %q, expected yyyy-MM-dd", in.Date)
	case !wallclock.ValidTime(in.Time):
		return invalid("invalid time %q, expected HH:mm", in.Time)
	case !wallclock.WithinBusinessHours(in.Time):
		return invalid("time %s is outside business hours %s-%s", in.Time, wallclock.OpeningTime, wallclock.ClosingTime)
	case in.Guests < 1:
		return invalid("guests must be at least 1")
	case in.ChildCount < 0:
		return invalid("child count must not be negative")
	}
	return nil
}

func validateTable(salon, masa string) error {
	if err := catalog.ValidTable(salon, masa); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// Create validates and stores a new active reservation. When a table is
// given it must be free; the check and the insert run under its lock.
func (s *ReservationService) Create(ctx context.Context, in CreateInput, actor string) (model.Reservation, error) {
	info := InfoInput{FullName: in.FullName, Phone: in.Phone, Notes: in.Notes, Date: in.Date, Time: in.Time,
		Guests: in.Guests, ChildCount: in.ChildCount}
	if err := validateInfo(&info); err != nil {
		return model.Reservation{}, err
	}
	salon, masa := strings.TrimSpace(in.Salon), strings.TrimSpace(in.Masa)
	if (salon == "") != (masa == "") {
		return model.Reservation{}, invalid("salon and masa must be given together")
	}
	if salon != "" {
		if err := validateTable(salon, masa); err != nil {
			return model.Reservation{}, err
		}
		unlock, err := s.locker.Lock(ctx, lock.Key(salon, masa, info.Date))
		if err != nil {
			return model.Reservation{}, fmt.Errorf("lock table: %w", err)
		}
		defer unlock()
		if err := ensureAvailable(ctx, s.checker, "", salon, masa, info.Date, info.Time); err != nil {
			return model.Reservation{}, err
		}
	}

	end, err := availability.CalculateEndTime(info.Date, info.Time, salon, masa)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	now := s.now().UTC()
	r := model.Reservation{
		ID:         uuid.NewString(),
		FullName:   info.FullName,
		Phone:      info.Phone,
		Notes:      info.Notes,
		Date:       info.Date,
		Time:       info.Time,
		EndTime:    end,
		Guests:     info.Guests,
		ChildCount: info.ChildCount,
		Status:     model.StatusActive,
		Salon:      salon,
		Masa:       masa,
		CreatedAt:  now,
		UpdatedAt:  now,
		UpdatedBy:  actor,
		History:    []model.HistoryEntry{},
	}
	if err := s.insertWithCode(ctx, &r); err != nil {
		return model.Reservation{}, err
	}
	log.Printf("reservation: created %s (%s %s %s %s) by %s", r.Code, r.Date, r.Time, r.Salon, r.Masa, actor)
	s.publish(ctx, r)
	return r, nil
}

// insertWithCode draws codes until one is free and the insert succeeds.
func (s *ReservationService) insertWithCode(ctx context.Context, r *model.Reservation) error {
	for i := 0; i < codeAttempts; i++ {
		code, err := utils.GenerateReservationCode(s.now(), s.rand)
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		if _, err := s.repo.GetByCode(ctx, code); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrReservationNotFound) {
			return fmt.Errorf("check code: %w", err)
		}
		r.Code = code
		err = s.repo.Create(ctx, r)
		if errors.Is(err, repository.ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}
		return nil
	}
	return fmt.Errorf("no unique reservation code after %d attempts", codeAttempts)
}

func (s *ReservationService) publish(ctx context.Context, r model.Reservation) {
	if s.pub == nil {
		return
	}
	ev := queue.ReservationCreatedEvent{
		ReservationID: r.ID,
		Code:          r.Code,
		FullName:      r.FullName,
		Phone:         r.Phone,
		Date:          r.Date,
		Time:          r.Time,
		EndTime:       r.EndTime,
		Guests:        r.Guests,
		ChildCount:    r.ChildCount,
		Salon:         r.Salon,
		Masa:          r.Masa,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if err := s.pub.PublishReservationCreated(ctx, ev); err != nil {
		log.Printf("reservation: publish %s failed: %v", r.Code, err)
	}
}

// ensureAvailable runs the availability check and turns a rejection into
// a *ConflictError. A failing store is returned as an error, never as
// available.
func ensureAvailable(ctx context.Context, checker *availability.Checker, excludeID, salon, masa, date, clock string) error {
	res, err := checker.CheckExcluding(ctx, excludeID, salon, masa, date, clock)
	if err != nil {
		return fmt.Errorf("check availability: %w", err)
	}
	if !res.Available {
		return &ConflictError{Message: res.Message, NextTime: res.NextTime}
	}
	return nil
}

// lockFor takes the booking lock of a table and date, or returns a no-op
// unlock when no table is assigned.
func (s *ReservationService) lockFor(ctx context.Context, salon, masa, date string) (func(), error) {
	if salon == "" || masa == "" {
		return func() {}, nil
	}
	unlock, err := s.locker.Lock(ctx, lock.Key(salon, masa, date))
	if err != nil {
		return nil, fmt.Errorf("lock table: %w", err)
	}
	return unlock, nil
}

// UpdateInfo replaces the guest fields of a reservation. Moving an active,
// assigned reservation to another date or time re-checks its table,
// ignoring the reservation itself. An edit that changes nothing writes
// nothing.
func (s *ReservationService) UpdateInfo(ctx context.Context, id string, in InfoInput, actor string) (model.Reservation, error) {
	if err := validateInfo(&in); err != nil {
		return model.Reservation{}, err
	}
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	unlock, err := s.lockFor(ctx, cur.Salon, cur.Masa, in.Date)
	if err != nil {
		return model.Reservation{}, err
	}
	defer unlock()

	return s.repo.Update(ctx, id, func(r *model.Reservation, store availability.Store) (bool, error) {
		if r.Salon != cur.Salon || r.Masa != cur.Masa {
			return false, repository.ErrConflict
		}
		old := *r
		r.FullName, r.Phone, r.Notes = in.FullName, in.Phone, in.Notes
		r.Date, r.Time = in.Date, in.Time
		r.Guests, r.ChildCount = in.Guests, in.ChildCount
		end, err := availability.CalculateEndTime(r.Date, r.Time, r.Salon, r.Masa)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		r.EndTime = end

		moved := r.Date != old.Date || r.Time != old.Time
		if moved && r.Active() && r.Assigned() {
			if err := ensureAvailable(ctx, availability.NewChecker(store), r.ID, r.Salon, r.Masa, r.Date, r.Time); err != nil {
				return false, err
			}
		}
		return history.Apply(old, r, model.UpdateInfo, actor, s.now().UTC()), nil
	})
}

// AssignTable places a reservation on a table. An active reservation must
// fit there.
func (s *ReservationService) AssignTable(ctx context.Context, id, salon, masa, actor string) (model.Reservation, error) {
	salon, masa = strings.TrimSpace(salon), strings.TrimSpace(masa)
	if err := validateTable(salon, masa); err != nil {
		return model.Reservation{}, err
	}
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	unlock, err := s.lockFor(ctx, salon, masa, cur.Date)
	if err != nil {
		return model.Reservation{}, err
	}
	defer unlock()

	return s.repo.Update(ctx, id, func(r *model.Reservation, store availability.Store) (bool, error) {
		if r.Date != cur.Date {
			return false, repository.ErrConflict
		}
		if r.Salon == salon && r.Masa == masa {
			return false, nil
		}
		old := *r
		if r.Active() {
			if err := ensureAvailable(ctx, availability.NewChecker(store), r.ID, salon, masa, r.Date, r.Time); err != nil {
				return false, err
			}
		}
		r.Salon, r.Masa = salon, masa
		end, err := availability.CalculateEndTime(r.Date, r.Time, r.Salon, r.Masa)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		r.EndTime = end
		return history.Apply(old, r, model.UpdateTable, actor, s.now().UTC()), nil
	})
}

// ChangeStatus cancels or re-activates a reservation. Re-activating an
// assigned reservation requires its slot to still be free.
func (s *ReservationService) ChangeStatus(ctx context.Context, id string, status model.Status, actor string) (model.Reservation, error) {
	if !status.Valid() {
		return model.Reservation{}, invalid("unknown status %q", status)
	}
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	unlock := func() {}
	if status == model.StatusActive {
		if unlock, err = s.lockFor(ctx, cur.Salon, cur.Masa, cur.Date); err != nil {
			return model.Reservation{}, err
		}
	}
	defer unlock()

	return s.repo.Update(ctx, id, func(r *model.Reservation, store availability.Store) (bool, error) {
		if r.Status == status {
			return false, nil
		}
		old := *r
		if status == model.StatusActive && r.Assigned() {
			if r.Salon != cur.Salon || r.Masa != cur.Masa || r.Date != cur.Date {
				return false, repository.ErrConflict
			}
			if err := ensureAvailable(ctx, availability.NewChecker(store), r.ID, r.Salon, r.Masa, r.Date, r.Time); err != nil {
				return false, err
			}
		}
		r.Status = status
		return history.Apply(old, r, model.UpdateStatus, actor, s.now().UTC()), nil
	})
}

// Get returns a reservation by id.
func (s *ReservationService) Get(ctx context.Context, id string) (model.Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByCode returns a reservation by its public code. Malformed codes are
// reported as not found without touching the store.
func (s *ReservationService) GetByCode(ctx context.Context, code string) (model.Reservation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !utils.ValidCode(code) {
		return model.Reservation{}, repository.ErrReservationNotFound
	}
	return s.repo.GetByCode(ctx, code)
}

// List returns the reservations of a date, newest first, optionally
// narrowed to one status and to a search term over name, code and phone.
func (s *ReservationService) List(ctx context.Context, f repository.ListFilter) ([]model.Reservation, error) {
	if !wallclock.ValidDate(f.Date) {
		return nil, invalid("invalid date %q, expected yyyy-MM-dd", f.Date)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("unknown status %q", f.Status)
	}
	f.Query = strings.TrimSpace(f.Query)
	return s.repo.List(ctx, f)
}
