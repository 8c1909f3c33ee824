// Package availability decides whether a table can take a reservation at a
// given date and time.
//
// Two policies exist and they are intentionally different.  VIP tables are
// booked per fixed session (one midday and one evening booking per day);
// every other table is occupied for a rolling RegularDuration window from
// the start time.  The regular conflict test is the three-way inclusive
// check "candidate start inside existing, candidate end inside existing, or
// existing start inside candidate", which differs from a half-open overlap
// test at the window boundaries.
//
// The Evaluate and NextAvailable functions are pure and work on a snapshot
// of active reservations; Checker loads that snapshot from a Store.
package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/iliyamo/table-reservation/internal/catalog"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/wallclock"
)

// ErrVIPTable is returned by the next-slot finder for VIP tables, whose
// sessions are fixed and cannot be shifted.
var ErrVIPTable = errors.New("next available time does not apply to VIP tables")

// Store loads the active reservations of one table on one date.
type Store interface {
	QueryActive(ctx context.Context, salon, table, date string) ([]model.Reservation, error)
}

// Result is the outcome of an availability check.  A conflict is an
// expected outcome and is reported here rather than as an error.
type Result struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
	// NextTime is the suggested start time for a rejected regular table.
	NextTime string `json:"next_time,omitempty"`
}

// Checker answers availability questions against a Store.
type Checker struct {
	store Store
}

// NewChecker returns a Checker reading from store.
func NewChecker(store Store) *Checker {
	if store == nil {
		panic("nil store passed to NewChecker")
	}
	return &Checker{store: store}
}

// CheckTableAvailability decides whether (salon, table, date, clock) can be
// booked.  A failing store query is returned as an error; callers must not
// treat it as available.
func (c *Checker) CheckTableAvailability(ctx context.Context, salon, table, date, clock string) (Result, error) {
	return c.CheckExcluding(ctx, "", salon, table, date, clock)
}

// CheckExcluding is CheckTableAvailability ignoring the reservation with
// the given ID, used when an existing reservation is moved or re-activated.
func (c *Checker) CheckExcluding(ctx context.Context, excludeID, salon, table, date, clock string) (Result, error) {
	existing, err := c.load(ctx, excludeID, salon, table, date)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(existing, salon, table, date, clock)
}

// NextAvailableTime returns the earliest start time, at or after clock,
// that does not conflict with any active reservation of a regular table.
func (c *Checker) NextAvailableTime(ctx context.Context, salon, table, date, clock string) (string, error) {
	if catalog.IsVIP(salon, table) {
		return "", ErrVIPTable
	}
	existing, err := c.load(ctx, "", salon, table, date)
	if err != nil {
		return "", err
	}
	return NextAvailable(existing, date, clock)
}

func (c *Checker) load(ctx context.Context, excludeID, salon, table, date string) ([]model.Reservation, error) {
	existing, err := c.store.QueryActive(ctx, salon, table, date)
	if err != nil {
		return nil, fmt.Errorf("query active reservations: %w", err)
	}
	if excludeID == "" {
		return existing, nil
	}
	out := existing[:0:0]
	for _, r := range existing {
		if r.ID != excludeID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Evaluate applies the VIP or regular policy to a snapshot of existing
// reservations.  Cancelled entries in the snapshot are ignored.
func Evaluate(existing []model.Reservation, salon, table, date, clock string) (Result, error) {
	existing = activeOnly(existing)
	if catalog.IsVIP(salon, table) {
		return evaluateVIP(existing, salon, table, clock), nil
	}
	return evaluateRegular(existing, salon, table, date, clock)
}

func evaluateVIP(existing []model.Reservation, salon, table, clock string) Result {
	session := catalog.SessionOf(clock)
	for _, r := range existing {
		if catalog.InSession(r.Time, session) {
			return Result{
				Available: false,
				Message: fmt.Sprintf("%s - %s: the %s session is already booked on the selected date (%s)",
					salon, table, session, session.Window()),
			}
		}
	}
	return Result{Available: true}
}

func evaluateRegular(existing []model.Reservation, salon, table, date, clock string) (Result, error) {
	start, err := wallclock.ParseDateTime(date, clock)
	if err != nil {
		return Result{}, err
	}
	end := wallclock.AddMinutes(start, catalog.RegularDuration)

	for _, r := range existing {
		w, err := windowOf(r.Date, r.Time)
		if err != nil {
			return Result{}, err
		}
		if w.conflicts(start, end) {
			next, err := NextAvailable(existing, date, clock)
			if err != nil {
				return Result{}, err
			}
			return Result{
				Available: false,
				Message: fmt.Sprintf("%s - %s already has a reservation at the selected time. Next available time: %s",
					salon, table, next),
				NextTime: next,
			}, nil
		}
	}
	return Result{Available: true}, nil
}

// NextAvailable scans the snapshot in start-time order.  Whenever the probe
// conflicts with a reservation window the probe moves to one minute past
// that window's end and the scan restarts from the first window.  The probe
// strictly increases on every move, so the loop ends once it is past the
// last window it touches.
func NextAvailable(existing []model.Reservation, date, clock string) (string, error) {
	existing = activeOnly(existing)
	if len(existing) == 0 {
		return clock, nil
	}

	sorted := make([]model.Reservation, len(existing))
	copy(sorted, existing)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	windows := make([]window, 0, len(sorted))
	for _, r := range sorted {
		w, err := windowOf(date, r.Time)
		if err != nil {
			return "", err
		}
		windows = append(windows, w)
	}

	probe, err := wallclock.ParseDateTime(date, clock)
	if err != nil {
		return "", err
	}

	for moved := true; moved; {
		moved = false
		probeEnd := wallclock.AddMinutes(probe, catalog.RegularDuration)
		for _, w := range windows {
			if w.conflicts(probe, probeEnd) {
				probe = wallclock.AddMinutes(w.end, 1)
				moved = true
				break
			}
		}
	}
	return wallclock.FormatTime(probe), nil
}

// CalculateEndTime derives the end of the occupancy window shown on a
// reservation.  It depends only on the start time and the table type.
func CalculateEndTime(date, clock, salon, table string) (string, error) {
	if catalog.IsVIP(salon, table) {
		return catalog.SessionOf(clock).End(), nil
	}
	start, err := wallclock.ParseDateTime(date, clock)
	if err != nil {
		return "", err
	}
	return wallclock.FormatTime(wallclock.AddMinutes(start, catalog.RegularDuration)), nil
}

type window struct {
	start, end time.Time
}

func windowOf(date, clock string) (window, error) {
	start, err := wallclock.ParseDateTime(date, clock)
	if err != nil {
		return window{}, err
	}
	return window{start: start, end: wallclock.AddMinutes(start, catalog.RegularDuration)}, nil
}

// conflicts is the three-way inclusive test against a candidate
// [start, end].
func (w window) conflicts(start, end time.Time) bool {
	return wallclock.WithinInterval(start, w.start, w.end) ||
		wallclock.WithinInterval(end, w.start, w.end) ||
		wallclock.WithinInterval(w.start, start, end)
}

func activeOnly(in []model.Reservation) []model.Reservation {
	for _, r := range in {
		if !r.Active() {
			out := make([]model.Reservation, 0, len(in))
			for _, r := range in {
				if r.Active() {
					out = append(out, r)
				}
			}
			return out
		}
	}
	return in
}
