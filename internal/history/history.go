// Package history computes field-level differences between two versions of
// a reservation and appends them to its change log.  Every mutation path
// (info edit, table assignment, status change) goes through Diff and
// Record so that the log has one shape.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Tracked field names as they appear in change tuples.
const (
	FieldFullName   = "fullName"
	FieldPhone      = "phone"
	FieldNotes      = "notes"
	FieldDate       = "date"
	FieldTime       = "time"
	FieldEndTime    = "endTime"
	FieldGuests     = "guests"
	FieldChildCount = "childCount"
	FieldStatus     = "status"
	FieldSalon      = "salon"
	FieldMasa       = "masa"
)

type field struct {
	name string
	get  func(model.Reservation) any
}

// fields lists the tracked fields in the order changes are reported.
var fields = []field{
	{FieldFullName, func(r model.Reservation) any { return r.FullName }},
	{FieldPhone, func(r model.Reservation) any { return r.Phone }},
	{FieldNotes, func(r model.Reservation) any { return r.Notes }},
	{FieldDate, func(r model.Reservation) any { return r.Date }},
	{FieldTime, func(r model.Reservation) any { return r.Time }},
	{FieldEndTime, func(r model.Reservation) any { return r.EndTime }},
	{FieldGuests, func(r model.Reservation) any { return r.Guests }},
	{FieldChildCount, func(r model.Reservation) any { return r.ChildCount }},
	{FieldStatus, func(r model.Reservation) any { return string(r.Status) }},
	{FieldSalon, func(r model.Reservation) any { return r.Salon }},
	{FieldMasa, func(r model.Reservation) any { return r.Masa }},
}

// Diff returns one change per tracked field whose value differs between
// old and updated.  Identity, timestamps and the log itself are not
// tracked.
func Diff(old, updated model.Reservation) []model.Change {
	var changes []model.Change
	for _, f := range fields {
		ov, nv := f.get(old), f.get(updated)
		if ov != nv {
			changes = append(changes, model.Change{Field: f.name, OldValue: ov, NewValue: nv})
		}
	}
	return changes
}

// Record appends a single entry holding changes to r.History and stamps the
// update metadata.  It does nothing and returns false when changes is
// empty.
func Record(r *model.Reservation, changes []model.Change, kind model.UpdateType, actor string, at time.Time) bool {
	if len(changes) == 0 {
		return false
	}
	r.History = append(r.History, model.HistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: at,
		UpdatedBy: actor,
		Changes:   changes,
	})
	r.UpdatedAt = at
	r.UpdatedBy = actor
	r.UpdateType = kind
	return true
}

// Apply diffs old against updated and records the result on updated.  It
// reports whether anything changed.
func Apply(old model.Reservation, updated *model.Reservation, kind model.UpdateType, actor string, at time.Time) bool {
	return Record(updated, Diff(old, *updated), kind, actor, at)
}
