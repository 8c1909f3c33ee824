package service

import (
	"context"

	"github.com/iliyamo/table-reservation/internal/catalog"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/wallclock"
)

// TableStatus is one table in the room overview.
type TableStatus struct {
	Masa        string             `json:"masa"`
	Reserved    bool               `json:"reserved"`
	Count       int                `json:"count,omitempty"`
	Reservation *model.Reservation `json:"reservation,omitempty"` // earliest matching booking
}

// RoomStatus is the overview of one room.
type RoomStatus struct {
	Room     model.Room    `json:"room"`
	Reserved int           `json:"reserved"`
	Tables   []TableStatus `json:"tables"`
}

// Overview lists every table of every room for a date and marks those
// holding an active reservation whose start time is in [from, to]. Empty
// bounds default to business hours.
func (s *ReservationService) Overview(ctx context.Context, date, from, to string) ([]RoomStatus, error) {
	if from == "" {
		from = wallclock.OpeningTime
	}
	if to == "" {
		to = wallclock.ClosingTime
	}
	switch {
	case !wallclock.ValidDate(date):
		return nil, invalid("invalid date %q, expected yyyy-MM-dd", date)
	case !wallclock.ValidTime(from) || !wallclock.ValidTime(to):
		return nil, invalid("invalid time range %q-%q", from, to)
	case from > to:
		return nil, invalid("range start %s is after its end %s", from, to)
	}

	list, err := s.repo.ListActiveByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	type key struct{ salon, masa string }
	byTable := map[key][]model.Reservation{}
	for _, r := range list {
		// Zero-padded HH:mm strings compare lexically.
		if !r.Active() || !r.Assigned() || r.Time < from || r.Time > to {
			continue
		}
		k := key{r.Salon, r.Masa}
		byTable[k] = append(byTable[k], r)
	}

	rooms := catalog.Rooms()
	out := make([]RoomStatus, 0, len(rooms))
	for _, room := range rooms {
		rs := RoomStatus{Room: room, Tables: make([]TableStatus, 0, room.TableCount)}
		for _, masa := range catalog.TableLabels(room) {
			ts := TableStatus{Masa: masa}
			if hits := byTable[key{room.Name, masa}]; len(hits) > 0 {
				first := earliest(hits)
				ts.Reserved, ts.Count, ts.Reservation = true, len(hits), &first
				rs.Reserved++
			}
			rs.Tables = append(rs.Tables, ts)
		}
		out = append(out, rs)
	}
	return out, nil
}

func earliest(rs []model.Reservation) model.Reservation {
	first := rs[0]
	for _, r := range rs[1:] {
		if r.Time < first.Time {
			first = r
		}
	}
	return first
}
