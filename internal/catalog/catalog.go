// Package catalog holds the static room and table layout of the restaurant
// together with the booking policy data attached to it: which tables are
// VIP, the two fixed VIP session hour sets and the rolling duration used for
// every other table.  None of it is computed; it is seeded once here.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/table-reservation/internal/model"
)

// RegularDuration is how long a regular table stays occupied, in minutes.
const RegularDuration = 120

// Session windows of a VIP table as shown to guests.
const (
	MiddayWindow  = "12:00-16:00"
	EveningWindow = "17:00-20:00"
	MiddayEnd     = "16:00"
	EveningEnd    = "20:00"
)

// TablePrefix precedes the table number in a table label.
const TablePrefix = "Masa "

// Session identifies one of the two daily blocks of a VIP table.
type Session int

const (
	Midday Session = iota
	Evening
)

// Window returns the human readable span of the session.
func (s Session) Window() string {
	if s == Evening {
		return EveningWindow
	}
	return MiddayWindow
}

// End returns the fixed end time of the session.
func (s Session) End() string {
	if s == Evening {
		return EveningEnd
	}
	return MiddayEnd
}

func (s Session) String() string {
	if s == Evening {
		return "evening"
	}
	return "midday"
}

// MiddayHours and EveningHours are the start times belonging to each VIP
// session.  Membership is an exact string match.
var (
	MiddayHours  = map[string]bool{"12:00": true, "13:00": true, "14:00": true, "15:00": true, "16:00": true}
	EveningHours = map[string]bool{"17:00": true, "18:00": true, "19:00": true, "20:00": true}
)

var rooms = []model.Room{
	{ID: "avlu", Name: "Avlu Salon", TableCount: 50},
	{ID: "sehrekustu", Name: "Şehreküstü Salon", TableCount: 50},
	{ID: "eblehan-vip", Name: "Eblehan VIP Salon", TableCount: 1},
	{ID: "galaalti-vip", Name: "Galaaltı VIP Salon", TableCount: 1},
	{ID: "yazicik", Name: "Yazıcık Salon", TableCount: 50},
}

var vipTables = map[string]map[string]bool{
	"Eblehan VIP Salon":  {"Masa 1": true},
	"Galaaltı VIP Salon": {"Masa 1": true},
}

// Rooms returns a copy of the room list in display order.
func Rooms() []model.Room {
	out := make([]model.Room, len(rooms))
	copy(out, rooms)
	return out
}

// RoomByName looks up a room by its display name.
func RoomByName(name string) (model.Room, bool) {
	for _, r := range rooms {
		if r.Name == name {
			return r, true
		}
	}
	return model.Room{}, false
}

// IsVIP reports whether the table follows the two-session VIP policy.
func IsVIP(salon, table string) bool {
	return vipTables[salon][table]
}

// TableLabel formats the label of table number n.
func TableLabel(n int) string {
	return TablePrefix + strconv.Itoa(n)
}

// TableLabels lists every table label of a room.
func TableLabels(r model.Room) []string {
	out := make([]string, 0, r.TableCount)
	for i := 1; i <= r.TableCount; i++ {
		out = append(out, TableLabel(i))
	}
	return out
}

// ValidTable checks that the salon exists and the table label names one of
// its tables.
func ValidTable(salon, table string) error {
	r, ok := RoomByName(salon)
	if !ok {
		return fmt.Errorf("unknown salon %q", salon)
	}
	if !strings.HasPrefix(table, TablePrefix) {
		return fmt.Errorf("invalid table label %q", table)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(table, TablePrefix))
	if err != nil || n < 1 || n > r.TableCount {
		return fmt.Errorf("%s has no table %q", salon, table)
	}
	return nil
}

// SessionOf classifies a start time.  Anything that is not an evening hour
// counts as the midday session.
func SessionOf(clock string) Session {
	if EveningHours[clock] {
		return Evening
	}
	return Midday
}

// InSession reports whether a start time is one of the hours of s.
func InSession(clock string, s Session) bool {
	if s == Evening {
		return EveningHours[clock]
	}
	return MiddayHours[clock]
}
