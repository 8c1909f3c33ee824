package repository

import (
	"strings"

	"github.com/iliyamo/table-reservation/internal/model"
)

// ListFilter selects reservations for the staff list. Date is required;
// an empty Status matches both states and an empty Query matches
// everything.
type ListFilter struct {
	Date   string
	Status model.Status
	Query  string // substring of the guest name, code or phone
}

// Matches reports whether r passes the filter. Name and code compare
// case-insensitively, the phone as typed.
func (f ListFilter) Matches(r model.Reservation) bool {
	if r.Date != f.Date {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	term := strings.TrimSpace(f.Query)
	if term == "" {
		return true
	}
	lower := strings.ToLower(term)
	return strings.Contains(strings.ToLower(r.FullName), lower) ||
		strings.Contains(strings.ToLower(r.Code), lower) ||
		strings.Contains(r.Phone, term)
}
