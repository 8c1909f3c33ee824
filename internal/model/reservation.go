package model

import "time"

// Status is the lifecycle state of a reservation.  It is reversible: a
// cancelled reservation may be re-activated.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCancelled
}

// UpdateType tags the kind of the most recent change for display purposes.
type UpdateType string

const (
	UpdateInfo   UpdateType = "info"
	UpdateTable  UpdateType = "table"
	UpdateStatus UpdateType = "status"
)

// Reservation is a booking of a table for a date and time.
//
// Fields:
//
//	ID         – opaque store-assigned identifier (UUID).
//	Code       – unique 6 character public lookup code.
//	FullName   – guest name.
//	Phone      – E.164 normalised phone number.
//	Notes      – free text.
//	Date       – yyyy-MM-dd.
//	Time       – HH:mm start time.
//	EndTime    – HH:mm, always derived from date, time, salon and masa.
//	Guests     – adult count (>= 1).
//	ChildCount – child count (>= 0).
//	Status     – active or cancelled.
//	Salon      – room name, empty until assigned.
//	Masa       – table label ("Masa 7"), empty until assigned.
//	UpdatedBy  – actor of the last change.
//	UpdateType – kind of the last change.
//	History    – append-only change log.
type Reservation struct {
	ID         string         `json:"id"`
	Code       string         `json:"code"`
	FullName   string         `json:"full_name"`
	Phone      string         `json:"phone"`
	Notes      string         `json:"notes"`
	Date       string         `json:"date"`
	Time       string         `json:"time"`
	EndTime    string         `json:"end_time"`
	Guests     int            `json:"guests"`
	ChildCount int            `json:"child_count"`
	Status     Status         `json:"status"`
	Salon      string         `json:"salon,omitempty"`
	Masa       string         `json:"masa,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	UpdatedBy  string         `json:"updated_by,omitempty"`
	UpdateType UpdateType     `json:"update_type,omitempty"`
	History    []HistoryEntry `json:"history"`
}

// Active reports whether the reservation takes part in conflict checks.
func (r Reservation) Active() bool { return r.Status != StatusCancelled }

// Assigned reports whether both a salon and a table have been chosen.
func (r Reservation) Assigned() bool { return r.Salon != "" && r.Masa != "" }

// HistoryEntry groups the field changes made by one logical update.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updated_by"`
	Changes   []Change  `json:"changes"`
}

// Change is a single field-level difference.  Values are kept in their
// natural JSON form (string or number).
type Change struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}
