// Package queue carries reservation events over RabbitMQ: the API server
// publishes them, the notifier consumes them.
package queue

// ReservationCreatedQueue is the durable queue carrying ReservationCreatedEvent.
const ReservationCreatedQueue = "reservation.created"

// ReservationCreatedEvent is published after a reservation is stored. It
// holds everything the notifier needs for the confirmation SMS so the
// consumer never has to query the primary database.
type ReservationCreatedEvent struct {
	ReservationID string `json:"reservation_id"`
	Code          string `json:"code"`
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	EndTime       string `json:"end_time"`
	Guests        int    `json:"guests"`
	ChildCount    int    `json:"child_count"`
	Salon         string `json:"salon,omitempty"`
	Masa          string `json:"masa,omitempty"`
	CreatedAt     string `json:"created_at"`
}
