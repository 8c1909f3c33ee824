package notify

import (
	"fmt"
	"strings"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/wallclock"
)

// Booking is the part of a reservation that guest messages mention.
type Booking struct {
	Code       string
	Phone      string
	Date       string // yyyy-MM-dd
	Time       string // HH:mm
	Guests     int
	ChildCount int
}

// BookingFromEvent extracts a Booking from a queued creation event.
func BookingFromEvent(ev queue.ReservationCreatedEvent) Booking {
	return Booking{Code: ev.Code, Phone: ev.Phone, Date: ev.Date, Time: ev.Time, Guests: ev.Guests, ChildCount: ev.ChildCount}
}

// BookingFromReservation extracts a Booking from a stored reservation.
func BookingFromReservation(r model.Reservation) Booking {
	return Booking{Code: r.Code, Phone: r.Phone, Date: r.Date, Time: r.Time, Guests: r.Guests, ChildCount: r.ChildCount}
}

// Templates renders the guest messages for one restaurant.
type Templates struct {
	RestaurantPhone string
	BaseURL         string
}

// ReservationURL is the page where a guest can review or cancel.
func (t Templates) ReservationURL(code string) string {
	return strings.TrimRight(t.BaseURL, "/") + "/rezervasyon/" + code
}

// SurveyURL is the satisfaction survey page of a reservation.
func (t Templates) SurveyURL(code string) string {
	return strings.TrimRight(t.BaseURL, "/") + "/degerlendirme/" + code
}

// Confirmation is sent right after a reservation is created.
func (t Templates) Confirmation(b Booking) string {
	return fmt.Sprintf("Rezervasyonunuz %s için %s bilgileri ile oluşturulmuştur. "+
		"Düzenleme yapmak ve iptal etmek için bize %s nolu numaradan ulaşabilirsiniz ya da %s "+
		"linkten gerekli düzenlemeleri ve iptal işlemini gerçekleştirebilirsiniz. Şimdiden afiyet olsun.",
		dateTime(b), guestText(b), t.RestaurantPhone, t.ReservationURL(b.Code))
}

// Reminder is sent a little before the reservation starts.
func (t Templates) Reminder(b Booking) string {
	return fmt.Sprintf("Oluşturmuş olduğunuz %s için %s rezervasyonu için sizi bekliyoruz. "+
		"Programınızda bir değişiklik var mı? Eğer varsa bize %s nolu numaradan ulaşabilirsiniz ya da %s "+
		"linkten gerekli düzenlemeleri ve iptal işlemini gerçekleştirebilirsiniz. Şimdiden afiyet olsun.",
		dateTime(b), guestText(b), t.RestaurantPhone, t.ReservationURL(b.Code))
}

// Survey is sent after the visit.
func (t Templates) Survey(b Booking) string {
	return fmt.Sprintf("Merhaba, bizi tercih ettiğiniz için teşekkür ederiz. "+
		"Lütfen işletmemiz hakkındaki görüşlerinizi bizimle paylaşın. Geri dönüşünüz bizim için çok kıymetli. "+
		"%s linkten bizi değerlendirebilirsiniz.", t.SurveyURL(b.Code))
}

// dateTime renders "dd.MM.yyyy saat HH:mm"; an unparsable date is echoed.
func dateTime(b Booking) string {
	d := b.Date
	if t, err := wallclock.ParseDateTime(b.Date, "00:00"); err == nil {
		d = t.Format("02.01.2006")
	}
	return d + " saat " + b.Time
}

func guestText(b Booking) string {
	s := fmt.Sprintf("%d yetişkin", b.Guests)
	if b.ChildCount > 0 {
		s += fmt.Sprintf(" %d çocuk", b.ChildCount)
	}
	return s
}
