package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/wallclock"
)

// ReservationLister returns the non-cancelled reservations of a date.
type ReservationLister interface {
	ListActiveByDate(ctx context.Context, date string) ([]model.Reservation, error)
}

// SchedulerOptions tunes the reminder and survey jobs.
type SchedulerOptions struct {
	Interval     time.Duration  // run period and width of each send window
	ReminderLead time.Duration  // reminder goes out this long before the start
	SurveyDelay  time.Duration  // survey goes out this long after the start
	Location     *time.Location // zone of the restaurant wall clock
}

// Scheduler periodically sends reminders and surveys. Each run covers the
// window [bucket+offset, bucket+offset+Interval) where bucket is the run
// time truncated to Interval, so every start time falls into exactly one
// window and a bucket is never processed twice.
type Scheduler struct {
	lister   ReservationLister
	notifier *Notifier
	opts     SchedulerOptions
	now      func() time.Time
	cron     *cron.Cron

	mu           sync.Mutex
	lastReminder time.Time
	lastSurvey   time.Time
}

// NewScheduler returns a Scheduler. Zero options default to a 5 minute
// interval, 2h reminder lead and 3h survey delay in the local zone.
func NewScheduler(lister ReservationLister, notifier *Notifier, opts SchedulerOptions) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	if opts.ReminderLead <= 0 {
		opts.ReminderLead = 2 * time.Hour
	}
	if opts.SurveyDelay <= 0 {
		opts.SurveyDelay = 3 * time.Hour
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Scheduler{lister: lister, notifier: notifier, opts: opts, now: time.Now}
}

// Start registers both jobs and starts the cron runner. Overlapping runs
// are skipped.
func (s *Scheduler) Start() error {
	c := cron.New(
		cron.WithLocation(s.opts.Location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	spec := fmt.Sprintf("@every %s", s.opts.Interval)
	if _, err := c.AddFunc(spec, func() { s.tick(s.RunReminders, "reminders") }); err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	if _, err := c.AddFunc(spec, func() { s.tick(s.RunSurveys, "surveys") }); err != nil {
		return fmt.Errorf("schedule surveys: %w", err)
	}
	s.cron = c
	c.Start()
	log.Printf("scheduler: started (every %s)", s.opts.Interval)
	return nil
}

// Stop stops the runner and waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) tick(run func(context.Context, time.Time) (int, error), name string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Interval)
	defer cancel()
	n, err := run(ctx, s.now())
	if err != nil {
		log.Printf("scheduler: %s: %v", name, err)
	}
	if n > 0 {
		log.Printf("scheduler: sent %d %s", n, name)
	}
}

// RunReminders sends reminders for reservations starting in
// [bucket+lead, bucket+lead+interval). It returns how many were sent.
func (s *Scheduler) RunReminders(ctx context.Context, now time.Time) (int, error) {
	bucket := wallclock.In(now, s.opts.Location).Truncate(s.opts.Interval)
	if !s.claim(&s.lastReminder, bucket) {
		return 0, nil
	}
	from := bucket.Add(s.opts.ReminderLead)
	return s.dispatch(ctx, from, from.Add(s.opts.Interval), s.notifier.SendReminder)
}

// RunSurveys sends surveys for reservations that started in
// [bucket-delay-interval, bucket-delay).
func (s *Scheduler) RunSurveys(ctx context.Context, now time.Time) (int, error) {
	bucket := wallclock.In(now, s.opts.Location).Truncate(s.opts.Interval)
	if !s.claim(&s.lastSurvey, bucket) {
		return 0, nil
	}
	to := bucket.Add(-s.opts.SurveyDelay)
	return s.dispatch(ctx, to.Add(-s.opts.Interval), to, s.notifier.SendSurvey)
}

func (s *Scheduler) claim(last *time.Time, bucket time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !bucket.After(*last) {
		return false
	}
	*last = bucket
	return true
}

// dispatch sends to every active reservation starting in [from, to). A
// window may straddle midnight, so both dates are listed.
func (s *Scheduler) dispatch(ctx context.Context, from, to time.Time, send func(context.Context, Booking) error) (int, error) {
	dates := []string{wallclock.FormatDate(from)}
	if last := wallclock.FormatDate(to.Add(-time.Nanosecond)); last != dates[0] {
		dates = append(dates, last)
	}

	sent := 0
	var firstErr error
	for _, date := range dates {
		list, err := s.lister.ListActiveByDate(ctx, date)
		if err != nil {
			return sent, fmt.Errorf("list reservations of %s: %w", date, err)
		}
		for _, r := range list {
			if !r.Active() {
				continue
			}
			start, err := wallclock.ParseDateTime(r.Date, r.Time)
			if err != nil || start.Before(from) || !start.Before(to) {
				continue
			}
			if err := send(ctx, BookingFromReservation(r)); err != nil {
				log.Printf("scheduler: %v", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			sent++
		}
	}
	return sent, firstErr
}
