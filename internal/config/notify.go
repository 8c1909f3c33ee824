package config

import "time"

// SMSConfig holds the Twilio credentials and the restaurant details that
// appear in guest messages.
type SMSConfig struct {
	Enabled         bool
	AccountSID      string
	AuthToken       string
	From            string
	RestaurantPhone string
	BaseURL         string // public site, used for reservation and survey links
}

// LoadSMSConfig reads TWILIO_* and RESTAURANT_* variables. SMS is enabled
// only when SMS_ENABLED is set and a full credential triple is present.
func LoadSMSConfig() SMSConfig {
	c := SMSConfig{
		AccountSID:      envStr("TWILIO_ACCOUNT_SID", ""),
		AuthToken:       envStr("TWILIO_AUTH_TOKEN", ""),
		From:            envStr("TWILIO_FROM", ""),
		RestaurantPhone: envStr("RESTAURANT_PHONE", "0224 000 00 00"),
		BaseURL:         envStr("PUBLIC_BASE_URL", "http://localhost:3000"),
	}
	c.Enabled = envBool("SMS_ENABLED", false) && c.AccountSID != "" && c.AuthToken != "" && c.From != ""
	return c
}

// SchedulerConfig drives the reminder and survey jobs of the notifier.
type SchedulerConfig struct {
	Enabled      bool
	Interval     time.Duration // how often the jobs run; also the width of each send window
	ReminderLead time.Duration // reminder goes out this long before the start time
	SurveyDelay  time.Duration // survey goes out this long after the start time
	Location     string        // IANA zone of the restaurant wall clock
}

// LoadSchedulerConfig reads SCHEDULER_* variables.
func LoadSchedulerConfig() SchedulerConfig {
	c := SchedulerConfig{
		Enabled:      envBool("SCHEDULER_ENABLED", true),
		Interval:     envDur("SCHEDULER_INTERVAL", 5*time.Minute),
		ReminderLead: envDur("SCHEDULER_REMINDER_LEAD", 2*time.Hour),
		SurveyDelay:  envDur("SCHEDULER_SURVEY_DELAY", 3*time.Hour),
		Location:     envStr("RESTAURANT_TZ", "Europe/Istanbul"),
	}
	if c.Interval < time.Minute {
		c.Interval = time.Minute
	}
	return c
}
