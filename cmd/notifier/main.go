package main // Entry point of the SMS notifier: confirmations, reminders and surveys

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/notify"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()
	smsCfg := config.LoadSMSConfig()
	schedCfg := config.LoadSchedulerConfig()

	var sender notify.Sender = notify.LogSender{}
	if smsCfg.Enabled {
		sender = notify.NewTwilioSender(smsCfg.AccountSID, smsCfg.AuthToken, smsCfg.From)
	} else {
		log.Printf("notifier: SMS disabled, messages are only logged")
	}
	n := notify.NewNotifier(sender, notify.Templates{RestaurantPhone: smsCfg.RestaurantPhone, BaseURL: smsCfg.BaseURL})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if schedCfg.Enabled {
		db, err := database.Open(database.Config{
			User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
			MaxConns: cfg.DBMaxConns, MaxLifetime: cfg.DBMaxLifetime,
		})
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()

		loc, err := time.LoadLocation(schedCfg.Location)
		if err != nil {
			log.Fatalf("scheduler: load location %q: %v", schedCfg.Location, err)
		}
		sched := notify.NewScheduler(repository.NewReservationRepo(db), n, notify.SchedulerOptions{
			Interval:     schedCfg.Interval,
			ReminderLead: schedCfg.ReminderLead,
			SurveyDelay:  schedCfg.SurveyDelay,
			Location:     loc,
		})
		if err := sched.Start(); err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			sched.Stop(sctx)
		}()
	}

	consumer := queue.NewConsumer(config.RabbitURL(), n.SendConfirmation)
	log.Printf("notifier: consuming %s", queue.ReservationCreatedQueue)
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("notifier: consumer stopped: %v", err)
	}
	log.Printf("notifier: shutting down")
}
