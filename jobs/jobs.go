package jobs

import (
	"context"
	"time"

	"MediCareHMS/services"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const ReminderSchedule = "5 0 * * *"

// Reminder is the part of the appointment service the daily job needs.
type Reminder interface {
	RemindTomorrow(ctx context.Context) (int, error)
}

/*
* Runs every day at 00:05 in the configured zone
* Sends reminders for tomorrow's appointments
 */
func StartDailyScheduler(r Reminder, loc *time.Location) (*cron.Cron, error) {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(ReminderSchedule, func() { RunReminders(r) }); err != nil {
		return nil, err
	}
	c.Start()
	log.Info().Str("schedule", ReminderSchedule).Str("zone", loc.String()).Msg("daily scheduler started")
	return c, nil
}

func RunReminders(r Reminder) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Info().Msg("Running daily appointment reminders...")
	sent, err := r.RemindTomorrow(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error sending appointment reminders")
		return
	}
	log.Info().Int("sent", sent).Msg("appointment reminders sent")
}

// SeedCatalogs makes sure the default specializations and departments exist.
func SeedCatalogs(ctx context.Context, lists ...*services.CatalogService) {
	for _, l := range lists {
		if err := l.Seed(ctx, services.DefaultCatalog); err != nil {
			log.Error().Err(err).Str("catalog", l.Name).Msg("Error seeding catalog")
			continue
		}
		log.Info().Str("catalog", l.Name).Msg("catalog seeded")
	}
}
