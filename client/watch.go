package client

import (
	"context"

	"MediCareHMS/apptime"
	"MediCareHMS/events"

	"github.com/rs/zerolog/log"
)

// SlotWatcher keeps one doctor/day slot view fresh by re-fetching whenever a
// cancellation for that doctor and day is published on the client bus.
type SlotWatcher struct {
	client   *Client
	doctorID string
	date     string
	onChange func(*Availability, error)

	cancel context.CancelFunc
	done   chan struct{}
}

/*
* Fetch once so the caller has a starting view
* Subscribe to the bus and re-fetch on matching cancellations
 */
func (c *Client) WatchSlots(ctx context.Context, doctorID, date string, onChange func(*Availability, error)) (*SlotWatcher, error) {
	day, err := apptime.CalendarDate(date)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	w := &SlotWatcher{
		client:   c,
		doctorID: doctorID,
		date:     day,
		onChange: onChange,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	onChange(c.AvailableSlots(ctx, doctorID, day))

	ch, unsubscribe := events.Channel(c.Bus, 8)
	go func() {
		defer close(w.done)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-ch:
				if !ok {
					return
				}
				if e.Type != events.AppointmentCancelled || !e.Matches(w.doctorID, w.date) {
					continue
				}
				log.Debug().Str("doctorId", w.doctorID).Str("date", w.date).Msg("refreshing slots after cancellation")
				w.onChange(c.AvailableSlots(ctx, w.doctorID, w.date))
			}
		}
	}()
	return w, nil
}

// Stop ends the watch and waits for the refresh loop to exit.
func (w *SlotWatcher) Stop() {
	w.cancel()
	<-w.done
}
