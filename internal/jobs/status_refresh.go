package jobs

import (
	"context"
	"log"
	"time"

	"clubpulse/server/internal/config"
	"clubpulse/server/internal/event"
	"clubpulse/server/internal/repository"
)

// StartStatusRefreshJob periodically recomputes the cached status column of
// every event from its date/time window. The derived status stays
// authoritative in API responses; this keeps the stored value fresh for
// anything that reads the table directly.
func StartStatusRefreshJob(ctx context.Context, cfg config.Config, store *repository.Store) {
	if !cfg.StatusRefreshEnabled {
		return
	}
	if store == nil {
		log.Printf("status refresh job disabled: database not configured")
		return
	}
	interval := cfg.StatusRefreshInterval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
				updated, err := refreshStatuses(tickCtx, store, time.Now())
				cancel()
				if err != nil {
					log.Printf("status refresh job error: %v", err)
					continue
				}
				if updated > 0 {
					log.Printf("status refresh job updated %d events", updated)
				}
			}
		}
	}()
}

func refreshStatuses(ctx context.Context, store *repository.Store, now time.Time) (int, error) {
	events, err := store.ListEvents(ctx)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, ev := range events {
		status := string(event.StatusOf(ev, now))
		if status == ev.Status {
			continue
		}
		if err := store.UpdateEventStatus(ctx, ev.ID, status); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
