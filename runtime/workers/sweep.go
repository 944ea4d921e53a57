package workers

import (
	"context"
	"log/slog"
	"presence-chat/domain"
	"presence-chat/observability"
	"presence-chat/services"
	"time"
)

// DepartureAnnouncer appends the "sai da sala..." notice of an evicted participant.
type DepartureAnnouncer interface {
	EmitDeparture(ctx context.Context, participant domain.Participant) error
}

// SweepWorker evicts idle participants on a fixed interval.
// A failed pass is logged and the next tick tries again.
type SweepWorker struct {
	log        *slog.Logger
	presence   services.IPresenceService
	announcer  DepartureAnnouncer
	monitoring *observability.MonitoringManager
	clock      domain.Clock
	interval   time.Duration
	timeout    time.Duration
}

func NewSweepWorker(
	log *slog.Logger,
	presence services.IPresenceService,
	announcer DepartureAnnouncer,
	monitoring *observability.MonitoringManager,
	clock domain.Clock,
	interval, timeout time.Duration,
) *SweepWorker {
	return &SweepWorker{
		log:        log,
		presence:   presence,
		announcer:  announcer,
		monitoring: monitoring,
		clock:      clock,
		interval:   interval,
		timeout:    timeout,
	}
}

func (w *SweepWorker) Run(ctx context.Context) error {
	w.log.Info("Starting sweep worker", "interval", w.interval, "timeout", w.timeout)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping sweep")
			return nil
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs a single pass and returns the number of departures announced.
// Every evicted participant gets exactly one departure, even when some
// other eviction of the same pass failed.
func (w *SweepWorker) Sweep(ctx context.Context) int {
	evicted, err := w.presence.SweepExpired(ctx, w.timeout, w.clock.Now())
	if err != nil {
		w.log.Error("Sweep incomplete", "evicted", len(evicted), "error", err)
	}

	announced := 0
	for _, participant := range evicted {
		if announceErr := w.announcer.EmitDeparture(ctx, participant); announceErr != nil {
			w.monitoring.IncrErrorCount()
			w.log.Error("Departure not recorded", "name", participant.Name, "error", announceErr)
			continue
		}
		announced++
		w.log.Info("Participant evicted", "name", participant.Name, "last_seen", participant.LastSeen)
	}
	w.monitoring.AddSweep(len(evicted), err)
	return announced
}
