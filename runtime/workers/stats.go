package workers

import (
	"context"
	"log/slog"
	"presence-chat/observability"
	"time"
)

// StatsWorker periodically logs a snapshot of the monitoring counters.
type StatsWorker struct {
	log        *slog.Logger
	monitoring *observability.MonitoringManager
	interval   time.Duration
}

func NewStatsWorker(log *slog.Logger, monitoring *observability.MonitoringManager, interval time.Duration) *StatsWorker {
	return &StatsWorker{log: log, monitoring: monitoring, interval: interval}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stats := w.monitoring.GetLatest()
			w.log.Debug("Presence stats",
				"registrations", stats.Registrations,
				"heartbeats", stats.Heartbeats,
				"messages_posted", stats.MessagesPosted,
				"sweeps", stats.Sweeps,
				"evictions", stats.Evictions,
				"errors", stats.ErrorCount,
				"rss_bytes", stats.RssBytes,
				"cpu_percent", stats.CpuPercent,
				"uptime", stats.Uptime,
			)
		}
	}
}
