package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

const maxRecentSweeps = 20

// RecentSweepInfo describes one pass of the sweep worker.
type RecentSweepInfo struct {
	Evicted   int    `json:"evicted"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// MonitoringStats aggregates the counters served on the health endpoint.
type MonitoringStats struct {
	Registrations  uint64 `json:"registrations"`
	Heartbeats     uint64 `json:"heartbeats"`
	MessagesPosted uint64 `json:"messages_posted"`
	Sweeps         uint64 `json:"sweeps"`
	Evictions      uint64 `json:"evictions"`
	ErrorCount     uint64 `json:"error_count"`

	AllocMemMb   uint64            `json:"alloc_mem_mb"`
	NumGC        uint32            `json:"num_gc"`
	RssBytes     uint64            `json:"rss_bytes"`
	CpuPercent   float64           `json:"cpu_percent"`
	Uptime       string            `json:"uptime"`
	RecentSweeps []RecentSweepInfo `json:"recent_sweeps"`
}

// MonitoringManager counts presence activity. Counters are updated lock-free,
// the sweep history is guarded by mu.
type MonitoringManager struct {
	log          *slog.Logger
	mu           sync.RWMutex
	startedAt    time.Time
	recentSweeps []RecentSweepInfo

	Registrations  uint64
	Heartbeats     uint64
	MessagesPosted uint64
	Sweeps         uint64
	Evictions      uint64
	ErrorCount     uint64
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{
		log:          log,
		startedAt:    time.Now(),
		recentSweeps: make([]RecentSweepInfo, 0),
	}
}

func (mm *MonitoringManager) IncrRegistrations() {
	atomic.AddUint64(&mm.Registrations, 1)
}

func (mm *MonitoringManager) IncrHeartbeats() {
	atomic.AddUint64(&mm.Heartbeats, 1)
}

func (mm *MonitoringManager) IncrMessagesPosted() {
	atomic.AddUint64(&mm.MessagesPosted, 1)
}

func (mm *MonitoringManager) IncrErrorCount() {
	atomic.AddUint64(&mm.ErrorCount, 1)
}

// AddSweep records the outcome of a sweep, newest first, keeping the last 20.
func (mm *MonitoringManager) AddSweep(evicted int, err error) {
	atomic.AddUint64(&mm.Sweeps, 1)
	atomic.AddUint64(&mm.Evictions, uint64(evicted))
	status := "ok"
	if err != nil {
		status = "failed"
		mm.IncrErrorCount()
	}

	mm.mu.Lock()
	defer mm.mu.Unlock()
	sweep := RecentSweepInfo{
		Evicted:   evicted,
		Status:    status,
		Timestamp: time.Now().Format("15:04:05"),
	}
	mm.recentSweeps = append([]RecentSweepInfo{sweep}, mm.recentSweeps...)
	if len(mm.recentSweeps) > maxRecentSweeps {
		mm.recentSweeps = mm.recentSweeps[:maxRecentSweeps]
	}
}

// GetLatest builds a snapshot of the counters together with runtime and process metrics.
func (mm *MonitoringManager) GetLatest() MonitoringStats {
	stats := MonitoringStats{
		Registrations:  atomic.LoadUint64(&mm.Registrations),
		Heartbeats:     atomic.LoadUint64(&mm.Heartbeats),
		MessagesPosted: atomic.LoadUint64(&mm.MessagesPosted),
		Sweeps:         atomic.LoadUint64(&mm.Sweeps),
		Evictions:      atomic.LoadUint64(&mm.Evictions),
		ErrorCount:     atomic.LoadUint64(&mm.ErrorCount),
		Uptime:         time.Since(mm.startedAt).Truncate(time.Second).String(),
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	stats.AllocMemMb = m.Alloc / 1024 / 1024
	stats.NumGC = m.NumGC

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if memInfo, err := p.MemoryInfo(); err == nil {
			stats.RssBytes = memInfo.RSS
		}
		if cpu, err := p.CPUPercent(); err == nil {
			stats.CpuPercent = cpu
		}
	} else {
		mm.log.Debug("Failed to collect self stats", "err", err)
	}

	mm.mu.RLock()
	stats.RecentSweeps = append([]RecentSweepInfo(nil), mm.recentSweeps...)
	mm.mu.RUnlock()
	return stats
}
