package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats is the snapshot served on the internal stats endpoint.
type Stats struct {
	MessagesSent         uint64  `json:"messages_sent"`
	ConversationsStarted uint64  `json:"conversations_started"`
	SearchesServed       uint64  `json:"searches_served"`
	LiveConnections      int64   `json:"live_connections"`
	AllocMemMb           uint64  `json:"alloc_mem_mb"`
	NumGC                uint32  `json:"num_gc"`
	CPUPercent           float64 `json:"cpu_percent"`
	RSSBytes             uint64  `json:"rss_bytes"`
	PidStatus            string  `json:"pid_status"`
	UptimeSeconds        int64   `json:"uptime_seconds"`
}

// Monitor aggregates runtime counters for the whole process.
// Counters are atomic, Snapshot can be called from any goroutine.
type Monitor struct {
	log       *slog.Logger
	startedAt time.Time

	messagesSent         uint64
	conversationsStarted uint64
	searchesServed       uint64
	liveConnections      int64
}

func NewMonitor(log *slog.Logger) *Monitor {
	return &Monitor{log: log, startedAt: time.Now()}
}

func (m *Monitor) IncrMessagesSent() {
	atomic.AddUint64(&m.messagesSent, 1)
}

func (m *Monitor) IncrConversationsStarted() {
	atomic.AddUint64(&m.conversationsStarted, 1)
}

func (m *Monitor) IncrSearchesServed() {
	atomic.AddUint64(&m.searchesServed, 1)
}

func (m *Monitor) ConnectionOpened() {
	atomic.AddInt64(&m.liveConnections, 1)
}

func (m *Monitor) ConnectionClosed() {
	atomic.AddInt64(&m.liveConnections, -1)
}

// Snapshot collects the counters plus process-level metrics (CPU, RSS,
// status). Process metrics are best-effort: a collection failure is logged
// and the counters are still returned.
func (m *Monitor) Snapshot() Stats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := Stats{
		MessagesSent:         atomic.LoadUint64(&m.messagesSent),
		ConversationsStarted: atomic.LoadUint64(&m.conversationsStarted),
		SearchesServed:       atomic.LoadUint64(&m.searchesServed),
		LiveConnections:      atomic.LoadInt64(&m.liveConnections),
		AllocMemMb:           memStats.Alloc / 1024 / 1024,
		NumGC:                memStats.NumGC,
		UptimeSeconds:        int64(time.Since(m.startedAt).Seconds()),
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		m.log.Debug("Error while retrieving process", "err", err)
		return stats
	}
	if memInfo, err := p.MemoryInfo(); err == nil {
		stats.RSSBytes = memInfo.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	if status, err := p.Status(); err == nil {
		stats.PidStatus = status
	}
	return stats
}
