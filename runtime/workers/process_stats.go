package workers

import (
	"chat-notify/observability"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

const DefaultStatsInterval = 15 * time.Second

// RegistryStats is the read side of the subscriber registry.
type RegistryStats interface {
	Users() int
}

// ProcessStatsWorker periodically samples the process footprint and the
// number of online users, exporting both as gauges.
type ProcessStatsWorker struct {
	log      *slog.Logger
	registry RegistryStats
	metrics  *observability.Metrics
	interval time.Duration
}

func NewProcessStatsWorker(log *slog.Logger, registry RegistryStats,
	metrics *observability.Metrics, interval time.Duration) *ProcessStatsWorker {
	if interval <= 0 {
		interval = DefaultStatsInterval
	}
	return &ProcessStatsWorker{log: log, registry: registry, metrics: metrics, interval: interval}
}

func (w *ProcessStatsWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Sample(p)
		}
	}
}

// Sample records one snapshot of the process and registry.
func (w *ProcessStatsWorker) Sample(p *process.Process) {
	rss, cpu, status, err := selfStats(p)
	if err != nil {
		w.log.Error("Failed to collect self stats", "err", err)
		return
	}
	w.metrics.SetProcess(rss, cpu)
	w.log.Debug("Process stats",
		"rss", rss, "cpu", cpu, "status", status,
		"online_users", w.registry.Users())
}

// selfStats retrieves memory, CPU and OS status for the given process.
func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
