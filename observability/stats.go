// Package observability reports coarse process health. The chat server
// is a single process holding all connection state in memory, so self
// CPU and RSS are the numbers worth watching.
package observability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

type StatsReporter struct {
	log      *slog.Logger
	interval time.Duration
}

func NewStatsReporter(log *slog.Logger, interval time.Duration) *StatsReporter {
	return &StatsReporter{log: log, interval: interval}
}

// Run logs self process stats until the context is cancelled.
func (s *StatsReporter) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("stopping stats reporter")
			return ctx.Err()
		case <-ticker.C:
			cpu, err := p.CPUPercent()
			if err != nil {
				s.log.Debug("failed to read cpu usage", "err", err)
				continue
			}
			mem, err := p.MemoryInfo()
			if err != nil {
				s.log.Debug("failed to read memory usage", "err", err)
				continue
			}
			s.log.Info("process stats", "cpu_percent", cpu, "rss_bytes", mem.RSS)
		}
	}
}
