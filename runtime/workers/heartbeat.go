package workers

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"plaza/metrics"

	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker samples the worker process itself on a fixed
// interval and publishes the readings as gauges. Runs under the
// supervisor like any other worker.
type HeartbeatWorker struct {
	log      *slog.Logger
	metrics  *metrics.Metrics
	interval time.Duration
}

func NewHeartbeatWorker(log *slog.Logger, m *metrics.Metrics, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, metrics: m, interval: interval}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if mem, err := p.MemoryInfo(); err == nil {
				w.metrics.ProcessRSS.Set(float64(mem.RSS))
			} else {
				w.log.Warn("Failed to collect memory stats", "err", err)
			}
			if cpu, err := p.CPUPercent(); err == nil {
				w.metrics.ProcessCPU.Set(cpu)
			}
			w.metrics.Goroutines.Set(float64(runtime.NumGoroutine()))
		}
	}
}
