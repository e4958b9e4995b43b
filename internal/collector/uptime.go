// System uptime and load average.
package collector

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"go.uber.org/zap"

	"github.com/Guliveer/rctop/internal/snapshot"
)

// Uptime returns the time since boot. When the host reader fails, for
// example in a container without /proc, the kernel is asked directly.
func (s *System) Uptime(ctx context.Context) (time.Duration, error) {
	secs, err := host.UptimeWithContext(ctx)
	if err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	if up, ferr := kernelUptime(); ferr == nil {
		s.logger.Debug("Host uptime unreadable, using kernel fallback", zap.Error(err))
		return up, nil
	}
	return 0, classify(snapshot.CategoryUptime, err)
}

// LoadAverage returns the run-queue averages. Windows has no load average
// and reports ErrSourceUnavailable.
func (s *System) LoadAverage(ctx context.Context) (snapshot.LoadAverage, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return snapshot.LoadAverage{}, classify(snapshot.CategoryLoad, err)
	}
	return snapshot.LoadAverage{One: avg.Load1, Five: avg.Load5, Fifteen: avg.Load15}, nil
}
