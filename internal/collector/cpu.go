// Per-core CPU load, measured as the delta between two counter readings.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/Guliveer/rctop/internal/snapshot"
)

// CPUToken is the first half of a windowed CPU measurement.
type CPUToken struct {
	Taken time.Time
	times []cpu.TimesStat
}

// CPULoadStart reads the cumulative per-core time counters.
func (s *System) CPULoadStart(ctx context.Context) (CPUToken, error) {
	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return CPUToken{}, classify(snapshot.CategoryCPU, err)
	}
	if len(times) == 0 {
		return CPUToken{}, classify(snapshot.CategoryCPU, ErrSourceUnavailable)
	}
	return CPUToken{Taken: time.Now(), times: times}, nil
}

// CPULoadFinish reads the counters again and returns the share of the
// window each core spent in each state.
func (s *System) CPULoadFinish(ctx context.Context, start CPUToken) ([]snapshot.CoreLoad, error) {
	if len(start.times) == 0 {
		return nil, fmt.Errorf("%s: measurement was never started", snapshot.CategoryCPU)
	}
	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return nil, classify(snapshot.CategoryCPU, err)
	}
	return loadsBetween(start.times, times)
}

// loadsBetween pairs readings by core name. A core set that changed inside
// the window is reported as an error; the next window sees the new shape.
func loadsBetween(prev, cur []cpu.TimesStat) ([]snapshot.CoreLoad, error) {
	if len(prev) != len(cur) {
		return nil, fmt.Errorf("%s: core count changed from %d to %d during measurement",
			snapshot.CategoryCPU, len(prev), len(cur))
	}
	loads := make([]snapshot.CoreLoad, len(cur))
	for i := range cur {
		if prev[i].CPU != cur[i].CPU {
			return nil, fmt.Errorf("%s: core %q replaced by %q during measurement",
				snapshot.CategoryCPU, prev[i].CPU, cur[i].CPU)
		}
		loads[i] = coreLoad(prev[i], cur[i])
	}
	return loads, nil
}

// coreLoad converts two readings of one core into percentages. I/O wait is
// idle time and soft interrupts count as interrupts. Guest time is already
// part of user time on Linux and is not added again.
func coreLoad(prev, cur cpu.TimesStat) snapshot.CoreLoad {
	user := delta(prev.User, cur.User)
	nice := delta(prev.Nice, cur.Nice)
	system := delta(prev.System, cur.System)
	irq := delta(prev.Irq, cur.Irq) + delta(prev.Softirq, cur.Softirq)
	idle := delta(prev.Idle, cur.Idle) + delta(prev.Iowait, cur.Iowait)
	steal := delta(prev.Steal, cur.Steal)

	total := user + nice + system + irq + idle + steal
	if total <= 0 {
		return snapshot.CoreLoad{Idle: 100}
	}
	pct := func(v float64) float64 { return snapshot.ClampPercent(v / total * 100) }
	return snapshot.CoreLoad{
		User:      pct(user),
		Nice:      pct(nice),
		System:    pct(system),
		Interrupt: pct(irq),
		Idle:      pct(idle),
	}
}

// delta treats a counter that went backwards as unchanged.
func delta(prev, cur float64) float64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}
