// Package collector reads raw host metrics. Each metric category is a
// separate, independently fallible capability so that one unsupported
// source never takes the others down with it.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/rctop/internal/snapshot"
)

// ErrSourceUnavailable is returned when a metric category is not supported
// on the current platform. Callers should degrade only that section.
var ErrSourceUnavailable = errors.New("metric source unavailable on this platform")

// Provider is the set of metric capabilities the sampler depends on.
type Provider interface {
	// Uptime returns the time since boot.
	Uptime(ctx context.Context) (time.Duration, error)

	// CPULoadStart takes the first per-core counter reading of a windowed
	// CPU measurement.
	CPULoadStart(ctx context.Context) (CPUToken, error)

	// CPULoadFinish takes the second reading and converts the delta since
	// the token into per-core percentages.
	CPULoadFinish(ctx context.Context, start CPUToken) ([]snapshot.CoreLoad, error)

	// Memory returns total and free physical memory in bytes.
	Memory(ctx context.Context) (MemoryStat, error)

	// Mounts returns capacity and available space per mounted filesystem,
	// ordered by mount path.
	Mounts(ctx context.Context) ([]MountStat, error)

	// NetworkInterfaces returns cumulative counters per interface, ordered
	// by name.
	NetworkInterfaces(ctx context.Context) ([]InterfaceStat, error)

	// LoadAverage returns the 1, 5 and 15 minute load averages.
	LoadAverage(ctx context.Context) (snapshot.LoadAverage, error)

	// CPUTemperature returns the hottest CPU sensor reading in °C.
	CPUTemperature(ctx context.Context) (float64, error)
}

// MemoryStat is the raw memory reading. Free is the memory available to new
// allocations without swapping.
type MemoryStat struct {
	Total uint64
	Free  uint64
}

// MountStat is the raw reading for one filesystem.
type MountStat struct {
	Path   string
	FSType string
	Total  uint64
	Avail  uint64
}

// InterfaceStat is the raw reading for one network interface.
type InterfaceStat struct {
	Name  string
	Addrs []string
	Rx    uint64
	Tx    uint64
}

// Option configures a System provider.
type Option func(*System)

// WithPseudoFilesystems keeps virtual and network filesystems in Mounts.
func WithPseudoFilesystems(include bool) Option {
	return func(s *System) { s.includePseudoFS = include }
}

// System implements Provider on top of gopsutil.
type System struct {
	logger          *zap.Logger
	includePseudoFS bool
}

var _ Provider = (*System)(nil)

// NewSystem creates a gopsutil-backed provider.
func NewSystem(logger *zap.Logger, opts ...Option) *System {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &System{logger: logger.Named("collector")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// classify wraps err with the category it came from. gopsutil signals an
// unsupported platform with a "not implemented" error; that case becomes
// ErrSourceUnavailable.
func classify(category snapshot.Category, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSourceUnavailable) || strings.Contains(strings.ToLower(err.Error()), "not implemented") {
		return fmt.Errorf("%s: %w", category, ErrSourceUnavailable)
	}
	return fmt.Errorf("%s: %w", category, err)
}
