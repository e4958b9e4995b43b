// Package sampler implements the tick-based collection loop. Every tick it
// reads each metric category concurrently, assembles a Snapshot and
// publishes it to the store. The sampler never draws; the renderer picks the
// snapshot up on its own cadence.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/rctop/internal/collector"
	"github.com/Guliveer/rctop/internal/config"
	"github.com/Guliveer/rctop/internal/snapshot"
)

// ErrSampleFailed is returned by Sample when no category could be read. The
// previously published snapshot stays in place.
var ErrSampleFailed = errors.New("every metric category failed")

// collectTimeout bounds the readers that are not waiting on the CPU window.
const collectTimeout = 10 * time.Second

// Sampler periodically measures the host and publishes snapshots.
type Sampler struct {
	provider collector.Provider
	store    *snapshot.Store
	registry *collector.Registry
	logger   *zap.Logger

	interval time.Duration
	window   time.Duration

	// failing holds the categories whose last read failed, so that each
	// failure and each recovery is logged once.
	failing   snapshot.Category
	allFailed bool

	now func() time.Time
}

// New creates a Sampler reading from provider and publishing to store.
func New(provider collector.Provider, store *snapshot.Store, cfg *config.Config, logger *zap.Logger) *Sampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("sampler")

	s := &Sampler{
		provider: provider,
		store:    store,
		registry: collector.NewRegistry(logger),
		logger:   logger,
		interval: cfg.Collection.Interval.Duration,
		window:   cfg.Collection.CPUWindow.Duration,
		now:      time.Now,
	}

	s.registry.Register(snapshot.CategoryCPU, s.readCPU)
	s.registry.Register(snapshot.CategoryUptime, func(ctx context.Context) (interface{}, error) {
		return provider.Uptime(ctx)
	})
	s.registry.Register(snapshot.CategoryMemory, func(ctx context.Context) (interface{}, error) {
		return provider.Memory(ctx)
	})
	s.registry.Register(snapshot.CategoryDisk, func(ctx context.Context) (interface{}, error) {
		return provider.Mounts(ctx)
	})
	s.registry.Register(snapshot.CategoryNetwork, func(ctx context.Context) (interface{}, error) {
		return provider.NetworkInterfaces(ctx)
	})
	s.registry.Register(snapshot.CategoryLoad, func(ctx context.Context) (interface{}, error) {
		return provider.LoadAverage(ctx)
	})
	s.registry.Register(snapshot.CategoryTemperature, func(ctx context.Context) (interface{}, error) {
		return provider.CPUTemperature(ctx)
	})

	return s
}

// Run samples on every tick until ctx is cancelled. The caller takes the
// first sample with Sample before starting Run.
func (s *Sampler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.Sample(ctx); err != nil && ctx.Err() == nil && !errors.Is(err, ErrSampleFailed) {
				s.logger.Error("Sampling failed", zap.Error(err))
			}
		}
	}
}

// Sample performs one measurement and publishes it. It must not be called
// concurrently with itself or with Run.
func (s *Sampler) Sample(ctx context.Context) error {
	collectCtx, cancel := context.WithTimeout(ctx, s.window+collectTimeout)
	defer cancel()

	results := s.registry.CollectAll(collectCtx)
	if err := ctx.Err(); err != nil {
		return err
	}

	snap, failed := s.assemble(results, s.store.Load())
	if failed == len(results) {
		if !s.allFailed {
			s.logger.Warn("No metric category could be read, keeping previous snapshot")
			s.allFailed = true
		}
		return ErrSampleFailed
	}
	if s.allFailed {
		s.logger.Info("Sampling recovered")
		s.allFailed = false
	}

	s.store.Publish(snap)
	s.logger.Debug("Published snapshot",
		zap.Time("taken", snap.Taken),
		zap.Stringer("missing", missingList(snap.Missing)))
	return nil
}

// readCPU measures per-core load across the configured window.
func (s *Sampler) readCPU(ctx context.Context) (interface{}, error) {
	token, err := s.provider.CPULoadStart(ctx)
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(s.window)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return s.provider.CPULoadFinish(ctx, token)
}

// assemble maps reader results into a new snapshot. A category that failed
// transiently keeps its value from prev when prev had one. It returns the
// number of failed categories.
func (s *Sampler) assemble(results map[snapshot.Category]collector.Result, prev *snapshot.Snapshot) (*snapshot.Snapshot, int) {
	snap := &snapshot.Snapshot{Taken: s.now()}
	failed := 0

	for _, c := range s.registry.Categories() {
		res, ok := results[c]
		if !ok {
			res = collector.Result{Err: fmt.Errorf("%s: no reading", c)}
		}
		if res.Err == nil {
			res.Err = apply(snap, c, res.Data)
		}
		if res.Err == nil {
			s.recovered(c)
			continue
		}

		failed++
		s.failed(c, res.Err)
		if !errors.Is(res.Err, collector.ErrSourceUnavailable) && prev != nil && prev.Available(c) {
			retain(snap, prev, c)
			continue
		}
		snap.Missing |= c
	}
	return snap, failed
}

func (s *Sampler) failed(c snapshot.Category, err error) {
	if s.failing.Has(c) {
		return
	}
	s.failing |= c
	if errors.Is(err, collector.ErrSourceUnavailable) {
		s.logger.Info("Metric source unavailable", zap.Stringer("category", c), zap.Error(err))
		return
	}
	s.logger.Warn("Metric read failed", zap.Stringer("category", c), zap.Error(err))
}

func (s *Sampler) recovered(c snapshot.Category) {
	if !s.failing.Has(c) {
		return
	}
	s.failing &^= c
	s.logger.Info("Metric read recovered", zap.Stringer("category", c))
}

// apply copies one reading into snap.
func apply(snap *snapshot.Snapshot, c snapshot.Category, data interface{}) error {
	switch c {
	case snapshot.CategoryUptime:
		if v, ok := data.(time.Duration); ok {
			snap.Uptime = v
			return nil
		}
	case snapshot.CategoryCPU:
		if v, ok := data.([]snapshot.CoreLoad); ok {
			snap.CPU = v
			return nil
		}
	case snapshot.CategoryMemory:
		if v, ok := data.(collector.MemoryStat); ok {
			snap.Memory = snapshot.NewMemory(v.Total, v.Free)
			return nil
		}
	case snapshot.CategoryDisk:
		if v, ok := data.([]collector.MountStat); ok {
			snap.Disks = make([]snapshot.Mount, 0, len(v))
			for _, m := range v {
				snap.Disks = append(snap.Disks, snapshot.NewMount(m.Path, m.FSType, m.Total, m.Avail))
			}
			return nil
		}
	case snapshot.CategoryNetwork:
		if v, ok := data.([]collector.InterfaceStat); ok {
			snap.Network = make([]snapshot.Interface, 0, len(v))
			for _, i := range v {
				snap.Network = append(snap.Network, snapshot.Interface{
					Name:      i.Name,
					Addresses: i.Addrs,
					RxBytes:   i.Rx,
					TxBytes:   i.Tx,
				})
			}
			return nil
		}
	case snapshot.CategoryLoad:
		if v, ok := data.(snapshot.LoadAverage); ok {
			snap.Load = v
			return nil
		}
	case snapshot.CategoryTemperature:
		if v, ok := data.(float64); ok {
			snap.CPUTemp = &v
			return nil
		}
	}
	return fmt.Errorf("%s: unexpected reading of type %T", c, data)
}

// retain copies the section for c from prev. Slices are shared; published
// snapshots are never mutated.
func retain(snap, prev *snapshot.Snapshot, c snapshot.Category) {
	switch c {
	case snapshot.CategoryUptime:
		snap.Uptime = prev.Uptime
	case snapshot.CategoryCPU:
		snap.CPU = prev.CPU
	case snapshot.CategoryMemory:
		snap.Memory = prev.Memory
	case snapshot.CategoryDisk:
		snap.Disks = prev.Disks
	case snapshot.CategoryNetwork:
		snap.Network = prev.Network
	case snapshot.CategoryLoad:
		snap.Load = prev.Load
	case snapshot.CategoryTemperature:
		snap.CPUTemp = prev.CPUTemp
	}
}

type missingList snapshot.Category

func (m missingList) String() string {
	out := ""
	for _, c := range snapshot.Categories() {
		if snapshot.Category(m).Has(c) {
			if out != "" {
				out += ","
			}
			out += c.String()
		}
	}
	return out
}
