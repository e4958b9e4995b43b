// Physical memory collector.
// Uses gopsutil for cross-platform memory metrics.
package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Guliveer/rctop/internal/snapshot"
)

// Memory returns total memory and the memory available to new processes.
// Available rather than MemFree is reported as free, since page cache is
// reclaimable and should not read as used.
func (s *System) Memory(ctx context.Context) (MemoryStat, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStat{}, classify(snapshot.CategoryMemory, err)
	}
	free := v.Available
	if free == 0 && v.Free > 0 {
		free = v.Free
	}
	return MemoryStat{Total: v.Total, Free: free}, nil
}
