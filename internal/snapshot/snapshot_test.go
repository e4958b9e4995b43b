package snapshot

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemory_Reconciles(t *testing.T) {
	tests := []struct {
		name        string
		total, free uint64
		wantUsed    uint64
		wantPct     float64
	}{
		{"quarter used", 1000, 750, 250, 25},
		{"empty", 0, 0, 0, 0},
		{"free exceeds total", 100, 150, 0, 0},
		{"all used", 4096, 0, 4096, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMemory(tt.total, tt.free)
			assert.Equal(t, m.Total, m.Used+m.Free)
			assert.Equal(t, tt.wantUsed, m.Used)
			assert.InDelta(t, tt.wantPct, m.Percentage(), 1e-9)
			assert.GreaterOrEqual(t, m.Percentage(), 0.0)
			assert.LessOrEqual(t, m.Percentage(), 100.0)
		})
	}
}

func TestNewMount_ReservedBlocksCountAsUsed(t *testing.T) {
	m := NewMount("/", "ext4", 1000, 300)
	assert.Equal(t, uint64(700), m.Used)
	assert.Equal(t, m.Total, m.Used+m.Free)
	assert.InDelta(t, 70.0, m.Percentage(), 1e-9)

	odd := NewMount("/mnt", "xfs", 10, 20)
	assert.Equal(t, odd.Total, odd.Used+odd.Free)
	assert.Zero(t, odd.Used)
}

func TestAggregateCPU(t *testing.T) {
	s := &Snapshot{CPU: []CoreLoad{{Idle: 75}, {Idle: 75}, {Idle: 75}, {Idle: 75}}}
	assert.InDelta(t, 25.0, s.AggregateCPU(), 1e-9)

	mixed := &Snapshot{CPU: []CoreLoad{{Idle: 0}, {Idle: 100}}}
	assert.InDelta(t, 50.0, mixed.AggregateCPU(), 1e-9)

	assert.Zero(t, (&Snapshot{}).AggregateCPU())
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-3))
	assert.Equal(t, 100.0, ClampPercent(140))
	assert.Equal(t, 0.0, ClampPercent(math.NaN()))
	assert.Equal(t, 42.5, ClampPercent(42.5))
	assert.Equal(t, 0.0, CoreLoad{Idle: 120}.Busy())
}

func TestCategory(t *testing.T) {
	missing := CategoryDisk | CategoryNetwork
	assert.True(t, missing.Has(CategoryDisk))
	assert.False(t, missing.Has(CategoryCPU))
	assert.Equal(t, "disk", CategoryDisk.String())
	assert.Len(t, Categories(), 7)

	s := &Snapshot{Missing: missing}
	assert.False(t, s.Available(CategoryNetwork))
	assert.True(t, s.Available(CategoryMemory))
}

func TestStore_LoadIsIdempotent(t *testing.T) {
	st := NewStore()
	assert.Nil(t, st.Load())

	snap := &Snapshot{Memory: NewMemory(1000, 750)}
	st.Publish(snap)

	first, v1 := st.LoadVersion()
	second, v2 := st.LoadVersion()
	require.NotNil(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, v1, v2)
	assert.Equal(t, *first, *second)
}

func TestStore_PublishReplacesWithoutMutating(t *testing.T) {
	st := NewStore()
	old := &Snapshot{CPU: []CoreLoad{{Idle: 10}}}
	st.Publish(old)
	held := st.Load()

	st.Publish(&Snapshot{CPU: []CoreLoad{{Idle: 90}, {Idle: 80}}})

	assert.Len(t, held.CPU, 1)
	assert.Equal(t, 10.0, held.CPU[0].Idle)
	assert.Len(t, st.Load().CPU, 2)
	assert.Equal(t, uint64(2), st.Version())

	st.Publish(nil)
	assert.Equal(t, uint64(2), st.Version())
}

func TestStore_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	st := NewStore()
	st.Publish(&Snapshot{Memory: NewMemory(100, 100)})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint64(0); i < 1000; i++ {
			st.Publish(&Snapshot{Memory: NewMemory(100+i, i)})
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s := st.Load()
				if s.Memory.Used+s.Memory.Free != s.Memory.Total {
					t.Errorf("torn snapshot: %+v", s.Memory)
					return
				}
			}
		}()
	}
	wg.Wait()
}
