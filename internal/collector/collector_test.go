package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/rctop/internal/snapshot"
)

func TestCoreLoad(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur cpu.TimesStat
		want      snapshot.CoreLoad
	}{
		{
			name: "quarter busy",
			prev: cpu.TimesStat{CPU: "cpu0", User: 100, Idle: 300},
			cur:  cpu.TimesStat{CPU: "cpu0", User: 110, Idle: 330},
			want: snapshot.CoreLoad{User: 25, Idle: 75},
		},
		{
			name: "iowait counts as idle and softirq as interrupt",
			prev: cpu.TimesStat{},
			cur:  cpu.TimesStat{System: 2, Irq: 1, Softirq: 1, Idle: 4, Iowait: 2},
			want: snapshot.CoreLoad{System: 20, Interrupt: 20, Idle: 60},
		},
		{
			name: "no elapsed time reads as idle",
			prev: cpu.TimesStat{User: 5, Idle: 5},
			cur:  cpu.TimesStat{User: 5, Idle: 5},
			want: snapshot.CoreLoad{Idle: 100},
		},
		{
			name: "counter going backwards is ignored",
			prev: cpu.TimesStat{User: 50, Idle: 10},
			cur:  cpu.TimesStat{User: 40, Idle: 20},
			want: snapshot.CoreLoad{Idle: 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coreLoad(tt.prev, tt.cur)
			assert.InDelta(t, tt.want.User, got.User, 1e-9)
			assert.InDelta(t, tt.want.System, got.System, 1e-9)
			assert.InDelta(t, tt.want.Interrupt, got.Interrupt, 1e-9)
			assert.InDelta(t, tt.want.Idle, got.Idle, 1e-9)
		})
	}
}

func TestLoadsBetween_CoreSetChanged(t *testing.T) {
	prev := []cpu.TimesStat{{CPU: "cpu0"}, {CPU: "cpu1"}}

	_, err := loadsBetween(prev, prev[:1])
	assert.Error(t, err)

	_, err = loadsBetween(prev, []cpu.TimesStat{{CPU: "cpu0"}, {CPU: "cpu2"}})
	assert.Error(t, err)

	loads, err := loadsBetween(prev, prev)
	require.NoError(t, err)
	assert.Len(t, loads, 2)
}

func TestCPULoadFinish_WithoutStart(t *testing.T) {
	_, err := NewSystem(nil).CPULoadFinish(context.Background(), CPUToken{})
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(snapshot.CategoryDisk, nil))

	err := classify(snapshot.CategoryDisk, errors.New("not implemented yet"))
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "disk")

	err = classify(snapshot.CategoryMemory, errors.New("permission denied"))
	assert.NotErrorIs(t, err, ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "memory: permission denied")
}

func TestKeepPartitions(t *testing.T) {
	parts := []disk.PartitionStat{
		{Mountpoint: "/", Fstype: "ext4"},
		{Mountpoint: "/proc", Fstype: "proc"},
		{Mountpoint: "/run", Fstype: "tmpfs"},
		{Mountpoint: "/home", Fstype: "xfs"},
		{Mountpoint: "/home", Fstype: "xfs"},
		{Mountpoint: "/System/Volumes/Data", Fstype: "apfs"},
		{Mountpoint: "/mnt/share", Fstype: "nfs4"},
	}

	got := keepPartitions(parts, false)
	var paths []string
	for _, p := range got {
		paths = append(paths, p.Mountpoint)
	}
	assert.Equal(t, []string{"/", "/home"}, paths)

	assert.Len(t, keepPartitions(parts, true), 6)
}

func TestMergeInterfaces(t *testing.T) {
	counters := []net.IOCountersStat{
		{Name: "wlan0", BytesRecv: 10, BytesSent: 20},
		{Name: "eth0", BytesRecv: 1, BytesSent: 2},
	}
	ifaces := net.InterfaceStatList{
		{Name: "eth0", Addrs: net.InterfaceAddrList{{Addr: "10.0.0.2/24"}, {Addr: "fe80::1/64"}}},
	}

	got := mergeInterfaces(counters, ifaces)
	require.Len(t, got, 2)
	assert.Equal(t, "eth0", got[0].Name)
	assert.Equal(t, []string{"10.0.0.2/24", "fe80::1/64"}, got[0].Addrs)
	assert.Equal(t, uint64(1), got[0].Rx)
	assert.Equal(t, "wlan0", got[1].Name)
	assert.Empty(t, got[1].Addrs)
	assert.Equal(t, uint64(20), got[1].Tx)
}

func TestHottestCPUSensor(t *testing.T) {
	temps := []host.TemperatureStat{
		{SensorKey: "coretemp_core_0_input", Temperature: 51},
		{SensorKey: "coretemp_core_1_input", Temperature: 63.5},
		{SensorKey: "amdgpu_edge_input", Temperature: 80},
		{SensorKey: "coretemp_package_id_0_input", Temperature: 400},
	}
	got, ok := hottestCPUSensor(temps)
	require.True(t, ok)
	assert.Equal(t, 63.5, got)

	_, ok = hottestCPUSensor([]host.TemperatureStat{{SensorKey: "nvme_composite", Temperature: 40}})
	assert.False(t, ok)
}

func TestRegistry_CollectAllIsolatesFailures(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(snapshot.CategoryMemory, func(ctx context.Context) (interface{}, error) {
		return MemoryStat{Total: 10, Free: 5}, nil
	})
	r.Register(snapshot.CategoryDisk, func(ctx context.Context) (interface{}, error) {
		return nil, ErrSourceUnavailable
	})

	results := r.CollectAll(context.Background())
	require.Len(t, results, 2)
	assert.NoError(t, results[snapshot.CategoryMemory].Err)
	assert.Equal(t, MemoryStat{Total: 10, Free: 5}, results[snapshot.CategoryMemory].Data)
	assert.ErrorIs(t, results[snapshot.CategoryDisk].Err, ErrSourceUnavailable)
	assert.Equal(t, []snapshot.Category{snapshot.CategoryMemory, snapshot.CategoryDisk}, r.Categories())
}
