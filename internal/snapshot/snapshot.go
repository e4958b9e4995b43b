// Package snapshot defines the metric data structures shared by the sampler
// and the renderer. A Snapshot is built once per sample and never mutated
// after it has been published.
package snapshot

import (
	"math"
	"time"
)

// Category identifies one independently sampled section of a Snapshot.
type Category uint8

const (
	CategoryUptime Category = 1 << iota
	CategoryCPU
	CategoryMemory
	CategoryDisk
	CategoryNetwork
	CategoryLoad
	CategoryTemperature
)

// AllCategories is the set of every section a Snapshot can carry.
const AllCategories = CategoryUptime | CategoryCPU | CategoryMemory | CategoryDisk |
	CategoryNetwork | CategoryLoad | CategoryTemperature

var categoryNames = []struct {
	c    Category
	name string
}{
	{CategoryUptime, "uptime"},
	{CategoryCPU, "cpu"},
	{CategoryMemory, "memory"},
	{CategoryDisk, "disk"},
	{CategoryNetwork, "network"},
	{CategoryLoad, "load"},
	{CategoryTemperature, "temperature"},
}

// String returns the lowercase name of a single category.
func (c Category) String() string {
	for _, n := range categoryNames {
		if n.c == c {
			return n.name
		}
	}
	return "unknown"
}

// Categories returns the individual categories in declaration order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryNames))
	for _, n := range categoryNames {
		out = append(out, n.c)
	}
	return out
}

// Has reports whether every bit of other is set in c.
func (c Category) Has(other Category) bool { return c&other == other }

// CoreLoad is the share of one logical core's time spent in each state over
// the sampling window. Every field is a percentage in [0,100].
type CoreLoad struct {
	User      float64 `json:"user"`
	Nice      float64 `json:"nice"`
	System    float64 `json:"system"`
	Interrupt float64 `json:"interrupt"`
	Idle      float64 `json:"idle"`
}

// Busy returns 100 - Idle, clamped to [0,100].
func (l CoreLoad) Busy() float64 { return ClampPercent(100 - l.Idle) }

// Memory is physical memory usage in bytes. Used + Free == Total.
type Memory struct {
	Total uint64 `json:"total"`
	Used  uint64 `json:"used"`
	Free  uint64 `json:"free"`
}

// Percentage returns Used/Total*100, or 0 for an empty total.
func (m Memory) Percentage() float64 { return percentOf(m.Used, m.Total) }

// NewMemory derives used bytes from total and free. Free is capped at total
// so the accounting always reconciles.
func NewMemory(total, free uint64) Memory {
	if free > total {
		free = total
	}
	return Memory{Total: total, Used: total - free, Free: free}
}

// Mount is usage for one mounted filesystem. Used + Free == Total.
type Mount struct {
	Path   string `json:"path"`
	FSType string `json:"fs_type,omitempty"`
	Total  uint64 `json:"total"`
	Used   uint64 `json:"used"`
	Free   uint64 `json:"free"`
}

// Percentage returns Used/Total*100, or 0 for an empty total.
func (m Mount) Percentage() float64 { return percentOf(m.Used, m.Total) }

// NewMount builds a Mount from the space available to unprivileged users.
// Blocks reserved for root count as used.
func NewMount(path, fsType string, total, avail uint64) Mount {
	if avail > total {
		avail = total
	}
	return Mount{Path: path, FSType: fsType, Total: total, Used: total - avail, Free: avail}
}

// Interface holds cumulative counters for one network interface.
type Interface struct {
	Name      string   `json:"name"`
	Addresses []string `json:"addresses"`
	RxBytes   uint64   `json:"rx_bytes"`
	TxBytes   uint64   `json:"tx_bytes"`
}

// LoadAverage is the run-queue length averaged over 1, 5 and 15 minutes.
type LoadAverage struct {
	One     float64 `json:"one"`
	Five    float64 `json:"five"`
	Fifteen float64 `json:"fifteen"`
}

// Snapshot is a single point-in-time view of the host.
type Snapshot struct {
	Taken   time.Time     `json:"taken"`
	Uptime  time.Duration `json:"uptime"`
	CPU     []CoreLoad    `json:"cpu"`
	Memory  Memory        `json:"memory"`
	Disks   []Mount       `json:"disks"`
	Network []Interface   `json:"network"`
	Load    LoadAverage   `json:"load"`
	CPUTemp *float64      `json:"cpu_temp"`

	// Missing marks sections that could not be sampled. Their fields hold
	// zero values and must be rendered as unavailable.
	Missing Category `json:"missing"`
}

// Available reports whether the section for c was sampled.
func (s *Snapshot) Available(c Category) bool { return s.Missing&c == 0 }

// AggregateCPU returns the mean busy percentage across all cores.
func (s *Snapshot) AggregateCPU() float64 {
	if len(s.CPU) == 0 {
		return 0
	}
	var sum float64
	for _, c := range s.CPU {
		sum += c.Busy()
	}
	return ClampPercent(sum / float64(len(s.CPU)))
}

// ClampPercent forces p into [0,100]. NaN maps to 0.
func ClampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func percentOf(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return ClampPercent(float64(part) / float64(total) * 100)
}
