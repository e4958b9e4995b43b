// Network interface collector: cumulative RX/TX counters and addresses.
package collector

import (
	"context"
	"sort"

	"github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"

	"github.com/Guliveer/rctop/internal/snapshot"
)

// NetworkInterfaces returns per-interface byte counters with the addresses
// bound to each interface. Missing address information is not an error.
func (s *System) NetworkInterfaces(ctx context.Context) ([]InterfaceStat, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, classify(snapshot.CategoryNetwork, err)
	}

	ifaces, err := net.InterfacesWithContext(ctx)
	if err != nil {
		s.logger.Debug("Interface addresses unavailable", zap.Error(err))
		ifaces = nil
	}

	return mergeInterfaces(counters, ifaces), nil
}

// mergeInterfaces joins counters with address lists by interface name and
// orders the result by name so indexes stay stable across samples.
func mergeInterfaces(counters []net.IOCountersStat, ifaces net.InterfaceStatList) []InterfaceStat {
	addrs := make(map[string][]string, len(ifaces))
	for _, iface := range ifaces {
		for _, a := range iface.Addrs {
			addrs[iface.Name] = append(addrs[iface.Name], a.Addr)
		}
	}

	out := make([]InterfaceStat, 0, len(counters))
	for _, c := range counters {
		out = append(out, InterfaceStat{
			Name:  c.Name,
			Addrs: addrs[c.Name],
			Rx:    c.BytesRecv,
			Tx:    c.BytesSent,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
