package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Bytes formats a byte count with binary units ("1.5 GiB").
func Bytes(n uint64) string { return humanize.IBytes(n) }

var uptimeUnits = []struct {
	suffix string
	secs   uint64
	mod    uint64
}{
	{"y", 365 * 24 * 3600, 0},
	{"w", 7 * 24 * 3600, 52},
	{"d", 24 * 3600, 7},
	{"h", 3600, 24},
	{"m", 60, 60},
	{"s", 1, 60},
}

// Uptime formats d as "1y 2w 3d 4h 5m 6s", leaving out zero units.
func Uptime(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	total := uint64(d / time.Second)
	parts := make([]string, 0, len(uptimeUnits))
	for _, u := range uptimeUnits {
		v := total / u.secs
		if u.mod > 0 {
			v %= u.mod
		}
		if v > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", v, u.suffix))
		}
	}
	return strings.Join(parts, " ")
}
