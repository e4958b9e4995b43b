package collector

import (
	"time"

	"golang.org/x/sys/unix"
)

// kernelUptime reads the uptime with sysinfo(2), which does not need /proc.
func kernelUptime() (time.Duration, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	return time.Duration(info.Uptime) * time.Second, nil
}
