//go:build !linux

package collector

import "time"

func kernelUptime() (time.Duration, error) {
	return 0, ErrSourceUnavailable
}
