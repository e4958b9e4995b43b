// CPU temperature collector. Reports the hottest reading across all sensors
// that look like CPU sensors, i.e. the worst-case thermal state.
package collector

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"

	"github.com/Guliveer/rctop/internal/snapshot"
)

// Sensor key substrings that identify CPU sensors.
// Linux:  coretemp_core_0_input, k10temp_tctl_input, acpitz_temp1_input
// macOS:  TC0P (proximity), TC0D (die), TCXC (core)
var cpuSensorKeys = []string{
	"cpu", "core", "package",
	"tctl", "tdie", "k10temp", "coretemp",
	"tc0p", "tc0d", "tcxc",
	"acpitz", "zenpower",
}

// Readings outside (minValidTemp, maxValidTemp] are sensor glitches.
const (
	minValidTemp = 0.0
	maxValidTemp = 150.0
)

// CPUTemperature returns the hottest CPU sensor in °C. gopsutil returns
// partial results together with a warnings error when some sensors fail;
// any usable reading wins over the error.
func (s *System) CPUTemperature(ctx context.Context) (float64, error) {
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil && len(temps) == 0 {
		return 0, classify(snapshot.CategoryTemperature, err)
	}
	if err != nil {
		s.logger.Debug("Some temperature sensors failed", zap.Error(err))
	}

	hottest, ok := hottestCPUSensor(temps)
	if !ok {
		return 0, classify(snapshot.CategoryTemperature, ErrSourceUnavailable)
	}
	return hottest, nil
}

func hottestCPUSensor(temps []host.TemperatureStat) (float64, bool) {
	var max float64
	found := false
	for _, t := range temps {
		if t.Temperature <= minValidTemp || t.Temperature > maxValidTemp {
			continue
		}
		if !matchesSensor(strings.ToLower(t.SensorKey), cpuSensorKeys) {
			continue
		}
		if !found || t.Temperature > max {
			max = t.Temperature
			found = true
		}
	}
	return max, found
}

func matchesSensor(name string, keys []string) bool {
	for _, key := range keys {
		if strings.Contains(name, key) {
			return true
		}
	}
	return false
}
