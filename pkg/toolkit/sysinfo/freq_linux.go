//go:build linux

package sysinfo

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// cpufreq sysfs values are reported in kHz.
const (
	curFreqPath = "/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq"
	maxFreqPath = "/sys/devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq"
)

// currentFreqMHz reads the governor-reported frequency of cpu0.
func currentFreqMHz() (float64, error) {
	return readFreqMHz(curFreqPath)
}

// maxFreqMHz reads the hardware maximum frequency of cpu0.
func maxFreqMHz() (float64, error) {
	return readFreqMHz(maxFreqPath)
}

func readFreqMHz(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	khz, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}

	return khz / 1000, nil
}
