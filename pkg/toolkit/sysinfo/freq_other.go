//go:build !linux

package sysinfo

import "errors"

var errFreqUnsupported = errors.New("cpu frequency not available on this platform")

// currentFreqMHz is unavailable without cpufreq sysfs; callers treat the
// error as "unknown" and report zero.
func currentFreqMHz() (float64, error) {
	return 0, errFreqUnsupported
}

func maxFreqMHz() (float64, error) {
	return 0, errFreqUnsupported
}
