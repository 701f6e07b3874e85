package models

import (
	"fmt"
	"time"
)

// ScheduleInterval is the fixed set of automatic capture cadences.
// "off" disables scheduling entirely.
type ScheduleInterval string

const (
	IntervalOff ScheduleInterval = "off"
	Interval1s  ScheduleInterval = "1s"
	Interval10s ScheduleInterval = "10s"
	Interval1m  ScheduleInterval = "1m"
	Interval5m  ScheduleInterval = "5m"
	Interval10m ScheduleInterval = "10m"
	Interval30m ScheduleInterval = "30m"
	Interval1h  ScheduleInterval = "1h"
	Interval6h  ScheduleInterval = "6h"
	Interval24h ScheduleInterval = "24h"
)

var scheduleDurations = map[ScheduleInterval]time.Duration{
	Interval1s:  time.Second,
	Interval10s: 10 * time.Second,
	Interval1m:  time.Minute,
	Interval5m:  5 * time.Minute,
	Interval10m: 10 * time.Minute,
	Interval30m: 30 * time.Minute,
	Interval1h:  time.Hour,
	Interval6h:  6 * time.Hour,
	Interval24h: 24 * time.Hour,
}

// Duration returns the capture cadence and whether the interval is
// active (false for "off").
func (i ScheduleInterval) Duration() (time.Duration, bool) {
	d, ok := scheduleDurations[i]
	return d, ok
}

// ParseScheduleInterval validates a raw interval string against the
// enumerated set.
func ParseScheduleInterval(raw string) (ScheduleInterval, error) {
	iv := ScheduleInterval(raw)
	if iv == IntervalOff {
		return iv, nil
	}
	if _, ok := scheduleDurations[iv]; !ok {
		return "", fmt.Errorf("invalid schedule interval %q", raw)
	}
	return iv, nil
}
