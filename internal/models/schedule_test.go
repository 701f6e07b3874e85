package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheduleInterval_AllMembers(t *testing.T) {
	expected := map[ScheduleInterval]time.Duration{
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

	for interval, duration := range expected {
		parsed, err := ParseScheduleInterval(string(interval))
		require.NoError(t, err, "interval %s", interval)
		assert.Equal(t, interval, parsed)

		d, active := parsed.Duration()
		assert.True(t, active)
		assert.Equal(t, duration, d)
	}
}

func TestParseScheduleInterval_Off(t *testing.T) {
	parsed, err := ParseScheduleInterval("off")
	require.NoError(t, err)

	_, active := parsed.Duration()
	assert.False(t, active, "off has no cadence")
}

func TestParseScheduleInterval_Invalid(t *testing.T) {
	for _, raw := range []string{"", "2s", "1d", "always"} {
		_, err := ParseScheduleInterval(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}

func TestSnapshotUsagePercentage(t *testing.T) {
	snap := Snapshot{HeapUsed: 512, HeapLimit: 1024}
	assert.Equal(t, 50.0, snap.UsagePercentage())

	unbounded := Snapshot{HeapUsed: 512}
	assert.Zero(t, unbounded.UsagePercentage(), "unknown limit yields 0, not a panic")
}
