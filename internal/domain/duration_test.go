package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02T15:04:05", s)
	require.NoError(t, err)
	return ts
}

func TestNewInterval(t *testing.T) {
	start := mustTime(t, "2024-01-01T10:00:00")

	tests := []struct {
		name    string
		end     time.Time
		wantErr bool
	}{
		{"end after start", start.Add(time.Minute), false},
		{"end equal to start", start, true},
		{"end before start", start.Add(-time.Hour), true},
		{"one nanosecond later", start.Add(time.Nanosecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := NewInterval(start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, start, iv.Start())
			assert.Equal(t, tt.end, iv.End())
		})
	}
}

func TestComputeDurationMinutes(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int64
	}{
		{"day hours minutes with seconds truncated", "2024-01-01T10:00:00", "2024-01-02T13:45:30", 1665},
		{"sub-minute interval", "2024-01-01T10:00:00", "2024-01-01T10:00:59", 0},
		{"exact hour", "2024-01-01T10:00:00", "2024-01-01T11:00:00", 60},
		{"crosses midnight", "2024-01-01T23:30:00", "2024-01-02T00:15:00", 45},
		{"several days", "2024-02-27T08:00:00", "2024-03-02T08:01:00", 4*24*60 + 1},
		{"seconds on both ends", "2024-01-01T10:00:45", "2024-01-01T10:02:30", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := NewInterval(mustTime(t, tt.start), mustTime(t, tt.end))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ComputeDurationMinutes(iv))
		})
	}
}

func TestComputeDurationMinutes_MatchesFloor(t *testing.T) {
	start := mustTime(t, "2024-05-01T00:00:00")
	for _, d := range []time.Duration{
		time.Second,
		90 * time.Second,
		25*time.Hour + 59*time.Second,
		72*time.Hour + 3*time.Minute + 7*time.Second,
	} {
		iv, err := NewInterval(start, start.Add(d))
		require.NoError(t, err)
		assert.Equal(t, int64(d/time.Minute), ComputeDurationMinutes(iv), "duration %s", d)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes  int64
		expected string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{1665, "1d 3h 45m"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMinutes(tt.minutes))
		})
	}
}
