package usecase

import (
	"attendance/domain"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		checkIn string
		want    domain.Status
	}{
		{"00:00", domain.StatusOnTime},
		{"07:30", domain.StatusOnTime},
		{"08:00", domain.StatusOnTime},
		{"08:01", domain.StatusLate},
		{"08:10", domain.StatusLate},
		{"08:15", domain.StatusLate},
		{"08:16", domain.StatusAbsent},
		{"13:00", domain.StatusAbsent},
		{"23:59", domain.StatusAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.checkIn, func(t *testing.T) {
			got, err := Classify(tt.checkIn, "08:00", "08:15")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyEveryMinute(t *testing.T) {
	s := DefaultSchedule()
	for m := 0; m < 24*60; m++ {
		hhmm := fmt.Sprintf("%02d:%02d", m/60, m%60)
		got, err := s.Classify(hhmm)
		require.NoError(t, err)

		switch {
		case m <= 8*60:
			assert.Equal(t, domain.StatusOnTime, got, hhmm)
		case m <= 8*60+15:
			assert.Equal(t, domain.StatusLate, got, hhmm)
		default:
			assert.Equal(t, domain.StatusAbsent, got, hhmm)
		}
	}
}

func TestClassifyRejectsMalformedTimes(t *testing.T) {
	for _, bad := range []string{"", "8", "8:5", "08-00", "24:00", "12:60", "ab:cd", "08:00:00", "-1:30", "+8:00", "08:+5", " 8:00", "08: 5"} {
		_, err := Classify(bad, "08:00", "08:15")
		assert.Error(t, err, bad)
	}
}

func TestMinuteOfDay(t *testing.T) {
	m, err := MinuteOfDay("8:05")
	require.NoError(t, err)
	assert.Equal(t, 485, m)

	m, err = MinuteOfDay("23:59")
	require.NoError(t, err)
	assert.Equal(t, 1439, m)
}

func TestScheduleValidate(t *testing.T) {
	assert.NoError(t, DefaultSchedule().Validate())
	assert.Error(t, Schedule{Start: "08:15", Tolerance: "08:00"}.Validate())
	assert.Error(t, Schedule{Start: "08:00", Tolerance: "08:00"}.Validate())
	assert.Error(t, Schedule{Start: "8h", Tolerance: "08:15"}.Validate())
}
