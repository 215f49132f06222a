package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute, second int) time.Time {
	return time.Date(2024, 5, 10, hour, minute, second, 0, time.UTC)
}

func ptr(t time.Time) *time.Time {
	return &t
}

func TestDurations(t *testing.T) {
	t.Run("one hour lunch", func(t *testing.T) {
		a := Attendance{
			StartTime: ptr(at(9, 0, 0)),
			EndTime:   ptr(at(18, 0, 0)),
			RestTimes: []RestTime{{StartTime: at(12, 0, 0), EndTime: ptr(at(13, 0, 0))}},
		}
		assert.Equal(t, 3600, a.TotalBreakSeconds())
		assert.Equal(t, 28800, a.WorkingSeconds())
	})

	t.Run("ninety second break floors to one minute", func(t *testing.T) {
		a := Attendance{
			StartTime: ptr(at(9, 0, 0)),
			EndTime:   ptr(at(18, 0, 0)),
			RestTimes: []RestTime{{StartTime: at(12, 0, 0), EndTime: ptr(at(12, 1, 30))}},
		}
		assert.Equal(t, 60, a.TotalBreakSeconds())
		assert.Equal(t, 32340, a.WorkingSeconds())
	})

	t.Run("seconds on shift ends are ignored", func(t *testing.T) {
		a := Attendance{
			StartTime: ptr(at(9, 0, 59)),
			EndTime:   ptr(at(17, 30, 1)),
		}
		assert.Equal(t, (8*60+30)*60, a.WorkingSeconds())
	})

	t.Run("open break contributes nothing", func(t *testing.T) {
		a := Attendance{
			StartTime: ptr(at(9, 0, 0)),
			RestTimes: []RestTime{
				{StartTime: at(10, 0, 0), EndTime: ptr(at(10, 15, 0))},
				{StartTime: at(12, 0, 0)},
			},
		}
		assert.Equal(t, 900, a.TotalBreakSeconds())
		assert.True(t, a.HasOpenBreak())
	})

	t.Run("missing end means no working time", func(t *testing.T) {
		a := Attendance{StartTime: ptr(at(9, 0, 0))}
		assert.Equal(t, 0, a.WorkingSeconds())
		assert.Equal(t, 0, (&Attendance{}).WorkingSeconds())
	})

	t.Run("multiple breaks", func(t *testing.T) {
		a := Attendance{
			StartTime: ptr(at(9, 0, 0)),
			EndTime:   ptr(at(18, 0, 0)),
			RestTimes: []RestTime{
				{StartTime: at(10, 0, 0), EndTime: ptr(at(10, 15, 0))},
				{StartTime: at(12, 0, 0), EndTime: ptr(at(13, 0, 0))},
				{StartTime: at(15, 0, 0), EndTime: ptr(at(15, 15, 0))},
			},
		}
		assert.Equal(t, 90*60, a.TotalBreakSeconds())
		assert.Equal(t, (9*60-90)*60, a.WorkingSeconds())
	})
}
