package correction

import (
	"testing"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlay(t *testing.T) {
	day := func(h, m int) time.Time { return time.Date(2024, 5, 10, h, m, 0, 0, time.UTC) }
	canonicalStart := day(8, 0)
	canonicalBreakEnd := day(12, 30)
	att := attendance.Attendance{
		ID:        "att",
		UserID:    "u1",
		StartTime: &canonicalStart,
		Status:    attendance.StatusClockedOut,
		Remarks:   "original",
		RestTimes: []attendance.RestTime{{ID: "r1", AttendanceID: "att", StartTime: day(12, 0), EndTime: &canonicalBreakEnd}},
	}
	req := CorrectionRequest{
		RequestedStartTime: day(9, 0),
		RequestedEndTime:   day(18, 0),
		RequestedBreaks: []attendance.BreakSpan{
			{Start: day(10, 0), End: day(10, 15)},
			{Start: day(15, 0), End: day(15, 15)},
		},
		Remarks: "train delay",
	}

	got := req.Overlay(att)
	require.NotNil(t, got.StartTime)
	require.NotNil(t, got.EndTime)
	assert.Equal(t, day(9, 0), *got.StartTime)
	assert.Equal(t, day(18, 0), *got.EndTime)
	assert.Equal(t, "train delay", got.Remarks)
	require.Len(t, got.RestTimes, 2)
	assert.Equal(t, "att", got.RestTimes[0].AttendanceID)
	assert.Equal(t, 1800, got.TotalBreakSeconds())
	assert.Equal(t, attendance.StatusClockedOut, got.Status)

	assert.Equal(t, canonicalStart, *att.StartTime, "overlay must not modify the canonical record")
	assert.Len(t, att.RestTimes, 1)
}
