package attendance

import (
	"testing"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workDay = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

func validationErrors(t *testing.T, err error) validator.ValidationErrors {
	t.Helper()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	return errs
}

func TestTimeEntryInputResolve(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)

	t.Run("valid entry", func(t *testing.T) {
		in := TimeEntryInput{
			StartTime: "09:00",
			EndTime:   "18:00",
			Breaks: []BreakInput{
				{Start: "10:00", End: "10:15"},
				{Start: "", End: ""},
				{Start: "15:00", End: ""},
				{Start: "15:00", End: "15:15"},
			},
			Remarks: "forgot to clock out",
		}
		entry, err := in.Resolve(workDay, loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 10, 9, 0, 0, 0, loc), entry.StartTime)
		assert.Equal(t, time.Date(2024, 5, 10, 18, 0, 0, 0, loc), entry.EndTime)
		require.Len(t, entry.Breaks, 2)
		assert.Equal(t, time.Date(2024, 5, 10, 10, 0, 0, 0, loc), entry.Breaks[0].Start)
		assert.Equal(t, time.Date(2024, 5, 10, 15, 15, 0, 0, loc), entry.Breaks[1].End)
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := TimeEntryInput{StartTime: "18:00", EndTime: "09:00", Remarks: "x"}.Resolve(workDay, loc)
		errs := validationErrors(t, err)
		assert.Equal(t, MessageStartEndInvalid, errs.ToMap()["start_time"])
	})

	t.Run("start equal to end", func(t *testing.T) {
		_, err := TimeEntryInput{StartTime: "09:00", EndTime: "09:00", Remarks: "x"}.Resolve(workDay, loc)
		assert.True(t, validationErrors(t, err).Has("start_time"))
	})

	t.Run("malformed start", func(t *testing.T) {
		_, err := TimeEntryInput{StartTime: "nine", EndTime: "18:00", Remarks: "x"}.Resolve(workDay, loc)
		assert.True(t, validationErrors(t, err).Has("start_time"))
	})

	t.Run("break outside shift", func(t *testing.T) {
		in := TimeEntryInput{
			StartTime: "09:00",
			EndTime:   "18:00",
			Breaks:    []BreakInput{{Start: "12:00", End: "13:00"}, {Start: "19:00", End: "20:00"}},
			Remarks:   "x",
		}
		_, err := in.Resolve(workDay, loc)
		errs := validationErrors(t, err)
		assert.Equal(t, map[string]string{"breaks[1]": MessageBreakInvalid}, errs.ToMap())
	})

	t.Run("break before shift start", func(t *testing.T) {
		in := TimeEntryInput{StartTime: "09:00", EndTime: "18:00", Breaks: []BreakInput{{Start: "08:30", End: "09:30"}}, Remarks: "x"}
		_, err := in.Resolve(workDay, loc)
		assert.True(t, validationErrors(t, err).Has("breaks[0]"))
	})

	t.Run("break on shift boundaries", func(t *testing.T) {
		in := TimeEntryInput{StartTime: "09:00", EndTime: "18:00", Breaks: []BreakInput{{Start: "09:00", End: "18:00"}}, Remarks: "x"}
		_, err := in.Resolve(workDay, loc)
		assert.NoError(t, err)
	})

	t.Run("misordered break", func(t *testing.T) {
		in := TimeEntryInput{StartTime: "09:00", EndTime: "18:00", Breaks: []BreakInput{{Start: "13:00", End: "12:00"}}, Remarks: "x"}
		_, err := in.Resolve(workDay, loc)
		assert.Equal(t, MessageBreakInvalid, validationErrors(t, err).ToMap()["breaks[0]"])
	})

	t.Run("empty remarks", func(t *testing.T) {
		_, err := TimeEntryInput{StartTime: "09:00", EndTime: "18:00", Remarks: "  "}.Resolve(workDay, loc)
		assert.Equal(t, map[string]string{"remarks": MessageRemarksRequired}, validationErrors(t, err).ToMap())
	})

	t.Run("all errors reported together", func(t *testing.T) {
		in := TimeEntryInput{StartTime: "18:00", EndTime: "09:00", Breaks: []BreakInput{{Start: "11:00", End: "10:00"}}}
		_, err := in.Resolve(workDay, loc)
		errs := validationErrors(t, err)
		assert.True(t, errs.Has("start_time"))
		assert.True(t, errs.Has("breaks[0]"))
		assert.True(t, errs.Has("remarks"))
	})
}

func TestNewAttendanceResponse(t *testing.T) {
	a := Attendance{
		ID:        "a1",
		UserID:    "u1",
		UserName:  "Taro",
		Date:      workDay,
		StartTime: ptr(at(9, 0, 12)),
		EndTime:   ptr(at(18, 0, 0)),
		Status:    StatusClockedOut,
		RestTimes: []RestTime{{StartTime: at(12, 0, 0), EndTime: ptr(at(13, 0, 0))}},
	}
	resp := NewAttendanceResponse(a)
	assert.Equal(t, "2024-05-10", resp.Date)
	assert.Equal(t, "09:00", resp.StartTime)
	assert.Equal(t, "18:00", resp.EndTime)
	assert.Equal(t, "01:00", resp.BreakTotal)
	assert.Equal(t, "08:00", resp.WorkingTotal)
	assert.Equal(t, []BreakResponse{{Start: "12:00", End: "13:00"}}, resp.Breaks)
}
