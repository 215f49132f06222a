package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"
)

// utf8BOM lets spreadsheet applications detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var Header = []string{"date", "start", "end", "break", "total"}

// ToCSVRows renders a monthly report as a header row plus one row per calendar day.
// Values that are absent or zero are left empty.
func ToCSVRows(r attendance.MonthlyReport) [][]string {
	rows := make([][]string, 0, len(r.Days)+1)
	rows = append(rows, Header)

	for _, day := range r.Days {
		row := []string{day.Date.Format("2006/01/02"), "", "", "", ""}
		if att := day.Attendance; att != nil {
			row[1] = timeutil.FormatClock(att.StartTime)
			row[2] = timeutil.FormatClock(att.EndTime)
			if seconds := att.TotalBreakSeconds(); seconds > 0 {
				row[3] = timeutil.FormatSeconds(seconds)
			}
			if seconds := att.WorkingSeconds(); seconds > 0 {
				row[4] = timeutil.FormatSeconds(seconds)
			}
		}
		rows = append(rows, row)
	}

	return rows
}

// WriteCSV writes a UTF-8 byte-order mark followed by rows.
func WriteCSV(w io.Writer, rows [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write byte-order mark: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}
