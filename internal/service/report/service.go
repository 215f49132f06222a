package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/report"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"
)

type ReportServiceImpl struct {
	attendanceService attendance.AttendanceService
}

func NewReportService(attendanceService attendance.AttendanceService) report.ReportService {
	return &ReportServiceImpl{
		attendanceService: attendanceService,
	}
}

// ExportMonthly implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthly(ctx context.Context, actor user.Actor, req report.ExportMonthlyRequest) (report.ExportFile, error) {
	if err := user.CanExport(actor); err != nil {
		return report.ExportFile{}, err
	}

	// Validate request
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	month, err := timeutil.ParseYearMonth(req.Month)
	if err != nil {
		return report.ExportFile{}, err
	}

	monthly, err := s.attendanceService.FindByUserAndMonth(ctx, actor, req.UserID, month)
	if err != nil {
		return report.ExportFile{}, err
	}

	rows := report.ToCSVRows(monthly)

	var buf bytes.Buffer
	switch req.Format {
	case report.FormatXLSX:
		err = report.WriteXLSX(&buf, month.Format(timeutil.YearMonthLayout), rows)
	default:
		err = report.WriteCSV(&buf, rows)
	}
	if err != nil {
		slog.Error("failed to render monthly export", "error", err, "user_id", req.UserID, "month", req.Month, "format", req.Format)
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return report.ExportFile{
		Filename:    report.Filename(monthly.UserName, month, req.Format),
		ContentType: req.Format.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}
