package report

import (
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/pkg/validator"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ContentType returns the media type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=UTF-8"
	}
}

// ========================================
// MONTHLY EXPORT
// ========================================

type ExportMonthlyRequest struct {
	UserID string `json:"user_id"`
	Month  string `json:"month"`  // YYYY-MM
	Format Format `json:"format"` // csv, xlsx
}

func (r *ExportMonthlyRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if _, ok := validator.IsValidYearMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}

	if r.Format == "" {
		r.Format = FormatCSV
	}
	if !validator.IsInSlice(string(r.Format), []string{string(FormatCSV), string(FormatXLSX)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: csv, xlsx",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExportFile is a rendered report ready to be streamed to a client.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Filename names an export after its subject and month.
func Filename(userName string, month time.Time, format Format) string {
	return userName + "_" + month.Format("2006-01") + "_attendance." + string(format)
}
