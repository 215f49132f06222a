package report

import (
	"context"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
)

// ReportService defines the interface for report generation
type ReportService interface {
	// ExportMonthly renders one user's month as a downloadable file (admin)
	ExportMonthly(ctx context.Context, actor user.Actor, req ExportMonthlyRequest) (ExportFile, error)
}
