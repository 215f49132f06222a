package correction

import (
	"context"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
)

type CorrectionService interface {
	// Submit records a pending request for an attendance owned by actor
	Submit(ctx context.Context, actor user.Actor, req SubmitCorrectionRequest) (CorrectionRequest, error)

	// ListFor returns the actor's requests, or every request for an admin
	ListFor(ctx context.Context, actor user.Actor) (CorrectionList, error)

	// GetRequest returns a single request visible to actor
	GetRequest(ctx context.Context, actor user.Actor, id string) (CorrectionRequest, error)

	// ResolveDisplay applies the overlay rule for attendanceID
	ResolveDisplay(ctx context.Context, actor user.Actor, attendanceID string) (DisplayView, error)

	// Approve copies the request onto its attendance and marks it approved (admin)
	Approve(ctx context.Context, actor user.Actor, requestID string) (CorrectionRequest, error)
}
