package correction

import "errors"

var (
	ErrCorrectionRequestNotFound = errors.New("correction request not found")
	ErrPendingRequestExists      = errors.New("a correction request for this attendance is already awaiting approval")
	ErrCorrectionAlreadyApproved = errors.New("correction request has already been approved")
)
