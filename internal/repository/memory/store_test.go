package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/correction"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := store.UserRepository()
	attendances := store.AttendanceRepository()

	staff, err := users.Create(ctx, user.User{Name: "Staff", Email: "staff@example.com", Role: user.RoleStaff})
	require.NoError(t, err)
	att, err := attendances.GetOrCreate(ctx, staff.ID, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.TxManager().WithinTransaction(ctx, func(txCtx context.Context) error {
		att.Status = attendance.StatusWorking
		require.NoError(t, attendances.Update(txCtx, att))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	reloaded, err := attendances.GetByID(ctx, att.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOffDuty, reloaded.Status)
	assert.Equal(t, "Staff", reloaded.UserName)
}

func TestFaultInjection(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	boom := errors.New("disk full")

	store.FailOn("user.Create", boom)
	_, err := store.UserRepository().Create(ctx, user.User{Name: "A", Email: "a@example.com", Role: user.RoleStaff})
	assert.ErrorIs(t, err, boom)

	store.ClearFaults()
	_, err = store.UserRepository().Create(ctx, user.User{Name: "A", Email: "a@example.com", Role: user.RoleStaff})
	assert.NoError(t, err)
}

func TestCorrectionRepository(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	staff, err := store.UserRepository().Create(ctx, user.User{Name: "Staff", Email: "s@example.com", Role: user.RoleStaff})
	require.NoError(t, err)
	att, err := store.AttendanceRepository().GetOrCreate(ctx, staff.ID, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	repo := store.CorrectionRepository()
	start := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	first, err := repo.Create(ctx, correction.CorrectionRequest{
		AttendanceID: att.ID, UserID: staff.ID, RequestedStartTime: start, RequestedEndTime: start.Add(8 * time.Hour), Remarks: "one",
	})
	require.NoError(t, err)
	assert.Equal(t, att.Date, first.AttendanceDate)

	_, err = repo.Create(ctx, correction.CorrectionRequest{AttendanceID: att.ID, UserID: staff.ID, Remarks: "two"})
	assert.ErrorIs(t, err, correction.ErrPendingRequestExists)

	require.NoError(t, repo.MarkApproved(ctx, first.ID, "admin", start))
	assert.ErrorIs(t, repo.MarkApproved(ctx, first.ID, "admin", start), correction.ErrCorrectionAlreadyApproved)

	second, err := repo.Create(ctx, correction.CorrectionRequest{AttendanceID: att.ID, UserID: staff.ID, Remarks: "two"})
	require.NoError(t, err)

	list, err := repo.List(ctx, correction.CorrectionFilter{UserID: &staff.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
}
