package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/auth"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/correction"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/KunimitsuMk2/mogikintai/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, ctx context.Context, repo user.UserRepository, name, email string, role user.Role) user.User {
	t.Helper()
	hash := "$2a$10$placeholderplaceholderplaceholderplaceholderplacehold"
	created, err := repo.Create(ctx, user.User{Name: name, Email: email, PasswordHash: &hash, Role: role})
	require.NoError(t, err)
	return created
}

func TestUserRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	bob := createUser(t, ctx, repo, "Bob", "bob@example.com", user.RoleStaff)
	createUser(t, ctx, repo, "Alice", "alice@example.com", user.RoleStaff)
	createUser(t, ctx, repo, "Admin", "admin@example.com", user.RoleAdmin)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Create(ctx, user.User{Name: "Other", Email: "bob@example.com", Role: user.RoleStaff})
		assert.ErrorIs(t, err, user.ErrUserEmailExists)
	})

	t.Run("lookup", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, found.ID)

		_, err = repo.GetByID(ctx, "0190a6f0-0000-7000-8000-000000000000")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("list staff by name", func(t *testing.T) {
		staff, err := repo.ListByRole(ctx, user.RoleStaff)
		require.NoError(t, err)
		require.Len(t, staff, 2)
		assert.Equal(t, "Alice", staff[0].Name)
		assert.Equal(t, "Bob", staff[1].Name)
	})

	t.Run("link google", func(t *testing.T) {
		linked, err := repo.LinkGoogleAccount(ctx, "google-123", "bob@example.com")
		require.NoError(t, err)
		require.NotNil(t, linked.OAuthProviderID)
		assert.Equal(t, "google-123", *linked.OAuthProviderID)
	})
}

func TestAttendanceAndRestTimeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(setup.DB)
	attendances := postgresql.NewAttendanceRepository(setup.DB)
	rests := postgresql.NewRestTimeRepository(setup.DB)

	staff := createUser(t, ctx, users, "Staff", "staff@example.com", user.RoleStaff)
	day := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)

	first, err := attendances.GetOrCreate(ctx, staff.ID, day)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOffDuty, first.Status)
	assert.Equal(t, "Staff", first.UserName)

	again, err := attendances.GetOrCreate(ctx, staff.ID, day)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "one row per user and date")

	start := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	first.StartTime = &start
	first.Status = attendance.StatusWorking
	require.NoError(t, attendances.Update(ctx, first))

	rt, err := rests.Create(ctx, attendance.RestTime{AttendanceID: first.ID, StartTime: start.Add(3 * time.Hour)})
	require.NoError(t, err)

	open, err := rests.GetLatestOpen(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, rt.ID, open.ID)

	require.NoError(t, rests.Close(ctx, rt.ID, start.Add(4*time.Hour)))
	open, err = rests.GetLatestOpen(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, open)

	require.NoError(t, rests.ReplaceAll(ctx, first.ID, []attendance.BreakSpan{
		{Start: start.Add(5 * time.Hour), End: start.Add(5*time.Hour + 15*time.Minute)},
		{Start: start.Add(2 * time.Hour), End: start.Add(2*time.Hour + 10*time.Minute)},
	}))
	grouped, err := rests.ListByAttendanceIDs(ctx, []string{first.ID})
	require.NoError(t, err)
	require.Len(t, grouped[first.ID], 2)
	assert.True(t, grouped[first.ID][0].StartTime.Before(grouped[first.ID][1].StartTime))

	month, err := attendances.ListByUserAndRange(ctx, staff.ID, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, month, 1)

	none, err := attendances.GetByUserAndDate(ctx, staff.ID, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = attendances.GetByID(ctx, "0190a6f0-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestCorrectionRepositoryAndTransactions(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(setup.DB)
	attendances := postgresql.NewAttendanceRepository(setup.DB)
	corrections := postgresql.NewCorrectionRepository(setup.DB)
	txManager := postgresql.NewTxManager(setup.DB)

	staff := createUser(t, ctx, users, "Staff", "staff@example.com", user.RoleStaff)
	admin := createUser(t, ctx, users, "Admin", "admin@example.com", user.RoleAdmin)
	att, err := attendances.GetOrCreate(ctx, staff.ID, time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	start := time.Date(2024, 4, 10, 1, 0, 0, 0, time.UTC)
	req, err := corrections.Create(ctx, correction.CorrectionRequest{
		AttendanceID:       att.ID,
		UserID:             staff.ID,
		RequestedStartTime: start,
		RequestedEndTime:   start.Add(8 * time.Hour),
		RequestedBreaks:    []attendance.BreakSpan{{Start: start.Add(3 * time.Hour), End: start.Add(4 * time.Hour)}},
		Remarks:            "forgot to clock in",
	})
	require.NoError(t, err)
	assert.Equal(t, correction.StatusPending, req.Status)
	require.Len(t, req.RequestedBreaks, 1)
	assert.Equal(t, "Staff", req.UserName)

	_, err = corrections.Create(ctx, correction.CorrectionRequest{
		AttendanceID: att.ID, UserID: staff.ID, RequestedStartTime: start, RequestedEndTime: start.Add(time.Hour), Remarks: "again",
	})
	assert.ErrorIs(t, err, correction.ErrPendingRequestExists)

	t.Run("rollback keeps request pending", func(t *testing.T) {
		boom := errors.New("boom")
		err := txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
			if err := corrections.MarkApproved(txCtx, req.ID, admin.ID, time.Now()); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		pending, err := corrections.GetPendingByAttendance(ctx, att.ID)
		require.NoError(t, err)
		require.NotNil(t, pending)
		assert.Equal(t, req.ID, pending.ID)
	})

	t.Run("approve", func(t *testing.T) {
		require.NoError(t, corrections.MarkApproved(ctx, req.ID, admin.ID, time.Now()))
		assert.ErrorIs(t, corrections.MarkApproved(ctx, req.ID, admin.ID, time.Now()), correction.ErrCorrectionAlreadyApproved)

		approved, err := corrections.GetLatestApprovedByAttendance(ctx, att.ID)
		require.NoError(t, err)
		require.NotNil(t, approved)
		assert.Equal(t, admin.ID, *approved.ApprovedBy)

		status := correction.StatusApproved
		list, err := corrections.List(ctx, correction.CorrectionFilter{UserID: &staff.ID, Status: &status})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestJWTRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(setup.DB)
	tokens := postgresql.NewJWTRepository(setup.DB)

	staff := createUser(t, ctx, users, "Staff", "staff@example.com", user.RoleStaff)
	expires := time.Now().Add(time.Hour).Unix()
	require.NoError(t, tokens.CreateRefreshToken(ctx, staff.ID, "token-value", expires, auth.SessionTrackingRequest{UserAgent: "test", IPAddress: "127.0.0.1"}))

	userID, revoked, err := tokens.IsRefreshTokenRevoked(ctx, "token-value")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Equal(t, staff.ID, userID)

	require.NoError(t, tokens.RevokeRefreshToken(ctx, "token-value"))
	_, revoked, err = tokens.IsRefreshTokenRevoked(ctx, "token-value")
	require.NoError(t, err)
	assert.True(t, revoked)

	_, revoked, err = tokens.IsRefreshTokenRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.True(t, revoked)
}
