package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/correction"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/database"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is shared by every seeded account.
const DefaultPassword = "password123"

// ==========================================
// DEFAULT ACCOUNTS
// ==========================================

type SeedUser struct {
	Name  string
	Email string
	Role  user.Role
}

var DefaultUsers = []SeedUser{
	{Name: "Admin", Email: "admin@example.com", Role: user.RoleAdmin},
	{Name: "Sato Hanako", Email: "hanako@example.com", Role: user.RoleStaff},
	{Name: "Suzuki Ichiro", Email: "ichiro@example.com", Role: user.RoleStaff},
	{Name: "Takahashi Yuki", Email: "yuki@example.com", Role: user.RoleStaff},
}

// ==========================================
// DAILY PLANS
// ==========================================

// dayPlans rotate across weekdays so seeded months are not uniform.
var dayPlans = []attendance.TimeEntryInput{
	{StartTime: "09:00", EndTime: "18:00", Breaks: []attendance.BreakInput{{Start: "12:00", End: "13:00"}}},
	{StartTime: "09:30", EndTime: "18:30", Breaks: []attendance.BreakInput{{Start: "12:30", End: "13:30"}}},
	{StartTime: "08:45", EndTime: "17:45", Breaks: []attendance.BreakInput{{Start: "12:00", End: "12:45"}, {Start: "15:00", End: "15:15"}}},
	{StartTime: "10:00", EndTime: "19:00", Breaks: []attendance.BreakInput{{Start: "13:00", End: "14:00"}}},
}

// PlanFor returns the entry seeded for date, or false on weekends.
func PlanFor(date time.Time, offset int) (attendance.TimeEntryInput, bool) {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return attendance.TimeEntryInput{}, false
	}
	plan := dayPlans[(date.Day()+offset)%len(dayPlans)]
	plan.Remarks = "seed"
	return plan, true
}

// ==========================================
// SEEDED DATA RESULT
// ==========================================

// SeededDataIDs holds the IDs produced by a seed run
type SeededDataIDs struct {
	UserIDs          map[string]string // email -> uuid
	AttendanceIDs    []string
	PendingRequestID string
	ApprovedRequest  string
}

func NewSeededDataIDs() *SeededDataIDs {
	return &SeededDataIDs{UserIDs: make(map[string]string)}
}

type Deps struct {
	TxManager         database.TxManager
	Users             user.UserRepository
	Attendances       attendance.AttendanceRepository
	RestTimes         attendance.RestTimeRepository
	CorrectionService correction.CorrectionService
	Location          *time.Location
	// PasswordCost defaults to bcrypt.DefaultCost
	PasswordCost int
}

// Seed creates the default accounts, a month of finished workdays for every
// staff account and one approved plus one pending correction request.
// Accounts that already exist are reused, so running it twice is safe.
func Seed(ctx context.Context, deps Deps, month time.Time) (*SeededDataIDs, error) {
	ids := NewSeededDataIDs()

	if deps.Location == nil {
		deps.Location = time.Local
	}
	cost := deps.PasswordCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}
	hash := string(hashed)

	var admin user.Actor
	var staff []user.User
	for _, su := range DefaultUsers {
		u, err := deps.Users.GetByEmail(ctx, su.Email)
		if errors.Is(err, user.ErrUserNotFound) {
			u, err = deps.Users.Create(ctx, user.User{Name: su.Name, Email: su.Email, Role: su.Role, PasswordHash: &hash})
		}
		if err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", su.Email, err)
		}
		ids.UserIDs[u.Email] = u.ID
		if u.IsAdmin() {
			admin = u.Actor()
		} else {
			staff = append(staff, u)
		}
	}

	first, last := timeutil.MonthRange(month)
	for i, u := range staff {
		for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
			plan, ok := PlanFor(date, i)
			if !ok {
				continue
			}
			id, err := seedDay(ctx, deps, u.ID, date, plan)
			if err != nil {
				return nil, fmt.Errorf("failed to seed %s on %s: %w", u.Email, date.Format(timeutil.DateLayout), err)
			}
			ids.AttendanceIDs = append(ids.AttendanceIDs, id)
		}
	}

	if len(staff) == 0 || len(ids.AttendanceIDs) < 2 {
		return ids, nil
	}

	requester := staff[0].Actor()
	approved, err := submit(ctx, deps, requester, ids.AttendanceIDs[0], "09:00", "18:30", "left late after a client call")
	if err != nil {
		return nil, err
	}
	if approved != nil {
		if _, err := deps.CorrectionService.Approve(ctx, admin, approved.ID); err != nil {
			return nil, fmt.Errorf("failed to approve seed correction: %w", err)
		}
		ids.ApprovedRequest = approved.ID
	}

	pending, err := submit(ctx, deps, requester, ids.AttendanceIDs[1], "08:30", "17:30", "train delay, clocked in late")
	if err != nil {
		return nil, err
	}
	if pending != nil {
		ids.PendingRequestID = pending.ID
	}

	slog.Info("seed complete", "users", len(ids.UserIDs), "attendances", len(ids.AttendanceIDs), "month", first.Format(timeutil.YearMonthLayout))
	return ids, nil
}

func seedDay(ctx context.Context, deps Deps, userID string, date time.Time, plan attendance.TimeEntryInput) (string, error) {
	entry, err := plan.Resolve(date, deps.Location)
	if err != nil {
		return "", err
	}

	var id string
	err = deps.TxManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		att, err := deps.Attendances.GetOrCreate(txCtx, userID, date)
		if err != nil {
			return err
		}
		id = att.ID

		att.StartTime = &entry.StartTime
		att.EndTime = &entry.EndTime
		att.Status = attendance.StatusClockedOut
		att.Remarks = entry.Remarks
		if err := deps.Attendances.Update(txCtx, att); err != nil {
			return err
		}
		return deps.RestTimes.ReplaceAll(txCtx, att.ID, entry.Breaks)
	})
	return id, err
}

// submit returns nil when the attendance already has a pending request from an earlier run.
func submit(ctx context.Context, deps Deps, actor user.Actor, attendanceID, start, end, remarks string) (*correction.CorrectionRequest, error) {
	req, err := deps.CorrectionService.Submit(ctx, actor, correction.SubmitCorrectionRequest{
		AttendanceID: attendanceID,
		TimeEntryInput: attendance.TimeEntryInput{
			StartTime: start,
			EndTime:   end,
			Breaks:    []attendance.BreakInput{{Start: "12:00", End: "13:00"}},
			Remarks:   remarks,
		},
	})
	if errors.Is(err, correction.ErrPendingRequestExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to submit seed correction: %w", err)
	}
	return &req, nil
}
