package user

import (
	"context"
	"fmt"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
)

type UserServiceImpl struct {
	user.UserRepository
}

func NewUserService(userRepo user.UserRepository) user.UserService {
	return &UserServiceImpl{UserRepository: userRepo}
}

// ListStaff implements user.UserService.
func (s *UserServiceImpl) ListStaff(ctx context.Context, actor user.Actor) ([]user.User, error) {
	if err := user.CanListAll(actor); err != nil {
		return nil, err
	}

	staff, err := s.UserRepository.ListByRole(ctx, user.RoleStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, actor user.Actor, id string) (user.User, error) {
	if err := user.CanView(actor, id); err != nil {
		return user.User{}, err
	}
	return s.UserRepository.GetByID(ctx, id)
}
