package user

import "context"

type UserService interface {
	// ListStaff returns every staff account ordered by name (admin)
	ListStaff(ctx context.Context, actor Actor) ([]User, error)
	// GetByID returns one user visible to actor
	GetByID(ctx context.Context, actor Actor, id string) (User, error)
}
