package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
)

type userRepository struct {
	store *Store
}

func (s *Store) UserRepository() user.UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("user.GetByEmail"); err != nil {
		return user.User{}, err
	}
	for _, u := range r.store.data.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("user.GetByID"); err != nil {
		return user.User{}, err
	}
	u, ok := r.store.data.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("user.Create"); err != nil {
		return user.User{}, err
	}
	for _, u := range r.store.data.users {
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	if newUser.ID == "" {
		newUser.ID = r.store.nextID()
	}
	now := r.store.now()
	newUser.CreatedAt = now
	newUser.UpdatedAt = now
	r.store.data.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("user.LinkGoogleAccount"); err != nil {
		return user.User{}, err
	}
	for id, u := range r.store.data.users {
		if strings.EqualFold(u.Email, email) {
			provider := "google"
			gid := googleID
			u.OAuthProvider = &provider
			u.OAuthProviderID = &gid
			u.UpdatedAt = r.store.now()
			r.store.data.users[id] = u
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("user.ListByRole"); err != nil {
		return nil, err
	}
	var users []user.User
	for _, u := range r.store.data.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].Email < users[j].Email
	})
	return users, nil
}
