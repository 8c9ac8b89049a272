package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/helpdeskhq/ticketdesk/internal/domain/user"
	"github.com/helpdeskhq/ticketdesk/internal/repo/postgres"
)

// UsersRepo is an in-memory stand-in for the postgres repo, used by
// handler and router tests. It returns the same sentinel errors.
type UsersRepo struct {
	mu      sync.RWMutex
	byEmail map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byEmail: make(map[string]user.User),
	}
}

func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return user.User{}, postgres.ErrEmailTaken
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.byEmail[email] = u

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]

	if !ok {
		return user.User{}, postgres.ErrUserNotFound
	}

	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	output := make([]user.User, 0, len(r.byEmail))

	for _, u := range r.byEmail {
		output = append(output, u)
	}

	sort.Slice(output, func(i, j int) bool {
		return output[i].CreatedAt.Before(output[j].CreatedAt)
	})

	return output, nil
}
