package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Saksham-w/askme/internal/models"
)

// MemoryUserRepository is an in-memory UserRepository. It backs unit tests
// and local development without a running MongoDB.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*models.User
}

// NewMemoryUserRepository creates an empty in-memory repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]*models.User)}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Messages = append([]models.Message(nil), u.Messages...)
	return &c
}

func (r *MemoryUserRepository) findLocked(match func(*models.User) bool) (*models.User, error) {
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(func(u *models.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) FindVerifiedByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(func(u *models.User) bool { return u.Username == username && u.IsVerified })
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(func(u *models.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) Insert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *MemoryUserRepository) RefreshPending(_ context.Context, id primitive.ObjectID, passwordHash, code string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.VerifyCode = code
	u.VerifyCodeExpiry = expiry
	return nil
}

func (r *MemoryUserRepository) MarkVerified(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.IsVerified = true
	return nil
}

func (r *MemoryUserRepository) SetAcceptingMessages(_ context.Context, id primitive.ObjectID, accepting bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.IsAcceptingMessages = accepting
	return nil
}

func (r *MemoryUserRepository) AppendMessage(_ context.Context, id primitive.ObjectID, msg models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	u.Messages = append(u.Messages, msg)
	return nil
}

func (r *MemoryUserRepository) RemoveMessage(_ context.Context, userID, messageID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	for i, m := range u.Messages {
		if m.ID == messageID {
			u.Messages = append(u.Messages[:i], u.Messages[i+1:]...)
			return nil
		}
	}
	return ErrMessageNotFound
}

func (r *MemoryUserRepository) ListMessages(_ context.Context, id primitive.ObjectID) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	msgs := append([]models.Message(nil), u.Messages...)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
	return msgs, nil
}
