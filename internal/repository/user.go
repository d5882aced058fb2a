package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Saksham-w/askme/internal/models"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrMessageNotFound is returned when a removal matched no message.
	ErrMessageNotFound = errors.New("message not found")
)

// UserRepository is the persistence boundary for user documents and their
// embedded message arrays. Every update targets a single document by id;
// the store's per-document atomicity is the only concurrency guarantee.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// FindVerifiedByUsername matches only users with is_verified set; this
	// is the query username uniqueness is keyed on.
	FindVerifiedByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	Insert(ctx context.Context, user *models.User) error
	// RefreshPending overwrites the credentials of an unverified user in
	// place, leaving username and messages untouched.
	RefreshPending(ctx context.Context, id primitive.ObjectID, passwordHash, code string, expiry time.Time) error
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	SetAcceptingMessages(ctx context.Context, id primitive.ObjectID, accepting bool) error

	AppendMessage(ctx context.Context, id primitive.ObjectID, msg models.Message) error
	RemoveMessage(ctx context.Context, userID, messageID primitive.ObjectID) error
	// ListMessages returns the user's messages sorted by creation time,
	// newest first.
	ListMessages(ctx context.Context, id primitive.ObjectID) ([]models.Message, error)
}
