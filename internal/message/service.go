package message

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Saksham-w/askme/internal/logger"
	"github.com/Saksham-w/askme/internal/models"
	"github.com/Saksham-w/askme/internal/repository"
	"github.com/Saksham-w/askme/internal/util"
)

var (
	// ErrRecipientNotFound means the addressed user does not exist.
	ErrRecipientNotFound = errors.New("user not found")
	// ErrNotAccepting means the recipient has turned the accept flag off.
	ErrNotAccepting = errors.New("user is not accepting messages")
	// ErrMessageNotFound means no message matched the given id.
	ErrMessageNotFound = errors.New("message not found")
)

// Service implements the messaging operations over a user's embedded
// message array.
type Service struct {
	users  repository.UserRepository
	logger *logger.Logger
	now    func() time.Time
}

// NewService wires the message service.
func NewService(users repository.UserRepository, log *logger.Logger) *Service {
	return &Service{
		users:  users,
		logger: log,
		now:    time.Now,
	}
}

// Send appends an anonymous message to the recipient's array. No sender
// identity is recorded anywhere.
func (s *Service) Send(ctx context.Context, recipientUsername, content string) error {
	if fieldErrs := util.ValidateMessageContent(content); len(fieldErrs) > 0 {
		return &util.ValidationError{Errors: fieldErrs}
	}

	user, err := s.users.FindByUsername(ctx, recipientUsername)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrRecipientNotFound
		}
		return fmt.Errorf("failed to find recipient: %w", err)
	}

	if !user.IsAcceptingMessages {
		return ErrNotAccepting
	}

	msg := models.Message{
		ID:        primitive.NewObjectID(),
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.users.AppendMessage(ctx, user.ID, msg); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	s.logger.Info("message delivered", "recipient", recipientUsername)
	return nil
}

// List returns the owner's messages, newest first.
func (s *Service) List(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	msgs, err := s.users.ListMessages(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// Delete removes one message by id from the owner's array.
func (s *Service) Delete(ctx context.Context, userID, messageID primitive.ObjectID) error {
	err := s.users.RemoveMessage(ctx, userID, messageID)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrRecipientNotFound
	case errors.Is(err, repository.ErrMessageNotFound):
		return ErrMessageNotFound
	case err != nil:
		return fmt.Errorf("failed to remove message: %w", err)
	}
	return nil
}

// SetAccepting updates the owner's accept flag.
func (s *Service) SetAccepting(ctx context.Context, userID primitive.ObjectID, accepting bool) error {
	if err := s.users.SetAcceptingMessages(ctx, userID, accepting); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrRecipientNotFound
		}
		return fmt.Errorf("failed to update accept flag: %w", err)
	}
	return nil
}

// GetAccepting reads the owner's current accept flag.
func (s *Service) GetAccepting(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, ErrRecipientNotFound
		}
		return false, fmt.Errorf("failed to find user: %w", err)
	}
	return user.IsAcceptingMessages, nil
}
