package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Saksham-w/askme/internal/logger"
	"github.com/Saksham-w/askme/internal/mailer"
	"github.com/Saksham-w/askme/internal/models"
	"github.com/Saksham-w/askme/internal/repository"
	"github.com/Saksham-w/askme/internal/token"
	"github.com/Saksham-w/askme/internal/util"
)

var (
	// ErrUsernameTaken means a verified user already holds the username.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrEmailTaken means a verified user already holds the email.
	ErrEmailTaken = errors.New("user with this email already exists")
	// ErrEmailDelivery means the user was persisted but the verification
	// email could not be sent.
	ErrEmailDelivery = errors.New("failed to send verification code to email")
	// ErrUserNotFound means no user matched the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrCodeInvalid covers both a wrong code and an expired one.
	ErrCodeInvalid = errors.New("verification code is invalid or has expired")
	// ErrNotVerified means the account exists but has not redeemed a code.
	ErrNotVerified = errors.New("account is not verified")
	// ErrInvalidCredentials means the password did not match.
	ErrInvalidCredentials = errors.New("incorrect password")
)

// Service implements account registration, the verification lifecycle,
// username uniqueness, and sign-in.
type Service struct {
	users  repository.UserRepository
	mail   mailer.Mailer
	tokens *token.Manager
	logger *logger.Logger
	now    func() time.Time
}

// NewService wires the auth service.
func NewService(users repository.UserRepository, mail mailer.Mailer, tokens *token.Manager, log *logger.Logger) *Service {
	return &Service{
		users:  users,
		mail:   mail,
		tokens: tokens,
		logger: log,
		now:    time.Now,
	}
}

// SignUp registers a new account or refreshes an unverified one holding the
// same email, then dispatches the verification code. The user document
// stays persisted even when dispatch fails; there is no rollback.
func (s *Service) SignUp(ctx context.Context, username, email, password string) error {
	fieldErrs := util.ValidateUsername(username)
	if !util.ValidateEmail(email) {
		fieldErrs = append(fieldErrs, "Invalid email address")
	}
	fieldErrs = append(fieldErrs, util.ValidatePassword(password)...)
	if len(fieldErrs) > 0 {
		return &util.ValidationError{Errors: fieldErrs}
	}

	// Only verified holders make a username taken.
	_, err := s.users.FindVerifiedByUsername(ctx, username)
	if err == nil {
		return ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	code, err := issueCode()
	if err != nil {
		return err
	}
	expiry := s.now().Add(codeValidity)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing.IsVerified:
		return ErrEmailTaken
	case err == nil:
		// Unverified holder: refresh credentials in place. The stored
		// username is deliberately left untouched on this branch.
		if err := s.users.RefreshPending(ctx, existing.ID, string(hash), code, expiry); err != nil {
			return fmt.Errorf("failed to refresh pending user: %w", err)
		}
	case errors.Is(err, repository.ErrUserNotFound):
		user := &models.User{
			Username:            username,
			Email:               email,
			PasswordHash:        string(hash),
			VerifyCode:          code,
			VerifyCodeExpiry:    expiry,
			IsVerified:          false,
			IsAcceptingMessages: true,
			Messages:            []models.Message{},
		}
		if err := s.users.Insert(ctx, user); err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
	default:
		return fmt.Errorf("failed to check email: %w", err)
	}

	if err := s.mail.SendVerificationEmail(email, username, code); err != nil {
		s.logger.Error("failed to send verification email", "username", username, "error", err.Error())
		return ErrEmailDelivery
	}

	s.logger.Info("sign-up accepted, verification code sent", "username", username)
	return nil
}

// VerifyCode redeems a verification code, flipping the account to verified.
// Verified is terminal; there is no de-verification path.
func (s *Service) VerifyCode(ctx context.Context, username, code string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !codeValid(user, code, s.now()) {
		return ErrCodeInvalid
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	s.logger.Info("user verified", "username", username)
	return nil
}

// CheckUsername reports whether a username is free for registration. This
// is a point-in-time check with no reservation; a concurrent sign-up can
// still win the name.
func (s *Service) CheckUsername(ctx context.Context, username string) error {
	if fieldErrs := util.ValidateUsername(username); len(fieldErrs) > 0 {
		return &util.ValidationError{Errors: fieldErrs}
	}

	_, err := s.users.FindVerifiedByUsername(ctx, username)
	if err == nil {
		return ErrUsernameTaken
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil
	}
	return fmt.Errorf("failed to check username: %w", err)
}

// SignIn authenticates by email or username and returns a signed session
// token carrying the identity.
func (s *Service) SignIn(ctx context.Context, identifier, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, identifier)
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = s.users.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsVerified {
		return "", ErrNotVerified
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Generate(token.Identity{
		UserID:              user.ID,
		Username:            user.Username,
		IsVerified:          user.IsVerified,
		IsAcceptingMessages: user.IsAcceptingMessages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.Info("user signed in", "username", user.Username)
	return tokenString, nil
}
