package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Saksham-w/askme/internal/logger"
	"github.com/Saksham-w/askme/internal/models"
	"github.com/Saksham-w/askme/internal/repository"
	"github.com/Saksham-w/askme/internal/token"
	"github.com/Saksham-w/askme/internal/util"
)

type sentMail struct {
	email    string
	username string
	code     string
}

type fakeMailer struct {
	sent []sentMail
	fail bool
}

func (m *fakeMailer) SendVerificationEmail(email, username, code string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{email: email, username: username, code: code})
	return nil
}

func newTestService() (*Service, *repository.MemoryUserRepository, *fakeMailer) {
	repo := repository.NewMemoryUserRepository()
	mail := &fakeMailer{}
	svc := NewService(repo, mail, token.NewManager("testsecret"), logger.New(8))
	return svc, repo, mail
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestSignUp_CreatesUnverifiedUser(t *testing.T) {
	svc, repo, mail := newTestService()
	ctx := context.Background()

	err := svc.SignUp(ctx, "alice", "a@x.com", "password1")
	require.NoError(t, err)

	user, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.IsVerified)
	assert.True(t, user.IsAcceptingMessages)
	assert.Empty(t, user.Messages)
	assert.Len(t, user.VerifyCode, 6)
	assert.True(t, user.VerifyCodeExpiry.After(time.Now()))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password1")))

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "a@x.com", mail.sent[0].email)
	assert.Equal(t, user.VerifyCode, mail.sent[0].code)
}

func TestSignUp_Validation(t *testing.T) {
	svc, _, mail := newTestService()
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"short username", "ab", "a@x.com", "password1"},
		{"username with spaces", "a b c d", "a@x.com", "password1"},
		{"invalid email", "alice", "not-an-email", "password1"},
		{"short password", "alice", "a@x.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SignUp(ctx, tt.username, tt.email, tt.password)
			var validationErr *util.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
	assert.Empty(t, mail.sent)
}

func TestSignUp_UsernameTakenByVerifiedUser(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.User{
		Username:   "alice",
		Email:      "a@x.com",
		IsVerified: true,
	}))

	err := svc.SignUp(ctx, "alice", "other@x.com", "password1")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSignUp_UsernameHeldOnlyByUnverifiedIsFree(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.User{
		Username:   "alice",
		Email:      "a@x.com",
		IsVerified: false,
	}))

	err := svc.SignUp(ctx, "alice", "other@x.com", "password1")
	assert.NoError(t, err)
}

func TestSignUp_EmailTakenByVerifiedUser(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.User{
		Username:   "alice",
		Email:      "a@x.com",
		IsVerified: true,
	}))

	// The username does not matter: the email conflict wins.
	err := svc.SignUp(ctx, "someoneelse", "a@x.com", "password1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUp_UnverifiedEmailHolderIsRefreshedInPlace(t *testing.T) {
	svc, repo, mail := newTestService()
	ctx := context.Background()

	original := &models.User{
		Username:         "bob",
		Email:            "a@x.com",
		PasswordHash:     mustHash(t, "oldpassword"),
		VerifyCode:       "111111",
		VerifyCodeExpiry: time.Now().Add(-time.Hour),
		IsVerified:       false,
	}
	require.NoError(t, repo.Insert(ctx, original))

	err := svc.SignUp(ctx, "charlie", "a@x.com", "newpassword1")
	require.NoError(t, err)

	refreshed, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	// Same document: the stored username is left untouched on this branch.
	assert.Equal(t, original.ID, refreshed.ID)
	assert.Equal(t, "bob", refreshed.Username)
	assert.NotEqual(t, "111111", refreshed.VerifyCode)
	assert.True(t, refreshed.VerifyCodeExpiry.After(time.Now()))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(refreshed.PasswordHash), []byte("newpassword1")))

	// The greeting uses the submitted username even though the stored one
	// was not changed.
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "charlie", mail.sent[0].username)
}

func TestSignUp_EmailDeliveryFailureKeepsUser(t *testing.T) {
	svc, repo, mail := newTestService()
	mail.fail = true
	ctx := context.Background()

	err := svc.SignUp(ctx, "alice", "a@x.com", "password1")
	assert.ErrorIs(t, err, ErrEmailDelivery)

	// No rollback: the document stays persisted.
	_, err = repo.FindByEmail(ctx, "a@x.com")
	assert.NoError(t, err)
}

func TestVerifyCode(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	seed := func(repo *repository.MemoryUserRepository) *models.User {
		user := &models.User{
			Username:         "alice",
			Email:            "a@x.com",
			VerifyCode:       "123456",
			VerifyCodeExpiry: now.Add(time.Hour),
		}
		require.NoError(t, repo.Insert(context.Background(), user))
		return user
	}

	t.Run("valid code before expiry", func(t *testing.T) {
		svc, repo, _ := newTestService()
		svc.now = func() time.Time { return now }
		user := seed(repo)

		require.NoError(t, svc.VerifyCode(context.Background(), "alice", "123456"))

		got, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.True(t, got.IsVerified)
	})

	t.Run("wrong code", func(t *testing.T) {
		svc, repo, _ := newTestService()
		svc.now = func() time.Time { return now }
		user := seed(repo)

		err := svc.VerifyCode(context.Background(), "alice", "654321")
		assert.ErrorIs(t, err, ErrCodeInvalid)

		got, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.False(t, got.IsVerified)
	})

	t.Run("expired code", func(t *testing.T) {
		svc, repo, _ := newTestService()
		svc.now = func() time.Time { return now.Add(2 * time.Hour) }
		seed(repo)

		err := svc.VerifyCode(context.Background(), "alice", "123456")
		assert.ErrorIs(t, err, ErrCodeInvalid)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := newTestService()

		err := svc.VerifyCode(context.Background(), "nobody", "123456")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestCheckUsername(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.User{Username: "taken", Email: "t@x.com", IsVerified: true}))
	require.NoError(t, repo.Insert(ctx, &models.User{Username: "pending", Email: "p@x.com", IsVerified: false}))

	t.Run("invalid format", func(t *testing.T) {
		err := svc.CheckUsername(ctx, "a!")
		var validationErr *util.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.NotEmpty(t, validationErr.Errors)
	})

	t.Run("taken by verified user", func(t *testing.T) {
		assert.ErrorIs(t, svc.CheckUsername(ctx, "taken"), ErrUsernameTaken)
	})

	t.Run("held only by unverified user", func(t *testing.T) {
		assert.NoError(t, svc.CheckUsername(ctx, "pending"))
	})

	t.Run("free", func(t *testing.T) {
		assert.NoError(t, svc.CheckUsername(ctx, "fresh_name"))
	})
}

func TestSignIn(t *testing.T) {
	newSeededService := func(t *testing.T, verified bool) (*Service, *models.User) {
		svc, repo, _ := newTestService()
		user := &models.User{
			Username:            "alice",
			Email:               "a@x.com",
			PasswordHash:        mustHash(t, "password1"),
			IsVerified:          verified,
			IsAcceptingMessages: true,
		}
		require.NoError(t, repo.Insert(context.Background(), user))
		return svc, user
	}

	t.Run("by email", func(t *testing.T) {
		svc, user := newSeededService(t, true)

		tokenString, err := svc.SignIn(context.Background(), "a@x.com", "password1")
		require.NoError(t, err)

		identity, err := token.NewManager("testsecret").Parse(tokenString)
		require.NoError(t, err)
		assert.Equal(t, user.ID, identity.UserID)
		assert.Equal(t, "alice", identity.Username)
		assert.True(t, identity.IsVerified)
		assert.True(t, identity.IsAcceptingMessages)
	})

	t.Run("by username", func(t *testing.T) {
		svc, _ := newSeededService(t, true)

		_, err := svc.SignIn(context.Background(), "alice", "password1")
		assert.NoError(t, err)
	})

	t.Run("not verified", func(t *testing.T) {
		svc, _ := newSeededService(t, false)

		_, err := svc.SignIn(context.Background(), "a@x.com", "password1")
		assert.ErrorIs(t, err, ErrNotVerified)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newSeededService(t, true)

		_, err := svc.SignIn(context.Background(), "a@x.com", "wrongpass1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.SignIn(context.Background(), "nobody@x.com", "password1")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
