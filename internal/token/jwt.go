package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is the authenticated subject carried by a session token. It is
// mapped once at the API boundary and handed to handlers as-is.
type Identity struct {
	UserID              primitive.ObjectID
	Username            string
	IsVerified          bool
	IsAcceptingMessages bool
}

// Claims represents session token claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID              string `json:"user_id"`
	Username            string `json:"username"`
	IsVerified          bool   `json:"is_verified"`
	IsAcceptingMessages bool   `json:"is_accepting_messages"`
}

const sessionTTL = 24 * time.Hour

// Manager issues and validates session tokens signed with symmetric HMAC.
type Manager struct {
	secretKey string
}

// NewManager creates a token manager with the provided secret key.
func NewManager(secretKey string) *Manager {
	return &Manager{secretKey: secretKey}
}

// Generate creates a signed session token for the given identity.
func (m *Manager) Generate(id Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
		UserID:              id.UserID.Hex(),
		Username:            id.Username,
		IsVerified:          id.IsVerified,
		IsAcceptingMessages: id.IsAcceptingMessages,
	})

	tokenString, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Parse validates a session token and extracts the identity it carries.
func (m *Manager) Parse(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("session token is invalid")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid user id in session token: %w", err)
	}

	return Identity{
		UserID:              userID,
		Username:            claims.Username,
		IsVerified:          claims.IsVerified,
		IsAcceptingMessages: claims.IsAcceptingMessages,
	}, nil
}
