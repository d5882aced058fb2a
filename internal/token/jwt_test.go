package token

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestManager_Roundtrip(t *testing.T) {
	m := NewManager("secret")
	id := Identity{
		UserID:              primitive.NewObjectID(),
		Username:            "alice",
		IsVerified:          true,
		IsAcceptingMessages: true,
	}

	tokenString, err := m.Generate(id)
	require.NoError(t, err)

	got, err := m.Parse(tokenString)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestManager_WrongSecret(t *testing.T) {
	m := NewManager("secret")
	tokenString, err := m.Generate(Identity{UserID: primitive.NewObjectID(), Username: "alice"})
	require.NoError(t, err)

	_, err = NewManager("othersecret").Parse(tokenString)
	require.Error(t, err)
}

func TestManager_Garbage(t *testing.T) {
	m := NewManager("secret")
	_, err := m.Parse("not.a.token")
	require.Error(t, err)
}
