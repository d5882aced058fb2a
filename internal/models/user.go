package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is an anonymous message embedded in its recipient's document.
// It has no identity outside the parent user.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// User represents a registered user. Messages live inline as an embedded
// array; a user counts toward username uniqueness only once verified.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Username            string             `bson:"username"`
	Email               string             `bson:"email"`
	PasswordHash        string             `bson:"password"`
	VerifyCode          string             `bson:"verify_code"`
	VerifyCodeExpiry    time.Time          `bson:"verify_code_expiry"`
	IsVerified          bool               `bson:"is_verified"`
	IsAcceptingMessages bool               `bson:"is_accepting_messages"`
	Messages            []Message          `bson:"messages"`
}
