package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Saksham-w/askme/internal/models"
)

// MongoUserRepository implements UserRepository over a users collection.
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a repository backed by the given collection.
func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{col: col}
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) FindVerifiedByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "is_verified": true})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) Insert(ctx context.Context, user *models.User) error {
	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("error inserting user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *MongoUserRepository) RefreshPending(ctx context.Context, id primitive.ObjectID, passwordHash, code string, expiry time.Time) error {
	update := bson.M{"$set": bson.M{
		"password":           passwordHash,
		"verify_code":        code,
		"verify_code_expiry": expiry,
	}}
	return r.updateByID(ctx, id, update)
}

func (r *MongoUserRepository) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"is_verified": true}})
}

func (r *MongoUserRepository) SetAcceptingMessages(ctx context.Context, id primitive.ObjectID, accepting bool) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"is_accepting_messages": accepting}})
}

func (r *MongoUserRepository) AppendMessage(ctx context.Context, id primitive.ObjectID, msg models.Message) error {
	return r.updateByID(ctx, id, bson.M{"$push": bson.M{"messages": msg}})
}

func (r *MongoUserRepository) RemoveMessage(ctx context.Context, userID, messageID primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"messages": bson.M{"_id": messageID}}}
	res, err := r.col.UpdateByID(ctx, userID, update)
	if err != nil {
		return fmt.Errorf("error removing message: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// ListMessages sorts the embedded array server-side: unwind the messages,
// sort by creation time descending, then regroup into one document.
func (r *MongoUserRepository) ListMessages(ctx context.Context, id primitive.ObjectID) ([]models.Message, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$unwind", Value: bson.M{"path": "$messages", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$sort", Value: bson.M{"messages.created_at": -1}}},
		{{Key: "$group", Value: bson.M{"_id": "$_id", "messages": bson.M{"$push": "$messages"}}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Messages []models.Message `bson:"messages"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding messages: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrUserNotFound
	}
	return results[0].Messages, nil
}

func (r *MongoUserRepository) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
