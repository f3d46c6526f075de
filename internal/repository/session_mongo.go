package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ahmedsami/octochat/internal/models"
)

// SessionMongo persists chat transcripts so follow-up questions can reuse
// earlier turns. One document per session.
type SessionMongo struct {
	col *mongo.Collection
}

// NewSessionRepository wires the sessions collection.
//
// Expected schema:
//
//	sessions
//	  { _id: string, messages: [{role, content}], created_at, updated_at }
func NewSessionRepository(db *mongo.Database) *SessionMongo {
	return &SessionMongo{col: db.Collection("sessions")}
}

type sessionDoc struct {
	ID        string           `bson:"_id"`
	Messages  []models.Message `bson:"messages"`
	CreatedAt time.Time        `bson:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

// Load returns the transcript for a session. An unknown session ID is not
// an error—it simply has no history yet.
func (r *SessionMongo) Load(ctx context.Context, id string) ([]models.Message, error) {
	var doc sessionDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Messages, nil
}

// Append adds turns to a session transcript, creating the session document
// on first write.
func (r *SessionMongo) Append(ctx context.Context, id string, msgs ...models.Message) error {
	now := time.Now().UTC()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push":        bson.M{"messages": bson.M{"$each": msgs}},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
