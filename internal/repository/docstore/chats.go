package docstore

import (
	"context"
	"fmt"
	"time"

	"ecostudy/internal/models"
	"ecostudy/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type chatDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Question  string             `bson:"question"`
	Answer    string             `bson:"answer"`
	Kind      string             `bson:"type"`
	CreatedAt time.Time          `bson:"created_at"`
}

type ChatStore struct {
	coll *mongo.Collection
}

func NewChatStore(db *mongo.Database) *ChatStore {
	return &ChatStore{coll: db.Collection(chatsCollection)}
}

var _ repository.Chats = (*ChatStore)(nil)

func (s *ChatStore) Append(ctx context.Context, c *models.Chat) error {
	doc := chatDoc{
		ID:        primitive.NewObjectID(),
		UserID:    c.UserID,
		Question:  c.Question,
		Answer:    c.Answer,
		Kind:      string(c.Kind),
		CreatedAt: c.CreatedAt.UTC(),
	}
	if c.CreatedAt.IsZero() {
		// BSON dates carry millisecond precision
		doc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert chat for user %q: %w", c.UserID, err)
	}
	c.ID = doc.ID.Hex()
	c.CreatedAt = doc.CreatedAt
	return nil
}

// ListByUser sorts by created_at then _id, both descending; ObjectIDs grow
// monotonically so the second key keeps same-millisecond inserts ordered.
func (s *ChatStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.Chat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, bson.D{{Key: "user_id", Value: userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find chats for user %q: %w", userID, err)
	}
	defer cur.Close(ctx)

	out := make([]models.Chat, 0, 16)
	for cur.Next(ctx) {
		var doc chatDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode chat: %w", err)
		}
		out = append(out, models.Chat{
			ID:        doc.ID.Hex(),
			UserID:    doc.UserID,
			Question:  doc.Question,
			Answer:    doc.Answer,
			Kind:      models.ChatKind(doc.Kind),
			CreatedAt: doc.CreatedAt.UTC(),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
