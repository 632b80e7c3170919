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

type sourceDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Type      string             `bson:"type"`
	URL       string             `bson:"url,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

type SourceStore struct {
	coll *mongo.Collection
}

func NewSourceStore(db *mongo.Database) *SourceStore {
	return &SourceStore{coll: db.Collection(sourcesCollection)}
}

var _ repository.Sources = (*SourceStore)(nil)

// Replace deletes every source and inserts the given list. Not atomic:
// standalone deployments have no multi-document transactions.
func (s *SourceStore) Replace(ctx context.Context, sources []models.Source) error {
	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("delete sources: %w", err)
	}
	if len(sources) == 0 {
		return nil
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]interface{}, 0, len(sources))
	for i := range sources {
		doc := sourceDoc{
			ID:        primitive.NewObjectID(),
			Title:     sources[i].Title,
			Type:      sources[i].Type,
			URL:       sources[i].URL,
			CreatedAt: now,
		}
		sources[i].ID = doc.ID.Hex()
		sources[i].CreatedAt = now
		docs = append(docs, doc)
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert sources: %w", err)
	}
	return nil
}

func (s *SourceStore) List(ctx context.Context) ([]models.Source, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find sources: %w", err)
	}
	defer cur.Close(ctx)

	var docs []sourceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sources: %w", err)
	}
	out := make([]models.Source, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.Source{
			ID:        d.ID.Hex(),
			Title:     d.Title,
			Type:      d.Type,
			URL:       d.URL,
			CreatedAt: d.CreatedAt.UTC(),
		})
	}
	return out, nil
}
