package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/altscore/credit-system/internal/core/ports"
)

const transcriptCollection = "transcripts"

// TranscriptRepository persists chat transcript entries in MongoDB.
type TranscriptRepository struct {
	coll *mongo.Collection
}

func NewTranscriptRepository(db *mongo.Database) *TranscriptRepository {
	return &TranscriptRepository{coll: db.Collection(transcriptCollection)}
}

// Append inserts one transcript entry.
func (r *TranscriptRepository) Append(ctx context.Context, entry ports.TranscriptEntry) error {
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("transcripts: append: %w", err)
	}
	return nil
}

// History returns all entries ordered oldest first.
func (r *TranscriptRepository) History(ctx context.Context) ([]ports.TranscriptEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("transcripts: find: %w", err)
	}
	defer cur.Close(ctx)

	var entries []ports.TranscriptEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("transcripts: decode: %w", err)
	}
	return entries, nil
}

// Clear removes the whole transcript.
func (r *TranscriptRepository) Clear(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("transcripts: clear: %w", err)
	}
	return nil
}
