// internal/app/store/topics/topicstore.go
package topicstore

import (
	"context"
	"errors"
	"time"

	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store serves one topic collection: lectures or trainings.
type Store struct {
	c *mongo.Collection
}

// New selects the collection by kind. Anything other than
// models.TopicTraining serves lectures.
func New(db *mongo.Database, kind models.TopicKind) *Store {
	name := "lecture_topics"
	if kind == models.TopicTraining {
		name = "training_topics"
	}
	return &Store{c: db.Collection(name)}
}

// Create appends a topic at the end of the faction's list: the order
// value is one past the current maximum.
func (s *Store) Create(ctx context.Context, factionID primitive.ObjectID, topic string) (models.Topic, error) {
	next, err := s.nextOrder(ctx, factionID)
	if err != nil {
		return models.Topic{}, err
	}
	t := models.Topic{
		ID:        primitive.NewObjectID(),
		FactionID: factionID,
		Topic:     topic,
		Order:     next,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Topic{}, err
	}
	return t, nil
}

func (s *Store) nextOrder(ctx context.Context, factionID primitive.ObjectID) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})
	var last models.Topic
	err := s.c.FindOne(ctx, bson.M{"faction_id": factionID}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Order + 1, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Topic, error) {
	var t models.Topic
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Topic{}, err
	}
	return t, nil
}

// ListByFaction returns the faction's topics in list order.
func (s *Store) ListByFaction(ctx context.Context, factionID primitive.ObjectID) ([]models.Topic, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := s.c.Find(ctx, bson.M{"faction_id": factionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var topics []models.Topic
	if err := cursor.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
