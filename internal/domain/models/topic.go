// internal/domain/models/topic.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TopicKind selects between the two topic collections. Lecture and
// training topics live apart but share one document shape.
type TopicKind string

const (
	TopicLecture  TopicKind = "lecture"
	TopicTraining TopicKind = "training"
)

// Topic is a faction-scoped lecture or training topic, ordered for
// display in the corresponding table column.
type Topic struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FactionID primitive.ObjectID `bson:"faction_id" json:"faction_id"`
	Topic     string             `bson:"topic" json:"topic"`
	Order     int                `bson:"order" json:"order"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
