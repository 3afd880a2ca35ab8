// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Actions recorded by mutating operations.
const (
	ActionWeekCreated          = "week_created"
	ActionTableDataUpdated     = "table_data_updated"
	ActionStructureUpdated     = "table_structure_updated"
	ActionDepartmentCreated    = "department_created"
	ActionDepartmentUpdated    = "department_updated"
	ActionDepartmentDeleted    = "department_deleted"
	ActionLectureTopicCreated  = "lecture_topic_created"
	ActionLectureTopicDeleted  = "lecture_topic_deleted"
	ActionTrainingTopicCreated = "training_topic_created"
	ActionTrainingTopicDeleted = "training_topic_deleted"
	ActionUserCreated          = "user_created"
	ActionUserUpdated          = "user_updated"
	ActionUserDeleted          = "user_deleted"
	ActionUserActivated        = "user_activated"
)

// Resource types referenced by audit entries.
const (
	ResourceWeek       = "week"
	ResourceTableData  = "table_data"
	ResourceStructure  = "table_structure"
	ResourceDepartment = "department"
	ResourceTopic      = "topic"
	ResourceUser       = "user"
)

// Entry is one append-only audit record. Entries are never mutated or
// deleted by the application; retention is an external policy.
type Entry struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID     `bson:"user_id" json:"user_id"`
	UserEmail    string                 `bson:"user_email" json:"user_email"`
	Action       string                 `bson:"action" json:"action"`
	ResourceType string                 `bson:"resource_type" json:"resource_type"`
	ResourceID   string                 `bson:"resource_id" json:"resource_id"`
	OldValue     map[string]interface{} `bson:"old_value,omitempty" json:"old_value,omitempty"`
	NewValue     map[string]interface{} `bson:"new_value,omitempty" json:"new_value,omitempty"`
	IPAddress    string                 `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent    string                 `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Timestamp    time.Time              `bson:"timestamp" json:"timestamp"`
}

// QueryFilter defines filters for reading the audit trail.
type QueryFilter struct {
	UserID       *primitive.ObjectID
	ResourceType string
	Action       string
	StartTime    *time.Time
	EndTime      *time.Time
	Limit        int64
	Skip         int64
}

// Store manages audit records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_logs")}
}

// Log appends one entry. ID and Timestamp are filled in when zero.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

func (f QueryFilter) query() bson.M {
	query := bson.M{}
	if f.UserID != nil {
		query["user_id"] = f.UserID
	}
	if f.ResourceType != "" {
		query["resource_type"] = f.ResourceType
	}
	if f.Action != "" {
		query["action"] = f.Action
	}
	if f.StartTime != nil || f.EndTime != nil {
		timeQuery := bson.M{}
		if f.StartTime != nil {
			timeQuery["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			timeQuery["$lte"] = *f.EndTime
		}
		query["timestamp"] = timeQuery
	}
	return query
}

// Query retrieves entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Skip)

	cursor, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of entries matching the filter.
func (s *Store) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}
