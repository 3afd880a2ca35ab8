// internal/app/store/factions/factionstore.go
package factionstore

import (
	"context"
	"time"

	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// seedFactions is the fixed roster; Seed inserts any that are missing
// and never overwrites an existing one.
var seedFactions = []models.Faction{
	{Code: models.FactionGov, Name: "Правительство", Description: "Правительство штата"},
	{Code: models.FactionFSB, Name: "ФСБ", Description: "Федеральная служба безопасности"},
	{Code: models.FactionGIBDD, Name: "ГИБДД", Description: "Государственная инспекция безопасности дорожного движения"},
	{Code: models.FactionUMVD, Name: "УМВД", Description: "Управление Министерства внутренних дел"},
	{Code: models.FactionArmy, Name: "Армия", Description: "Вооружённые силы"},
	{Code: models.FactionHospital, Name: "Больница", Description: "Центральная больница"},
	{Code: models.FactionSMI, Name: "СМИ", Description: "Средства массовой информации"},
	{Code: models.FactionFSIN, Name: "ФСИН", Description: "Федеральная служба исполнения наказаний"},
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("factions")}
}

// Seed upserts the fixed faction roster. Safe to run on every startup.
func (s *Store) Seed(ctx context.Context) error {
	for _, f := range seedFactions {
		filter := bson.M{"code": f.Code}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":         primitive.NewObjectID(),
				"code":        f.Code,
				"name":        f.Name,
				"description": f.Description,
				"created_at":  time.Now().UTC(),
			},
		}
		if _, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Faction, error) {
	var f models.Faction
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return models.Faction{}, err
	}
	return f, nil
}

func (s *Store) GetByCode(ctx context.Context, code models.FactionCode) (models.Faction, error) {
	var f models.Faction
	if err := s.c.FindOne(ctx, bson.M{"code": code}).Decode(&f); err != nil {
		return models.Faction{}, err
	}
	return f, nil
}

func (s *Store) List(ctx context.Context) ([]models.Faction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	cursor, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var factions []models.Faction
	if err := cursor.All(ctx, &factions); err != nil {
		return nil, err
	}
	return factions, nil
}
