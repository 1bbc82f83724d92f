package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureMongoIndexes creates the indexes the repositories rely on. Room codes
// are the primary lookup key and must be unique.
func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rooms := db.Collection("rooms")
	_, err := rooms.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "roomId", Value: 1}},
		Options: options.Index().
			SetName("uniq_room_id").
			SetUnique(true),
	})
	if err != nil {
		return err
	}

	questions := db.Collection("questions")
	_, err = questions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "difficulty", Value: 1}},
		Options: options.Index().SetName("by_difficulty"),
	})
	return err
}
