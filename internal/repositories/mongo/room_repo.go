package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techify/backend/internal/models"
	"github.com/techify/backend/internal/utils"
)

// RoomRepository is the durable session store for interview rooms.
//
// Scalar fields are written with single $set updates (last writer wins) and
// list fields with $push so concurrent appends to the same room never lose a
// record. Callers must not read-modify-write whole arrays.
type RoomRepository interface {
	GetOrCreate(ctx context.Context, roomID string) (*models.Room, error)
	Get(ctx context.Context, roomID string) (*models.Room, error)
	SetFields(ctx context.Context, roomID string, fields map[string]any) error
	Append(ctx context.Context, roomID, list string, record any) error
	AppendMany(ctx context.Context, roomID string, records map[string]any) error
	AddParticipant(ctx context.Context, roomID string, user models.RoomUser) error
	RemoveParticipant(ctx context.Context, roomID, connID string) error
	End(ctx context.Context, roomID string, endedAt time.Time) error
}

type roomRepo struct {
	col *mongo.Collection
}

func NewRoomRepo(db *mongo.Database) RoomRepository {
	return &roomRepo{col: db.Collection("rooms")}
}

func (r *roomRepo) GetOrCreate(ctx context.Context, roomID string) (*models.Room, error) {
	now := time.Now().UTC()
	after := options.After
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(after)

	var room models.Room
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"roomId": roomID},
		bson.M{"$setOnInsert": bson.M{
			"roomId":           roomID,
			"code":             "",
			"question":         "",
			"language":         models.DefaultLanguage,
			"users":            []models.RoomUser{},
			"executions":       []models.ExecutionRecord{},
			"aiAnalyses":       []models.AIAnalysis{},
			"aiQuestions":      []models.AIQuestion{},
			"executionHistory": []models.ExecutionHistoryRecord{},
			"interviewNotes":   "",
			"startTime":        now,
			"isActive":         true,
		}},
		opts,
	).Decode(&room)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) Get(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	err := r.col.FindOne(ctx, bson.M{"roomId": roomID}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) SetFields(ctx context.Context, roomID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"roomId": roomID},
		bson.M{"$set": bson.M(fields)},
	)
	return err
}

func (r *roomRepo) Append(ctx context.Context, roomID, list string, record any) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"roomId": roomID},
		bson.M{"$push": bson.M{list: record}},
	)
	return err
}

// AppendMany pushes one record into each named list in a single update, and
// is used by the execution relay to keep the lean and rich history lists in
// step. It may be combined with scalar sets via a "$set" key in records.
func (r *roomRepo) AppendMany(ctx context.Context, roomID string, records map[string]any) error {
	if len(records) == 0 {
		return nil
	}
	push := bson.M{}
	update := bson.M{}
	for list, record := range records {
		if list == "$set" {
			update["$set"] = record
			continue
		}
		push[list] = record
	}
	if len(push) > 0 {
		update["$push"] = push
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"roomId": roomID}, update)
	return err
}

func (r *roomRepo) AddParticipant(ctx context.Context, roomID string, user models.RoomUser) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"roomId": roomID},
		bson.M{"$push": bson.M{"users": user}},
	)
	return err
}

func (r *roomRepo) RemoveParticipant(ctx context.Context, roomID, connID string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"roomId": roomID},
		bson.M{"$pull": bson.M{"users": bson.M{"id": connID}}},
	)
	return err
}

func (r *roomRepo) End(ctx context.Context, roomID string, endedAt time.Time) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"roomId": roomID},
		bson.M{"$set": bson.M{
			"isActive": false,
			"endTime":  endedAt.UTC(),
		}},
	)
	return err
}
