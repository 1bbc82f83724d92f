package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techify/backend/internal/models"
	"github.com/techify/backend/internal/utils"
)

type QuestionRepository interface {
	Insert(ctx context.Context, q *models.Question) error
	List(ctx context.Context, difficulty models.Difficulty) ([]models.Question, error)
	Update(ctx context.Context, id primitive.ObjectID, q *models.Question) (*models.Question, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type questionRepo struct {
	col *mongo.Collection
}

func NewQuestionRepo(db *mongo.Database) QuestionRepository {
	return &questionRepo{col: db.Collection("questions")}
}

func (r *questionRepo) Insert(ctx context.Context, q *models.Question) error {
	res, err := r.col.InsertOne(ctx, q)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		q.ID = oid
	}
	return nil
}

func (r *questionRepo) List(ctx context.Context, difficulty models.Difficulty) ([]models.Question, error) {
	filter := bson.M{}
	if difficulty != "" {
		filter["difficulty"] = difficulty
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	questions := []models.Question{}
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) Update(ctx context.Context, id primitive.ObjectID, q *models.Question) (*models.Question, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var updated models.Question
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"text":       q.Text,
			"difficulty": q.Difficulty,
			"tags":       q.Tags,
		}},
		opts,
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *questionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}
