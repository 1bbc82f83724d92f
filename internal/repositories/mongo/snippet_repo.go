package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/techify/backend/internal/models"
)

type SnippetRepository interface {
	Insert(ctx context.Context, s *models.CodeSnippet) error
	List(ctx context.Context) ([]models.CodeSnippet, error)
}

type snippetRepo struct {
	col *mongo.Collection
}

func NewSnippetRepo(db *mongo.Database) SnippetRepository {
	return &snippetRepo{col: db.Collection("codesnippets")}
}

func (r *snippetRepo) Insert(ctx context.Context, s *models.CodeSnippet) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	return nil
}

func (r *snippetRepo) List(ctx context.Context) ([]models.CodeSnippet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	snippets := []models.CodeSnippet{}
	if err := cur.All(ctx, &snippets); err != nil {
		return nil, err
	}
	return snippets, nil
}
