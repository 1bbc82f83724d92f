package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CodeSnippet is a saved piece of code with its last output, kept outside any
// room so it survives the session.
type CodeSnippet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code      string             `bson:"code" json:"code"`
	Language  string             `bson:"language" json:"language"`
	Output    string             `bson:"output,omitempty" json:"output,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
