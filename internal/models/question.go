package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is one entry in the interviewer's question bank.
type Question struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text       string             `bson:"text" json:"text"`
	Difficulty Difficulty         `bson:"difficulty" json:"difficulty"`
	Tags       []string           `bson:"tags,omitempty" json:"tags,omitempty"`
}
