package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleCandidate   Role = "candidate"
)

// Room is the durable record of one interview session, keyed by a short
// shareable room code. Scalar fields are last-writer-wins; list fields are
// append-only while the session is active.
type Room struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RoomID string             `bson:"roomId" json:"roomId"`

	Code     string `bson:"code" json:"code"`
	Question string `bson:"question" json:"question"`
	Language string `bson:"language" json:"language"`

	Users []RoomUser `bson:"users" json:"users"`

	Executions       []ExecutionRecord        `bson:"executions" json:"executions"`
	AIAnalyses       []AIAnalysis             `bson:"aiAnalyses" json:"aiAnalyses"`
	AIQuestions      []AIQuestion             `bson:"aiQuestions" json:"aiQuestions"`
	ExecutionHistory []ExecutionHistoryRecord `bson:"executionHistory" json:"executionHistory"`

	InterviewNotes string         `bson:"interviewNotes" json:"interviewNotes"`
	RubricScores   *RubricScoring `bson:"rubricScores,omitempty" json:"rubricScores,omitempty"`

	StartTime time.Time  `bson:"startTime" json:"startTime"`
	EndTime   *time.Time `bson:"endTime,omitempty" json:"endTime,omitempty"`
	IsActive  bool       `bson:"isActive" json:"isActive"`
}

// DefaultLanguage is the language a freshly created room starts with.
const DefaultLanguage = "javascript"

// RoomUser is one live connection's roster entry. The id is the ephemeral
// connection id, so entries do not survive a reconnect.
type RoomUser struct {
	ID   string `bson:"id" json:"id"`
	Role Role   `bson:"role" json:"role"`
}

// ExecutionRecord is the lean per-run record kept in the executions list.
type ExecutionRecord struct {
	Code       string    `bson:"code" json:"code"`
	Language   string    `bson:"language" json:"language"`
	Output     string    `bson:"output" json:"output"`
	Error      string    `bson:"error" json:"error"`
	ExecutedBy string    `bson:"executedBy" json:"executedBy"`
	ExecutedAt time.Time `bson:"executedAt" json:"executedAt"`
}

// ExecutionHistoryRecord is the richer per-run record (success flag and
// reported execution time) kept in the executionHistory list.
type ExecutionHistoryRecord struct {
	Code          string    `bson:"code" json:"code"`
	Language      string    `bson:"language" json:"language"`
	Output        string    `bson:"output" json:"output"`
	Success       bool      `bson:"success" json:"success"`
	ExecutionTime float64   `bson:"executionTime" json:"executionTime"`
	Timestamp     time.Time `bson:"timestamp" json:"timestamp"`
	ExecutedBy    string    `bson:"executedBy" json:"executedBy"`
}

type AIAnalysis struct {
	Code      string    `bson:"code" json:"code"`
	Language  string    `bson:"language" json:"language"`
	Analysis  string    `bson:"analysis" json:"analysis"`
	Question  string    `bson:"question,omitempty" json:"question,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type AIQuestion struct {
	Question  string    `bson:"question" json:"question"`
	Response  string    `bson:"response" json:"response"`
	Code      string    `bson:"code" json:"code"`
	Language  string    `bson:"language" json:"language"`
	Context   string    `bson:"context,omitempty" json:"context,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type RubricScore struct {
	Score float64 `bson:"score" json:"score"`
	Notes string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

type RubricScoring struct {
	Scores         map[string]RubricScore `bson:"scores" json:"scores"`
	WeightedScore  float64                `bson:"weightedScore" json:"weightedScore"`
	Recommendation string                 `bson:"recommendation" json:"recommendation"`
	OverallNotes   string                 `bson:"overallNotes" json:"overallNotes"`
	EvaluatedAt    time.Time              `bson:"evaluatedAt" json:"evaluatedAt"`
}
