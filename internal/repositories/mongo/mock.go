package mongo

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/techify/backend/internal/models"
	"github.com/techify/backend/internal/utils"
)

// MockRoomRepository is an in-memory RoomRepository for tests. It mirrors the
// store's atomicity contract: scalar sets and list appends are each a single
// operation under one lock, so concurrent appends never lose records.
type MockRoomRepository struct {
	mu    sync.Mutex
	Rooms map[string]*models.Room

	// When set, the matching operation fails with this error.
	FailGet         error
	FailSet         error
	FailAppend      error
	FailEnd         error
	FailGetOrCreate error
}

func NewMockRoomRepository() *MockRoomRepository {
	return &MockRoomRepository{Rooms: make(map[string]*models.Room)}
}

func (m *MockRoomRepository) GetOrCreate(_ context.Context, roomID string) (*models.Room, error) {
	if m.FailGetOrCreate != nil {
		return nil, m.FailGetOrCreate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok := m.Rooms[roomID]; ok {
		cp := *room
		return &cp, nil
	}
	room := &models.Room{
		RoomID:           roomID,
		Language:         models.DefaultLanguage,
		Users:            []models.RoomUser{},
		Executions:       []models.ExecutionRecord{},
		AIAnalyses:       []models.AIAnalysis{},
		AIQuestions:      []models.AIQuestion{},
		ExecutionHistory: []models.ExecutionHistoryRecord{},
		StartTime:        time.Now().UTC(),
		IsActive:         true,
	}
	m.Rooms[roomID] = room
	cp := *room
	return &cp, nil
}

func (m *MockRoomRepository) Get(_ context.Context, roomID string) (*models.Room, error) {
	if m.FailGet != nil {
		return nil, m.FailGet
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.Rooms[roomID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *room
	return &cp, nil
}

func (m *MockRoomRepository) SetFields(_ context.Context, roomID string, fields map[string]any) error {
	if m.FailSet != nil {
		return m.FailSet
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.Rooms[roomID]
	if !ok {
		return nil // matches UpdateOne on a missing document: zero matches, no error
	}
	applyFields(room, fields)
	return nil
}

func (m *MockRoomRepository) Append(_ context.Context, roomID, list string, record any) error {
	if m.FailAppend != nil {
		return m.FailAppend
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.Rooms[roomID]
	if !ok {
		return nil
	}
	appendRecord(room, list, record)
	return nil
}

func (m *MockRoomRepository) AppendMany(_ context.Context, roomID string, records map[string]any) error {
	if m.FailAppend != nil {
		return m.FailAppend
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.Rooms[roomID]
	if !ok {
		return nil
	}
	for list, record := range records {
		if list == "$set" {
			if fields, ok := record.(map[string]any); ok {
				applyFields(room, fields)
			}
			continue
		}
		appendRecord(room, list, record)
	}
	return nil
}

func (m *MockRoomRepository) AddParticipant(_ context.Context, roomID string, user models.RoomUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok := m.Rooms[roomID]; ok {
		room.Users = append(room.Users, user)
	}
	return nil
}

func (m *MockRoomRepository) RemoveParticipant(_ context.Context, roomID, connID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.Rooms[roomID]
	if !ok {
		return nil
	}
	users := room.Users[:0]
	for _, u := range room.Users {
		if u.ID != connID {
			users = append(users, u)
		}
	}
	room.Users = users
	return nil
}

func (m *MockRoomRepository) End(_ context.Context, roomID string, endedAt time.Time) error {
	if m.FailEnd != nil {
		return m.FailEnd
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok := m.Rooms[roomID]; ok {
		room.IsActive = false
		t := endedAt.UTC()
		room.EndTime = &t
	}
	return nil
}

// Room returns a copy of the stored room for assertions.
func (m *MockRoomRepository) Room(roomID string) (models.Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.Rooms[roomID]
	if !ok {
		return models.Room{}, false
	}
	return *room, true
}

func applyFields(room *models.Room, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "code":
			room.Code, _ = v.(string)
		case "question":
			room.Question, _ = v.(string)
		case "language":
			room.Language, _ = v.(string)
		case "interviewNotes":
			room.InterviewNotes, _ = v.(string)
		case "rubricScores":
			if scoring, ok := v.(models.RubricScoring); ok {
				room.RubricScores = &scoring
			}
		}
	}
}

func appendRecord(room *models.Room, list string, record any) {
	switch list {
	case "executions":
		if r, ok := record.(models.ExecutionRecord); ok {
			room.Executions = append(room.Executions, r)
		}
	case "executionHistory":
		if r, ok := record.(models.ExecutionHistoryRecord); ok {
			room.ExecutionHistory = append(room.ExecutionHistory, r)
		}
	case "aiAnalyses":
		if r, ok := record.(models.AIAnalysis); ok {
			room.AIAnalyses = append(room.AIAnalyses, r)
		}
	case "aiQuestions":
		if r, ok := record.(models.AIQuestion); ok {
			room.AIQuestions = append(room.AIQuestions, r)
		}
	}
}

// MockQuestionRepository is an in-memory QuestionRepository for tests.
type MockQuestionRepository struct {
	mu        sync.Mutex
	Questions []models.Question
}

func (m *MockQuestionRepository) Insert(_ context.Context, q *models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q.ID = primitive.NewObjectID()
	m.Questions = append(m.Questions, *q)
	return nil
}

func (m *MockQuestionRepository) List(_ context.Context, difficulty models.Difficulty) ([]models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Question{}
	for _, q := range m.Questions {
		if difficulty == "" || q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *MockQuestionRepository) Update(_ context.Context, id primitive.ObjectID, q *models.Question) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Questions {
		if m.Questions[i].ID == id {
			m.Questions[i].Text = q.Text
			m.Questions[i].Difficulty = q.Difficulty
			m.Questions[i].Tags = q.Tags
			cp := m.Questions[i]
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (m *MockQuestionRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Questions {
		if m.Questions[i].ID == id {
			m.Questions = append(m.Questions[:i], m.Questions[i+1:]...)
			return nil
		}
	}
	return utils.ErrNotFound
}

// MockSnippetRepository is an in-memory SnippetRepository for tests.
type MockSnippetRepository struct {
	mu       sync.Mutex
	Snippets []models.CodeSnippet

	FailInsert error
	FailList   error
}

func (m *MockSnippetRepository) Insert(_ context.Context, s *models.CodeSnippet) error {
	if m.FailInsert != nil {
		return m.FailInsert
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.ID = primitive.NewObjectID()
	m.Snippets = append(m.Snippets, *s)
	return nil
}

func (m *MockSnippetRepository) List(_ context.Context) ([]models.CodeSnippet, error) {
	if m.FailList != nil {
		return nil, m.FailList
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CodeSnippet{}
	for i := len(m.Snippets) - 1; i >= 0; i-- {
		out = append(out, m.Snippets[i])
	}
	return out, nil
}
