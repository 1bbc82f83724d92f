package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/techify/backend/internal/cache"
	"github.com/techify/backend/internal/models"
	mongorepo "github.com/techify/backend/internal/repositories/mongo"
	"github.com/techify/backend/internal/utils"
)

const reportCacheTTL = 30 * time.Second

// TimerInfo is the room clock as served to clients. Duration is milliseconds
// since start, frozen at endTime once the interview is over.
type TimerInfo struct {
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	IsActive  bool       `json:"isActive"`
	Duration  int64      `json:"duration"`
}

// Report aggregates a finished (or running) interview for the scoring UI.
type Report struct {
	RoomID           string                          `json:"roomId"`
	StartTime        time.Time                       `json:"startTime"`
	EndTime          *time.Time                      `json:"endTime,omitempty"`
	Duration         *int64                          `json:"duration,omitempty"`
	Language         string                          `json:"language"`
	InterviewNotes   string                          `json:"interviewNotes"`
	RubricScores     *models.RubricScoring           `json:"rubricScores,omitempty"`
	ExecutionHistory []models.ExecutionHistoryRecord `json:"executionHistory"`
	FinalCode        string                          `json:"finalCode"`
	GeneratedAt      time.Time                       `json:"generatedAt"`
}

type RoomService interface {
	Notes(ctx context.Context, roomID string) (string, error)
	UpdateNotes(ctx context.Context, roomID, notes string) error
	End(ctx context.Context, roomID string) error
	Timer(ctx context.Context, roomID string) (*TimerInfo, error)
	Rubric(ctx context.Context, roomID string) (*models.RubricScoring, error)
	SaveRubric(ctx context.Context, roomID string, scoring models.RubricScoring) error
	Executions(ctx context.Context, roomID string) ([]models.ExecutionRecord, error)
	Report(ctx context.Context, roomID string) (*Report, error)
}

type roomService struct {
	rooms mongorepo.RoomRepository
	cache cache.Cache
	log   *logrus.Logger
}

func NewRoomService(rooms mongorepo.RoomRepository, c cache.Cache, log *logrus.Logger) RoomService {
	if c == nil {
		c = cache.Noop{}
	}
	return &roomService{rooms: rooms, cache: c, log: log}
}

func reportCacheKey(roomID string) string { return "room:" + roomID + ":report" }

func (s *roomService) get(ctx context.Context, op, roomID string) (*models.Room, error) {
	if roomID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "roomId is required", nil)
	}
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "room not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load room", err)
	}
	return room, nil
}

func (s *roomService) Notes(ctx context.Context, roomID string) (string, error) {
	room, err := s.get(ctx, "RoomService.Notes", roomID)
	if err != nil {
		return "", err
	}
	return room.InterviewNotes, nil
}

func (s *roomService) UpdateNotes(ctx context.Context, roomID, notes string) error {
	const op = "RoomService.UpdateNotes"
	if roomID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "roomId is required", nil)
	}
	if err := s.rooms.SetFields(ctx, roomID, map[string]any{"interviewNotes": notes}); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update notes", err)
	}
	_ = s.cache.Del(ctx, reportCacheKey(roomID))
	return nil
}

// End marks the room inactive and stamps endTime. It is idempotent: ending an
// already-ended room just moves endTime forward.
func (s *roomService) End(ctx context.Context, roomID string) error {
	const op = "RoomService.End"
	if roomID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "roomId is required", nil)
	}
	if err := s.rooms.End(ctx, roomID, time.Now().UTC()); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to end interview", err)
	}
	_ = s.cache.Del(ctx, reportCacheKey(roomID))
	return nil
}

func (s *roomService) Timer(ctx context.Context, roomID string) (*TimerInfo, error) {
	room, err := s.get(ctx, "RoomService.Timer", roomID)
	if err != nil {
		return nil, err
	}

	info := &TimerInfo{
		StartTime: room.StartTime,
		EndTime:   room.EndTime,
		IsActive:  room.IsActive,
	}
	if room.EndTime != nil {
		info.Duration = room.EndTime.Sub(room.StartTime).Milliseconds()
	} else {
		info.Duration = time.Since(room.StartTime).Milliseconds()
	}
	return info, nil
}

func (s *roomService) Rubric(ctx context.Context, roomID string) (*models.RubricScoring, error) {
	room, err := s.get(ctx, "RoomService.Rubric", roomID)
	if err != nil {
		return nil, err
	}
	return room.RubricScores, nil
}

func (s *roomService) SaveRubric(ctx context.Context, roomID string, scoring models.RubricScoring) error {
	const op = "RoomService.SaveRubric"
	if roomID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "roomId is required", nil)
	}
	scoring.EvaluatedAt = time.Now().UTC()
	if err := s.rooms.SetFields(ctx, roomID, map[string]any{"rubricScores": scoring}); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to save rubric scores", err)
	}
	_ = s.cache.Del(ctx, reportCacheKey(roomID))
	return nil
}

func (s *roomService) Executions(ctx context.Context, roomID string) ([]models.ExecutionRecord, error) {
	room, err := s.get(ctx, "RoomService.Executions", roomID)
	if err != nil {
		return nil, err
	}
	if room.Executions == nil {
		return []models.ExecutionRecord{}, nil
	}
	return room.Executions, nil
}

func (s *roomService) Report(ctx context.Context, roomID string) (*Report, error) {
	key := reportCacheKey(roomID)
	var cached Report
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	room, err := s.get(ctx, "RoomService.Report", roomID)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RoomID:           room.RoomID,
		StartTime:        room.StartTime,
		EndTime:          room.EndTime,
		Language:         room.Language,
		InterviewNotes:   room.InterviewNotes,
		RubricScores:     room.RubricScores,
		ExecutionHistory: room.ExecutionHistory,
		FinalCode:        room.Code,
		GeneratedAt:      time.Now().UTC(),
	}
	if report.ExecutionHistory == nil {
		report.ExecutionHistory = []models.ExecutionHistoryRecord{}
	}
	if room.EndTime != nil {
		d := room.EndTime.Sub(room.StartTime).Milliseconds()
		report.Duration = &d
	}

	if err := s.cache.SetJSON(ctx, key, report, reportCacheTTL); err != nil {
		s.log.WithError(err).Debug("failed to cache report")
	}
	return report, nil
}
