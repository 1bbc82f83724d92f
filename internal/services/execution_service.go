package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/techify/backend/internal/models"
	"github.com/techify/backend/internal/providers/exec"
	"github.com/techify/backend/internal/realtime"
	mongorepo "github.com/techify/backend/internal/repositories/mongo"
	"github.com/techify/backend/internal/utils"
)

type ExecuteRequest struct {
	Code       string `json:"code"`
	Language   string `json:"language"`
	RoomID     string `json:"roomId"`
	ExecutedBy string `json:"executedBy"`
}

// SaveSnippetRequest stores a piece of code, with its last output, outside
// any room.
type SaveSnippetRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Output   string `json:"output"`
}

type ExecutionService interface {
	Execute(ctx context.Context, req ExecuteRequest) (*exec.Result, error)
	SaveSnippet(ctx context.Context, req SaveSnippetRequest) (*models.CodeSnippet, error)
	Snippets(ctx context.Context) ([]models.CodeSnippet, error)
}

// executionService bridges a run-code request to the external execution
// service, then fans the outcome out live and records it durably.
type executionService struct {
	runner   exec.Provider
	rooms    mongorepo.RoomRepository
	snippets mongorepo.SnippetRepository
	bus      realtime.Broadcaster
	log      *logrus.Logger
}

func NewExecutionService(runner exec.Provider, rooms mongorepo.RoomRepository, snippets mongorepo.SnippetRepository, bus realtime.Broadcaster, log *logrus.Logger) ExecutionService {
	return &executionService{runner: runner, rooms: rooms, snippets: snippets, bus: bus, log: log}
}

// Execute forwards the payload upstream and, once the call returns,
// persists both history records and broadcasts the output to the room. A
// persistence failure is logged and swallowed: the caller still gets the
// execution result. The upstream call itself is never retried.
func (s *executionService) Execute(ctx context.Context, req ExecuteRequest) (*exec.Result, error) {
	const op = "ExecutionService.Execute"

	if req.Code == "" || req.Language == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "code and language are required", nil)
	}
	if req.ExecutedBy == "" {
		req.ExecutedBy = "unknown"
	}

	res, err := s.runner.Execute(ctx, req.Code, req.Language)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "code execution failed", err)
	}

	now := time.Now().UTC()

	if req.RoomID != "" {
		record := models.ExecutionRecord{
			Code:       req.Code,
			Language:   req.Language,
			Output:     res.Output,
			Error:      res.Error,
			ExecutedBy: req.ExecutedBy,
			ExecutedAt: now,
		}
		history := models.ExecutionHistoryRecord{
			Code:          req.Code,
			Language:      req.Language,
			Output:        res.Output,
			Success:       res.Error == "",
			ExecutionTime: res.CPUTime,
			Timestamp:     now,
			ExecutedBy:    req.ExecutedBy,
		}

		if err := s.rooms.AppendMany(ctx, req.RoomID, map[string]any{
			"executions":       record,
			"executionHistory": history,
			"$set": map[string]any{
				"code":     req.Code,
				"language": req.Language,
			},
		}); err != nil {
			s.log.WithError(err).WithField("room_id", req.RoomID).Warn("failed to persist execution record")
		}

		s.bus.Publish(req.RoomID, realtime.Event{
			Type: realtime.EventOutputChange,
			Payload: realtime.OutputPayload{
				Output:     res.Output,
				Error:      res.Error,
				ExecutedBy: req.ExecutedBy,
				Timestamp:  now,
			},
		}, realtime.PublishOptions{})
	}

	return res, nil
}

func (s *executionService) SaveSnippet(ctx context.Context, req SaveSnippetRequest) (*models.CodeSnippet, error) {
	const op = "ExecutionService.SaveSnippet"

	if req.Code == "" || req.Language == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "code and language are required", nil)
	}

	snippet := &models.CodeSnippet{
		Code:     req.Code,
		Language: req.Language,
		Output:   req.Output,
	}
	if err := s.snippets.Insert(ctx, snippet); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save snippet", err)
	}
	return snippet, nil
}

func (s *executionService) Snippets(ctx context.Context) ([]models.CodeSnippet, error) {
	const op = "ExecutionService.Snippets"

	snippets, err := s.snippets.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to fetch snippets", err)
	}
	return snippets, nil
}
