package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/techify/backend/internal/cache"
	"github.com/techify/backend/internal/models"
	mongorepo "github.com/techify/backend/internal/repositories/mongo"
	"github.com/techify/backend/internal/utils"
)

const questionCacheTTL = 5 * time.Minute

type QuestionService interface {
	Add(ctx context.Context, q models.Question) (*models.Question, error)
	List(ctx context.Context, difficulty models.Difficulty) ([]models.Question, error)
	Update(ctx context.Context, id string, q models.Question) (*models.Question, error)
	Delete(ctx context.Context, id string) error
}

type questionService struct {
	questions mongorepo.QuestionRepository
	cache     cache.Cache
	log       *logrus.Logger
}

func NewQuestionService(questions mongorepo.QuestionRepository, c cache.Cache, log *logrus.Logger) QuestionService {
	if c == nil {
		c = cache.Noop{}
	}
	return &questionService{questions: questions, cache: c, log: log}
}

func questionCacheKey(d models.Difficulty) string { return "questions:" + string(d) }

func (s *questionService) invalidate(ctx context.Context) {
	_ = s.cache.Del(ctx,
		questionCacheKey(""),
		questionCacheKey(models.DifficultyEasy),
		questionCacheKey(models.DifficultyMedium),
		questionCacheKey(models.DifficultyHard),
	)
}

func validateQuestion(op string, q *models.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return utils.E(utils.CodeInvalidArgument, op, "text is required", nil)
	}
	if !q.Difficulty.Valid() {
		return utils.E(utils.CodeInvalidArgument, op, "difficulty must be easy, medium, or hard", nil)
	}
	return nil
}

func (s *questionService) Add(ctx context.Context, q models.Question) (*models.Question, error) {
	const op = "QuestionService.Add"

	if err := validateQuestion(op, &q); err != nil {
		return nil, err
	}
	if err := s.questions.Insert(ctx, &q); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to add question", err)
	}
	s.invalidate(ctx)
	return &q, nil
}

func (s *questionService) List(ctx context.Context, difficulty models.Difficulty) ([]models.Question, error) {
	const op = "QuestionService.List"

	if difficulty != "" && !difficulty.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "difficulty must be easy, medium, or hard", nil)
	}

	key := questionCacheKey(difficulty)
	var cached []models.Question
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	questions, err := s.questions.List(ctx, difficulty)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to fetch questions", err)
	}

	if err := s.cache.SetJSON(ctx, key, questions, questionCacheTTL); err != nil {
		s.log.WithError(err).Debug("failed to cache question list")
	}
	return questions, nil
}

func (s *questionService) Update(ctx context.Context, id string, q models.Question) (*models.Question, error) {
	const op = "QuestionService.Update"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid question id", err)
	}
	if err := validateQuestion(op, &q); err != nil {
		return nil, err
	}

	updated, err := s.questions.Update(ctx, oid, &q)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "question not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update question", err)
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	const op = "QuestionService.Delete"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return utils.E(utils.CodeInvalidArgument, op, "invalid question id", err)
	}
	if err := s.questions.Delete(ctx, oid); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "question not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete question", err)
	}
	s.invalidate(ctx)
	return nil
}
