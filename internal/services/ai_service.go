package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/techify/backend/internal/models"
	"github.com/techify/backend/internal/providers/llm"
	mongorepo "github.com/techify/backend/internal/repositories/mongo"
	"github.com/techify/backend/internal/utils"
)

const analyzePromptFmt = `You are an expert programming interviewer. Analyze this code and provide a CONCISE assessment (max 200 words):

Language: %s
Code:
` + "```%s\n%s\n```" + `

Provide a brief analysis covering:
1. **Correctness**: Does it work? Any bugs?
2. **Quality**: Clean, readable code?
3. **Issues**: Key problems to address
4. **Score**: Rate 1-10 for interview performance
5. **Next**: One specific follow-up question to ask

Keep it short and actionable for the interviewer.`

const askPromptFmt = `You are a helpful AI assistant. Answer the following question clearly and concisely (max 200 words):

%sQuestion: %s

Provide a helpful, accurate response.`

const generatePromptFmt = `Generate %d high-quality technical interview questions for:
- Topic/Role: %s
- Difficulty: %s
- Programming Language: %s

For each question, provide:
1. The question statement
2. Expected approach/solution outline
3. Key points to evaluate in the candidate's response
4. Follow-up questions to ask

Format as a structured list that an interviewer can easily use.`

type AnalyzeCodeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	RoomID   string `json:"roomId"`
	Question string `json:"question"`
}

type AskQuestionRequest struct {
	Question string `json:"question"`
	Code     string `json:"code"`
	Language string `json:"language"`
	RoomID   string `json:"roomId"`
	Context  string `json:"context"`
}

type GenerateQuestionsRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Language   string `json:"language"`
	Count      int    `json:"count"`
}

type AIHistory struct {
	Analyses  []models.AIAnalysis `json:"analyses"`
	Questions []models.AIQuestion `json:"questions"`
}

type AIService interface {
	AnalyzeCode(ctx context.Context, req AnalyzeCodeRequest) (string, error)
	AskQuestion(ctx context.Context, req AskQuestionRequest) (string, error)
	GenerateQuestions(ctx context.Context, req GenerateQuestionsRequest) (string, error)
	History(ctx context.Context, roomID string) (*AIHistory, error)
}

type aiService struct {
	provider llm.Provider
	rooms    mongorepo.RoomRepository
	log      *logrus.Logger
}

// NewAIService wires the generative-AI collaborator. provider may be nil when
// the deployment has no AI credentials; every AI operation then reports
// UNAVAILABLE instead of failing at startup.
func NewAIService(provider llm.Provider, rooms mongorepo.RoomRepository, log *logrus.Logger) AIService {
	return &aiService{provider: provider, rooms: rooms, log: log}
}

func (s *aiService) generate(ctx context.Context, op, prompt string) (string, error) {
	if s.provider == nil {
		return "", utils.E(utils.CodeUnavailable, op, "AI service not available", nil)
	}
	out, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "AI request failed", err)
	}
	return out, nil
}

func (s *aiService) AnalyzeCode(ctx context.Context, req AnalyzeCodeRequest) (string, error) {
	const op = "AIService.AnalyzeCode"

	if strings.TrimSpace(req.Code) == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "code is required for analysis", nil)
	}
	lang := req.Language
	if lang == "" {
		lang = "text"
	}

	analysis, err := s.generate(ctx, op, fmt.Sprintf(analyzePromptFmt, lang, lang, req.Code))
	if err != nil {
		return "", err
	}

	// Persist best effort; the caller already has the analysis.
	if req.RoomID != "" {
		record := models.AIAnalysis{
			Code:      req.Code,
			Language:  req.Language,
			Analysis:  analysis,
			Question:  req.Question,
			Timestamp: time.Now().UTC(),
		}
		if err := s.rooms.Append(ctx, req.RoomID, "aiAnalyses", record); err != nil {
			s.log.WithError(err).WithField("room_id", req.RoomID).Warn("failed to persist AI analysis")
		}
	}

	return analysis, nil
}

func (s *aiService) AskQuestion(ctx context.Context, req AskQuestionRequest) (string, error) {
	const op = "AIService.AskQuestion"

	if strings.TrimSpace(req.Question) == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "question is required", nil)
	}

	codeContext := ""
	if strings.TrimSpace(req.Code) != "" {
		lang := req.Language
		if lang == "" {
			lang = "text"
		}
		codeContext = fmt.Sprintf("Context - Current code in editor:\n```%s\n%s\n```\n\n", lang, req.Code)
	}

	response, err := s.generate(ctx, op, fmt.Sprintf(askPromptFmt, codeContext, req.Question))
	if err != nil {
		return "", err
	}

	if req.RoomID != "" {
		record := models.AIQuestion{
			Question:  req.Question,
			Response:  response,
			Code:      req.Code,
			Language:  req.Language,
			Context:   req.Context,
			Timestamp: time.Now().UTC(),
		}
		if err := s.rooms.Append(ctx, req.RoomID, "aiQuestions", record); err != nil {
			s.log.WithError(err).WithField("room_id", req.RoomID).Warn("failed to persist AI question")
		}
	}

	return response, nil
}

func (s *aiService) GenerateQuestions(ctx context.Context, req GenerateQuestionsRequest) (string, error) {
	const op = "AIService.GenerateQuestions"

	if req.Count <= 0 {
		req.Count = 3
	}
	return s.generate(ctx, op, fmt.Sprintf(generatePromptFmt, req.Count, req.Topic, req.Difficulty, req.Language))
}

func (s *aiService) History(ctx context.Context, roomID string) (*AIHistory, error) {
	const op = "AIService.History"

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

	history := &AIHistory{Analyses: room.AIAnalyses, Questions: room.AIQuestions}
	if history.Analyses == nil {
		history.Analyses = []models.AIAnalysis{}
	}
	if history.Questions == nil {
		history.Questions = []models.AIQuestion{}
	}
	return history, nil
}
