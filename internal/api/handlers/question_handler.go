package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techify/backend/internal/models"
	"github.com/techify/backend/internal/services"
	"github.com/techify/backend/internal/utils"
)

type QuestionHandler struct {
	svc services.QuestionService
}

func NewQuestionHandler(svc services.QuestionService) *QuestionHandler {
	return &QuestionHandler{svc: svc}
}

type QuestionRequest struct {
	Text       string            `json:"text"`
	Difficulty models.Difficulty `json:"difficulty"`
	Tags       []string          `json:"tags"`
}

func (h *QuestionHandler) Add(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "QuestionHandler.Add", "invalid request body", err))
		return
	}

	q, err := h.svc.Add(c.Request.Context(), models.Question{
		Text:       req.Text,
		Difficulty: req.Difficulty,
		Tags:       req.Tags,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.svc.List(c.Request.Context(), models.Difficulty(c.Query("difficulty")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) Update(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "QuestionHandler.Update", "invalid request body", err))
		return
	}

	q, err := h.svc.Update(c.Request.Context(), c.Param("id"), models.Question{
		Text:       req.Text,
		Difficulty: req.Difficulty,
		Tags:       req.Tags,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}
