package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techify/backend/internal/services"
	"github.com/techify/backend/internal/utils"
)

type AIHandler struct {
	svc services.AIService
}

func NewAIHandler(svc services.AIService) *AIHandler {
	return &AIHandler{svc: svc}
}

func (h *AIHandler) AnalyzeCode(c *gin.Context) {
	var req services.AnalyzeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AIHandler.AnalyzeCode", "invalid request body", err))
		return
	}

	analysis, err := h.svc.AnalyzeCode(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

func (h *AIHandler) AskQuestion(c *gin.Context) {
	var req services.AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AIHandler.AskQuestion", "invalid request body", err))
		return
	}

	response, err := h.svc.AskQuestion(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": response})
}

func (h *AIHandler) GenerateQuestions(c *gin.Context) {
	var req services.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AIHandler.GenerateQuestions", "invalid request body", err))
		return
	}

	questions, err := h.svc.GenerateQuestions(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *AIHandler) History(c *gin.Context) {
	history, err := h.svc.History(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
