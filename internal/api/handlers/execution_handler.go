package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techify/backend/internal/services"
	"github.com/techify/backend/internal/utils"
)

type ExecutionHandler struct {
	executions services.ExecutionService
	rooms      services.RoomService
}

func NewExecutionHandler(executions services.ExecutionService, rooms services.RoomService) *ExecutionHandler {
	return &ExecutionHandler{executions: executions, rooms: rooms}
}

type ExecuteResponse struct {
	Output  string  `json:"output"`
	Error   string  `json:"error"`
	CPUTime float64 `json:"cpuTime"`
}

func (h *ExecutionHandler) Execute(c *gin.Context) {
	var req services.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ExecutionHandler.Execute", "invalid request body", err))
		return
	}

	res, err := h.executions.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExecuteResponse{
		Output:  res.Output,
		Error:   res.Error,
		CPUTime: res.CPUTime,
	})
}

func (h *ExecutionHandler) SaveSnippet(c *gin.Context) {
	var req services.SaveSnippetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ExecutionHandler.SaveSnippet", "invalid request body", err))
		return
	}

	snippet, err := h.executions.SaveSnippet(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snippet)
}

func (h *ExecutionHandler) Snippets(c *gin.Context) {
	snippets, err := h.executions.Snippets(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snippets)
}

func (h *ExecutionHandler) RoomExecutions(c *gin.Context) {
	executions, err := h.rooms.Executions(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, executions)
}
