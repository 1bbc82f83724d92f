package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techify/backend/internal/models"
	"github.com/techify/backend/internal/services"
	"github.com/techify/backend/internal/utils"
)

type RoomHandler struct {
	svc services.RoomService
}

func NewRoomHandler(svc services.RoomService) *RoomHandler {
	return &RoomHandler{svc: svc}
}

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

func (h *RoomHandler) UpdateNotes(c *gin.Context) {
	var req UpdateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "RoomHandler.UpdateNotes", "invalid request body", err))
		return
	}

	if err := h.svc.UpdateNotes(c.Request.Context(), c.Param("roomId"), req.Notes); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notes updated successfully"})
}

func (h *RoomHandler) GetNotes(c *gin.Context) {
	notes, err := h.svc.Notes(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *RoomHandler) End(c *gin.Context) {
	if err := h.svc.End(c.Request.Context(), c.Param("roomId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Interview ended successfully"})
}

func (h *RoomHandler) Timer(c *gin.Context) {
	info, err := h.svc.Timer(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

type SaveRubricRequest struct {
	Scores         map[string]models.RubricScore `json:"scores"`
	WeightedScore  float64                       `json:"weightedScore"`
	Recommendation string                        `json:"recommendation"`
	OverallNotes   string                        `json:"overallNotes"`
}

func (h *RoomHandler) SaveRubric(c *gin.Context) {
	var req SaveRubricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "RoomHandler.SaveRubric", "invalid request body", err))
		return
	}

	scoring := models.RubricScoring{
		Scores:         req.Scores,
		WeightedScore:  req.WeightedScore,
		Recommendation: req.Recommendation,
		OverallNotes:   req.OverallNotes,
	}
	if err := h.svc.SaveRubric(c.Request.Context(), c.Param("roomId"), scoring); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rubric scores saved successfully"})
}

func (h *RoomHandler) GetRubric(c *gin.Context) {
	scoring, err := h.svc.Rubric(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rubricScores": scoring})
}

func (h *RoomHandler) Report(c *gin.Context) {
	report, err := h.svc.Report(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
