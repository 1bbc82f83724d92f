package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/techify/backend/internal/api/handlers"
	"github.com/techify/backend/internal/api/middleware"
)

type Deps struct {
	Room      *handlers.RoomHandler
	Execution *handlers.ExecutionHandler
	AI        *handlers.AIHandler
	Question  *handlers.QuestionHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	code := auth.Group("/api/code")
	code.POST("/execute", d.Execution.Execute)
	code.POST("/save", d.Execution.SaveSnippet)
	code.GET("/snippets", d.Execution.Snippets)
	code.GET("/room/:roomId/executions", d.Execution.RoomExecutions)

	room := auth.Group("/api/room/:roomId")
	room.PUT("/notes", d.Room.UpdateNotes)
	room.GET("/notes", d.Room.GetNotes)
	room.PUT("/end", d.Room.End)
	room.GET("/timer", d.Room.Timer)
	room.PUT("/rubric", d.Room.SaveRubric)
	room.GET("/rubric", d.Room.GetRubric)
	room.GET("/report", d.Room.Report)

	ai := auth.Group("/api/ai")
	ai.POST("/analyze-code", d.AI.AnalyzeCode)
	ai.POST("/ask-question", d.AI.AskQuestion)
	ai.POST("/generate-questions", d.AI.GenerateQuestions)
	ai.GET("/room/:roomId/analyses", d.AI.History)

	questions := auth.Group("/api/questions")
	questions.POST("/add", d.Question.Add)
	questions.GET("", d.Question.List)
	questions.PUT("/:id", d.Question.Update)
	questions.DELETE("/:id", d.Question.Delete)

	// Realtime channel (one physical connection per participant)
	auth.GET("/ws", d.WS.Serve)
}
