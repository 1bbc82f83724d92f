package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techify/backend/internal/cache"
	"github.com/techify/backend/internal/providers/exec"
	"github.com/techify/backend/internal/realtime"
	mongorepo "github.com/techify/backend/internal/repositories/mongo"
	"github.com/techify/backend/internal/services"
	"github.com/techify/backend/internal/utils"
)

type stubRunner struct {
	result *exec.Result
	err    error
}

func (s *stubRunner) Execute(context.Context, string, string) (*exec.Result, error) {
	return s.result, s.err
}

type noopBus struct{}

func (noopBus) Publish(string, realtime.Event, realtime.PublishOptions) {}

func newExecutionRouter(t *testing.T, runner exec.Provider) (*gin.Engine, *mongorepo.MockRoomRepository) {
	t.Helper()
	repo := mongorepo.NewMockRoomRepository()
	roomSvc := services.NewRoomService(repo, cache.Noop{}, discardLogger())
	execSvc := services.NewExecutionService(runner, repo, &mongorepo.MockSnippetRepository{}, noopBus{}, discardLogger())
	h := NewExecutionHandler(execSvc, roomSvc)

	r := gin.New()
	r.POST("/api/code/execute", h.Execute)
	r.POST("/api/code/save", h.SaveSnippet)
	r.GET("/api/code/snippets", h.Snippets)
	r.GET("/api/code/room/:roomId/executions", h.RoomExecutions)
	return r, repo
}

func TestExecute(t *testing.T) {
	r, repo := newExecutionRouter(t, &stubRunner{result: &exec.Result{Output: "42\n", CPUTime: 0.01}})
	_, err := repo.GetOrCreate(context.Background(), "ABC123")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/code/execute",
		`{"code":"console.log(42)","language":"javascript","roomId":"ABC123","executedBy":"alice"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ExecuteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "42\n", resp.Output)
	assert.Empty(t, resp.Error)
	assert.Equal(t, 0.01, resp.CPUTime)

	room, _ := repo.Room("ABC123")
	assert.Len(t, room.Executions, 1)
	assert.Len(t, room.ExecutionHistory, 1)
}

func TestExecuteMissingFields(t *testing.T) {
	r, _ := newExecutionRouter(t, &stubRunner{result: &exec.Result{}})

	w := doJSON(t, r, http.MethodPost, "/api/code/execute", `{"language":"javascript"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, utils.CodeInvalidArgument, apiErr.Code)
}

func TestExecuteUpstreamDown(t *testing.T) {
	r, _ := newExecutionRouter(t, &stubRunner{err: errors.New("timeout")})

	w := doJSON(t, r, http.MethodPost, "/api/code/execute", `{"code":"x","language":"javascript"}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, utils.CodeUnavailable, apiErr.Code)
	assert.Equal(t, "code execution failed", apiErr.Message)
}

func TestRoomExecutions(t *testing.T) {
	r, repo := newExecutionRouter(t, &stubRunner{result: &exec.Result{Output: "ok"}})
	_, err := repo.GetOrCreate(context.Background(), "ABC123")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/code/execute", `{"code":"x","language":"python3","roomId":"ABC123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/code/room/ABC123/executions", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "python3", list[0]["language"])
}

func TestSaveSnippet(t *testing.T) {
	r, _ := newExecutionRouter(t, &stubRunner{result: &exec.Result{}})

	w := doJSON(t, r, http.MethodPost, "/api/code/save",
		`{"code":"print('hi')","language":"python3","output":"hi\n"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var snippet map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snippet))
	assert.Equal(t, "print('hi')", snippet["code"])
	assert.Equal(t, "python3", snippet["language"])
	assert.Equal(t, "hi\n", snippet["output"])
	assert.NotEmpty(t, snippet["id"])
	assert.NotEmpty(t, snippet["createdAt"])
}

func TestSaveSnippetMissingFields(t *testing.T) {
	r, _ := newExecutionRouter(t, &stubRunner{result: &exec.Result{}})

	w := doJSON(t, r, http.MethodPost, "/api/code/save", `{"output":"hi"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, utils.CodeInvalidArgument, apiErr.Code)
}

func TestSnippetsNewestFirst(t *testing.T) {
	r, _ := newExecutionRouter(t, &stubRunner{result: &exec.Result{}})

	w := doJSON(t, r, http.MethodPost, "/api/code/save", `{"code":"a","language":"javascript"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/code/save", `{"code":"b","language":"javascript"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/code/snippets", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0]["code"])
	assert.Equal(t, "a", list[1]["code"])
}

func TestRoomExecutionsNotFound(t *testing.T) {
	r, _ := newExecutionRouter(t, &stubRunner{result: &exec.Result{}})

	w := doJSON(t, r, http.MethodGet, "/api/code/room/missing/executions", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
