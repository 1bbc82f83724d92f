package exec

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJDoodleExecute(t *testing.T) {
	var got jdoodleRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output":"42\n","error":"","cpuTime":0.02,"statusCode":200}`))
	}))
	defer ts.Close()

	j := NewJDoodle("client-id", "client-secret")
	j.SetEndpoint(ts.URL)

	res, err := j.Execute(context.Background(), "console.log(42)", "nodejs")
	require.NoError(t, err)
	assert.Equal(t, "42\n", res.Output)
	assert.Empty(t, res.Error)
	assert.Equal(t, 0.02, res.CPUTime)

	assert.Equal(t, "client-id", got.ClientID)
	assert.Equal(t, "client-secret", got.ClientSecret)
	assert.Equal(t, "console.log(42)", got.Script)
	assert.Equal(t, "nodejs", got.Language)
	assert.Equal(t, "0", got.VersionIndex)
}

func TestJDoodleExecuteCompileError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":"","error":"SyntaxError: unexpected EOF","cpuTime":"0.01"}`))
	}))
	defer ts.Close()

	j := NewJDoodle("id", "secret")
	j.SetEndpoint(ts.URL)

	res, err := j.Execute(context.Background(), "console.log(", "nodejs")
	require.NoError(t, err, "compile failures come back in the payload, not as transport errors")
	assert.Equal(t, "SyntaxError: unexpected EOF", res.Error)
	assert.Equal(t, 0.01, res.CPUTime, "string cpuTime is parsed too")
}

func TestJDoodleExecuteUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "daily limit reached", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	j := NewJDoodle("id", "secret")
	j.SetEndpoint(ts.URL)

	_, err := j.Execute(context.Background(), "x", "nodejs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestParseCPUTime(t *testing.T) {
	assert.Equal(t, 0.0, parseCPUTime(nil))
	assert.Equal(t, 0.25, parseCPUTime(json.RawMessage(`0.25`)))
	assert.Equal(t, 0.25, parseCPUTime(json.RawMessage(`"0.25"`)))
	assert.Equal(t, 0.0, parseCPUTime(json.RawMessage(`"n/a"`)))
	assert.Equal(t, 0.0, parseCPUTime(json.RawMessage(`[]`)))
}
