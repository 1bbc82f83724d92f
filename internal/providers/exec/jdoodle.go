package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const defaultEndpoint = "https://api.jdoodle.com/v1/execute"

// JDoodle calls the JDoodle execute API with client credentials.
type JDoodle struct {
	endpoint     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewJDoodle(clientID, clientSecret string) *JDoodle {
	return &JDoodle{
		endpoint:     defaultEndpoint,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetEndpoint overrides the API URL (used in tests).
func (j *JDoodle) SetEndpoint(url string) { j.endpoint = url }

type jdoodleRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	Script       string `json:"script"`
	Language     string `json:"language"`
	VersionIndex string `json:"versionIndex"`
}

type jdoodleResponse struct {
	Output  string          `json:"output"`
	Error   string          `json:"error"`
	CPUTime json.RawMessage `json:"cpuTime"` // number or string depending on plan
}

func (j *JDoodle) Execute(ctx context.Context, code, language string) (*Result, error) {
	body, err := json.Marshal(jdoodleRequest{
		ClientID:     j.clientID,
		ClientSecret: j.clientSecret,
		Script:       code,
		Language:     language,
		VersionIndex: "0",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, j.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("jdoodle: unexpected status %d: %s", resp.StatusCode, data)
	}

	var out jdoodleResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("jdoodle: decode response: %w", err)
	}

	return &Result{
		Output:  out.Output,
		Error:   out.Error,
		CPUTime: parseCPUTime(out.CPUTime),
	}, nil
}

func parseCPUTime(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}
