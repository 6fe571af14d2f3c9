// Package executor talks to a Piston compatible sandbox over HTTP.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	latestVersion  = "*"
	genericFailure = "code execution failed"
	maxErrorBody   = 4 << 10
)

// StatusTimedOut is Piston's run status for a program killed by its time
// limit. Execute also reports it when the caller's deadline expires.
const StatusTimedOut = "TO"

// ExecutionResult is the normalised outcome of one run. Failures to reach or
// understand the sandbox are reported with Success=false and a message in
// Output; they are never returned as errors.
type ExecutionResult struct {
	Success       bool   `json:"success"`
	Output        string `json:"output"`
	Stderr        string `json:"stderr"`
	Time          int64  `json:"time"`   // ms
	Memory        int64  `json:"memory"` // bytes
	ExitCode      int    `json:"exit_code,omitempty"`
	Signal        string `json:"signal,omitempty"`
	Status        string `json:"status,omitempty"`
	CompileOutput string `json:"compile_output,omitempty"`
	CompileFailed bool   `json:"compile_failed,omitempty"`
}

func failure(msg string) ExecutionResult {
	if strings.TrimSpace(msg) == "" {
		msg = genericFailure
	}
	return ExecutionResult{Success: false, Output: msg}
}

type Runtime struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Aliases  []string `json:"aliases"`
	Runtime  string   `json:"runtime,omitempty"`
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration // whole HTTP round trip
	RunTimeout time.Duration // forwarded as run_timeout when > 0
}

type Client struct {
	baseURL    string
	runTimeout time.Duration
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		runTimeout: cfg.RunTimeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type pistonFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type executeRequest struct {
	Language   string       `json:"language"`
	Version    string       `json:"version"`
	Files      []pistonFile `json:"files"`
	Stdin      string       `json:"stdin"`
	RunTimeout int64        `json:"run_timeout,omitempty"`
}

type stageResult struct {
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
	Output   *string  `json:"output"`
	Code     *int     `json:"code"`
	Signal   *string  `json:"signal"`
	Status   *string  `json:"status"`
	Message  *string  `json:"message"`
	CPUTime  *float64 `json:"cpu_time"`
	WallTime *float64 `json:"wall_time"`
	Time     *float64 `json:"time"`
	Memory   *float64 `json:"memory"`
}

type executeResponse struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Run      *stageResult `json:"run"`
	Compile  *stageResult `json:"compile"`
	Message  string       `json:"message"`
}

// Execute runs code once with stdin. It is safe for concurrent use.
func (c *Client) Execute(ctx context.Context, language, code, stdin string) ExecutionResult {
	if strings.TrimSpace(language) == "" || strings.TrimSpace(code) == "" {
		return failure("language and code are required")
	}

	rt := runtimeFor(language)
	payload := executeRequest{
		Language: rt.name,
		Version:  latestVersion,
		Files:    []pistonFile{{Name: rt.fileName, Content: code}},
		Stdin:    stdin,
	}
	if c.runTimeout > 0 {
		payload.RunTimeout = c.runTimeout.Milliseconds()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return failure(fmt.Sprintf("encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return failure(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			res := failure("code execution timed out")
			res.Status = StatusTimedOut
			return res
		}
		return failure(fmt.Sprintf("execution service unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(errorMessage(resp.Body, resp.StatusCode))
	}

	var decoded executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return failure(fmt.Sprintf("malformed execution response: %v", err))
	}
	if decoded.Run == nil {
		// Piston skips the run stage when compilation fails.
		if decoded.Compile != nil {
			decoded.Run = &stageResult{}
			return normalise(decoded)
		}
		if decoded.Message != "" {
			return failure(decoded.Message)
		}
		return failure("malformed execution response: missing run result")
	}

	return normalise(decoded)
}

func normalise(resp executeResponse) ExecutionResult {
	run := resp.Run
	out := ExecutionResult{
		Success: true,
		Output:  run.Stdout,
		Stderr:  run.Stderr,
		Memory:  toInt64(run.Memory),
	}
	if run.Output != nil {
		out.Output = *run.Output
	}
	switch {
	case run.Time != nil:
		out.Time = toInt64(run.Time)
	case run.CPUTime != nil:
		out.Time = toInt64(run.CPUTime)
	}
	if run.Code != nil {
		out.ExitCode = *run.Code
	}
	if run.Signal != nil {
		out.Signal = *run.Signal
	}
	if run.Status != nil {
		out.Status = *run.Status
	}

	if c := resp.Compile; c != nil {
		out.CompileOutput = c.Stdout + c.Stderr
		if c.Output != nil {
			out.CompileOutput = *c.Output
		}
		if (c.Code != nil && *c.Code != 0) || (c.Signal != nil && *c.Signal != "") {
			out.CompileFailed = true
		}
	}
	return out
}

func toInt64(v *float64) int64 {
	if v == nil {
		return 0
	}
	return int64(math.Round(*v))
}

// errorMessage pulls "message" out of an error body, falling back to the status.
func errorMessage(body io.Reader, status int) string {
	raw, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return fmt.Sprintf("%s (status %d)", genericFailure, status)
}

// ListRuntimes returns the language/version pairs the sandbox offers.
func (c *Client) ListRuntimes(ctx context.Context) ([]Runtime, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/runtimes", nil)
	if err != nil {
		return nil, fmt.Errorf("executor.ListRuntimes: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executor.ListRuntimes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("executor.ListRuntimes: %s", errorMessage(resp.Body, resp.StatusCode))
	}

	var runtimes []Runtime
	if err := json.NewDecoder(resp.Body).Decode(&runtimes); err != nil {
		return nil, fmt.Errorf("executor.ListRuntimes: decode: %w", err)
	}
	return runtimes, nil
}
