package model

import "time"

type Verdict string

const (
	VerdictAccepted            Verdict = "Accepted"
	VerdictWrongAnswer         Verdict = "Wrong Answer"
	VerdictTimeLimitExceeded   Verdict = "Time Limit Exceeded"
	VerdictMemoryLimitExceeded Verdict = "Memory Limit Exceeded"
	VerdictRuntimeError        Verdict = "Runtime Error"
	VerdictCompilationError    Verdict = "Compilation Error"
	VerdictPending             Verdict = "Pending"
	VerdictRunning             Verdict = "Running"
)

// Submission is immutable once written.
type Submission struct {
	ID              string       `json:"id"`
	ContestID       string       `json:"contest_id"`
	QuestionID      string       `json:"question_id"`
	ParticipantID   string       `json:"participant_id"`
	UserID          string       `json:"user_id"`
	Language        Language     `json:"language"`
	Code            string       `json:"code,omitempty"` // omitted from listings
	Verdict         Verdict      `json:"verdict"`
	Score           int          `json:"score"`
	ExecutionTimeMs int          `json:"execution_time_ms"`
	MemoryKb        int          `json:"memory_kb"`
	TestResults     []TestResult `json:"test_results,omitempty"`
	SubmittedAt     time.Time    `json:"submitted_at"`
	ClientIP        string       `json:"-"`
	UserAgent       string       `json:"-"`
}

type TestResult struct {
	Input    string  `json:"input"`
	Expected string  `json:"expected"`
	Output   string  `json:"output"`
	Pass     bool    `json:"pass"`
	Verdict  Verdict `json:"verdict,omitempty"`
	Stderr   string  `json:"stderr,omitempty"`
}

// SubmissionRecordedEvent is published after a submission row is committed.
type SubmissionRecordedEvent struct {
	SubmissionID string    `json:"submission_id"`
	ContestID    string    `json:"contest_id"`
	QuestionID   string    `json:"question_id"`
	UserID       string    `json:"user_id"`
	Verdict      Verdict   `json:"verdict"`
	Score        int       `json:"score"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
