package model

import "time"

type Question struct {
	ID                 string            `json:"id"`
	ContestID          string            `json:"contest_id"`
	Title              string            `json:"title"`
	Slug               string            `json:"slug"`
	Description        string            `json:"description"`
	Points             int               `json:"points"`
	TimeLimitMs        int               `json:"time_limit_ms"`
	MemoryLimitKb      int               `json:"memory_limit_kb"`
	ReferenceSolutions map[string]string `json:"reference_solutions,omitempty"` // Admin only view
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	Samples            []Sample          `json:"samples,omitempty"`
	TestCases          []TestCase        `json:"test_cases,omitempty"` // Hidden, admin only view
}

// Sample is a public example shown with the statement.
type Sample struct {
	ID             string `json:"id"`
	QuestionID     string `json:"question_id"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Explanation    string `json:"explanation,omitempty"`
	SortOrder      int    `json:"sort_order"`
}

type TestCase struct {
	ID             string `json:"id"`
	QuestionID     string `json:"question_id"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	SortOrder      int    `json:"sort_order"`
}
