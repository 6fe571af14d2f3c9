package service

import (
	"strings"

	"eventsphere/internal/domain/model"
	"eventsphere/internal/platform/executor"
)

// judge classifies one run against the expected output and the question's
// limits. Checks run in a fixed order; the first that applies wins.
func judge(res executor.ExecutionResult, expected string, timeLimitMs, memoryLimitKb int) model.Verdict {
	switch {
	case res.Status == executor.StatusTimedOut:
		return model.VerdictTimeLimitExceeded
	case !res.Success:
		return model.VerdictRuntimeError
	case res.CompileFailed:
		return model.VerdictCompilationError
	case timeLimitMs > 0 && res.Time > int64(timeLimitMs):
		return model.VerdictTimeLimitExceeded
	case memoryLimitKb > 0 && res.Memory > int64(memoryLimitKb)*1024:
		return model.VerdictMemoryLimitExceeded
	case res.ExitCode != 0, res.Signal != "":
		return model.VerdictRuntimeError
	case !outputsMatch(res.Output, expected):
		return model.VerdictWrongAnswer
	}
	return model.VerdictAccepted
}

// outputsMatch compares after trimming surrounding whitespace only.
func outputsMatch(got, want string) bool {
	return strings.TrimSpace(got) == strings.TrimSpace(want)
}
