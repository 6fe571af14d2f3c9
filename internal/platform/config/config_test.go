package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("EVAL_PARALLELISM", "0")
	t.Setenv("PISTON_RUN_TIMEOUT_MS", "3000")

	Load()

	assert.Equal(t, "9090", AppConfig.APIPort)
	assert.Equal(t, 1, AppConfig.EvalParallelism)
	assert.Equal(t, 3*time.Second, AppConfig.PistonRunTimeout)
	assert.Equal(t, "https://emkc.org/api/v2/piston", AppConfig.PistonURL)
	assert.Contains(t, AppConfig.DBConnStr, "dbname=eventsphere")
}

func TestGetEnvAsIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "twelve")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}

func TestInlineStandingsWorkerToggle(t *testing.T) {
	Load()
	assert.True(t, AppConfig.InlineStandingsWorker)

	t.Setenv("INLINE_STANDINGS_WORKER", "false")
	Load()
	assert.False(t, AppConfig.InlineStandingsWorker)
}
