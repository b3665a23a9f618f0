package approver

import (
	"testing"

	"slackgate/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestGetCorrelationId(t *testing.T) {
	runner := &config.RunnerEnvironment{
		Repository: "acme/widgets",
		Workflow:   "release",
		RunId:      "42",
		RunNumber:  "7",
		RunAttempt: "1",
	}
	first := getCorrelationId(runner)
	assert.Equal(t, first, getCorrelationId(runner), "correlation id must be deterministic for one invocation")

	rerun := *runner
	rerun.RunAttempt = "2"
	assert.NotEqual(t, first, getCorrelationId(&rerun), "a re-run must produce a different correlation id")

	otherRun := *runner
	otherRun.RunId = "43"
	assert.NotEqual(t, first, getCorrelationId(&otherRun))
}

func TestGetMentionList(t *testing.T) {
	assert.Equal(t, "None", getMentionList(nil))
	assert.Equal(t, "<@U1>", getMentionList([]string{"U1"}))
	assert.Equal(t, "<@U1>, <@U2>", getMentionList([]string{"U1", "U2"}))
}
