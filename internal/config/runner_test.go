package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRunnerEnvironment(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_APP_TOKEN", "xapp-test")
	t.Setenv("SLACK_CHANNEL_ID", "C123")
	t.Setenv("GITHUB_REPOSITORY", "acme/widgets")
	t.Setenv("GITHUB_RUN_ID", "42")

	runnerEnvironment, err := LoadRunnerEnvironment()
	require.NoError(t, err)
	assert.Equal(t, "xoxb-test", runnerEnvironment.SlackBotToken)
	assert.Equal(t, "C123", runnerEnvironment.ChannelId)
	assert.Equal(t, "https://github.com", runnerEnvironment.ServerUrl)
	assert.Equal(t, "1", runnerEnvironment.RunAttempt)
}

func TestLoadRunnerEnvironmentRequiresTokens(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "")
	t.Setenv("SLACK_APP_TOKEN", "")
	_, err := LoadRunnerEnvironment()
	assert.Error(t, err)
}

func TestRunUrl(t *testing.T) {
	runnerEnvironment := RunnerEnvironment{
		ServerUrl:  "https://github.example.com",
		Repository: "acme/widgets",
		RunId:      "42",
	}
	assert.Equal(t, "https://github.example.com/acme/widgets/actions/runs/42", runnerEnvironment.RunUrl())
}

func TestWriteOutput(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "output")
	runnerEnvironment := RunnerEnvironment{OutputPath: outputPath}

	require.NoError(t, runnerEnvironment.WriteOutput("ts", "100.001"))
	require.NoError(t, runnerEnvironment.WriteOutput("state", "open"))

	contents, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "ts=100.001\nstate=open\n", string(contents))
}

func TestWriteOutputWithoutFileIsNoop(t *testing.T) {
	runnerEnvironment := RunnerEnvironment{}
	assert.NoError(t, runnerEnvironment.WriteOutput("ts", "100.001"))
}
