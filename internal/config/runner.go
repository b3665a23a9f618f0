package config

import (
	"fmt"
	"os"

	env "github.com/caarlos0/env/v11"
)

// RunnerEnvironment holds the ambient environment that the CI runner
// injects into every step. The `GITHUB_*` values are only used to
// populate default message content and to seed the correlation id,
// the `SLACK_*` values authenticate the bot
type RunnerEnvironment struct {
	SlackBotToken      string `env:"SLACK_BOT_TOKEN,notEmpty"`
	SlackAppToken      string `env:"SLACK_APP_TOKEN,notEmpty"`
	SlackSigningSecret string `env:"SLACK_SIGNING_SECRET"`
	ChannelId          string `env:"SLACK_CHANNEL_ID"`

	Actor      string `env:"GITHUB_ACTOR"`
	Repository string `env:"GITHUB_REPOSITORY"`
	RunId      string `env:"GITHUB_RUN_ID"`
	RunNumber  string `env:"GITHUB_RUN_NUMBER"`
	RunAttempt string `env:"GITHUB_RUN_ATTEMPT" envDefault:"1"`
	Workflow   string `env:"GITHUB_WORKFLOW"`
	ServerUrl  string `env:"GITHUB_SERVER_URL" envDefault:"https://github.com"`
	RunnerName string `env:"RUNNER_NAME"`

	OutputPath string `env:"GITHUB_OUTPUT"`
}

func LoadRunnerEnvironment() (*RunnerEnvironment, error) {
	runnerEnvironment := RunnerEnvironment{}
	if err := env.Parse(&runnerEnvironment); err != nil {
		return nil, fmt.Errorf("failed to parse runner environment: %w", err)
	}
	return &runnerEnvironment, nil
}

// RunUrl returns the browser link to the workflow run that this
// process belongs to
func (e *RunnerEnvironment) RunUrl() string {
	return fmt.Sprintf("%s/%s/actions/runs/%s", e.ServerUrl, e.Repository, e.RunId)
}

// WriteOutput appends a step output in the runner's `name=value`
// format; it's a no-op when no output file is defined so that local
// invocations outside of a runner still work
func (e *RunnerEnvironment) WriteOutput(name, value string) error {
	if e.OutputPath == "" {
		return nil
	}
	outputFile, err := os.OpenFile(e.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file[%s]: %w", e.OutputPath, err)
	}
	defer outputFile.Close()
	if _, err := fmt.Fprintf(outputFile, "%s=%s\n", name, value); err != nil {
		return fmt.Errorf("failed to write output[%s]: %w", name, err)
	}
	return nil
}
