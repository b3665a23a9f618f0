package approver

import (
	"fmt"
	"strings"

	"slackgate/internal/config"

	"github.com/google/uuid"
)

// getCorrelationId derives a stable id from the run's identity so
// that a re-run of the same workflow produces a different id and
// stale button clicks from older messages can be told apart
func getCorrelationId(runner *config.RunnerEnvironment) string {
	seed := fmt.Sprintf(
		"%s/%s/%s/%s/%s",
		runner.Repository,
		runner.Workflow,
		runner.RunId,
		runner.RunNumber,
		runner.RunAttempt,
	)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

func getMentionList(userIds []string) string {
	if len(userIds) == 0 {
		return "None"
	}
	mentions := make([]string, 0, len(userIds))
	for _, userId := range userIds {
		mentions = append(mentions, fmt.Sprintf("<@%s>", userId))
	}
	return strings.Join(mentions, ", ")
}
