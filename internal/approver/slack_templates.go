package approver

import (
	"fmt"
	"strings"

	"slackgate/internal/approvals"
	"slackgate/internal/config"

	"github.com/slack-go/slack"
)

func getStatusTitleBlocks(req *approvals.Request) []slack.Block {
	lines := []string{
		fmt.Sprintf("*%v* approval(s) required, *%v* remaining", req.Quorum(), req.RemainingCount()),
	}
	if req.IsRestricted() {
		lines = append(lines, fmt.Sprintf("Remaining approvers: %s", getMentionList(req.RemainingApprovers())))
	}
	if approvedBy := req.ApprovedBy(); len(approvedBy) > 0 {
		lines = append(lines, fmt.Sprintf("Approved by: %s", getMentionList(approvedBy)))
	}
	return []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil),
	}
}

func getStatusBodyBlocks(req *approvals.Request) []slack.Block {
	if req.RemainingCount() == 0 {
		return getApprovedBlocks(req.ApprovedBy())
	}

	approveButton := slack.NewButtonBlockElement(
		string(ActionApprove),
		req.CorrelationId(),
		slack.NewTextBlockObject("plain_text", "Approve", false, false),
	)
	approveButton.Style = slack.StylePrimary
	rejectButton := slack.NewButtonBlockElement(
		string(ActionReject),
		req.CorrelationId(),
		slack.NewTextBlockObject("plain_text", "Reject", false, false),
	)
	rejectButton.Style = slack.StyleDanger

	return []slack.Block{
		slack.NewActionBlock("slackgate_actions_"+req.CorrelationId(), approveButton, rejectButton),
	}
}

func getApprovedBlocks(approvedBy []string) []slack.Block {
	msg := "✅ Approved"
	if len(approvedBy) > 0 {
		msg = fmt.Sprintf("✅ Approved by %s", getMentionList(approvedBy))
	}
	return []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", msg, false, false), nil, nil),
	}
}

func getRejectedBlocks(userId string) []slack.Block {
	msg := "⛔️ Rejected"
	if userId != "" {
		msg = fmt.Sprintf("⛔️ Rejected by <@%s>", userId)
	}
	return []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", msg, false, false), nil, nil),
	}
}

func getCanceledBlocks() []slack.Block {
	return []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", "🚫 Canceled before the required approvals were received", false, false), nil, nil),
	}
}

// getRunContextBlocks renders the default context section describing
// the workflow run that's asking for approval
func getRunContextBlocks(runner *config.RunnerEnvironment) []slack.Block {
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Repository:*\n%s", runner.Repository), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Workflow:*\n%s", runner.Workflow), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Actor:*\n%s", runner.Actor), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Run:*\n<%s|#%s (attempt %s)>", runner.RunUrl(), runner.RunNumber, runner.RunAttempt), false, false),
	}
	if runner.RunnerName != "" {
		fields = append(fields, slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Runner:*\n%s", runner.RunnerName), false, false))
	}
	return []slack.Block{
		slack.NewSectionBlock(nil, fields, nil),
		slack.NewDividerBlock(),
	}
}
