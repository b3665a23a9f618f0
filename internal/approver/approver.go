package approver

import (
	"fmt"
	"os"
	"slices"

	"slackgate/internal/approvals"
	"slackgate/internal/common"
	"slackgate/internal/config"

	"github.com/slack-go/slack"
)

// Gate owns one approval request for the lifetime of the process: it
// posts the approval message, keeps it in sync with the ledger as
// responses come in and resolves to a terminal outcome exactly once
type Gate struct {
	Channel     string
	Messenger   Messenger
	Request     *approvals.Request
	ServiceLogs chan<- common.ServiceLog

	basePayload    MessagePayload
	successPayload MessagePayload
	failPayload    MessagePayload
	contextBlocks  []slack.Block
	messageTs      string
}

type GatePayloads struct {
	Base    MessagePayload
	Success MessagePayload
	Fail    MessagePayload
}

type NewGateOpts struct {
	Approvers    []string
	Channel      string
	CustomBlocks slack.Blocks
	Messenger    Messenger
	Payloads     GatePayloads
	Quorum       int
	Runner       *config.RunnerEnvironment
	ServiceLogs  chan<- common.ServiceLog
}

func NewGate(opts NewGateOpts) (*Gate, error) {
	if opts.Channel == "" {
		return nil, fmt.Errorf("failed to receive a target channel id")
	}
	request, err := approvals.NewRequest(approvals.NewRequestOpts{
		CorrelationId: getCorrelationId(opts.Runner),
		Quorum:        opts.Quorum,
		Approvers:     opts.Approvers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create approval request: %w", err)
	}
	contextBlocks := getRunContextBlocks(opts.Runner)
	contextBlocks = append(contextBlocks, opts.CustomBlocks.BlockSet...)
	return &Gate{
		Channel:        opts.Channel,
		Messenger:      opts.Messenger,
		Request:        request,
		ServiceLogs:    opts.ServiceLogs,
		basePayload:    opts.Payloads.Base,
		successPayload: opts.Payloads.Success,
		failPayload:    opts.Payloads.Fail,
		contextBlocks:  contextBlocks,
	}, nil
}

// Open sends the initial approval message, updating an existing
// message when a prior timestamp is supplied instead of posting a
// new one, and returns the timestamp of the resulting message. The
// timestamp is valid regardless of the eventual outcome so chained
// invocations can reuse the same message
func (g *Gate) Open(baseMessageTs string) (string, error) {
	payload := g.renderOpenMessage()
	if baseMessageTs != "" {
		if err := g.Messenger.UpdateMessage(g.Channel, baseMessageTs, payload); err != nil {
			return "", fmt.Errorf("failed to take over message[%s]: %w", baseMessageTs, err)
		}
		g.messageTs = baseMessageTs
		return g.messageTs, nil
	}
	messageTs, err := g.Messenger.PostMessage(g.Channel, payload)
	if err != nil {
		return "", fmt.Errorf("failed to post approval message: %w", err)
	}
	g.messageTs = messageTs
	return g.messageTs, nil
}

// Run consumes action events and lifecycle signals until the request
// resolves, then returns the terminal outcome. The ledger guarantees
// that exactly one event performs the terminal transition, so Run
// returns exactly once even when qualifying events race
func (g *Gate) Run(actions <-chan ActionEvent, signals <-chan os.Signal) Outcome {
	for {
		select {
		case event := <-actions:
			if outcome, resolved := g.handleAction(event); resolved {
				return outcome
			}
		case sig := <-signals:
			g.ServiceLogs <- common.ServiceLogf(common.LogLevelInfo, "received signal[%s], canceling approval request", sig)
			if outcome, resolved := g.handleCancel(); resolved {
				return outcome
			}
		}
	}
}

func (g *Gate) handleAction(event ActionEvent) (Outcome, bool) {
	if event.Token != g.Request.CorrelationId() {
		g.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "ignoring %s from user[%s] with token[%s] belonging to another run", event.Action, event.UserId, event.Token)
		return "", false
	}

	switch event.Action {
	case ActionApprove:
		result, resolved := g.Request.RecordApproval(event.UserId)
		g.ServiceLogs <- common.ServiceLogf(common.LogLevelInfo, "approval from user[%s]: %s", event.UserId, result)
		if resolved {
			g.resolveMessage(
				resolvePayloadVariant(g.successPayload, g.basePayload),
				append(getStatusTitleBlocks(g.Request), getApprovedBlocks(g.Request.ApprovedBy())...),
			)
			return OutcomeAccepted, true
		}
		if result == approvals.ResultPending {
			g.refreshMessage()
		}

	case ActionReject:
		result, resolved := g.Request.RecordRejection(event.UserId)
		g.ServiceLogs <- common.ServiceLogf(common.LogLevelInfo, "rejection from user[%s]: %s", event.UserId, result)
		if resolved {
			g.resolveMessage(
				resolvePayloadVariant(g.failPayload, g.basePayload),
				append(getStatusTitleBlocks(g.Request), getRejectedBlocks(event.UserId)...),
			)
			return OutcomeRejected, true
		}
	}

	return "", false
}

func (g *Gate) handleCancel() (Outcome, bool) {
	result, resolved := g.Request.Cancel()
	if !resolved {
		g.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "cancellation arrived after resolution: %s", result)
		return "", false
	}
	g.resolveMessage(
		resolvePayloadVariant(g.failPayload, g.basePayload),
		append(getStatusTitleBlocks(g.Request), getCanceledBlocks()...),
	)
	return OutcomeCanceled, true
}

func (g *Gate) renderOpenMessage() MessagePayload {
	statusBlocks := slices.Clone(g.contextBlocks)
	statusBlocks = append(statusBlocks, getStatusTitleBlocks(g.Request)...)
	statusBlocks = append(statusBlocks, getStatusBodyBlocks(g.Request)...)
	return mergePayload(g.basePayload, statusBlocks)
}

// refreshMessage re-renders the open message after a non-terminal
// ledger change; a failed update only means the displayed message
// lags behind the ledger, which stays authoritative
func (g *Gate) refreshMessage() {
	if err := g.Messenger.UpdateMessage(g.Channel, g.messageTs, g.renderOpenMessage()); err != nil {
		g.ServiceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to refresh approval message, display may lag: %s", err)
	}
}

func (g *Gate) resolveMessage(payload MessagePayload, statusBlocks []slack.Block) {
	blocks := slices.Clone(g.contextBlocks)
	blocks = append(blocks, statusBlocks...)
	if err := g.Messenger.UpdateMessage(g.Channel, g.messageTs, mergePayload(payload, blocks)); err != nil {
		g.ServiceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to render final approval message: %s", err)
	}
}
