package approver

import (
	"fmt"

	"slackgate/internal/common"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// SlackGateway is the messaging platform collaborator: it posts and
// updates the approval message and relays button interactions over a
// socket mode connection
type SlackGateway struct {
	Client      *slack.Client
	Socket      *socketmode.Client
	ServiceLogs chan<- common.ServiceLog
}

type NewSlackGatewayOpts struct {
	AppToken    string
	BotToken    string
	ServiceLogs chan<- common.ServiceLog
}

func NewSlackGateway(opts NewSlackGatewayOpts) *SlackGateway {
	client := slack.New(
		opts.BotToken,
		slack.OptionDebug(false),
		slack.OptionAppLevelToken(opts.AppToken),
	)
	socket := socketmode.New(
		client,
		socketmode.OptionDebug(false),
	)
	return &SlackGateway{
		Client:      client,
		Socket:      socket,
		ServiceLogs: opts.ServiceLogs,
	}
}

func (s *SlackGateway) PostMessage(channelId string, payload MessagePayload) (string, error) {
	_, messageTimestamp, err := s.Client.PostMessage(channelId, getMessageOptions(payload)...)
	if err != nil {
		messageDeliveriesCounter.WithLabelValues("post", "error").Inc()
		return "", fmt.Errorf("failed to post message to channel[%s]: %w", channelId, err)
	}
	messageDeliveriesCounter.WithLabelValues("post", "ok").Inc()
	return messageTimestamp, nil
}

func (s *SlackGateway) UpdateMessage(channelId, timestamp string, payload MessagePayload) error {
	if _, _, _, err := s.Client.UpdateMessage(channelId, timestamp, getMessageOptions(payload)...); err != nil {
		messageDeliveriesCounter.WithLabelValues("update", "error").Inc()
		return fmt.Errorf("failed to update message[%s] in channel[%s]: %w", timestamp, channelId, err)
	}
	messageDeliveriesCounter.WithLabelValues("update", "ok").Inc()
	return nil
}

func getMessageOptions(payload MessagePayload) []slack.MsgOption {
	options := []slack.MsgOption{}
	if payload.Text != "" {
		options = append(options, slack.MsgOptionText(payload.Text, false))
	}
	if len(payload.Blocks.BlockSet) > 0 {
		options = append(options, slack.MsgOptionBlocks(payload.Blocks.BlockSet...))
	}
	return options
}

// StartListening relays block action events into the provided
// channel. Every interactive event is acked before being handed off
// so the platform's ack deadline is never coupled to a rendering or
// network update
func (s *SlackGateway) StartListening(actions chan<- ActionEvent) {
	go func() {
		for event := range s.Socket.Events {
			switch event.Type {
			case socketmode.EventTypeInteractive:
				callback, ok := event.Data.(slack.InteractionCallback)
				if !ok {
					s.ServiceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to receive data that fits slack.InteractionCallback")
					continue
				}
				if event.Request != nil {
					s.Socket.Ack(*event.Request)
				}
				if callback.Type != slack.InteractionTypeBlockActions {
					continue
				}
				for _, blockAction := range callback.ActionCallback.BlockActions {
					action := Action(blockAction.ActionID)
					if action != ActionApprove && action != ActionReject {
						continue
					}
					actionsReceivedCounter.WithLabelValues(string(action)).Inc()
					actions <- ActionEvent{
						Action: action,
						UserId: callback.User.ID,
						Token:  blockAction.Value,
					}
				}
			default:
				// Unhandled event
			}
		}
	}()

	go func() {
		if err := s.Socket.Run(); err != nil {
			s.ServiceLogs <- common.ServiceLogf(common.LogLevelError, "socket mode connection stopped: %s", err)
		}
	}()
}
