package approver

// ActionEvent is a single button interaction as delivered by the
// messaging platform; the token is compared against the request's
// correlation id to filter out clicks belonging to other runs that
// share the channel
type ActionEvent struct {
	Action Action
	UserId string
	Token  string
}

// Messenger is the contract required of the messaging platform
// client; the real implementation is SlackGateway, tests swap in a
// recording fake
type Messenger interface {
	PostMessage(channelId string, payload MessagePayload) (timestamp string, err error)
	UpdateMessage(channelId string, timestamp string, payload MessagePayload) error
}
