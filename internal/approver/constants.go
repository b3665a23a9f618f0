package approver

type Action string

const (
	ActionApprove Action = "slackgate-approve"
	ActionReject  Action = "slackgate-reject"
)

type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	OutcomeCanceled Outcome = "canceled"
)
