package approvals

type State string

const (
	StateOpen     State = "open"
	StateAccepted State = "accepted"
	StateRejected State = "rejected"
	StateCanceled State = "canceled"
)

type Result string

const (
	// ResultAccepted is returned on the approval that satisfies the quorum
	ResultAccepted Result = "accepted"

	// ResultPending is returned on a recorded approval that still leaves
	// the quorum unsatisfied
	ResultPending Result = "pending"

	// ResultRejected is returned on the rejection that resolved the request
	ResultRejected Result = "rejected"

	// ResultCanceled is returned on the cancellation that resolved the request
	ResultCanceled Result = "canceled"

	// ResultNotAllowed indicates the responder isn't in the authorized set
	ResultNotAllowed Result = "notAllowed"

	// ResultAlreadyApproved indicates the responder has approved before
	ResultAlreadyApproved Result = "alreadyApproved"

	// ResultIgnored indicates the request was already resolved when the
	// event arrived; no mutation happened
	ResultIgnored Result = "ignored"
)
