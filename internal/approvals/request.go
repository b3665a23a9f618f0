package approvals

import (
	"fmt"
	"slices"
	"sync"
)

// Request is the in-memory record of a single approval gate: who may
// respond, how many distinct approvals are needed, who has approved
// so far and whether the request has reached a terminal state. All
// mutation goes through RecordApproval/RecordRejection/Cancel which
// share one mutex, so at most one caller ever observes the
// transition out of StateOpen
type Request struct {
	correlationId string
	quorum        int
	authorized    []string

	mu         sync.Mutex
	approvedBy []string
	rejectedBy string
	state      State
}

type NewRequestOpts struct {
	// CorrelationId distinguishes this invocation's button events from
	// those of other runs sharing the same channel
	CorrelationId string

	// Quorum is the number of distinct authorized approvals required
	Quorum int

	// Approvers restricts who may respond; an empty slice means anyone
	// can respond
	Approvers []string
}

func NewRequest(opts NewRequestOpts) (*Request, error) {
	if opts.Quorum < 1 {
		return nil, fmt.Errorf("failed to receive a minimum approval count of at least 1, got %v", opts.Quorum)
	}
	authorized := []string{}
	for _, approver := range opts.Approvers {
		if approver == "" || slices.Contains(authorized, approver) {
			continue
		}
		authorized = append(authorized, approver)
	}
	if len(authorized) > 0 && opts.Quorum > len(authorized) {
		return nil, fmt.Errorf("failed to satisfy the minimum approval count of %v with only %v authorized approvers", opts.Quorum, len(authorized))
	}
	return &Request{
		correlationId: opts.CorrelationId,
		quorum:        opts.Quorum,
		authorized:    authorized,
		approvedBy:    []string{},
		state:         StateOpen,
	}, nil
}

// RecordApproval registers a single approval by the provided user.
// The returned boolean is true only for the one call that moved the
// request out of StateOpen; callers use it to gate terminal side
// effects
func (r *Request) RecordApproval(userId string) (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateOpen {
		return ResultIgnored, false
	}
	if r.isRestricted() && !slices.Contains(r.authorized, userId) {
		return ResultNotAllowed, false
	}
	if slices.Contains(r.approvedBy, userId) {
		return ResultAlreadyApproved, false
	}
	r.approvedBy = append(r.approvedBy, userId)
	if len(r.approvedBy) >= r.quorum {
		r.state = StateAccepted
		return ResultAccepted, true
	}
	return ResultPending, false
}

// RecordRejection registers a rejection by the provided user; a
// single authorized rejection is sufficient to resolve the request
func (r *Request) RecordRejection(userId string) (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateOpen {
		return ResultIgnored, false
	}
	if r.isRestricted() && !slices.Contains(r.authorized, userId) {
		return ResultNotAllowed, false
	}
	r.state = StateRejected
	r.rejectedBy = userId
	return ResultRejected, true
}

// Cancel resolves the request on behalf of the execution environment
// (run cancellation or timeout)
func (r *Request) Cancel() (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateOpen {
		return ResultIgnored, false
	}
	r.state = StateCanceled
	return ResultCanceled, true
}

func (r *Request) CorrelationId() string {
	return r.correlationId
}

func (r *Request) Quorum() int {
	return r.quorum
}

// IsRestricted indicates whether an authorized approver set applies
func (r *Request) IsRestricted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRestricted()
}

func (r *Request) isRestricted() bool {
	return len(r.authorized) > 0
}

func (r *Request) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// ApprovedBy returns a copy of the distinct approvals in the order
// they were accepted
func (r *Request) ApprovedBy() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.approvedBy)
}

// RejectedBy returns the responder whose rejection resolved the
// request, if any
func (r *Request) RejectedBy() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rejectedBy
}

// RemainingApprovers returns the authorized approvers who haven't
// approved yet; it's only meaningful when the request is restricted
func (r *Request) RemainingApprovers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	remaining := []string{}
	for _, approver := range r.authorized {
		if !slices.Contains(r.approvedBy, approver) {
			remaining = append(remaining, approver)
		}
	}
	return remaining
}

// RemainingCount returns how many more distinct approvals are needed
func (r *Request) RemainingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	remaining := r.quorum - len(r.approvedBy)
	if remaining < 0 {
		return 0
	}
	return remaining
}
