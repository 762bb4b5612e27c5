package expense

import (
	"fmt"
	"strings"

	appErrors "github.com/carolinadevia11/coparently/errors"
)

// Action is a viewer-triggered lifecycle operation on an existing expense.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionDispute  Action = "dispute"
	ActionMarkPaid Action = "mark paid"
	ActionResolve  Action = "resolve dispute"
	ActionDelete   Action = "delete"
)

// transitions lists the legal status moves. disputed -> pending is the
// resolution path: a resolved dispute restarts the approval cycle.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusDisputed},
	StatusApproved: {StatusPaid},
	StatusDisputed: {StatusPending},
	StatusPaid:     {},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Target returns the status the action moves an expense to. Delete has no
// target status.
func (a Action) Target() (Status, bool) {
	switch a {
	case ActionApprove:
		return StatusApproved, true
	case ActionDispute:
		return StatusDisputed, true
	case ActionMarkPaid:
		return StatusPaid, true
	case ActionResolve:
		return StatusPending, true
	}
	return "", false
}

// IsPayer reports whether the viewer fronted the expense. Emails compare
// case-insensitively.
func IsPayer(viewerEmail string, e Expense) bool {
	return strings.EqualFold(strings.TrimSpace(viewerEmail), strings.TrimSpace(e.PaidBy))
}

// Authorize decides whether the viewer may run the action on the expense.
// Approval, dispute and payment are reserved for the non-payer: the parent
// who fronted a cost can never sign off on it themselves. The payer check
// runs before the status check so a payer is rejected regardless of status.
func Authorize(viewerEmail string, e Expense, action Action) error {
	switch action {
	case ActionApprove, ActionDispute, ActionMarkPaid:
		if IsPayer(viewerEmail, e) {
			return fmt.Errorf("%w: the payer cannot %s their own expense", appErrors.ErrForbidden, action)
		}
		target, _ := action.Target()
		if !CanTransition(e.Status, target) {
			return fmt.Errorf("%w: cannot %s an expense in status %q", appErrors.ErrConflict, action, e.Status)
		}
	case ActionResolve:
		// Either parent may concede or withdraw a dispute.
		if e.Status != StatusDisputed {
			return fmt.Errorf("%w: only a disputed expense can be resolved, status is %q", appErrors.ErrConflict, e.Status)
		}
	case ActionDelete:
		if !IsPayer(viewerEmail, e) {
			return fmt.Errorf("%w: only the payer can delete an expense", appErrors.ErrForbidden)
		}
		if e.Status != StatusPending {
			return fmt.Errorf("%w: only a pending expense can be deleted, status is %q", appErrors.ErrConflict, e.Status)
		}
	default:
		return fmt.Errorf("%w: unknown action %q", appErrors.ErrValidation, action)
	}
	return nil
}
