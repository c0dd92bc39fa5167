// Package workflow holds the moderation rules shared by projects, hour
// submissions and project edit requests.
//
// Every moderated entity is created pending and leaves that state exactly once,
// through an admin decision, into approved or rejected.
package workflow

import (
	"errors"
	"fmt"

	"github.com/volunteer-hours-api/internal/models"
)

// Action is an admin decision on a pending entity
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// ErrInvalidTransition is returned when a decision is applied to a non-pending entity
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrUnknownAction is returned for decisions other than approve or reject
var ErrUnknownAction = errors.New("unknown moderation action")

// InitialStatus is the state every moderated entity is created in
const InitialStatus = models.StatusPending

// Decide returns the state reached by applying action to current
func Decide(current models.Status, action Action) (models.Status, error) {
	if current != models.StatusPending {
		return current, fmt.Errorf("%w: %s entity cannot be %sd", ErrInvalidTransition, current, action)
	}
	switch action {
	case ActionApprove:
		return models.StatusApproved, nil
	case ActionReject:
		return models.StatusRejected, nil
	default:
		return current, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// ActionFor maps a requested target status to the decision that reaches it
func ActionFor(target models.Status) (Action, error) {
	switch target {
	case models.StatusApproved:
		return ActionApprove, nil
	case models.StatusRejected:
		return ActionReject, nil
	default:
		return "", fmt.Errorf("%w: target status %q", ErrUnknownAction, target)
	}
}
