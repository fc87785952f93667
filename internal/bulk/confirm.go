package bulk

import (
	"context"
	"fmt"

	"github.com/Samyk00/LinkVault/internal/domain"
)

// Prompt describes a pending bulk action awaiting the user's go-ahead.
type Prompt struct {
	Action Action `json:"action"`
	// Count is the number of links the action would change.
	Count int `json:"count"`
	// AlreadyInTarget is set for moves: selected links already in the target folder.
	AlreadyInTarget int    `json:"alreadyInTarget,omitempty"`
	Message         string `json:"message"`
}

// Confirmer asks whether a bulk action may proceed.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) { return f(ctx, p) }

// Always answers every prompt with ok.
func Always(ok bool) Confirmer {
	return ConfirmFunc(func(context.Context, Prompt) (bool, error) { return ok, nil })
}

// DeclinedError is returned when a prompt was answered with no.
// It matches domain.ErrCancelled.
type DeclinedError struct {
	Prompt Prompt
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("%s declined: %s", e.Prompt.Action, e.Prompt.Message)
}

func (e *DeclinedError) Is(target error) bool { return target == domain.ErrCancelled }
