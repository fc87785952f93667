package bulk

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Action names a bulk intent.
type Action string

const (
	ActionFavorite   Action = "favorite"
	ActionUnfavorite Action = "unfavorite"
	ActionMove       Action = "move"
	ActionDelete     Action = "delete"
)

// Failure is one link the action could not change.
type Failure struct {
	ID  string
	Err error
}

func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID    string `json:"id"`
		Error string `json:"error"`
	}{ID: f.ID, Error: f.Err.Error()})
}

// Report is the outcome of one bulk action. Changes already committed are
// never rolled back, so Mutated counts them even when Failures is not empty.
// Links that needed no change or vanished before they were written count as
// Skipped.
type Report struct {
	Action    Action    `json:"action"`
	Requested int       `json:"requested"`
	Mutated   int       `json:"mutated"`
	Skipped   int       `json:"skipped"`
	Failures  []Failure `json:"failures,omitempty"`
}

// Failed reports how many links could not be changed.
func (r Report) Failed() int { return len(r.Failures) }

// Err joins the per-link failures, or returns nil.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = fmt.Errorf("link %s: %w", f.ID, f.Err)
	}
	return errors.Join(errs...)
}

func (r Report) failedIDs() []string {
	ids := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		ids[i] = f.ID
	}
	return ids
}
