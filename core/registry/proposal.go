package registry

import (
	"time"

	"github.com/google/uuid"

	"github.com/FreelyGiven/BibleVersionCodes/core/code"
	"github.com/FreelyGiven/BibleVersionCodes/core/errors"
)

// Decision records the outcome of a code proposal.
type Decision struct {
	// ID is a unique identifier for tracking the proposal.
	ID string `json:"id"`

	// Candidate is the proposed code string as submitted.
	Candidate string `json:"candidate"`

	// Accepted reports whether the code is well-formed and free of
	// collisions.
	Accepted bool `json:"accepted"`

	// Reason explains a rejection in human-readable form.
	Reason string `json:"reason,omitempty"`

	// Code is the parsed code when the proposal was well-formed,
	// whether or not it was accepted.
	Code *code.Code `json:"code,omitempty"`

	// Err is the typed validation or collision error for rejections.
	Err error `json:"-"`

	// CreatedAt is when the decision was made.
	CreatedAt time.Time `json:"created_at"`
}

// Propose validates a candidate code and checks it against the
// registry. The first registered code always keeps its key: a later
// collision is rejected regardless of the proposal's merit, and the
// proposer must choose a different code. No automatic renaming is
// attempted.
func (r *Registry) Propose(candidate string) Decision {
	d := Decision{
		ID:        uuid.NewString(),
		Candidate: candidate,
		CreatedAt: time.Now().UTC(),
	}

	c, err := code.Parse(candidate)
	if err != nil {
		d.Reason = err.Error()
		d.Err = err
		return d
	}
	d.Code = c

	key := c.CanonicalKey()
	if existing, ok := r.byKey[key]; ok {
		dup := errors.NewDuplicate(c.Base, key, existing.Code.Base)
		d.Reason = dup.Error()
		d.Err = dup
		return d
	}

	d.Accepted = true
	return d
}
