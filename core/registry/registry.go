// Package registry provides the in-memory registry of registered
// version codes.
//
// A Registry is an immutable snapshot built once from a dataset and
// queried many times. It is safe for concurrent readers; additions go
// through WithEntry, which returns a new snapshot and leaves the
// original unchanged.
package registry

import (
	"fmt"
	"strings"

	"github.com/FreelyGiven/BibleVersionCodes/core/code"
	"github.com/FreelyGiven/BibleVersionCodes/core/errors"
)

// Kind classifies the work a code identifies. Bibles and New
// Testaments take priority over commentaries when both compete for the
// same short code; that rule is applied at curation time (VerifyPolicy)
// rather than at lookup time.
type Kind string

const (
	KindBible        Kind = "bible"
	KindNewTestament Kind = "newtestament"
	KindCommentary   Kind = "commentary"
	KindUnknown      Kind = ""
)

// ParseKind validates a kind label, case-insensitively.
// Every deserialization path (XML, SQLite) goes through this so a
// hand-edited source cannot smuggle in an unknown kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindBible:
		return KindBible, nil
	case KindNewTestament:
		return KindNewTestament, nil
	case KindCommentary:
		return KindCommentary, nil
	default:
		return KindUnknown, fmt.Errorf("unknown kind %q", s)
	}
}

// Entry is the metadata attached to a registered version code.
// All fields other than Code are optional free text, kept minimal so
// datasets load quickly.
type Entry struct {
	Code      *code.Code `json:"code"`
	FullName  string     `json:"full_name,omitempty"`
	Language  string     `json:"language,omitempty"`
	Publisher string     `json:"publisher,omitempty"`
	Licence   string     `json:"licence,omitempty"`
	Link      string     `json:"link,omitempty"`
	Kind      Kind       `json:"kind,omitempty"`
}

// Registry is an immutable mapping from canonical keys to entries.
type Registry struct {
	byKey map[string]*Entry
	order []string // canonical keys in first-registered order
}

// Load builds a registry from entries in first-registered order.
// Two entries whose codes normalize to the same uppercase key are a
// DuplicateCodeError; the earlier entry names the winner.
func Load(entries []*Entry) (*Registry, error) {
	r := &Registry{
		byKey: make(map[string]*Entry, len(entries)),
		order: make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		if err := r.insert(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// insert adds an entry to a registry under construction.
// Only Load and WithEntry call this; published snapshots never mutate.
func (r *Registry) insert(e *Entry) error {
	if e == nil || e.Code == nil {
		return errors.NewCharset("", "entry has no code")
	}
	key := e.Code.CanonicalKey()
	if existing, ok := r.byKey[key]; ok {
		return errors.NewDuplicate(e.Code.Base, key, existing.Code.Base)
	}
	r.byKey[key] = e
	r.order = append(r.order, key)
	return nil
}

// Lookup finds the entry for a code, case-insensitively.
// Composite inputs such as "KJV-1611" resolve by their base code.
// A malformed candidate returns its validation error; a well-formed
// candidate with no entry returns a NotFoundError.
func (r *Registry) Lookup(candidate string) (*Entry, error) {
	c, err := code.Parse(candidate)
	if err != nil {
		return nil, err
	}
	entry, ok := r.byKey[c.CanonicalKey()]
	if !ok {
		return nil, errors.NewNotFound(candidate)
	}
	return entry, nil
}

// Contains reports whether a canonical key is registered.
func (r *Registry) Contains(key string) bool {
	_, ok := r.byKey[strings.ToUpper(key)]
	return ok
}

// Len returns the number of registered codes.
func (r *Registry) Len() int {
	return len(r.order)
}

// Entries returns all entries in first-registered order.
// The returned slice is freshly allocated; entries are shared.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

// WithEntry returns a new snapshot containing the additional entry.
// The entry's code is re-validated and collision-checked; the receiver
// is never modified.
func (r *Registry) WithEntry(e *Entry) (*Registry, error) {
	if e == nil || e.Code == nil {
		return nil, errors.NewCharset("", "entry has no code")
	}
	if err := code.Validate(e.Code.String()); err != nil {
		return nil, err
	}

	next := &Registry{
		byKey: make(map[string]*Entry, len(r.byKey)+1),
		order: make([]string, len(r.order), len(r.order)+1),
	}
	for k, v := range r.byKey {
		next.byKey[k] = v
	}
	copy(next.order, r.order)

	if err := next.insert(e); err != nil {
		return nil, err
	}
	return next, nil
}

// PolicyViolation reports a commentary holding a code that a Bible or
// New Testament proposal would be entitled to.
type PolicyViolation struct {
	CanonicalKey string
	Holder       *Entry
	Contender    *Entry
}

// VerifyPolicy checks contenders against the registry's assignment
// policy: Bibles and New Testaments receive priority over commentaries
// for the same short code. It reports the collisions where a
// commentary currently holds the key; it never reassigns codes, since
// resolution is a curatorial decision.
func (r *Registry) VerifyPolicy(contenders []*Entry) []PolicyViolation {
	var violations []PolicyViolation
	for _, c := range contenders {
		if c == nil || c.Code == nil {
			continue
		}
		if c.Kind != KindBible && c.Kind != KindNewTestament {
			continue
		}
		key := c.Code.CanonicalKey()
		holder, ok := r.byKey[key]
		if !ok || holder.Kind != KindCommentary {
			continue
		}
		violations = append(violations, PolicyViolation{
			CanonicalKey: key,
			Holder:       holder,
			Contender:    c,
		})
	}
	return violations
}
