package preprocessor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned by ParsePolicy for unrecognised names.
var ErrUnknownPolicy = errors.New("unknown skip policy")

// Policy decides which code cells with empty source are left untouched.
type Policy int

const (
	// SkipEmpty leaves every code cell whose source is empty untouched.
	SkipEmpty Policy = iota

	// SkipFirstEmpty leaves only the first visited cell untouched, and only
	// if it is a code cell with empty source.
	SkipFirstEmpty
)

// String returns the policy name as accepted by ParsePolicy.
func (p Policy) String() string {
	switch p {
	case SkipEmpty:
		return "skip-empty"
	case SkipFirstEmpty:
		return "skip-first-empty"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "skip-empty", "":
		return SkipEmpty, nil
	case "skip-first-empty":
		return SkipFirstEmpty, nil
	default:
		return 0, fmt.Errorf("%w: %q (use 'skip-empty' or 'skip-first-empty')", ErrUnknownPolicy, name)
	}
}

// PolicyNames lists the accepted policy names.
func PolicyNames() []string {
	return []string{SkipEmpty.String(), SkipFirstEmpty.String()}
}
