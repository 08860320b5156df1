package features

import "errors"

var (
	// ErrNoHistory means the requested category has zero historical records.
	ErrNoHistory = errors.New("no history for category")

	// ErrDateTooEarly means the target date precedes all observed history,
	// so no trailing window can be formed.
	ErrDateTooEarly = errors.New("target date is earlier than available history")
)
