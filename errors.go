package linepatch

import "errors"

var (
	errMalformedDiff   = errors.New("malformed diff")
	errNonMatchingDiff = errors.New("non-matching diff")
)

// IsMalformedDiff reports whether err (as returned from Apply) indicates that
// the Diff value itself violates a structural invariant: misplaced or repeated
// start-anchored blocks, a nonzero ignore count on a start block, or negative
// bookkeeping. This is always a caller bug; Generate never produces such a
// Diff.
func IsMalformedDiff(err error) bool {
	return errors.Is(err, errMalformedDiff)
}

// IsNonMatchingDiff reports whether err (as returned from Apply) indicates
// that the target text does not contain the expected reference-line context
// within the chosen mode's tolerance. Callers may retry with SlightDeviance,
// or reject the patch.
func IsNonMatchingDiff(err error) bool {
	return errors.Is(err, errNonMatchingDiff)
}

func malformedDiffError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(errMalformedDiff, err)
}

func nonMatchingDiffError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(errNonMatchingDiff, err)
}
