package linepatch

import (
	"fmt"
	"strings"
)

// MatchMode selects how strictly Apply requires reference lines to appear at
// the position a Block's offset bookkeeping predicts.
type MatchMode int

const (
	// Strict requires each anchor to land within one line of its predicted
	// position.
	Strict MatchMode = iota
	// SlightDeviance keeps scanning forward past the predicted position,
	// tolerating upstream drift in the target text.
	SlightDeviance
)

func (m MatchMode) String() string {
	switch m {
	case Strict:
		return "strict"
	case SlightDeviance:
		return "slight-deviance"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// StartOfText is the reserved reference value marking a Block anchored at the
// very beginning of the text, where no preceding line exists. A real line
// whose content equals this literal is stored escaped (see escapeRef) so the
// two cases never collide.
const StartOfText = "\x00start-of-text\x00"

// refEscape prefixes a real line that collides with the StartOfText literal.
const refEscape = "\\"

// sentinelLike reports whether s is the sentinel behind zero or more escape
// prefixes. Every line in that family escapes one level deeper, so a stored
// reference is ambiguous with neither the sentinel itself nor a shallower
// escape of it.
func sentinelLike(s string) bool {
	for strings.HasPrefix(s, refEscape) {
		s = s[len(refEscape):]
	}
	return s == StartOfText
}

// escapeRef prepares a real old-text line for storage as a reference line.
func escapeRef(line string) string {
	if sentinelLike(line) {
		return refEscape + line
	}
	return line
}

// refMatches reports whether the stored reference ref stands for the line
// content got. ref must not be StartOfText.
func refMatches(ref, got string) bool {
	if ref != StartOfText && sentinelLike(ref) {
		return got == ref[len(refEscape):]
	}
	return ref == got
}

// Block is one contiguous change region of a Diff.
//
// A Block is located at application time by searching the target text for
// Reference1 immediately followed by Reference2: the two old-text lines that
// preceded the change when the Diff was generated. ExpectedOffset counts
// old-text lines from the start of the previous Block to the start of this
// one. It counts from the start, not the end, so consumers tracking absolute
// positions must account for lines the previous Block consumed. IgnoreReferences counts
// earlier occurrences of Reference1 the anchor search must skip before
// accepting the true anchor.
//
// DeletedLines and AddedLines are optional: nil means "this kind of change
// does not apply here", which is distinct from an empty change. A Block with
// both nil carries no content change and is never produced by Generate.
type Block struct {
	ExpectedOffset   int      `json:"expectedOffset"`
	IgnoreReferences int      `json:"ignoreReferences"`
	Reference1       string   `json:"reference1"`
	Reference2       string   `json:"reference2"`
	DeletedLines     []string `json:"deletedLines,omitempty"`
	AddedLines       []string `json:"addedLines,omitempty"`
}

// startAnchored reports whether b is anchored at the beginning of the text.
func (b Block) startAnchored() bool {
	return b.Reference1 == StartOfText
}

// Diff is an ordered sequence of Blocks; insertion order is application order.
// An empty Diff means "no changes".
type Diff struct {
	Blocks []Block `json:"blocks,omitempty"`
}

// validate checks the structural Block invariants and returns an error on the
// first violation. Diffs produced by Generate always validate.
func (d Diff) validate() error {
	for i, b := range d.Blocks {
		if b.Reference2 == StartOfText && b.Reference1 != StartOfText {
			return fmt.Errorf("block[%d]: reference2 is the start sentinel but reference1 is not", i)
		}
		if b.startAnchored() {
			if i != 0 {
				return fmt.Errorf("block[%d]: start-anchored block must be the first block", i)
			}
			if b.IgnoreReferences != 0 {
				return fmt.Errorf("block[%d]: start-anchored block must have a zero ignore count, got %d", i, b.IgnoreReferences)
			}
		}
		if b.ExpectedOffset < 0 {
			return fmt.Errorf("block[%d]: negative expected offset %d", i, b.ExpectedOffset)
		}
		if b.IgnoreReferences < 0 {
			return fmt.Errorf("block[%d]: negative ignore count %d", i, b.IgnoreReferences)
		}
	}
	return nil
}
