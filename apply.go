package linepatch

import (
	"fmt"
	"strings"

	"github.com/linepatch/linepatch/internal/simplelogger"
	"github.com/linepatch/linepatch/internal/textscan"
)

// startBlockWindow bounds how far a start-anchored block may scan forward for
// its second reference line.
const startBlockWindow = 10

// strictTolerance is how many lines a Strict-mode anchor may deviate from the
// position the block's offset bookkeeping predicts.
const strictTolerance = 1

// Apply reconstructs the edited text from original plus the Diff d.
//
// Each block's reference lines are located in original (per mode), the lines
// up to the anchor are copied verbatim, the block's insertions are written and
// its deletions skipped, and whatever follows the last block is copied
// verbatim. An empty Diff returns original unchanged.
//
// Apply fails with a malformed-diff error (IsMalformedDiff) if d violates a
// structural invariant, and with a non-matching error (IsNonMatchingDiff) if a
// reference search runs past the mode's tolerance or past the end of the
// text. On error the returned text is empty; nothing is partially applied.
func Apply(original string, d Diff, mode MatchMode) (string, error) {
	if err := d.validate(); err != nil {
		return "", malformedDiffError(err)
	}
	if len(d.Blocks) == 0 {
		return original, nil
	}

	eol := "\n"
	if strings.Contains(original, "\r\n") {
		eol = "\r\n"
	}

	a := applier{cur: textscan.New(original)}
	for i, b := range d.Blocks {
		if err := a.applyBlock(i, b, mode); err != nil {
			return "", err
		}
	}

	// Copy every remaining original line verbatim.
	tailCopied := false
	for !a.cur.Ended() {
		a.out = append(a.out, a.cur.Line())
		a.cur.Advance()
		tailCopied = true
	}

	if len(a.out) == 0 {
		return "", nil
	}
	text := strings.Join(a.out, eol)
	// The final terminator follows the original when the original's own last
	// line ends the output; added lines are always terminated.
	if !tailCopied || strings.HasSuffix(original, "\n") {
		text += eol
	}
	return text, nil
}

// applier holds the reconstruction state of one Apply call.
type applier struct {
	cur       textscan.Cursor
	out       []string
	prevStart int // target line index where the previous block's change began
}

func (a *applier) applyBlock(i int, b Block, mode MatchMode) error {
	var anchor int
	var err error
	if b.startAnchored() {
		anchor, err = a.seekStartAnchor(i, b, mode)
	} else {
		anchor, err = a.seekAnchor(i, b, mode)
	}
	if err != nil {
		return err
	}

	// Write the insertions, then step past exactly the deleted lines without
	// copying them. Their content is trusted, not re-verified.
	a.out = append(a.out, b.AddedLines...)
	for range b.DeletedLines {
		if a.cur.Ended() {
			return nonMatchingDiffError(fmt.Errorf("block %d: original ends inside its deleted lines", i))
		}
		a.cur.Advance()
	}
	a.prevStart = anchor
	return nil
}

// seekStartAnchor positions a start-anchored block. validate has already
// ensured it is the first block, so the cursor still sits at the beginning of
// the original.
func (a *applier) seekStartAnchor(i int, b Block, mode MatchMode) (int, error) {
	if b.Reference2 == StartOfText {
		return 0, nil
	}
	for n := 0; n < startBlockWindow && !a.cur.Ended(); n++ {
		line := a.cur.Line()
		a.out = append(a.out, line)
		a.cur.Advance()
		if refMatches(b.Reference2, line) {
			anchor := a.cur.LineIndex()
			if mode == Strict && abs(anchor-b.ExpectedOffset) > strictTolerance {
				return 0, nonMatchingDiffError(fmt.Errorf("block %d: start reference %q matched at line %d, expected near %d", i, b.Reference2, n, b.ExpectedOffset-1))
			}
			return anchor, nil
		}
	}
	return 0, nonMatchingDiffError(fmt.Errorf("block %d: start reference %q not found within the first %d lines", i, b.Reference2, startBlockWindow))
}

// seekAnchor locates a normal block's reference pair, copying everything up to
// the anchor to the output, and returns the anchor's line index.
func (a *applier) seekAnchor(i int, b Block, mode MatchMode) (int, error) {
	predicted := a.prevStart + b.ExpectedOffset

	// Search from one line behind the primary position: the first reference
	// may be the line the previous block just consumed.
	scan := a.cur.Clone()
	scan.Retreat()
	ignores := b.IgnoreReferences
	for !scan.Ended() {
		if !refMatches(b.Reference1, scan.Line()) {
			scan.Advance()
			continue
		}
		if ignores > 0 {
			ignores--
			scan.Advance()
			continue
		}
		pair := scan.Clone()
		if !pair.Advance() || !refMatches(b.Reference2, pair.Line()) {
			// The second reference failed: reopen the search for the first
			// one past this occurrence.
			scan.Advance()
			continue
		}

		anchor := pair.LineIndex() + 1
		if mode == Strict && abs(anchor-predicted) > strictTolerance {
			return 0, nonMatchingDiffError(fmt.Errorf("block %d: references (%q, %q) matched at line %d, expected near %d", i, b.Reference1, b.Reference2, anchor, predicted))
		}
		if anchor != predicted {
			simplelogger.Log("linepatch: block %d anchored at line %d, predicted %d", i, anchor, predicted)
		}
		for !a.cur.Ended() && a.cur.LineIndex() < anchor {
			a.out = append(a.out, a.cur.Line())
			a.cur.Advance()
		}
		return anchor, nil
	}
	return 0, nonMatchingDiffError(fmt.Errorf("block %d: references (%q, %q) not found after line %d", i, b.Reference1, b.Reference2, a.cur.LineIndex()))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
