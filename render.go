package linepatch

import (
	"fmt"
	"strings"
)

// Render returns a human-oriented rendering of d. Each block is printed with
// an "@@" header carrying its offset bookkeeping, its two reference lines as
// " "-prefixed context, then "-" deleted and "+" added lines; a deleted line
// paired with the added line replacing it gets its changed segments
// highlighted.
//
// If color is true the output contains ANSI 256-color escape sequences for
// line and span highlighting and is intended for terminals; it is not a
// machine-readable format. Lines are rendered without terminators and joined
// with "\n". An empty Diff renders as the empty string.
func (d Diff) Render(color bool) string {
	// Colors (ANSI). Applied only if color==true.
	const (
		reset     = "\x1b[0m"
		blackFG   = "\x1b[30m"
		pinkLine  = "\x1b[48;5;224m" // light pink for deleted lines
		pinkSpan  = "\x1b[48;5;217m" // slightly darker pink for deleted spans
		greenLine = "\x1b[48;5;194m" // light green for added lines
		greenSpan = "\x1b[48;5;114m" // slightly darker green for added spans
		magenta   = "\x1b[35m"
	)

	// Render one side of a replaced line pair with inline span highlighting.
	renderSide := func(spans []span, tag byte, baseBg string) string {
		var b strings.Builder
		for _, sp := range spans {
			switch tag {
			case '-':
				switch sp.op {
				case spanEqual:
					b.WriteString(sp.old)
				case spanDelete, spanReplace:
					b.WriteString(reset)
					b.WriteString(blackFG)
					b.WriteString(pinkSpan)
					b.WriteString(sp.old)
					b.WriteString(reset)
					b.WriteString(blackFG)
					b.WriteString(baseBg)
				case spanInsert:
					// Old side has nothing for inserts.
				}
			case '+':
				switch sp.op {
				case spanEqual:
					b.WriteString(sp.new)
				case spanInsert, spanReplace:
					b.WriteString(reset)
					b.WriteString(blackFG)
					b.WriteString(greenSpan)
					b.WriteString(sp.new)
					b.WriteString(reset)
					b.WriteString(blackFG)
					b.WriteString(baseBg)
				case spanDelete:
					// New side has nothing for deletes.
				}
			}
		}
		return b.String()
	}

	var out []string
	for i, b := range d.Blocks {
		header := fmt.Sprintf("@@ block %d: offset %d", i+1, b.ExpectedOffset)
		if b.IgnoreReferences > 0 {
			header += fmt.Sprintf(", skip %d", b.IgnoreReferences)
		}
		header += " @@"
		if color {
			header = magenta + header + reset
		}
		out = append(out, header)

		for _, ref := range []string{b.Reference1, b.Reference2} {
			ctx := " " + displayRef(ref)
			if color {
				ctx = blackFG + ctx + reset
			}
			out = append(out, ctx)
		}

		// Pair each deleted line with the added line replacing it; leftovers
		// are pure deletions/insertions.
		n := min(len(b.DeletedLines), len(b.AddedLines))
		for j := 0; j < n; j++ {
			if !color {
				out = append(out, "-"+b.DeletedLines[j], "+"+b.AddedLines[j])
				continue
			}
			spans := lineSpans(b.DeletedLines[j], b.AddedLines[j])
			out = append(out,
				blackFG+pinkLine+"-"+renderSide(spans, '-', pinkLine)+reset,
				blackFG+greenLine+"+"+renderSide(spans, '+', greenLine)+reset)
		}
		for _, line := range b.DeletedLines[n:] {
			if color {
				line = blackFG + pinkLine + "-" + line + reset
			} else {
				line = "-" + line
			}
			out = append(out, line)
		}
		for _, line := range b.AddedLines[n:] {
			if color {
				line = blackFG + greenLine + "+" + line + reset
			} else {
				line = "+" + line
			}
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// displayRef renders a stored reference line for human output.
func displayRef(ref string) string {
	switch {
	case ref == StartOfText:
		return "(start of text)"
	case sentinelLike(ref):
		return ref[len(refEscape):]
	default:
		return ref
	}
}
