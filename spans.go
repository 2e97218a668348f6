package linepatch

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// spanOp is an operation on an intra-line segment.
type spanOp int

const (
	spanEqual spanOp = iota
	spanDelete
	spanInsert
	spanReplace
)

// span is one intra-line segment of a replaced line pair. Spans never contain
// line terminators.
type span struct {
	op       spanOp
	old, new string
}

// lineSpans computes the changed segments between a deleted line and the added
// line that replaces it.
func lineSpans(oldLine, newLine string) []span {
	dmp := diffmatchpatch.New()
	return coalesceSpans(dmp.DiffMain(oldLine, newLine, false))
}

// maxBridge is the longest equal segment that gets folded into the changes
// around it instead of breaking them apart.
const maxBridge = 8

// coalesceSpans converts diffmatchpatch output into spans: each run of
// deletes/inserts collapses into a single span, and short equal bridges
// sandwiched between two changes are folded into them to reduce
// fragmentation.
func coalesceSpans(diffs []diffmatchpatch.Diff) []span {
	var spans []span
	var oldBuf, newBuf strings.Builder
	flush := func() {
		if oldBuf.Len() == 0 && newBuf.Len() == 0 {
			return
		}
		spans = append(spans, makeSpan(oldBuf.String(), newBuf.String()))
		oldBuf.Reset()
		newBuf.Reset()
	}
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			spans = append(spans, span{op: spanEqual, old: d.Text, new: d.Text})
		case diffmatchpatch.DiffDelete:
			oldBuf.WriteString(d.Text)
		case diffmatchpatch.DiffInsert:
			newBuf.WriteString(d.Text)
		}
	}
	flush()

	var out []span
	for i := 0; i < len(spans); i++ {
		sp := spans[i]
		if sp.op == spanEqual && len(sp.old) <= maxBridge &&
			len(out) > 0 && out[len(out)-1].op != spanEqual &&
			i+1 < len(spans) && spans[i+1].op != spanEqual {
			prev := out[len(out)-1]
			next := spans[i+1]
			out[len(out)-1] = makeSpan(prev.old+sp.old+next.old, prev.new+sp.new+next.new)
			i++
			continue
		}
		out = append(out, sp)
	}
	return out
}

func makeSpan(old, new string) span {
	sp := span{old: old, new: new}
	switch {
	case old != "" && new != "":
		sp.op = spanReplace
	case old != "":
		sp.op = spanDelete
	default:
		sp.op = spanInsert
	}
	return sp
}
