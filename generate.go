package linepatch

import (
	"fmt"

	"github.com/linepatch/linepatch/internal/textscan"
)

// Generate compares oldText and newText line by line and returns the anchored
// Diff that transforms one into the other. It never fails: identical texts
// (or two empty texts) yield an empty Diff.
//
// Each divergence between the texts opens a Block anchored on the two old-text
// lines preceding it. A divergence closes either when the current old line
// reappears later in the new text (pure insertion) or when the line-by-line
// co-scan matches again. The re-convergence scan is unbounded within the
// remaining new text, so inputs that never re-converge cost quadratic time;
// that is the accepted price of context-anchored blocks.
func Generate(oldText, newText string) Diff {
	var d Diff
	switch {
	case oldText == newText:
		return Diff{}
	case oldText == "":
		d = Diff{Blocks: []Block{{
			Reference1: StartOfText,
			Reference2: StartOfText,
			AddedLines: collectLines(newText),
		}}}
	case newText == "":
		d = Diff{Blocks: []Block{{
			Reference1:   StartOfText,
			Reference2:   StartOfText,
			DeletedLines: collectLines(oldText),
		}}}
	default:
		g := generator{oc: textscan.New(oldText), nc: textscan.New(newText)}
		d = g.run()
	}
	if err := d.validate(); err != nil {
		panic(fmt.Errorf("linepatch: Generate produced an invalid diff: %v", err))
	}
	return d
}

func collectLines(text string) []string {
	var lines []string
	for c := textscan.New(text); !c.Ended(); c.Advance() {
		lines = append(lines, c.Line())
	}
	return lines
}

// generator holds the co-scan state of one Generate call.
type generator struct {
	oc, nc textscan.Cursor

	blocks    []Block
	open      *Block
	openStart int // old-line index where the open block's change begins

	prevStart  int // old-line index where the previous closed block's change began
	searchBase int // first old-line index the applier's anchor search will scan next
}

func (g *generator) run() Diff {
	for !g.oc.Ended() && !g.nc.Ended() {
		if g.oc.SameLine(g.nc) {
			// A matching line ends any open divergence.
			g.closeOpen()
			g.oc.Advance()
			g.nc.Advance()
			continue
		}
		g.diverge()
	}
	g.drain()
	g.closeOpen()
	return Diff{Blocks: g.blocks}
}

// diverge handles one co-scan step where the current lines differ.
func (g *generator) diverge() {
	if g.open == nil {
		// Single-line-deletion shortcut: the next old line already matches the
		// current new line, so this is exactly one removed line. Emitting it
		// directly avoids opening a multi-line block for it.
		look := g.oc.Clone()
		if look.Advance() && look.SameLine(g.nc) {
			g.openBlock()
			g.open.DeletedLines = append(g.open.DeletedLines, g.oc.Line())
			g.oc.Advance()
			g.closeOpen()
			return
		}
		g.openBlock()
	}

	// Re-convergence: scan forward in the new text only, looking for the
	// current old line. Finding it means the divergence is fully explained by
	// the new lines skipped over.
	scan := g.nc.Clone()
	var skipped []string
	for !scan.Ended() {
		if scan.SameLine(g.oc) {
			g.open.AddedLines = append(g.open.AddedLines, skipped...)
			g.nc = scan
			g.closeOpen()
			return
		}
		skipped = append(skipped, scan.Line())
		scan.Advance()
	}

	// No re-convergence: this step deletes the old line and adds the new one;
	// the block stays open for the next step.
	g.open.DeletedLines = append(g.open.DeletedLines, g.oc.Line())
	g.open.AddedLines = append(g.open.AddedLines, g.nc.Line())
	g.oc.Advance()
	g.nc.Advance()
}

// drain records everything left after one side ran out: remaining old lines
// become deletions, remaining new lines become insertions.
func (g *generator) drain() {
	for !g.oc.Ended() {
		if g.open == nil {
			g.openBlock()
		}
		g.open.DeletedLines = append(g.open.DeletedLines, g.oc.Line())
		g.oc.Advance()
	}
	for !g.nc.Ended() {
		if g.open == nil {
			g.openBlock()
		}
		g.open.AddedLines = append(g.open.AddedLines, g.nc.Line())
		g.nc.Advance()
	}
}

// openBlock opens a change block at the old cursor's position, resolving its
// anchor references. If the anchor would need the start sentinel on a
// non-first block (divergence within the first two lines), the previous block
// is reopened instead, keeping the sentinel confined to the first block.
func (g *generator) openBlock() {
	if g.open != nil {
		panic("linepatch: openBlock called with a block already open")
	}
	d := g.oc.LineIndex()
	if len(g.blocks) > 0 && d < 2 {
		g.reopenLast()
		return
	}
	b := g.resolveAnchor()
	g.open = &b
	g.openStart = d
}

// reopenLast pops the previously closed block and folds the lines matched
// since it into both sides of the change, so the reopened block spans them.
func (g *generator) reopenLast() {
	last := g.blocks[len(g.blocks)-1]
	g.blocks = g.blocks[:len(g.blocks)-1]

	m := g.oc.Clone()
	for m.LineIndex() > g.prevStart+len(last.DeletedLines) {
		m.Retreat()
	}
	for m.Behind(g.oc) {
		last.DeletedLines = append(last.DeletedLines, m.Line())
		last.AddedLines = append(last.AddedLines, m.Line())
		m.Advance()
	}

	g.open = &last
	g.openStart = g.prevStart
}

// resolveAnchor locates the reference lines for a block opening at the old
// cursor's position and computes its offset and ignore bookkeeping.
func (g *generator) resolveAnchor() Block {
	b := Block{ExpectedOffset: g.oc.LineIndex() - g.prevStart}

	back := g.oc.Clone()
	if !back.Retreat() {
		b.Reference1 = StartOfText
		b.Reference2 = StartOfText
		return b
	}
	b.Reference2 = escapeRef(back.Line())
	if !back.Retreat() {
		b.Reference1 = StartOfText
		return b
	}
	b.Reference1 = escapeRef(back.Line())

	// Count earlier occurrences of reference1 in the window the applier's
	// anchor search will scan; each one is a spurious match it must skip.
	want := back.Line()
	scan := back.Clone()
	for scan.Retreat() && scan.LineIndex() >= g.searchBase {
		if scan.Line() == want {
			b.IgnoreReferences++
		}
	}
	return b
}

// closeOpen appends the open block, if any, and advances the bookkeeping that
// anchors the next block.
func (g *generator) closeOpen() {
	if g.open == nil {
		return
	}
	g.blocks = append(g.blocks, *g.open)
	g.prevStart = g.openStart
	g.searchBase = g.openStart + len(g.open.DeletedLines) - 1
	if g.searchBase < 0 {
		g.searchBase = 0
	}
	g.open = nil
}
