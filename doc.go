// Package linepatch computes and re-applies anchored, line-based text diffs.
//
// Representation: A Diff is an ordered sequence of Blocks, each describing one
// contiguous change region. Instead of absolute line numbers, a Block is
// anchored by the two old-text lines immediately preceding the change
// (Reference1 then Reference2), plus offset bookkeeping, so a Diff can still
// apply after the surrounding text has drifted by a few lines.
//
// Invariants:
//   - Blocks apply in order; each consumes a span of the original strictly
//     after the previous Block's span.
//   - At most one Block may be anchored at the start of the text (StartOfText
//     references), and it must be the first Block.
//   - A start-anchored Block has IgnoreReferences == 0.
//
// Getting a diff and applying it:
//
//	d := linepatch.Generate(oldText, newText)
//	restored, err := linepatch.Apply(oldText, d, linepatch.SlightDeviance)
//
// Apply's mode trades positional exactness for drift tolerance: Strict
// requires every reference pair within one line of the position the Diff
// predicts; SlightDeviance keeps scanning forward until the pair is found.
// Failures are distinguishable with IsMalformedDiff (the Diff value itself
// violates an invariant) and IsNonMatchingDiff (the target text lacks the
// expected reference context).
//
// Newlines: lines are stored without terminators. Apply re-emits CRLF when the
// original contains at least one CRLF occurrence, LF otherwise. Because the
// model cannot represent a missing final terminator on an added line, a new
// text whose last line is unterminated round-trips back with a terminator;
// byte-exact round-trips hold for terminator-normalized inputs. Both Generate
// and Apply are pure functions of their inputs; the package keeps no state and
// is safe for concurrent use.
package linepatch
