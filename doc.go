// Package linker finds mentions of note titles across an Obsidian-style vault and
// turns them into links, one reviewed candidate at a time.
//
// A run takes a snapshot of the vault, indexes every note title (and frontmatter
// alias), scans note bodies for whole-word occurrences and hands each candidate to a
// Decider. Accepted rewrites are spliced into the in-memory document with byte-exact
// offsets; later candidates in the same document are shifted by the accumulated
// length change before they are shown.
//
//	eng, err := linker.New("./vault")
//	plan, err := eng.Plan(ctx)
//	report, err := eng.Review(ctx, plan, myDecider)
package linker
