// Package document provides the generic manifest tree model shared by every
// other component: an ordered, immutable node tree with path-addressed reads
// and copy-on-write updates, plus the loader that turns raw YAML text into
// provenance-tagged documents.
//
// # Contract
//
//   - Nodes are immutable once built. With returns a new tree that copies
//     only the ancestor chain of the mutated path; untouched subtrees are
//     shared by reference, which is safe because nothing mutates them.
//   - Mapping key order is preserved through a parse/serialize round trip.
//     Keys inserted by With are appended at the end of their mapping.
//   - Get never fails; a missing or mistyped path reports not-found.
//     With fails with *PathError when asked to index a missing sequence
//     element or traverse through a scalar.
//
// # Loading
//
// Load splits multi-document input on "---" separators and parses each
// chunk independently. A syntax error in one chunk yields a *ParseError
// scoped to that chunk; the remaining chunks still parse.
package document
