// Package gedcom parses line-tagged genealogy documents into linked
// registries of individuals and family units.
//
// # Overview
//
// A document is plain text, one statement per line:
//
//	0 @I1@ INDI
//	1 NAME Ann /Smith/
//	1 FAMS @F1@
//	0 @F1@ FAM
//	1 HUSB @I2@
//	1 WIFE @I1@
//	1 CHIL @I3@
//
// Parsing runs in three stages, all in memory and in a single call to [Parse]:
//
//  1. [Tokenize] splits each line into a [Token] (level, tag or id, value).
//  2. The record builder routes tokens into [Individual], [Family] and
//     [Media] records held by a [Document].
//  3. [Link] resolves identifiers into parent, child, spouse, ex-spouse and
//     step relations and computes each family's [UnionStatus].
//
// # Tolerance
//
// Third-party documents are frequently verbose or slightly non-conformant.
// The parser never fails on content: malformed lines, unknown record kinds,
// duplicate records and unresolvable references are recorded as
// [Diagnostic] values on the document and parsing continues. The only
// errors returned by [Parse] come from the underlying reader.
//
// # Identity
//
// Every identifier maps to exactly one canonical [Individual] or [Family]
// for the lifetime of a document. A record introduced twice at level 0 is
// merged into the instance created first. Relationship lists hold pointers
// to those canonical instances, never copies.
//
// # Concurrency
//
// A [Document] is built by one goroutine. Once [Parse] returns it is treated
// as immutable and may be read concurrently.
package gedcom
