// Package transform prepares a person graph for drawing.
//
// # Cycle Breaking
//
// [BreakCycles] removes the parent edges that close descent loops. Real
// genealogical files sometimes contain them after bad merges.
//
// # Layer Assignment
//
// [AssignLayers] computes a generation row for each node from its depth along
// parent edges. [AlignSpouses] then moves people who married into the family
// onto their partner's row.
//
// # Usage
//
//	transform.BreakCycles(g)
//	transform.AssignLayers(g)
//	transform.AlignSpouses(g)
package transform
