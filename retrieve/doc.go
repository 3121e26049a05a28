// Package retrieve implements the agentic retrieval loop: a query is
// classified, expanded into dimension-named variants, searched in
// parallel, and the accumulated evidence is judged for sufficiency.
// Insufficient evidence triggers refinement rounds aimed at the judged
// gap, bounded by an iteration cap and a chunk budget. The final set is
// synthesized into cross-linked logic chains before a cited answer is
// generated.
package retrieve
