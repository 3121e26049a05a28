// Package search runs one vector search per query variant on a bounded
// worker pool and merges the results into a deduplicated chunk set. A
// chunk surfaced by several variants keeps its highest similarity score
// and records every dimension that found it.
package search
