package extract

import "fmt"

// MergeChunkResults concatenates per-chunk clause lists in chunk order and
// reassigns every clause a fresh document-scoped id (clause_001, clause_002,
// ...). Per-chunk ids are discarded: independently processed chunks may have
// emitted colliding or default identifiers. Pure value-level work, so chunk
// processing could go concurrent later without breaking id uniqueness.
func MergeChunkResults(perChunk [][]Clause) []Clause {
	var merged []Clause
	for _, clauses := range perChunk {
		for _, clause := range clauses {
			clause.ClauseID = fmt.Sprintf("clause_%03d", len(merged)+1)
			merged = append(merged, clause)
		}
	}
	return merged
}
