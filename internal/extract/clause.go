// Package extract implements the chunk/extract/reassemble pipeline that turns
// raw contract text into an ordered, uniquely-identified clause list via an
// LLM completion endpoint.
package extract

// Clause is the transient, pre-persistence record produced by the pipeline.
// Position fields are best-effort model output and may be absent.
type Clause struct {
	ClauseID      string `json:"clause_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	ClauseType    string `json:"clause_type"`
	PageNumber    *int   `json:"page_number"`
	StartPosition *int   `json:"start_position"`
	EndPosition   *int   `json:"end_position"`
}
