package extract

import "testing"

func TestMergeChunkResultsReassignsCollidingIDs(t *testing.T) {
	perChunk := [][]Clause{
		{{ClauseID: "clause_001", Content: "from chunk one"}},
		{{ClauseID: "clause_001", Content: "from chunk two"}},
	}

	merged := MergeChunkResults(perChunk)
	if len(merged) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(merged))
	}
	if merged[0].ClauseID != "clause_001" || merged[1].ClauseID != "clause_002" {
		t.Fatalf("ids not globally reassigned: %q, %q", merged[0].ClauseID, merged[1].ClauseID)
	}
	if merged[0].Content != "from chunk one" || merged[1].Content != "from chunk two" {
		t.Fatal("chunk order not preserved")
	}
}

func TestMergeChunkResultsSkipsEmptyChunks(t *testing.T) {
	perChunk := [][]Clause{
		nil,
		{{ClauseID: "x", Content: "a"}, {ClauseID: "y", Content: "b"}},
		{},
		{{ClauseID: "z", Content: "c"}},
	}

	merged := MergeChunkResults(perChunk)
	if len(merged) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(merged))
	}
	want := []string{"clause_001", "clause_002", "clause_003"}
	for i, id := range want {
		if merged[i].ClauseID != id {
			t.Fatalf("clause %d: expected id %q, got %q", i, id, merged[i].ClauseID)
		}
	}
}

func TestMergeChunkResultsEmptyInput(t *testing.T) {
	if got := MergeChunkResults(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}
