package extract

import (
	"reflect"
	"testing"
)

const sampleArray = `[
  {"clause_id": "clause_001", "title": "Termination", "content": "Either party may terminate.", "clause_type": "termination", "page_number": 2, "start_position": 230, "end_position": 410},
  {"title": "Payment", "content": "Fees are due net 30.", "clause_type": "payment", "page_number": null, "start_position": null, "end_position": null}
]`

func TestParseClausesBareArray(t *testing.T) {
	clauses := ParseClauses(sampleArray)
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(clauses))
	}
	first := clauses[0]
	if first.ClauseID != "clause_001" || first.ClauseType != "termination" {
		t.Fatalf("unexpected first clause: %+v", first)
	}
	if first.PageNumber == nil || *first.PageNumber != 2 {
		t.Fatalf("page number not carried through: %+v", first.PageNumber)
	}
	second := clauses[1]
	if second.ClauseID != "clause_002" {
		t.Fatalf("missing clause_id must default to zero-padded sequence, got %q", second.ClauseID)
	}
	if second.PageNumber != nil {
		t.Fatalf("null page number must stay absent, got %v", *second.PageNumber)
	}
}

func TestParseClausesFencedEqualsBare(t *testing.T) {
	fenced := "```json\n" + sampleArray + "\n```"
	if !reflect.DeepEqual(ParseClauses(fenced), ParseClauses(sampleArray)) {
		t.Fatal("fenced block must parse identically to the bare array")
	}
}

func TestParseClausesEmbeddedInProse(t *testing.T) {
	raw := "Sure! Here are the clauses I found:\n\n" + sampleArray + "\n\nLet me know if you need anything else."
	clauses := ParseClauses(raw)
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses from prose-wrapped array, got %d", len(clauses))
	}
}

func TestParseClausesWrappedObject(t *testing.T) {
	raw := `{"clauses": [{"content": "Confidential information stays confidential.", "clause_type": "confidentiality"}]}`
	clauses := ParseClauses(raw)
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause from wrapped object, got %d", len(clauses))
	}
	if clauses[0].ClauseID != "clause_001" {
		t.Fatalf("default id expected, got %q", clauses[0].ClauseID)
	}
}

func TestParseClausesGarbage(t *testing.T) {
	for _, raw := range []string{
		"",
		"I could not find any clauses in this document.",
		`{"message": "no array here"}`,
		"[{truncated",
		"```json\nnot json at all\n```",
	} {
		if got := ParseClauses(raw); len(got) != 0 {
			t.Fatalf("garbage input %q must yield no clauses, got %d", raw, len(got))
		}
	}
}

func TestParseClausesSkipsRecordsWithoutContent(t *testing.T) {
	raw := `[
	  {"title": "No content field"},
	  "just a string",
	  {"content": "   "},
	  {"content": "Real clause text."}
	]`
	clauses := ParseClauses(raw)
	if len(clauses) != 1 {
		t.Fatalf("expected 1 surviving clause, got %d", len(clauses))
	}
	if clauses[0].Content != "Real clause text." {
		t.Fatalf("unexpected clause: %+v", clauses[0])
	}
	// Default id is seeded from the element's array position.
	if clauses[0].ClauseID != "clause_004" {
		t.Fatalf("expected clause_004, got %q", clauses[0].ClauseID)
	}
}

func TestDecodeOutcomeKinds(t *testing.T) {
	if got := DecodeOutcome(`[]`).Kind; got != OutcomeArray {
		t.Fatalf("expected array outcome, got %v", got)
	}
	if got := DecodeOutcome(`{"clauses": []}`).Kind; got != OutcomeWrappedObject {
		t.Fatalf("expected wrapped outcome, got %v", got)
	}
	if got := DecodeOutcome(`{"other": 1}`).Kind; got != OutcomeUnparseable {
		t.Fatalf("expected unparseable outcome, got %v", got)
	}
}

func TestTryBuildClauseDefaults(t *testing.T) {
	clause, ok := TryBuildClause(6, map[string]interface{}{
		"content": "Some provision.",
		"title":   nil,
	})
	if !ok {
		t.Fatal("expected clause to build")
	}
	if clause.ClauseID != "clause_007" {
		t.Fatalf("expected zero-padded default id clause_007, got %q", clause.ClauseID)
	}
	if clause.Title != "" {
		t.Fatalf("null title must default to empty, got %q", clause.Title)
	}
	if clause.ClauseType != "other" {
		t.Fatalf("missing clause_type must default to other, got %q", clause.ClauseType)
	}
}
