package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Model output is semi-structured at best: fenced markdown, prose around the
// JSON, wrapped objects, truncated arrays. The parser treats all of that as
// the common case and degrades to an empty clause list instead of failing.

type OutcomeKind int

const (
	OutcomeUnparseable OutcomeKind = iota
	OutcomeArray
	OutcomeWrappedObject
)

// ParseOutcome is the intermediate result of decoding a raw completion,
// before individual records are validated into clauses.
type ParseOutcome struct {
	Kind  OutcomeKind
	Items []interface{}
}

var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// ParseClauses turns a raw model completion into validated clause records.
// It never fails: irrecoverable input yields an empty slice.
func ParseClauses(raw string) []Clause {
	outcome := DecodeOutcome(raw)
	if outcome.Kind == OutcomeUnparseable {
		return nil
	}

	var clauses []Clause
	for i, item := range outcome.Items {
		if clause, ok := TryBuildClause(i, item); ok {
			clauses = append(clauses, clause)
		}
	}
	return clauses
}

// DecodeOutcome runs the staged parse: strip a markdown code fence, try a
// direct JSON parse, fall back to the first top-level array literal found in
// the text, then classify the decoded value.
func DecodeOutcome(raw string) ParseOutcome {
	cleaned := stripCodeFence(raw)

	var value interface{}
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		match := arrayPattern.FindString(cleaned)
		if match == "" {
			return ParseOutcome{Kind: OutcomeUnparseable}
		}
		if err := json.Unmarshal([]byte(match), &value); err != nil {
			return ParseOutcome{Kind: OutcomeUnparseable}
		}
	}

	switch v := value.(type) {
	case []interface{}:
		return ParseOutcome{Kind: OutcomeArray, Items: v}
	case map[string]interface{}:
		if wrapped, ok := v["clauses"].([]interface{}); ok {
			return ParseOutcome{Kind: OutcomeWrappedObject, Items: wrapped}
		}
	}
	return ParseOutcome{Kind: OutcomeUnparseable}
}

// TryBuildClause validates one decoded array element. Elements that are not
// objects, lack a content field, or have blank content are dropped. index is
// the element's position in the decoded array and seeds the default clause id.
func TryBuildClause(index int, item interface{}) (Clause, bool) {
	record, ok := item.(map[string]interface{})
	if !ok {
		return Clause{}, false
	}
	if _, ok := record["content"]; !ok {
		return Clause{}, false
	}

	content := stringField(record, "content")
	if strings.TrimSpace(content) == "" {
		return Clause{}, false
	}

	clauseID := stringField(record, "clause_id")
	if clauseID == "" {
		clauseID = fmt.Sprintf("clause_%03d", index+1)
	}
	clauseType := stringField(record, "clause_type")
	if clauseType == "" {
		clauseType = "other"
	}

	return Clause{
		ClauseID:      clauseID,
		Title:         stringField(record, "title"),
		Content:       content,
		ClauseType:    clauseType,
		PageNumber:    intField(record, "page_number"),
		StartPosition: intField(record, "start_position"),
		EndPosition:   intField(record, "end_position"),
	}, true
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimSpace(s)
	// Optional language tag on the opening fence.
	if rest, ok := strings.CutPrefix(s, "json"); ok {
		s = strings.TrimSpace(rest)
	}
	return s
}

func stringField(record map[string]interface{}, key string) string {
	if v, ok := record[key].(string); ok {
		return v
	}
	return ""
}

func intField(record map[string]interface{}, key string) *int {
	// encoding/json decodes numbers as float64; anything else (null, strings)
	// passes through as absent.
	if v, ok := record[key].(float64); ok {
		n := int(v)
		return &n
	}
	return nil
}
