package ai

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestSystemBlocksOf verifies that SystemBlocksOf preserves segment order.
func TestSystemBlocksOf(t *testing.T) {
	blocks := SystemBlocksOf("first", "second", "third")

	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	for i, expected := range []string{"first", "second", "third"} {
		if blocks[i].Text != expected {
			t.Errorf("block %d: expected %q, got %q", i, expected, blocks[i].Text)
		}
	}
}

// TestUsage_Add verifies that Add sums every counter field by field.
func TestUsage_Add(t *testing.T) {
	total := &Usage{}
	total.Add(&Usage{InputTokens: 10, OutputTokens: 5, CacheCreationInputTokens: 100, TotalTokens: 15})
	total.Add(&Usage{InputTokens: 10, OutputTokens: 7, CacheReadInputTokens: 100, TotalTokens: 17})

	if total.InputTokens != 20 {
		t.Errorf("expected InputTokens 20, got %d", total.InputTokens)
	}
	if total.OutputTokens != 12 {
		t.Errorf("expected OutputTokens 12, got %d", total.OutputTokens)
	}
	if total.CacheCreationInputTokens != 100 {
		t.Errorf("expected CacheCreationInputTokens 100, got %d", total.CacheCreationInputTokens)
	}
	if total.CacheReadInputTokens != 100 {
		t.Errorf("expected CacheReadInputTokens 100, got %d", total.CacheReadInputTokens)
	}
	if total.TotalTokens != 32 {
		t.Errorf("expected TotalTokens 32, got %d", total.TotalTokens)
	}
}

// TestUsage_AddNil verifies that adding a nil usage record is a no-op.
func TestUsage_AddNil(t *testing.T) {
	total := &Usage{InputTokens: 3}
	total.Add(nil)
	if total.InputTokens != 3 {
		t.Errorf("expected InputTokens unchanged at 3, got %d", total.InputTokens)
	}
}

// TestUsage_Copy verifies that Copy returns an independent value.
func TestUsage_Copy(t *testing.T) {
	original := &Usage{InputTokens: 1, OutputTokens: 2, CacheReadInputTokens: 3}
	clone := original.Copy()

	clone.InputTokens = 99
	if original.InputTokens != 1 {
		t.Errorf("mutating the copy changed the original: %d", original.InputTokens)
	}
	if clone.CacheReadInputTokens != 3 {
		t.Errorf("expected CacheReadInputTokens 3 in copy, got %d", clone.CacheReadInputTokens)
	}
}

// TestUsage_JSONFieldNames verifies the wire names match the vendor response
// fields so counters can be copied without renaming.
func TestUsage_JSONFieldNames(t *testing.T) {
	encoded, err := json.Marshal(Usage{
		InputTokens:              1,
		OutputTokens:             2,
		CacheCreationInputTokens: 3,
		CacheReadInputTokens:     4,
	})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	for _, field := range []string{
		"input_tokens", "output_tokens",
		"cache_creation_input_tokens", "cache_read_input_tokens",
	} {
		if !strings.Contains(string(encoded), field) {
			t.Errorf("expected JSON to contain %q, got %s", field, encoded)
		}
	}
}

// TestToolResult_ToJSON verifies round-trippable serialization of tool results.
func TestToolResult_ToJSON(t *testing.T) {
	result := NewToolResultSuccess(map[string]any{"answer": 42})
	encoded, err := result.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(encoded, `"success":true`) {
		t.Errorf("expected success flag in JSON, got %s", encoded)
	}

	failure := NewToolResultError("tool_not_found", "no such tool")
	encoded, err = failure.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(encoded, "tool_not_found") {
		t.Errorf("expected error type in JSON, got %s", encoded)
	}
}
