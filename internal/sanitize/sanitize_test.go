package sanitize

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSanitize_StripsJSONFence(t *testing.T) {
	raw := "```json\n[{\"title\": \"Hello\"}]\n```"
	got := Sanitize(raw)
	want := `[{"title": "Hello"}]`

	if got != want {
		t.Errorf("Sanitize(%q) = %q, want %q", raw, got, want)
	}
}

func TestSanitize_StripsBareFence(t *testing.T) {
	raw := "```\n{\"a\": 1}\n```"
	got := Sanitize(raw)
	want := `{"a": 1}`

	if got != want {
		t.Errorf("Sanitize(%q) = %q, want %q", raw, got, want)
	}
}

func TestSanitize_LeavesNonJSONFence(t *testing.T) {
	raw := "```python\nprint('hi')\n```"
	got := Sanitize(raw)

	if got != raw {
		t.Errorf("Sanitize should leave a non-JSON fence untouched, got %q", got)
	}
}

func TestSanitize_EscapesControlCharsInStrings(t *testing.T) {
	raw := "{\"content\": \"line one\nline two\"}"
	got := Sanitize(raw)

	var parsed map[string]string
	if err := json.Unmarshal([]byte(got), &parsed); err != nil {
		t.Fatalf("sanitized output should parse as JSON: %v\noutput: %q", err, got)
	}
	if parsed["content"] != "line one\nline two" {
		t.Errorf("content = %q, want the newline preserved through escaping", parsed["content"])
	}
}

func TestSanitize_LeavesStructuralWhitespaceAlone(t *testing.T) {
	raw := "{\n  \"a\": 1\n}"
	got := Sanitize(raw)

	if got != raw {
		t.Errorf("newlines outside string literals must survive, got %q", got)
	}
}

func TestSanitize_RespectsEscapedQuotes(t *testing.T) {
	raw := `{"quote": "he said \"hi\"\tto me"}`
	got := Sanitize(raw)

	if got != raw {
		t.Errorf("already-escaped content must pass through unchanged, got %q", got)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"```json\n[1, 2, 3]\n```",
		"{\"content\": \"a\nb\"}",
		`plain text, no JSON at all`,
		"",
		"```\n{\"nested\": \"with\nnewline\"}\n```",
	}

	for _, raw := range inputs {
		once := Sanitize(raw)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: first %q, second %q", raw, once, twice)
		}
	}
}

func TestSanitize_ValidInputUnchanged(t *testing.T) {
	raw := `[{"title": "Topic", "description": "Already clean"}]`
	if got := Sanitize(raw); got != raw {
		t.Errorf("valid JSON should pass through untouched, got %q", got)
	}
}

func TestRepairReasoning_PlainTextUntouched(t *testing.T) {
	in := "Step 1: think about the audience. Step 2: write the hook."
	got, repaired := RepairReasoning(in)

	if repaired {
		t.Error("plain text should not trigger a repair")
	}
	if got != in {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestRepairReasoning_StrayObject(t *testing.T) {
	in := `{"audience": "engineers","hook": "a bold claim"}`
	got, repaired := RepairReasoning(in)

	if !repaired {
		t.Fatal("object-shaped reasoning should trigger a repair")
	}
	for _, forbidden := range []string{"{", "}", `"`} {
		if strings.Contains(got, forbidden) {
			t.Errorf("repaired reasoning still contains %q: %q", forbidden, got)
		}
	}
}
