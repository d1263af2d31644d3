// Package sanitize repairs near-valid JSON emitted by LLMs before parsing.
// It strips code-fence markers and escapes raw control characters inside
// string literals. Structural JSON errors (missing commas, unbalanced
// brackets) are left for the parser to reject.
package sanitize

import (
	"fmt"
	"strings"
)

// Sanitize prepares raw LLM output for JSON parsing. The function is pure and
// idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	return escapeControlChars(stripCodeFence(raw))
}

// stripCodeFence removes a leading ```json (or bare ```) fence and the
// matching trailing fence, a common wrapper on model output even when the
// prompt asks for raw JSON.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)

	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	rest := trimmed[len("```"):]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		label := strings.TrimSpace(rest[:idx])
		if label != "" && !strings.EqualFold(label, "json") {
			// Fenced but not JSON; leave it for the parser to reject.
			return trimmed
		}
		rest = rest[idx+1:]
	} else {
		// Single-line fence, nothing after the marker.
		rest = strings.TrimPrefix(rest, "json")
	}

	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, "```")
	return strings.TrimSpace(rest)
}

// escapeControlChars walks the string and, inside each double-quoted string
// literal, replaces raw control characters (U+0000 through U+001F) with their
// \uXXXX escape. Literal newlines inside JSON string values are the most
// common LLM failure mode this repairs.
func escapeControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false

	for _, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
				b.WriteRune(r)
			case r == '\\':
				escaped = true
				b.WriteRune(r)
			case r == '"':
				inString = false
				b.WriteRune(r)
			case r < 0x20:
				fmt.Fprintf(&b, `\u%04X`, r)
			default:
				b.WriteRune(r)
			}
			continue
		}

		if r == '"' {
			inString = true
		}
		b.WriteRune(r)
	}

	return b.String()
}

// RepairReasoning heuristically cleans a reasoning string that arrived as a
// stray JSON object instead of plain text: enclosing braces are stripped,
// commas become newlines, and quotes are removed. It reports whether the
// repair fired so the caller can flag that the upstream model ignored the
// requested format. This is best-effort cleanup for one observed failure
// mode, not a generic JSON fixer.
func RepairReasoning(reasoning string) (string, bool) {
	trimmed := strings.TrimSpace(reasoning)
	if !strings.HasPrefix(trimmed, "{") {
		return reasoning, false
	}

	repaired := strings.TrimPrefix(trimmed, "{")
	repaired = strings.TrimSuffix(repaired, "}")
	repaired = strings.ReplaceAll(repaired, ",", "\n")
	repaired = strings.ReplaceAll(repaired, `"`, "")
	return strings.TrimSpace(repaired), true
}
