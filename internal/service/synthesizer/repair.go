package synthesizer

import (
	"regexp"
	"strings"
)

var trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)

// repairArray runs the defensive extraction pipeline over a raw model
// completion. Each step is independent and idempotent:
//
//  1. Strip fenced code block markers, keeping their interior.
//  2. Locate the first [...] substring via minimal-match scanning.
//  3. Remove trailing commas before a closing ] or }.
//  4. Pad missing ] characters when the substring is left unbalanced.
//
// ok is false when the text contains no array at all; the returned string
// is then empty. The result is a candidate for strict JSON parsing — this
// function does not itself guarantee validity.
func repairArray(raw string) (repaired string, ok bool) {
	s := stripFences(raw)

	s, ok = extractArray(s)
	if !ok {
		return "", false
	}

	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = balanceBrackets(s)

	return s, true
}

// stripFences removes markdown code fence markers (``` and ```json etc.)
// while keeping the fenced content.
func stripFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}

	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// extractArray returns the first bracketed substring, scanning from the
// first '[' until its matching close (minimal match). Brackets inside
// string literals are ignored. If the array never closes, the remainder
// of the input is returned and bracket padding repairs the balance.
func extractArray(s string) (string, bool) {
	start := strings.IndexByte(s, '[')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// brackets inside strings do not count
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	// Never closed — return the tail; the caller pads the deficit.
	return s[start:], true
}

// balanceBrackets appends missing ] characters when the substring opened
// more arrays than it closed. Counting ignores string literals.
func balanceBrackets(s string) string {
	opens, closes := 0, 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '[':
			opens++
		case c == ']':
			closes++
		}
	}

	if deficit := opens - closes; deficit > 0 {
		return s + strings.Repeat("]", deficit)
	}
	return s
}
