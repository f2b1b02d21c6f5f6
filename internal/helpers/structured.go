package helpers

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Structured-output parsing for generative-model responses. Models are asked
// for bare JSON but routinely wrap it in fenced code blocks, add prose around
// it, or leave trailing commas. Every consumer treats malformed output as a
// recoverable condition: DecodeJSON returns an error and the caller supplies
// its own fallback value; nothing here ever panics.

var trailingCommaRE = regexp.MustCompile(`,(\s*[}\]])`)

// CleanModelOutput trims whitespace and a UTF-8 BOM, and unwraps a single
// fenced code block (``` or ~~~, optional language tag) if the response is
// wrapped in one.
func CleanModelOutput(raw string) string {
	s := trimBOM(strings.TrimSpace(raw))
	if inner, ok := stripFirstCodeFence(s); ok {
		s = strings.TrimSpace(inner)
	}
	return s
}

// DecodeJSON parses a raw model response into dst. It cleans the response,
// attempts a strict parse, retries once with trailing commas removed, and as
// a last resort extracts the first balanced JSON value from the text.
func DecodeJSON(raw string, dst any) error {
	s := CleanModelOutput(raw)
	if s == "" {
		return errors.New("empty model response")
	}

	if err := json.Unmarshal([]byte(s), dst); err == nil {
		return nil
	}

	// Single repair pass: trailing commas before a closing brace/bracket are
	// the most common model defect.
	repaired := trailingCommaRE.ReplaceAllString(s, "$1")
	if err := json.Unmarshal([]byte(repaired), dst); err == nil {
		return nil
	}

	// The response may bury the JSON in prose; scan for a balanced value.
	extracted, err := ExtractJSON(repaired)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(extracted), dst)
}

// ExtractJSON finds and returns the first JSON object or array in s.
// It scans for a balanced {...} or [...] while ignoring braces/brackets
// inside strings.
func ExtractJSON(s string) (string, error) {
	s = trimBOM(strings.TrimSpace(s))

	if len(s) > 0 && (s[0] == '{' || s[0] == '[') {
		if out, ok := extractBalancedJSONFrom(s, 0); ok {
			return out, nil
		}
	}

	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			if out, ok := extractBalancedJSONFrom(s, i); ok {
				return out, nil
			}
		}
	}

	return "", errors.New("no balanced JSON object/array found")
}

// stripFirstCodeFence removes the first fenced code block if s starts with
// ``` or ~~~. It accepts an optional language tag (e.g., ```json).
func stripFirstCodeFence(s string) (inner string, ok bool) {
	trim := strings.TrimLeft(s, "\n\r\t ")
	if strings.HasPrefix(trim, "```") || strings.HasPrefix(trim, "~~~") {
		fence := "```"
		if strings.HasPrefix(trim, "~~~") {
			fence = "~~~"
		}
		rest := trim[len(fence):]
		// Skip optional language tag up to first newline
		if idx := strings.IndexByte(rest, '\n'); idx != -1 {
			rest = rest[idx+1:]
		} else {
			return "", false
		}
		if end := strings.Index(rest, fence); end != -1 {
			return rest[:end], true
		}
	}
	return "", false
}

// extractBalancedJSONFrom attempts to extract a balanced JSON value starting
// at startIdx. It supports objects and arrays and correctly handles strings
// and escape sequences.
func extractBalancedJSONFrom(s string, startIdx int) (string, bool) {
	if startIdx < 0 || startIdx >= len(s) {
		return "", false
	}

	start := s[startIdx]
	if start != '{' && start != '[' {
		return "", false
	}

	var (
		stack    []byte
		inString bool
		escape   bool
	)

	push := func(b byte) { stack = append(stack, b) }
	popMatches := func(b byte) bool {
		if len(stack) == 0 {
			return false
		}
		top := stack[len(stack)-1]
		if (top == '{' && b == '}') || (top == '[' && b == ']') {
			stack = stack[:len(stack)-1]
			return true
		}
		return false
	}

	push(start)

	for i := startIdx + 1; i < len(s); i++ {
		c := s[i]

		if inString {
			if escape {
				escape = false
				continue
			}
			switch c {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			push(c)
		case '}', ']':
			if !popMatches(c) {
				return "", false
			}
			if len(stack) == 0 {
				return s[startIdx : i+1], true
			}
		}
	}

	return "", false
}

// trimBOM removes an optional UTF-8 BOM.
func trimBOM(s string) string {
	if strings.HasPrefix(s, "\uFEFF") {
		return strings.TrimPrefix(s, "\uFEFF")
	}
	if len(s) >= 3 {
		b0, b1, b2 := s[0], s[1], s[2]
		if b0 == 0xEF && b1 == 0xBB && b2 == 0xBF && utf8.ValidString(s[3:]) {
			return s[3:]
		}
	}
	return s
}
