// Package extract recovers a structured value from free-form model output.
//
// Extraction is a bounded two-stage parse: a strict JSON parse of the best
// candidate substring, then exactly one repair pass for near-JSON written with
// single quotes or Python literals. The repair is lossy and best-effort.
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/companion/pkg/domain"
)

var fence = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)\\s*```")

// Extract returns the object (map[string]any) or array ([]any) found in text.
// Numbers are decoded as json.Number. Any failure wraps domain.ErrNoStructuredData.
func Extract(text string) (any, error) {
	candidate, ok := Candidate(text)
	if !ok {
		return nil, domain.ErrNoStructuredData
	}

	v, err := decode(candidate)
	if err == nil {
		return v, nil
	}

	repaired := Repair(candidate)
	if repaired == candidate {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoStructuredData, err)
	}
	v, rerr := decode(repaired)
	if rerr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoStructuredData, rerr)
	}
	return v, nil
}

// Candidate selects the substring that should hold the structured value.
// The interior of a fenced block wins over the surrounding text; within the
// chosen text the span runs from the first opening brace or bracket to the
// last closing one.
func Candidate(text string) (string, bool) {
	if m := fence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "}]")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

func decode(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after value at offset %d", dec.InputOffset())
	}

	switch v.(type) {
	case map[string]any, []any:
		return v, nil
	default:
		return nil, fmt.Errorf("value is %T, not an object or array", v)
	}
}

// Repair rewrites single-quoted strings as double-quoted ones and maps the
// bare words True, False and None to their JSON literals. Text inside
// double-quoted strings is left untouched.
func Repair(s string) string {
	var out bytes.Buffer
	out.Grow(len(s) + 8)

	const (
		plain = iota
		double
		single
	)
	state := plain

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case double:
			out.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				out.WriteByte(s[i])
			} else if c == '"' {
				state = plain
			}
		case single:
			switch {
			case c == '\\' && i+1 < len(s):
				i++
				if s[i] == '\'' {
					out.WriteByte('\'')
				} else {
					out.WriteByte('\\')
					out.WriteByte(s[i])
				}
			case c == '"':
				out.WriteString(`\"`)
			case c == '\'':
				out.WriteByte('"')
				state = plain
			default:
				out.WriteByte(c)
			}
		default:
			switch {
			case c == '"':
				out.WriteByte(c)
				state = double
			case c == '\'':
				out.WriteByte('"')
				state = single
			case isWordStart(s, i):
				word := readWord(s, i)
				if lit, ok := pythonLiterals[word]; ok {
					out.WriteString(lit)
				} else {
					out.WriteString(word)
				}
				i += len(word) - 1
			default:
				out.WriteByte(c)
			}
		}
	}
	return out.String()
}

var pythonLiterals = map[string]string{
	"True":  "true",
	"False": "false",
	"None":  "null",
}

func isWordByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func isWordStart(s string, i int) bool {
	return isWordByte(s[i]) && (i == 0 || !isWordByte(s[i-1]))
}

func readWord(s string, i int) string {
	j := i
	for j < len(s) && isWordByte(s[j]) {
		j++
	}
	return s[i:j]
}
