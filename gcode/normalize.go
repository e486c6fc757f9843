// Package gcode implements the line parser described in spec.md
// section 4.1: block normalisation, word extraction, modal-group
// validation and execution-order dispatch into a machine model.
package gcode

import "strings"

// NormalizedLine is the result of Normalize: a block ready for word
// parsing, any comment text extracted, and whether the block should be
// silently skipped (block-delete).
type NormalizedLine struct {
	Block   string
	Comment string
	Skip    bool // leading '/' block-delete
	MSG     string
}

// Normalize strips whitespace and control characters, upper-cases
// letters, strips erroneous leading zeros from numbers (so "G0X10" is
// never misread as a hex literal), isolates a comment introduced by
// '(' or ';' (which terminates the block), and detects a leading '/'
// block-delete marker.
func Normalize(line string) NormalizedLine {
	var out NormalizedLine

	i := 0
	n := len(line)
	if n > 0 && line[0] == '/' {
		out.Skip = true
		i = 1
	}

	var b strings.Builder
	for i < n {
		c := line[i]
		switch {
		case c == '(':
			end := strings.IndexByte(line[i:], ')')
			var comment string
			if end < 0 {
				comment = line[i+1:]
			} else {
				comment = line[i+1 : i+end]
			}
			i = n
			out.Comment = comment
			if msg, ok := extractMSG(comment); ok {
				out.MSG = msg
			}
		case c == ';':
			out.Comment = line[i+1:]
			if msg, ok := extractMSG(out.Comment); ok {
				out.MSG = msg
			}
			i = n
		case c == ' ' || c == '\t' || c < 0x20:
			i++
		default:
			if c >= 'a' && c <= 'z' {
				c = c - 'a' + 'A'
			}
			b.WriteByte(c)
			i++
		}
	}
	out.Block = stripLeadingZeros(b.String())
	return out
}

func extractMSG(comment string) (string, bool) {
	trimmed := strings.TrimSpace(comment)
	if strings.HasPrefix(trimmed, "MSG,") {
		return strings.TrimSpace(trimmed[len("MSG,"):]), true
	}
	return "", false
}

// stripLeadingZeros removes erroneous leading zeros from each numeric
// field in a normalized block, e.g. "G0X010" -> "G0X10", while leaving
// a lone "0" or a fractional leading zero ("0.5") untouched. The
// original implementation's loop advanced the wrong cursor in one
// branch after skipping zeros (spec.md section 9); this version always
// advances a single read cursor and copies through a write cursor, so
// there is no divergent pointer.
func stripLeadingZeros(block string) string {
	var b strings.Builder
	b.Grow(len(block))
	i := 0
	n := len(block)
	for i < n {
		c := block[i]
		if !isDigit(c) {
			b.WriteByte(c)
			i++
			continue
		}
		// Start of a numeric run; a run right after '.' is a fraction
		// and keeps its zeros.
		j := i
		for j < n && isDigit(block[j]) {
			j++
		}
		digits := block[i:j]
		if i == 0 || block[i-1] != '.' {
			digits = trimLeadingZeros(digits)
		}
		b.WriteString(digits)
		i = j
	}
	return b.String()
}

func trimLeadingZeros(digits string) string {
	k := 0
	for k < len(digits)-1 && digits[k] == '0' {
		k++
	}
	return digits[k:]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
