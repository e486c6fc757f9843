package gcode

// Parse normalizes and executes one line of G-code against m,
// following spec.md section 4.1's contract: a single zero-terminated
// text line in, a status out. A block-delete line ('/' prefix) is
// silently skipped and reports no error.
func Parse(line string, m Machine) (NormalizedLine, error) {
	nl := Normalize(line)
	if nl.Skip || nl.Block == "" {
		return nl, nil
	}
	v, f, err := ParseWords(nl.Block)
	if err != nil {
		return nl, err
	}
	if err := Execute(v, f, m); err != nil {
		return nl, err
	}
	return nl, nil
}
