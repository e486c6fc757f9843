package status

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
)

// ImportText reads one setting assignment per line in the shape
// `key value...`, using shell-style word splitting so a string
// setting's value can be quoted to include spaces or be left empty.
// Blank lines and lines starting with '#' are ignored. A line naming
// a key this store doesn't define is reported but does not abort the
// remaining import, so a text file can be shared across firmware
// versions with slightly different settings schemas.
func (s *Store) ImportText(r io.Reader) []error {
	var errs []error
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := shlex.Split(line)
		if err != nil {
			errs = append(errs, fmt.Errorf("status: %q: %w", line, err))
			continue
		}
		if len(fields) < 1 {
			continue
		}
		key := fields[0]
		value := ""
		if len(fields) > 1 {
			value = strings.Join(fields[1:], ",")
		}
		e, ok := s.entries[key]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", errUnknownKey, key))
			continue
		}
		if err := e.decode(value); err != nil {
			errs = append(errs, fmt.Errorf("status: %s: %w", key, err))
		}
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// ExportText writes every defined setting as one `key value` line,
// sorted by key, quoting a string value that contains whitespace so
// ImportText's shell-style splitting round-trips it.
func (s *Store) ExportText(w io.Writer) error {
	for _, k := range s.Keys() {
		e := s.entries[k]
		val := e.encode()
		if e.kind == KindString && strings.ContainsAny(val, " \t\"") {
			val = fmt.Sprintf("%q", val)
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", k, val); err != nil {
			return err
		}
	}
	return nil
}
