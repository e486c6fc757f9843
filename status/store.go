package status

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind is the declared type of one stored setting.
type Kind uint8

const (
	KindBool Kind = iota
	KindString
	KindInt
	KindUint
	KindFloat
	KindBoolSeq
	KindStringSeq
	KindIntSeq
	KindUintSeq
	KindFloatSeq
)

// entry is one named setting: its declared type, immutable default,
// current runtime value (both held as the widest representation for
// that kind), a one-line help string, and an optional validator run
// before a new value is accepted.
type entry struct {
	kind     Kind
	help     string
	validate func(any) error

	defBool  bool
	defStr   string
	defInt   int64
	defUint  uint64
	defFloat float64

	valBool  bool
	valStr   string
	valInt   int64
	valUint  uint64
	valFloat float64

	defBoolSeq  []bool
	defStrSeq   []string
	defIntSeq   []int64
	defUintSeq  []uint64
	defFloatSeq []float64

	valBoolSeq  []bool
	valStrSeq   []string
	valIntSeq   []int64
	valUintSeq  []uint64
	valFloatSeq []float64
}

// Store is a key/value set of named typed variables, each with an
// immutable default, a runtime value, a help string and an optional
// validator, persisted with a 16-bit CRC the way
// original_source/src/vars.c checksums its EEPROM image (spec.md
// section 6).
type Store struct {
	entries map[string]*entry
	order   []string
}

// NewStore returns an empty settings store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

func (s *Store) define(key string, e *entry) {
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = e
}

// DefineBool declares a boolean setting.
func (s *Store) DefineBool(key string, def bool, help string, validate func(bool) error) {
	e := &entry{kind: KindBool, help: help, defBool: def, valBool: def}
	if validate != nil {
		e.validate = func(v any) error { return validate(v.(bool)) }
	}
	s.define(key, e)
}

// DefineString declares a string setting.
func (s *Store) DefineString(key string, def string, help string, validate func(string) error) {
	e := &entry{kind: KindString, help: help, defStr: def, valStr: def}
	if validate != nil {
		e.validate = func(v any) error { return validate(v.(string)) }
	}
	s.define(key, e)
}

// DefineInt declares a signed-integer setting.
func (s *Store) DefineInt(key string, def int64, help string, validate func(int64) error) {
	e := &entry{kind: KindInt, help: help, defInt: def, valInt: def}
	if validate != nil {
		e.validate = func(v any) error { return validate(v.(int64)) }
	}
	s.define(key, e)
}

// DefineUint declares an unsigned-integer setting.
func (s *Store) DefineUint(key string, def uint64, help string, validate func(uint64) error) {
	e := &entry{kind: KindUint, help: help, defUint: def, valUint: def}
	if validate != nil {
		e.validate = func(v any) error { return validate(v.(uint64)) }
	}
	s.define(key, e)
}

// DefineFloat declares a floating-point setting.
func (s *Store) DefineFloat(key string, def float64, help string, validate func(float64) error) {
	e := &entry{kind: KindFloat, help: help, defFloat: def, valFloat: def}
	if validate != nil {
		e.validate = func(v any) error { return validate(v.(float64)) }
	}
	s.define(key, e)
}

// DefineFloatSeq declares an ordered sequence of floats, e.g. a
// per-axis array setting.
func (s *Store) DefineFloatSeq(key string, def []float64, help string) {
	cp := append([]float64(nil), def...)
	s.define(key, &entry{kind: KindFloatSeq, help: help, defFloatSeq: cp, valFloatSeq: append([]float64(nil), cp...)})
}

// DefineIntSeq declares an ordered sequence of signed integers.
func (s *Store) DefineIntSeq(key string, def []int64, help string) {
	cp := append([]int64(nil), def...)
	s.define(key, &entry{kind: KindIntSeq, help: help, defIntSeq: cp, valIntSeq: append([]int64(nil), cp...)})
}

func (s *Store) Help(key string) (string, bool) {
	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	return e.help, true
}

func (s *Store) Keys() []string {
	out := append([]string(nil), s.order...)
	sort.Strings(out)
	return out
}

var errUnknownKey = fmt.Errorf("status: unknown setting key")

func (s *Store) set(key string, apply func(*entry) error) error {
	e, ok := s.entries[key]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownKey, key)
	}
	return apply(e)
}

// GetBool returns the current value of a boolean setting.
func (s *Store) GetBool(key string) (bool, bool) {
	e, ok := s.entries[key]
	if !ok {
		return false, false
	}
	return e.valBool, true
}

// SetBool sets a boolean setting, rejecting the write if a validator
// is registered and refuses the value.
func (s *Store) SetBool(key string, v bool) error {
	return s.set(key, func(e *entry) error {
		if e.validate != nil {
			if err := e.validate(v); err != nil {
				return err
			}
		}
		e.valBool = v
		return nil
	})
}

func (s *Store) GetString(key string) (string, bool) {
	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	return e.valStr, true
}

func (s *Store) SetString(key string, v string) error {
	return s.set(key, func(e *entry) error {
		if e.validate != nil {
			if err := e.validate(v); err != nil {
				return err
			}
		}
		e.valStr = v
		return nil
	})
}

func (s *Store) GetInt(key string) (int64, bool) {
	e, ok := s.entries[key]
	if !ok {
		return 0, false
	}
	return e.valInt, true
}

func (s *Store) SetInt(key string, v int64) error {
	return s.set(key, func(e *entry) error {
		if e.validate != nil {
			if err := e.validate(v); err != nil {
				return err
			}
		}
		e.valInt = v
		return nil
	})
}

// GetUint and SetUint give planstate.PersistentStore a home for the
// persisted e-stop cause without either package importing the other.
func (s *Store) GetUint(key string) (uint64, bool) {
	e, ok := s.entries[key]
	if !ok {
		return 0, false
	}
	return e.valUint, true
}

func (s *Store) SetUint(key string, v uint64) {
	_ = s.set(key, func(e *entry) error {
		e.valUint = v
		return nil
	})
}

func (s *Store) GetFloat(key string) (float64, bool) {
	e, ok := s.entries[key]
	if !ok {
		return 0, false
	}
	return e.valFloat, true
}

func (s *Store) SetFloat(key string, v float64) error {
	return s.set(key, func(e *entry) error {
		if e.validate != nil {
			if err := e.validate(v); err != nil {
				return err
			}
		}
		e.valFloat = v
		return nil
	})
}

func (s *Store) GetFloatSeq(key string) ([]float64, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), e.valFloatSeq...), true
}

func (s *Store) SetFloatSeq(key string, v []float64) error {
	return s.set(key, func(e *entry) error {
		e.valFloatSeq = append([]float64(nil), v...)
		return nil
	})
}

// Reset restores every defined setting to its immutable default.
func (s *Store) Reset() {
	for _, e := range s.entries {
		e.valBool = e.defBool
		e.valStr = e.defStr
		e.valInt = e.defInt
		e.valUint = e.defUint
		e.valFloat = e.defFloat
		e.valBoolSeq = append([]bool(nil), e.defBoolSeq...)
		e.valStrSeq = append([]string(nil), e.defStrSeq...)
		e.valIntSeq = append([]int64(nil), e.defIntSeq...)
		e.valUintSeq = append([]uint64(nil), e.defUintSeq...)
		e.valFloatSeq = append([]float64(nil), e.defFloatSeq...)
	}
}

func (e *entry) encode() string {
	switch e.kind {
	case KindBool:
		return strconv.FormatBool(e.valBool)
	case KindString:
		return e.valStr
	case KindInt:
		return strconv.FormatInt(e.valInt, 10)
	case KindUint:
		return strconv.FormatUint(e.valUint, 10)
	case KindFloat:
		return strconv.FormatFloat(e.valFloat, 'g', -1, 64)
	case KindFloatSeq:
		parts := make([]string, len(e.valFloatSeq))
		for i, f := range e.valFloatSeq {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return strings.Join(parts, ",")
	case KindIntSeq:
		parts := make([]string, len(e.valIntSeq))
		for i, n := range e.valIntSeq {
			parts[i] = strconv.FormatInt(n, 10)
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

func (e *entry) decode(s string) error {
	switch e.kind {
	case KindBool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		e.valBool = v
	case KindString:
		e.valStr = s
	case KindInt:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		e.valInt = v
	case KindUint:
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		e.valUint = v
	case KindFloat:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		e.valFloat = v
	case KindFloatSeq:
		fields := splitNonEmpty(s)
		seq := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return err
			}
			seq[i] = v
		}
		e.valFloatSeq = seq
	case KindIntSeq:
		fields := splitNonEmpty(s)
		seq := make([]int64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return err
			}
			seq[i] = v
		}
		e.valIntSeq = seq
	}
	return nil
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// Save serialises every defined setting as "key=value" lines, sorted
// by key for a reproducible byte image, followed by a trailing CRC-16
// line. Load rejects an image whose CRC doesn't match, the same
// contract original_source/src/vars.c enforces over its EEPROM block.
func (s *Store) Save() []byte {
	keys := s.Keys()
	var body strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&body, "%s=%s\n", k, s.entries[k].encode())
	}
	data := []byte(body.String())
	crc := crc16(data)
	return append(data, []byte(fmt.Sprintf("#crc=%04x\n", crc))...)
}

// ErrCRCMismatch is returned by Load when the trailing CRC doesn't
// match the body, the same rejection original_source/src/vars.c
// applies to a corrupted EEPROM image.
var ErrCRCMismatch = fmt.Errorf("status: settings image CRC mismatch")

// Load parses a Save image, verifying its trailing CRC before
// applying any value, and restores the named settings in the running
// store. Keys present in the image but not defined on this store are
// skipped rather than rejected, so a settings image saved by a future
// schema with extra keys still loads.
func (s *Store) Load(data []byte) error {
	idx := strings.LastIndex(string(data), "#crc=")
	if idx < 0 {
		return fmt.Errorf("status: settings image missing CRC trailer")
	}
	body := data[:idx]
	var want uint16
	if _, err := fmt.Sscanf(string(data[idx:]), "#crc=%04x", &want); err != nil {
		return fmt.Errorf("status: malformed CRC trailer: %w", err)
	}
	if got := crc16(body); got != want {
		return ErrCRCMismatch
	}

	for _, line := range strings.Split(string(body), "\n") {
		if line == "" {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		e, ok := s.entries[k]
		if !ok {
			continue
		}
		if err := e.decode(v); err != nil {
			return fmt.Errorf("status: setting %q: %w", k, err)
		}
	}
	return nil
}

// crc16 computes the CRC-16/CCITT-FALSE checksum used to guard the
// settings image, the same polynomial class original_source/src/vars.c
// relies on for its EEPROM block (0x1021, initial value 0xFFFF).
func crc16(data []byte) uint16 {
	var crc uint16 = 0xFFFF
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
