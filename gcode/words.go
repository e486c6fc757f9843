package gcode

// Letters recognised in a G-code word, per spec.md section 4.1.
const recognizedLetters = "GMTFSPXYZABCIJKRNL"

// Values holds the parsed-values record: the numeric payload of every
// word in a block (rebuilt per block).
type Values struct {
	G, M       []float64 // all G/M codes present, in block order
	T, F, S, P float64
	X, Y, Z    float64
	A, B, C    float64
	I, J, K    float64
	R, N, L    float64
}

// Flags holds the parsed-flags record: which letters were present.
type Flags struct {
	G, M                   bool
	T, F, S, P             bool
	X, Y, Z, A, B, C       bool
	I, J, K                bool
	R, N, L                bool
}

// ParseWords scans a normalized block (comment-free, upper-case,
// leading-zero-stripped) into Values/Flags. Words are <letter><number>
// pairs; G and M accumulate into a slice since a block may carry
// several (e.g. "G90 G1").
func ParseWords(block string) (Values, Flags, error) {
	var v Values
	var f Flags
	i := 0
	n := len(block)
	for i < n {
		letter := block[i]
		if !isLetter(letter) {
			return v, f, &ParseError{Code: ErrMalformedCommand, Msg: "expected a letter, got '" + string(letter) + "'"}
		}
		if !containsByte(recognizedLetters, letter) {
			return v, f, &ParseError{Code: ErrUnknownCode, Msg: "unrecognized word letter '" + string(letter) + "'"}
		}
		i++
		start := i
		for i < n && (isDigit(block[i]) || block[i] == '.' || block[i] == '-') {
			i++
		}
		if i == start {
			return v, f, &ParseError{Code: ErrBadNumberFormat, Msg: "missing number after '" + string(letter) + "'"}
		}
		num, err := parseFloat(block[start:i])
		if err != nil {
			return v, f, &ParseError{Code: ErrBadNumberFormat, Msg: "bad number format after '" + string(letter) + "'"}
		}
		switch letter {
		case 'G':
			v.G = append(v.G, num)
			f.G = true
		case 'M':
			v.M = append(v.M, num)
			f.M = true
		case 'T':
			v.T, f.T = num, true
		case 'F':
			v.F, f.F = num, true
		case 'S':
			v.S, f.S = num, true
		case 'P':
			v.P, f.P = num, true
		case 'X':
			v.X, f.X = num, true
		case 'Y':
			v.Y, f.Y = num, true
		case 'Z':
			v.Z, f.Z = num, true
		case 'A':
			v.A, f.A = num, true
		case 'B':
			v.B, f.B = num, true
		case 'C':
			v.C, f.C = num, true
		case 'I':
			v.I, f.I = num, true
		case 'J':
			v.J, f.J = num, true
		case 'K':
			v.K, f.K = num, true
		case 'R':
			v.R, f.R = num, true
		case 'N':
			v.N, f.N = num, true
		case 'L':
			v.L, f.L = num, true
		}
	}
	return v, f, nil
}

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }

func containsByte(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}

func parseFloat(s string) (float64, error) {
	neg := false
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	var intPart, fracPart float64
	fracDiv := 1.0
	sawDigit := false
	sawDot := false
	for ; i < len(s); i++ {
		c := s[i]
		if c == '.' {
			if sawDot {
				return 0, &ParseError{Code: ErrBadNumberFormat, Msg: "multiple decimal points"}
			}
			sawDot = true
			continue
		}
		if !isDigit(c) {
			return 0, &ParseError{Code: ErrBadNumberFormat, Msg: "invalid digit"}
		}
		sawDigit = true
		d := float64(c - '0')
		if sawDot {
			fracDiv *= 10
			fracPart += d / fracDiv
		} else {
			intPart = intPart*10 + d
		}
	}
	if !sawDigit {
		return 0, &ParseError{Code: ErrBadNumberFormat, Msg: "no digits in number"}
	}
	v := intPart + fracPart
	if neg {
		v = -v
	}
	return v, nil
}
