package srp

import (
	"math/big"
	"strings"
)

// Integer is a nonnegative big integer that carries its own hex width: the
// number of hex digits its serialized form is always rendered at, regardless
// of how small the mathematical value is. SRP-6a repeatedly concatenates
// values by their padded byte representation; carrying the width on the
// value itself, rather than threading a length parameter through every call
// site, removes an entire class of "which length did you mean here" bugs.
//
// The zero value is not usable; construct with FromHex, FromBytes, FromInt64
// or Random.
type Integer struct {
	v     *big.Int
	width int // hex digits, always even
}

// FromHex parses s as a hexadecimal integer. Both upper- and lower-case hex
// digits are accepted; an optional "0x"/"0X" prefix is stripped. The width
// carried forward is len(s) rounded up to an even number of digits, so a
// value parsed from a wire-format string keeps the width it arrived with.
func FromHex(s string) (*Integer, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		s = "0"
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, illegalParameter("%q is not a valid hexadecimal integer", s)
	}
	w := len(s)
	if w%2 != 0 {
		w++
	}
	return &Integer{v: v, width: w}, nil
}

// FromBytes interprets b as a big-endian nonnegative integer. The carried
// width is 2*len(b) hex digits.
func FromBytes(b []byte) *Integer {
	return &Integer{v: new(big.Int).SetBytes(b), width: 2 * len(b)}
}

// FromInt64 wraps a small nonnegative value, carried at the given hex width.
func FromInt64(n int64, width int) *Integer {
	return &Integer{v: big.NewInt(n), width: evenWidth(width)}
}

// Random draws byteLen uniformly random bytes from r (crypto/rand.Reader if
// r is nil) and returns them as an Integer carried at 2*byteLen hex digits.
func Random(r RandReader, byteLen int) (*Integer, error) {
	b, err := randomBytes(r, byteLen)
	if err != nil {
		return nil, err
	}
	return FromBytes(b), nil
}

func evenWidth(w int) int {
	if w < 0 {
		w = 0
	}
	if w%2 != 0 {
		w++
	}
	return w
}

// Width reports the number of hex digits Hex() renders.
func (x *Integer) Width() int {
	return x.width
}

// Pad returns a copy of x carrying width hex digits instead of its own,
// widening (never truncating the value) as needed. Padding below the
// digit-count of the current value is a no-op on the rendered width: the
// value is never lossily truncated.
func (x *Integer) Pad(width int) *Integer {
	w := evenWidth(width)
	if n := len(x.v.Text(16)); w < n {
		w = evenWidth(n)
	}
	return &Integer{v: x.v, width: w}
}

// Hex renders x as exactly Width() lowercase hex digits, left-padded with
// '0'. This is the canonical wire form for exchanging SRP-6a values.
func (x *Integer) Hex() string {
	s := x.v.Text(16)
	if len(s) < x.width {
		s = strings.Repeat("0", x.width-len(s)) + s
	}
	return s
}

// Bytes renders x as ceil(Width()/2) big-endian bytes.
func (x *Integer) Bytes() []byte {
	n := (x.width + 1) / 2
	b := x.v.Bytes()
	if len(b) >= n {
		return b
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}

// IsZero reports whether the underlying value is exactly zero.
func (x *Integer) IsZero() bool {
	return x.v.Sign() == 0
}

// IsZeroMod reports whether x ≡ 0 (mod m), not merely whether x itself is
// zero. m must be positive. SRP-6a public ephemerals must be rejected when
// they are any multiple of N, not just when the literal value is 0 — a
// client sending A = N (or B = N on the server side) would otherwise pass
// an IsZero check and drive the premaster secret to a predictable value.
func (x *Integer) IsZeroMod(m *Integer) bool {
	return new(big.Int).Mod(x.v, m.v).Sign() == 0
}

// Equal compares values, ignoring carried width.
func (x *Integer) Equal(y *Integer) bool {
	return x.v.Cmp(y.v) == 0
}

// Cmp compares values, ignoring carried width: -1, 0, or 1 as x <, ==, > y.
func (x *Integer) Cmp(y *Integer) int {
	return x.v.Cmp(y.v)
}

func maxWidth(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Add returns x + y, width = max(x.Width(), y.Width()).
func (x *Integer) Add(y *Integer) *Integer {
	return &Integer{v: new(big.Int).Add(x.v, y.v), width: maxWidth(x.width, y.width)}
}

// Sub returns x - y, width = max(x.Width(), y.Width()).
func (x *Integer) Sub(y *Integer) *Integer {
	return &Integer{v: new(big.Int).Sub(x.v, y.v), width: maxWidth(x.width, y.width)}
}

// Mul returns x * y, width = max(x.Width(), y.Width()).
func (x *Integer) Mul(y *Integer) *Integer {
	return &Integer{v: new(big.Int).Mul(x.v, y.v), width: maxWidth(x.width, y.width)}
}

// Mod returns x mod m. m must be positive.
func (x *Integer) Mod(m *Integer) (*Integer, error) {
	if m.v.Sign() <= 0 {
		return nil, illegalParameter("modulus must be positive")
	}
	return &Integer{v: new(big.Int).Mod(x.v, m.v), width: maxWidth(x.width, m.width)}, nil
}

// ModExp returns x^exp mod m, width = m.Width(). m must be positive.
func (x *Integer) ModExp(exp, m *Integer) (*Integer, error) {
	if m.v.Sign() <= 0 {
		return nil, illegalParameter("modulus must be positive")
	}
	return &Integer{v: new(big.Int).Exp(x.v, exp.v, m.v), width: m.width}, nil
}
