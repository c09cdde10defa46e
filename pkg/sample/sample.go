package sample

import (
	"fmt"
)

// FormatError reports a sample token that does not parse as a
// fixed-width two's-complement value.
type FormatError struct {
	Token  string
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("bad sample %q on line %d: %s", e.Token, e.Line, e.Reason)
	}
	return fmt.Sprintf("bad sample %q: %s", e.Token, e.Reason)
}

// Codec converts samples of a fixed bit width to and from their
// zero-padded hex and binary text forms.
type Codec struct {
	width  int
	hexLen int
	mask   uint64
}

func New(width int) (*Codec, error) {
	if width < 1 || width > 64 {
		return nil, fmt.Errorf("sample width must be 1-64 bits, got %d", width)
	}
	mask := ^uint64(0)
	if width < 64 {
		mask = 1<<width - 1
	}
	return &Codec{
		width:  width,
		hexLen: (width + 3) / 4,
		mask:   mask,
	}, nil
}

func (c *Codec) Width() int {
	return c.width
}

// Max returns the largest representable sample value.
func (c *Codec) Max() int64 {
	return int64(c.mask >> 1)
}

// Min returns the smallest representable sample value.
func (c *Codec) Min() int64 {
	return -c.Max() - 1
}

// DecodeHex parses a fixed-length hex token into a two's-complement
// sample. The token must be exactly as long as the width requires, with
// any unused bits in the top nibble left zero.
func (c *Codec) DecodeHex(token string) (int64, error) {
	if len(token) != c.hexLen {
		return 0, &FormatError{Token: token, Reason: fmt.Sprintf("want %d hex digits for %d bits", c.hexLen, c.width)}
	}
	var u uint64
	for _, r := range token {
		d, ok := hexDigit(r)
		if !ok {
			return 0, &FormatError{Token: token, Reason: fmt.Sprintf("invalid hex digit %q", r)}
		}
		u = u<<4 | uint64(d)
	}
	return c.fromBits(token, u)
}

// DecodeBin parses a width-length binary token into a two's-complement
// sample.
func (c *Codec) DecodeBin(token string) (int64, error) {
	if len(token) != c.width {
		return 0, &FormatError{Token: token, Reason: fmt.Sprintf("want %d binary digits for %d bits", c.width, c.width)}
	}
	var u uint64
	for _, r := range token {
		switch r {
		case '0':
			u <<= 1
		case '1':
			u = u<<1 | 1
		default:
			return 0, &FormatError{Token: token, Reason: fmt.Sprintf("invalid binary digit %q", r)}
		}
	}
	return c.fromBits(token, u)
}

// EncodeHex is the inverse of DecodeHex, zero-padded to the full token
// length.
func (c *Codec) EncodeHex(v int64) string {
	return fmt.Sprintf("%0*x", c.hexLen, uint64(v)&c.mask)
}

// EncodeBin is the inverse of DecodeBin, zero-padded to the full width.
func (c *Codec) EncodeBin(v int64) string {
	return fmt.Sprintf("%0*b", c.width, uint64(v)&c.mask)
}

// fromBits sign-extends the raw bit pattern at the width's sign bit.
// Widths that don't fill the last hex digit leave spare bits in the
// token; those must be zero, matching what EncodeHex emits.
func (c *Codec) fromBits(token string, u uint64) (int64, error) {
	if spare := u &^ c.mask; spare != 0 {
		return 0, &FormatError{Token: token, Reason: fmt.Sprintf("bits above bit %d must be zero", c.width-1)}
	}
	if c.width < 64 && u&(1<<(c.width-1)) != 0 {
		u |= ^c.mask
	}
	return int64(u), nil
}

func hexDigit(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0'), true
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return byte(r-'A') + 10, true
	}
	return 0, false
}
