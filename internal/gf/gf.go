// Package gf implements arithmetic over GF(2^8), the finite field underlying
// the Reed-Solomon codec. Tables are built from a chosen primitive polynomial
// and generator rather than hard-coded, so the codec can be re-parameterized
// (see DetectParameters) without touching the arithmetic itself.
package gf

import "fixity/internal/errors"

// FieldCharac is the order of the multiplicative group of GF(2^8): 2^8 - 1.
const FieldCharac = 255

// Tables holds the exponent and logarithm lookup tables for one set of field
// parameters. A zero-value Tables is not usable; construct with NewTables.
//
// Exp is doubled in length (512 rather than 256) so that mul/div can add or
// subtract logs without a modular reduction on every lookup. Log[0] is
// undefined and must never be read; callers special-case zero before
// indexing it.
type Tables struct {
	Exp [512]byte
	Log [256]byte

	Prim      uint16
	Generator byte
	FCR       byte
}

// NewTables builds the exp/log tables for the given primitive polynomial and
// generator. prim is a degree-8 primitive polynomial of GF(2) represented as
// its bit pattern (e.g. 0x11b = x^8+x^4+x^3+x^2+1); generator is a generator
// element of the field's multiplicative group (conventionally 2, 3 or 5).
func NewTables(prim uint16, generator byte, fcr byte) *Tables {
	t := &Tables{Prim: prim, Generator: generator, FCR: fcr}
	x := uint16(1)
	for i := 0; i < FieldCharac; i++ {
		t.Exp[i] = byte(x)
		t.Log[byte(x)] = byte(i)
		x = uint16(gfMulNoTable(byte(x), generator, prim))
	}
	for i := FieldCharac; i < 512; i++ {
		t.Exp[i] = t.Exp[i-FieldCharac]
	}
	return t
}

// gfMulNoTable multiplies two field elements the slow way (carry-less
// multiply followed by reduction modulo prim), used only while the tables
// themselves are being built.
func gfMulNoTable(a byte, b byte, prim uint16) byte {
	var r uint16
	x := uint16(a)
	y := uint16(b)
	for y > 0 {
		if y&1 != 0 {
			r ^= x
		}
		y >>= 1
		x <<= 1
		if x&0x100 != 0 {
			x ^= prim
		}
	}
	return byte(r)
}

// Standard is the field configuration used everywhere in the sidecar engine:
// fcr=1, prim=0x11b, generator=3. Construct codec-local tables instead of
// mutating this one when non-default parameters are requested (see spec
// "Shared resources": a process-wide table set must never be mutated
// mid-operation by a codec using different parameters).
var Standard = NewTables(0x11b, 3, 1)

// Add returns a XOR b, which is both addition and subtraction in GF(2^8).
func (t *Tables) Add(a, b byte) byte {
	return a ^ b
}

// Sub is an alias for Add: negation is the identity over GF(2).
func (t *Tables) Sub(a, b byte) byte {
	return a ^ b
}

// Mul returns a * b in the field, 0 if either operand is 0.
func (t *Tables) Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return t.Exp[int(t.Log[a])+int(t.Log[b])]
}

// Div returns a / b. Returns errors.ErrDivByZero when b is 0.
func (t *Tables) Div(a, b byte) (byte, error) {
	if b == 0 {
		return 0, errors.ErrDivByZero
	}
	if a == 0 {
		return 0, nil
	}
	diff := int(t.Log[a]) - int(t.Log[b])
	if diff < 0 {
		diff += FieldCharac
	}
	return t.Exp[diff], nil
}

// Pow returns a raised to the given power within the field.
func (t *Tables) Pow(a byte, power int) byte {
	if a == 0 {
		if power == 0 {
			return 1
		}
		return 0
	}
	e := (int(t.Log[a]) * power) % FieldCharac
	if e < 0 {
		e += FieldCharac
	}
	return t.Exp[e]
}

// Inverse returns the multiplicative inverse of a. a must be non-zero.
func (t *Tables) Inverse(a byte) byte {
	return t.Exp[FieldCharac-int(t.Log[a])]
}
