// Package poly implements dense polynomials over GF(2^8) for use by the
// Reed-Solomon codec. Coefficient 0 holds the highest-degree term, matching
// the convention of the reference implementation this codec is compatible
// with. A Poly is a value type; operations return new polynomials rather
// than mutating receivers, except where noted.
package poly

import "fixity/internal/gf"

// Poly is a polynomial over GF(2^8), coefficient 0 = highest degree term.
type Poly []byte

// New constructs a Poly from coefficients, trimming leading zero
// coefficients so that the degree matches len(p)-1 whenever possible. Use
// NewNoTrim when the length itself is load-bearing (syndromes, for
// instance, must keep a fixed length even when some leading terms are
// zero).
func New(coeffs []byte) Poly {
	return trim(coeffs)
}

// NewNoTrim constructs a Poly without dropping leading zero coefficients.
func NewNoTrim(coeffs []byte) Poly {
	p := make(Poly, len(coeffs))
	copy(p, coeffs)
	return p
}

func trim(coeffs []byte) Poly {
	i := 0
	for i < len(coeffs)-1 && coeffs[i] == 0 {
		i++
	}
	p := make(Poly, len(coeffs)-i)
	copy(p, coeffs[i:])
	return p
}

// Degree returns the polynomial's degree (len(p)-1), or -1 for the zero
// polynomial represented as an empty slice.
func (p Poly) Degree() int {
	return len(p) - 1
}

// Equal reports whether p and q represent the same polynomial, ignoring
// leading zero coefficients.
func (p Poly) Equal(q Poly) bool {
	pt, qt := trim(p), trim(q)
	// trim keeps one coefficient, so a zero polynomial trims to {0}; treat
	// that the same as the empty representation.
	if len(pt) == 1 && pt[0] == 0 {
		pt = pt[:0]
	}
	if len(qt) == 1 && qt[0] == 0 {
		qt = qt[:0]
	}
	if len(pt) != len(qt) {
		return false
	}
	for i := range pt {
		if pt[i] != qt[i] {
			return false
		}
	}
	return true
}

// Add returns p + q (equivalently p - q over GF(2)), length-aligning by
// right-justifying the shorter operand.
func Add(t *gf.Tables, p, q Poly) Poly {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	r := make(Poly, n)
	for i := 0; i < len(p); i++ {
		r[i+n-len(p)] = p[i]
	}
	for i := 0; i < len(q); i++ {
		r[i+n-len(q)] = t.Add(r[i+n-len(q)], q[i])
	}
	return r
}

// Scale returns p with every coefficient multiplied by x.
func Scale(t *gf.Tables, p Poly, x byte) Poly {
	r := make(Poly, len(p))
	for i, c := range p {
		r[i] = t.Mul(c, x)
	}
	return r
}

// Mul returns the convolution product of p and q, skipping zero
// coefficients of q to avoid useless multiplications.
func Mul(t *gf.Tables, p, q Poly) Poly {
	if len(p) == 0 || len(q) == 0 {
		return Poly{}
	}
	r := make(Poly, len(p)+len(q)-1)
	for j, qc := range q {
		if qc == 0 {
			continue
		}
		for i, pc := range p {
			if pc == 0 {
				continue
			}
			r[i+j] = t.Add(r[i+j], t.Mul(pc, qc))
		}
	}
	return r
}

// MulAt returns only the k-th coefficient (0-indexed from the high-degree
// end, same convention as the rest of this package) of the product p*q,
// without materializing the full product. Used by the fast decode path's
// discrepancy computation.
func MulAt(t *gf.Tables, p, q Poly, k int) byte {
	var acc byte
	for j := 0; j < len(q); j++ {
		i := k - j
		if i < 0 || i >= len(p) {
			continue
		}
		acc = t.Add(acc, t.Mul(p[i], q[j]))
	}
	return acc
}

// Eval evaluates p(x) via Horner's method.
func (p Poly) Eval(t *gf.Tables, x byte) byte {
	if len(p) == 0 {
		return 0
	}
	y := p[0]
	for i := 1; i < len(p); i++ {
		y = t.Add(t.Mul(y, x), p[i])
	}
	return y
}

// Derivative returns the formal derivative of p over GF(2), which keeps
// only the odd-indexed-from-the-end (even-degree-term) coefficients: in
// characteristic 2, d/dx(x^n) is x^(n-1) when n is odd and 0 when n is
// even.
func (p Poly) Derivative() Poly {
	n := len(p)
	if n == 0 {
		return Poly{}
	}
	// p[i] corresponds to degree n-1-i. Keep terms whose degree is odd,
	// i.e. where (n-1-i) is odd, equivalently i has the same parity as n.
	start := n % 2
	var out Poly
	for i := start; i < n; i += 2 {
		out = append(out, p[i])
	}
	return out
}

// DivMod performs long division of p by d, returning (quotient,
// remainder). d must be non-zero.
func DivMod(t *gf.Tables, p, d Poly) (quotient, remainder Poly) {
	work := make(Poly, len(p))
	copy(work, p)
	if len(work) < len(d) {
		return Poly{}, trim(work)
	}
	qlen := len(work) - len(d) + 1
	q := make(Poly, qlen)
	lead := d[0]
	for i := 0; i <= len(work)-len(d); i++ {
		coef := work[i]
		if coef == 0 {
			continue
		}
		scaled, _ := t.Div(coef, lead)
		q[i] = scaled
		for j := 0; j < len(d); j++ {
			work[i+j] = t.Add(work[i+j], t.Mul(d[j], scaled))
		}
	}
	return trim(q), trim(work[len(work)-len(d)+1:])
}

// SyntheticDivMod performs synthetic (Horner-style) division of dividend by
// divisor, appending nsym zero coefficients to the dividend first and
// returning the (quotient, remainder) split at that boundary. This is the
// standard "compute the remainder of m(x)*x^(n-k) mod g(x)" operation used
// by systematic RS encoding: only the remainder is meaningful there, but
// both halves are returned for generality. divisor need not be monic: each
// step normalizes the coefficient by divisor's leading term.
func SyntheticDivMod(t *gf.Tables, dividend, divisor Poly, nsym int) (quotient, remainder Poly) {
	msgOut := make(Poly, len(dividend)+nsym)
	copy(msgOut, dividend)
	lead := divisor[0]
	for i := 0; i < len(dividend); i++ {
		coef := msgOut[i]
		if coef == 0 {
			continue
		}
		if lead != 1 {
			coef, _ = t.Div(coef, lead)
		}
		for j := 0; j < len(divisor); j++ {
			if divisor[j] == 0 {
				continue
			}
			msgOut[i+j] = t.Add(msgOut[i+j], t.Mul(divisor[j], coef))
		}
	}
	return msgOut[:len(dividend)], msgOut[len(dividend):]
}

// SyntheticDivModMonic is SyntheticDivMod specialized for a monic divisor
// (leading coefficient 1): it skips the per-step normalization division
// entirely, which is safe because every Reed-Solomon generator polynomial
// used by this codec is monic by construction (see rs.generatorPoly).
func SyntheticDivModMonic(t *gf.Tables, dividend, divisor Poly, nsym int) (quotient, remainder Poly) {
	msgOut := make(Poly, len(dividend)+nsym)
	copy(msgOut, dividend)
	for i := 0; i < len(dividend); i++ {
		coef := msgOut[i]
		if coef == 0 {
			continue
		}
		for j := 0; j < len(divisor); j++ {
			if divisor[j] == 0 {
				continue
			}
			msgOut[i+j] = t.Add(msgOut[i+j], t.Mul(divisor[j], coef))
		}
	}
	return msgOut[:len(dividend)], msgOut[len(dividend):]
}
