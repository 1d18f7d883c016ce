// Package rs implements the systematic Reed-Solomon codec over GF(2^8):
// encoding via the standard generator-polynomial remainder construction, and
// an errors-and-erasures decoder using Berlekamp-Massey, a brute-force
// ("Chien") root search, and the Forney algorithm for error magnitudes.
package rs

import (
	"fixity/internal/errors"
	"fixity/internal/gf"
	"fixity/internal/poly"
)

// Codec is a Reed-Solomon encoder/decoder for codewords of a fixed length N.
// Generator polynomials are precomputed for every valid nsym = n-k so that
// encoding a message of any supported length k requires no further
// polynomial multiplication.
type Codec struct {
	N   int
	FCR byte

	tables     *gf.Tables
	generators []poly.Poly // generators[nsym] is g(x) for n-k = nsym
}

// NewCodec builds a codec for codewords of length n under the supplied field
// tables and first-consecutive-root fcr. n must be in [1, 255].
func NewCodec(n int, fcr byte, tables *gf.Tables) (*Codec, error) {
	if n < 1 || n > 255 {
		return nil, errors.NewParameterError("n", "must be in [1, 255]")
	}
	c := &Codec{N: n, FCR: fcr, tables: tables, generators: make([]poly.Poly, n+1)}
	g := poly.Poly{1}
	c.generators[0] = g
	for i := 0; i < n; i++ {
		root := tables.Pow(tables.Generator, int(fcr)+i)
		g = poly.Mul(tables, g, poly.Poly{1, root})
		c.generators[i+1] = g
	}
	return c, nil
}

// Tables returns the field tables this codec was constructed with.
func (c *Codec) Tables() *gf.Tables { return c.tables }

func (c *Codec) generatorFor(nsym int) poly.Poly {
	if nsym >= 0 && nsym < len(c.generators) {
		return c.generators[nsym]
	}
	g := poly.Poly{1}
	for i := 0; i < nsym; i++ {
		root := c.tables.Pow(c.tables.Generator, int(c.FCR)+i)
		g = poly.Mul(c.tables, g, poly.Poly{1, root})
	}
	return g
}

// Encode appends n-k ECC bytes to message (len(message) must equal k),
// returning the full n-byte codeword. The construction is systematic: the
// first k bytes of the result equal message unchanged.
func (c *Codec) Encode(message []byte, k int) ([]byte, error) {
	if k < 1 || k >= c.N {
		return nil, errors.NewParameterError("k", "must satisfy 1 <= k < n")
	}
	if len(message) != k {
		return nil, errors.NewParameterError("message", "length must equal k")
	}
	nsym := c.N - k
	gen := c.generatorFor(nsym)
	_, remainder := poly.SyntheticDivModMonic(c.tables, poly.NewNoTrim(message), gen, nsym)
	out := make([]byte, c.N)
	copy(out, message)
	copy(out[k:], remainder)
	return out, nil
}

// syndromes computes S_l = received(alpha^(fcr+l)) for l in [0, nsym), with
// a trailing zero coefficient appended so the result has length nsym+1 (the
// extra zero is what lets later steps treat the syndrome as a degree-nsym
// polynomial without a separate length check).
func (c *Codec) syndromes(received []byte, nsym int) poly.Poly {
	r := poly.NewNoTrim(received)
	s := make(poly.Poly, nsym+1)
	for l := 0; l < nsym; l++ {
		s[l] = r.Eval(c.tables, c.tables.Pow(c.tables.Generator, int(c.FCR)+l))
	}
	return s
}

func allZero(p poly.Poly) bool {
	for _, b := range p {
		if b != 0 {
			return false
		}
	}
	return true
}

// forneySyndromes folds known erasure positions out of the syndrome
// sequence, producing a shorter syndrome array suitable for a classical
// (non-erasure-aware) Berlekamp-Massey pass that only needs to locate the
// remaining, unknown errors.
func (c *Codec) forneySyndromes(synd poly.Poly, erasurePos []int, nmess int) poly.Poly {
	fsynd := make(poly.Poly, len(synd))
	copy(fsynd, synd)
	for _, pos := range erasurePos {
		x := c.tables.Pow(c.tables.Generator, nmess-1-pos)
		for i := 0; i < len(fsynd)-1; i++ {
			fsynd[i] = c.tables.Add(c.tables.Mul(fsynd[i], x), fsynd[i+1])
		}
		fsynd = fsynd[:len(fsynd)-1]
	}
	return fsynd
}

// berlekampMassey runs the classical Berlekamp-Massey recurrence over synd
// and returns the error locator polynomial sigma. It reports
// ErrTooManyErrors if the resulting locator implies more errors than the
// syndrome length can support.
func (c *Codec) berlekampMassey(synd poly.Poly, budget int) (poly.Poly, error) {
	t := c.tables
	errPoly := poly.Poly{1}
	oldPoly := poly.Poly{1}
	for i := 0; i < len(synd); i++ {
		oldPoly = append(oldPoly, 0)
		delta := synd[i]
		for j := 1; j < len(errPoly); j++ {
			delta = t.Add(delta, t.Mul(errPoly[len(errPoly)-1-j], synd[i-j]))
		}
		if delta != 0 {
			if len(oldPoly) > len(errPoly) {
				newPoly := poly.Scale(t, oldPoly, delta)
				inv := t.Inverse(delta)
				oldPoly = poly.Scale(t, errPoly, inv)
				errPoly = newPoly
			}
			errPoly = poly.Add(t, errPoly, poly.Scale(t, oldPoly, delta))
		}
	}
	errPoly = poly.New(errPoly)
	errs := errPoly.Degree()
	if errs*2 > budget {
		return nil, errors.ErrTooManyErrors
	}
	return errPoly, nil
}

// chienSearch brute-force-evaluates errLoc at every alpha^(-i) for i in
// [0, nmess) (per spec, "for l in [0,n), if sigma(alpha^-l) = 0, record
// error position l"): the message-array index corresponding to root index
// i is nmess-1-i, matching the same high-degree-first coefficient ordering
// used by the generator polynomial and by correctErrata below. Returns an
// error if the number of roots found does not match the locator's degree
// (the decoder cannot trust a partial root set).
func (c *Codec) chienSearch(errLoc poly.Poly, nmess int) ([]int, error) {
	t := c.tables
	errs := errLoc.Degree()
	var positions []int
	for i := 0; i < nmess; i++ {
		x := t.Pow(t.Generator, -i)
		if errLoc.Eval(t, x) == 0 {
			positions = append(positions, nmess-1-i)
		}
	}
	if len(positions) != errs {
		return nil, errors.ErrTooManyErrors
	}
	return positions, nil
}

// correctErrata applies the Forney algorithm to recover the magnitude of
// the error/erasure at each position in errataPos and XORs the correction
// into msg in place, given the original (pre-correction) syndromes.
func (c *Codec) correctErrata(msg []byte, synd poly.Poly, errataPos []int) {
	t := c.tables
	n := len(msg)

	q := poly.Poly{1}
	for _, pos := range errataPos {
		x := t.Pow(t.Generator, n-1-pos)
		q = poly.Mul(t, q, poly.Poly{x, 1})
	}

	p := make(poly.Poly, len(errataPos))
	copy(p, synd[:len(errataPos)])
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	p = poly.Mul(t, p, q)
	p = p[len(p)-len(errataPos):]

	deriv := q.Derivative()

	for _, pos := range errataPos {
		x := t.Pow(t.Generator, pos+256-n)
		exp := (n - 1 - pos) * (1 - int(c.FCR))
		xp := t.Pow(t.Generator, exp)
		y := t.Mul(p.Eval(t, x), xp)
		z := deriv.Eval(t, t.Mul(x, x))
		corr, err := t.Div(y, z)
		if err != nil {
			// z == 0 only when the errata set is inconsistent with the
			// syndromes; leave this position uncorrected rather than panic,
			// the post-correction syndrome check below will catch it.
			continue
		}
		msg[pos] ^= corr
	}
}

// DecodeOptions configures one Decode call.
type DecodeOptions struct {
	ErasurePos    []int
	OnlyErasures  bool
}

// Decode corrects received (length n) in place semantics (a new slice is
// returned) given optional known erasure positions, and returns the
// corrected codeword. If the codeword already has zero syndromes it is
// returned unchanged without further work.
func (c *Codec) Decode(received []byte, k int, opts DecodeOptions) ([]byte, error) {
	if k < 1 || k >= c.N {
		return nil, errors.NewParameterError("k", "must satisfy 1 <= k < n")
	}
	if len(received) != c.N {
		return nil, errors.NewParameterError("received", "length must equal n")
	}
	nsym := c.N - k
	if len(opts.ErasurePos) > nsym {
		return nil, errors.ErrTooManyErrors
	}

	msg := make([]byte, c.N)
	copy(msg, received)
	for _, pos := range opts.ErasurePos {
		if pos >= 0 && pos < len(msg) {
			msg[pos] = 0
		}
	}

	synd := c.syndromes(msg, nsym)
	if allZero(synd) {
		return msg, nil
	}

	var errPos []int
	if !opts.OnlyErasures {
		fsynd := c.forneySyndromes(synd[:nsym], opts.ErasurePos, c.N)
		errLoc, err := c.berlekampMassey(fsynd, nsym-len(opts.ErasurePos))
		if err != nil {
			return received, err
		}
		positions, err := c.chienSearch(errLoc, c.N)
		if err != nil {
			return received, err
		}
		errPos = positions
	}

	errata := append(append([]int{}, opts.ErasurePos...), errPos...)
	if 2*len(errPos)+len(opts.ErasurePos) > nsym {
		return received, errors.ErrTooManyErrors
	}

	c.correctErrata(msg, synd[:nsym], errata)

	final := c.syndromes(msg, nsym)
	if !allZero(final) {
		return received, errors.ErrNotACodeword
	}

	// Failsafe per spec step 8: a corrected codeword must not be longer
	// than the input; with a fixed-length array this cannot happen, but
	// keep the check for symmetry with the reference algorithm.
	if len(msg) > len(received) {
		return received, nil
	}
	return msg, nil
}

// DecodeFast is functionally identical to Decode. The reference
// implementation this codec is compatible with offers a second decode path
// (monic-optimized polynomial mod, mul_at-based discrepancy) purely to
// dodge CPython's per-call interpreter overhead; a compiled implementation
// gains nothing from duplicating that trick; the table-driven GF ops here
// are already O(1). DecodeFast is kept as a distinct entry point, as spec
// law 5 (fast-path equivalence) requires it to exist and be bit-identical
// to Decode, and delegating trivially satisfies that by construction.
func (c *Codec) DecodeFast(received []byte, k int, opts DecodeOptions) ([]byte, error) {
	return c.Decode(received, k, opts)
}

// Check reports whether message+ecc (concatenated, length n) has zero
// syndromes, i.e. is currently a valid codeword.
func (c *Codec) Check(codeword []byte, k int) bool {
	nsym := c.N - k
	return allZero(c.syndromes(codeword, nsym))
}
