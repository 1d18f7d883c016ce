package gf

// Params is one fully-specified field/codec parameter set, as produced by
// DetectParameters.
type Params struct {
	Generator byte
	Prim      uint16
	FCR       byte
}

// FindPrimitivePolys returns every degree-c_exp primitive polynomial (as a
// bit pattern with the implicit leading x^c_exp term omitted) for which
// generator produces the full multiplicative group of GF(2^c_exp) without
// repetition. c_exp is fixed at 8 throughout this engine; the parameter is
// kept for clarity at call sites, not for generality.
func FindPrimitivePolys(generator byte, cExp int) []uint16 {
	fieldCharac := (1 << cExp) - 1
	var out []uint16
	// Candidate polynomials have the implicit high bit set (degree cExp)
	// and must have their constant term set (else x divides the
	// polynomial, which can never be primitive). Scanning only odd
	// candidates in [2^cExp+1, 2^(cExp+1)) enumerates exactly these.
	for prim := (1 << cExp) + 1; prim < (1 << (cExp + 1)); prim += 2 {
		if isPrimitive(uint16(prim), generator, cExp, fieldCharac) {
			out = append(out, uint16(prim))
		}
	}
	return out
}

func isPrimitive(prim uint16, generator byte, cExp int, fieldCharac int) bool {
	seen := make([]bool, fieldCharac+1)
	x := uint16(1)
	for i := 0; i < fieldCharac; i++ {
		if x == 0 || x > uint16(fieldCharac) || seen[x] {
			return false
		}
		seen[x] = true
		x = uint16(gfMulNoTable(byte(x), generator, prim))
	}
	return x == 1 // the cycle must close back to 1 after exactly fieldCharac steps
}

// hammingDistance counts differing bytes between a and b up to the shorter
// length, plus the length difference (treating missing trailing bytes as
// mismatches), matching distance.hamming's behavior on unequal-length
// sequences in the reference implementation.
func hammingDistance(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	d := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			d++
		}
	}
	d += len(a) - n
	d += len(b) - n
	return d
}

// encodeSample runs the systematic RS encoder used only for parameter
// detection: building a throwaway Tables/generator-poly pair so the search
// never disturbs a shared Standard or codec-owned table set.
func encodeSample(message []byte, nsym int, p Params) []byte {
	t := NewTables(p.Prim, p.Generator, p.FCR)
	g := []byte{1}
	for i := 0; i < nsym; i++ {
		root := t.Pow(p.Generator, int(p.FCR)+i)
		g = polyMulForDetect(t, g, []byte{1, root})
	}
	out := make([]byte, len(message)+nsym)
	copy(out, message)
	for i := 0; i < len(message); i++ {
		coef := out[i]
		if coef == 0 {
			continue
		}
		for j := 0; j < len(g); j++ {
			if g[j] == 0 {
				continue
			}
			out[i+j] = t.Add(out[i+j], t.Mul(g[j], coef))
		}
	}
	return out
}

// polyMulForDetect is a tiny local convolution helper so this file does not
// need to import the poly package (which would create an import cycle,
// since poly depends on gf).
func polyMulForDetect(t *Tables, p, q []byte) []byte {
	r := make([]byte, len(p)+len(q)-1)
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

// DetectParameters implements the bounded exhaustive search of spec §4.1:
// given a plaintext sample and its presumed codeword, try every
// (generator, primitive polynomial, fcr) combination and return the one
// whose re-encoding of sample is closest (Hamming distance) to codeword.
// Used to recover forgotten field parameters from a sidecar's own header
// comment, or from any known-good (message, codeword) pair.
func DetectParameters(sample, codeword []byte, generators []byte) (best Params, distance int) {
	if len(generators) == 0 {
		generators = []byte{2, 3, 5}
	}
	nsym := len(codeword) - len(sample)
	distance = -1
	for _, g := range generators {
		for _, prim := range FindPrimitivePolys(g, 8) {
			for fcr := 0; fcr < FieldCharac; fcr++ {
				p := Params{Generator: g, Prim: prim, FCR: byte(fcr)}
				candidate := encodeSample(sample, nsym, p)
				d := hammingDistance(candidate, codeword)
				if distance == -1 || d < distance {
					distance = d
					best = p
				}
				if d == 0 {
					return best, 0
				}
			}
		}
	}
	return best, distance
}
