// Package ecc implements the ECC manager façade described in spec §4.4: a
// stateless wrapper over the raw rs.Codec that adds shortening (left-pad
// short messages to k) and puncturing (right-pad a truncated ECC, treating
// the missing bytes as erasures) so the sidecar engine can work with
// variable-length message blocks and tolerate a partially-lost ECC stream.
package ecc

import (
	"fmt"

	"fixity/internal/errors"
	"fixity/internal/rs"
)

// DecodeOptions mirrors rs.DecodeOptions but in terms of the unpadded
// message+ecc concatenation the caller actually has on hand; erasure
// positions are interpreted before padding is applied.
type DecodeOptions struct {
	EnableErasures bool
	ErasureChar    byte
	OnlyErasures   bool
}

// Manager is the façade spec §4.4 describes. It owns one rs.Codec and
// exposes encode/decode/check/description in terms of a variable message
// length k <= Codec.N.
type Manager struct {
	Codec *rs.Codec
}

// NewManager wraps an existing codec.
func NewManager(codec *rs.Codec) *Manager {
	return &Manager{Codec: codec}
}

// pad left-pads message with zero bytes to length k, returning the padded
// slice and the pad length (0 if no padding was needed). Equivalent to
// shortening: the caller strips exactly this many bytes back off after
// decode.
func pad(message []byte, k int) ([]byte, int) {
	if len(message) >= k {
		return message, 0
	}
	padLen := k - len(message)
	out := make([]byte, k)
	copy(out[padLen:], message)
	return out, padLen
}

// rpad right-pads ecc with zero bytes to the full n-k length expected for
// message length k. Equivalent to puncturing: the missing trailing ECC
// bytes are treated by the decoder as known erasures at the corresponding
// positions once erasuresPos has been adjusted.
func (m *Manager) rpad(ecc []byte, k int) ([]byte, int) {
	want := m.Codec.N - k
	if len(ecc) >= want {
		return ecc, 0
	}
	padLen := want - len(ecc)
	out := make([]byte, want)
	copy(out, ecc)
	return out, padLen
}

// Encode left-pads message to k bytes, encodes it, and returns only the
// n-k ECC bytes (the message itself is not re-emitted, matching spec
// §4.4's encode operation).
func (m *Manager) Encode(message []byte, k int) ([]byte, error) {
	padded, _ := pad(message, k)
	codeword, err := m.Codec.Encode(padded, k)
	if err != nil {
		return nil, err
	}
	return codeword[k:], nil
}

// Decode repairs message+ecc (both possibly corrupted), returning the
// repaired message with any left-padding stripped back off. When
// opts.EnableErasures is set, positions of opts.ErasureChar within the
// concatenated message+ecc are treated as known erasures; if
// opts.OnlyErasures is set and no erasure char is found, the message is
// returned unchanged (a no-op fast path matching the original's
// "only_erasures and not erasures_pos" short-circuit).
func (m *Manager) Decode(message, ecc []byte, k int, opts DecodeOptions) ([]byte, []byte, error) {
	var erasurePos []int
	if opts.EnableErasures {
		concat := append(append([]byte{}, message...), ecc...)
		for i, b := range concat {
			if b == opts.ErasureChar {
				erasurePos = append(erasurePos, i)
			}
		}
		if opts.OnlyErasures && len(erasurePos) == 0 {
			return message, ecc, nil
		}
	}

	padded, padLen := pad(message, k)
	paddedECC, eccPadLen := m.rpad(ecc, k)

	if padLen > 0 && len(erasurePos) > 0 {
		shifted := make([]int, len(erasurePos))
		for i, p := range erasurePos {
			shifted[i] = p + padLen
		}
		erasurePos = shifted
	}
	for i := m.Codec.N - eccPadLen; i < m.Codec.N; i++ {
		erasurePos = append(erasurePos, i)
	}

	codeword := make([]byte, m.Codec.N)
	copy(codeword, padded)
	copy(codeword[k:], paddedECC)

	repaired, err := m.Codec.Decode(codeword, k, rs.DecodeOptions{
		ErasurePos:   erasurePos,
		OnlyErasures: opts.OnlyErasures,
	})
	if err != nil {
		return nil, nil, err
	}

	repairedMessage := repaired[padLen:k]
	repairedECC := repaired[k:]
	return repairedMessage, repairedECC, nil
}

// Check reports whether message+ecc, once padded/punctured to the codec's
// full width, is currently a valid codeword.
func (m *Manager) Check(message, ecc []byte, k int) bool {
	padded, _ := pad(message, k)
	paddedECC, _ := m.rpad(ecc, k)
	codeword := make([]byte, m.Codec.N)
	copy(codeword, padded)
	copy(codeword[k:], paddedECC)
	return m.Codec.Check(codeword, k)
}

// Description returns a human-readable line identifying the field
// parameters in use, embedded verbatim into sidecar headers (spec §6.3).
func (m *Manager) Description() string {
	t := m.Codec.Tables()
	return fmt.Sprintf(
		"Reed-Solomon with polynomials in Galois field of characteristic 255 (2^8) with generator=%d, prime poly=0x%x and first consecutive root=%d.",
		t.Generator, t.Prim, m.Codec.FCR,
	)
}

// ParamsForRate computes (k, ecc_size) for a given max block size and
// resilience rate, per spec §3.1: k = round(n / (1 + 2r)), ecc_size = n-k.
func ParamsForRate(maxBlockSize int, rate float64) (k, eccSize int, err error) {
	if rate <= 0 || rate > 1 {
		return 0, 0, errors.NewParameterError("rate", "must be in (0, 1]")
	}
	k = int(float64(maxBlockSize)/(1+2*rate) + 0.5)
	if k < 1 {
		k = 1
	}
	if k >= maxBlockSize {
		k = maxBlockSize - 1
	}
	return k, maxBlockSize - k, nil
}
