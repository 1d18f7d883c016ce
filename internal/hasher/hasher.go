// Package hasher provides the fixed-length-digest façade used by the ECC
// manager to fingerprint message blocks before they are checked against
// their stored ECC. Spec treats the hasher as an opaque collaborator; this
// package supplies the concrete implementations a CLI needs to select one.
package hasher

import (
	"crypto/sha256"
	"hash/crc32"
	"hash/fnv"

	"golang.org/x/crypto/blake2b"

	"fixity/internal/errors"
)

// Hasher produces a fixed-length digest of arbitrary data. Len must always
// return the same value regardless of input, since it is load-bearing in
// the block-size arithmetic of the ECC manager (compute_ecc_params in the
// original).
type Hasher interface {
	Sum(data []byte) []byte
	Len() int
	Name() string
}

// None is the zero-length hasher: every block is trusted without a digest
// check, relying entirely on the ECC's own syndrome test.
type None struct{}

func (None) Sum([]byte) []byte { return nil }
func (None) Len() int          { return 0 }
func (None) Name() string      { return "none" }

// CRC32 produces a 4-byte digest using the IEEE polynomial.
type CRC32 struct{}

func (CRC32) Sum(data []byte) []byte {
	sum := crc32.ChecksumIEEE(data)
	return []byte{byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)}
}
func (CRC32) Len() int     { return 4 }
func (CRC32) Name() string { return "crc32" }

// FNV64 produces an 8-byte digest using FNV-1a.
type FNV64 struct{}

func (FNV64) Sum(data []byte) []byte {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum(nil)
}
func (FNV64) Len() int     { return 8 }
func (FNV64) Name() string { return "fnv64" }

// SHA256 produces a 32-byte digest. This is the default hasher.
type SHA256 struct{}

func (SHA256) Sum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
func (SHA256) Len() int     { return 32 }
func (SHA256) Name() string { return "sha256" }

// BLAKE2b256 produces a 32-byte digest using BLAKE2b truncated to 256 bits.
type BLAKE2b256 struct{}

func (BLAKE2b256) Sum(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}
func (BLAKE2b256) Len() int     { return 32 }
func (BLAKE2b256) Name() string { return "blake2b" }

// ByName resolves a hasher by its Name() string, as used by the sidecar
// header's "hasher" field and the CLI's --hasher flag.
func ByName(name string) (Hasher, error) {
	switch name {
	case "none":
		return None{}, nil
	case "crc32":
		return CRC32{}, nil
	case "fnv64":
		return FNV64{}, nil
	case "sha256":
		return SHA256{}, nil
	case "blake2b":
		return BLAKE2b256{}, nil
	default:
		return nil, errors.NewParameterError("hasher", errors.ErrUnknownHasher.Error()+": "+name)
	}
}
