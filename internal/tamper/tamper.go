// Package tamper provides deterministic fault injection for tests, the Go
// analogue of the reference implementation's filetamper.py (random-mode
// corruption there is replaced here by caller-supplied positions, since
// tests need reproducible corruption rather than randomized fuzzing of a
// single file).
package tamper

// FlipBits XORs delta into data at each position in positions, corrupting
// those bytes in place without changing the slice's length. Positions
// outside [0, len(data)) are ignored.
func FlipBits(data []byte, positions []int, delta byte) {
	for _, p := range positions {
		if p >= 0 && p < len(data) {
			data[p] ^= delta
		}
	}
}

// Erase overwrites each position with the erasure marker byte 0x00,
// simulating the "erasure" fault model (a byte known to be missing,
// as opposed to a byte whose wrong value must be located).
func Erase(data []byte, positions []int) {
	for _, p := range positions {
		if p >= 0 && p < len(data) {
			data[p] = 0x00
		}
	}
}
