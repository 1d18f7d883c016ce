// Package replicate implements the N-way replication-vote fallback named
// as an external, pluggable collaborator in spec §1. It is grounded on
// the reference implementation's replication_repair.py
// (majority_vote_byte_scan): given several on-disk copies of the same
// logical file, each byte position is resolved by majority vote across
// whichever copies are still long enough to have a byte there. Ties are
// broken in favor of the earliest-listed copy, matching the reference's
// "first file takes precedence" behavior, unless a caller wants to flag
// the position as ambiguous instead.
package replicate

// MajorityByte returns the most common byte among candidates, along with
// whether the result was unambiguous (true) or resolved only by
// first-candidate precedence because of a tie (false). An empty
// candidates slice returns (0, false).
func MajorityByte(candidates []byte) (byte, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	counts := make(map[byte]int, len(candidates))
	order := make([]byte, 0, len(candidates))
	for _, b := range candidates {
		if counts[b] == 0 {
			order = append(order, b)
		}
		counts[b]++
	}

	best := order[0]
	bestCount := counts[best]
	tied := false
	for _, b := range order[1:] {
		c := counts[b]
		if c > bestCount {
			best = b
			bestCount = c
			tied = false
		} else if c == bestCount {
			tied = true
		}
	}
	return best, !tied
}

// MajorityBlock resolves one logical block from several replica copies,
// byte by byte. blocks need not be the same length (a replica that has
// run out of bytes simply stops voting at later positions, mirroring the
// reference implementation's handling of prematurely-truncated copies);
// the result's length equals the longest replica. The returned []bool
// marks, per output byte, whether that position was resolved
// unambiguously (no tie among the byte values that were still in play).
func MajorityBlock(blocks [][]byte) ([]byte, []bool) {
	maxLen := 0
	for _, b := range blocks {
		if len(b) > maxLen {
			maxLen = len(b)
		}
	}
	out := make([]byte, maxLen)
	ok := make([]bool, maxLen)
	candidates := make([]byte, 0, len(blocks))
	for i := 0; i < maxLen; i++ {
		candidates = candidates[:0]
		for _, b := range blocks {
			if i < len(b) {
				candidates = append(candidates, b[i])
			}
		}
		out[i], ok[i] = MajorityByte(candidates)
	}
	return out, ok
}
