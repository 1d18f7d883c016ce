package sidecar

import (
	"os"

	"fixity/internal/errors"
	"fixity/internal/log"
)

// defaultHammingThreshold is the fraction of a marker's length that a
// candidate substring may differ by and still be treated as a damaged
// copy of that marker, per spec §4.5 "Hamming-heuristic repair".
const defaultHammingThreshold = 0.3

// RepairIndexBacked implements spec §4.5's index-backed repair strategy:
// stream the index sidecar record-by-record, decode each 27-byte record,
// and overwrite the primary's bytes at the recovered offset with the
// canonical marker for that record's type. A record whose own 9-byte
// prefix cannot be recovered is skipped with a warning
// (errors.MarkerMisdetectionError) rather than aborting the pass.
func RepairIndexBacked(primaryPath, indexPath string) (repaired int, skipped int, err error) {
	idx, err := NewIndexCodec()
	if err != nil {
		return 0, 0, err
	}

	indexBytes, err := os.ReadFile(indexPath)
	if err != nil {
		return 0, 0, errors.NewIOError("open", indexPath, err)
	}
	if len(indexBytes)%indexRecordWidth != 0 {
		log.Warn("index sidecar length is not a multiple of the record width", log.Path("path", indexPath))
	}

	primary, err := os.OpenFile(primaryPath, os.O_RDWR, 0)
	if err != nil {
		return 0, 0, errors.NewIOError("open", primaryPath, err)
	}
	defer primary.Close()

	for off := 0; off+indexRecordWidth <= len(indexBytes); off += indexRecordWidth {
		block := indexBytes[off : off+indexRecordWidth]
		rec, decErr := idx.Decode(block)
		if decErr != nil {
			skipped++
			mmErr := errors.NewMarkerMisdetectionError(int64(off))
			log.Warn("index record could not be recovered, skipping",
				log.Offset("record_offset", int64(off)), log.Err(mmErr))
			continue
		}
		canon := canonicalMarker(rec.RecordType)
		if canon == nil {
			skipped++
			continue
		}
		if _, err := primary.WriteAt(canon, rec.Offset); err != nil {
			return repaired, skipped, errors.NewIOError("write", primaryPath, err)
		}
		repaired++
	}
	return repaired, skipped, nil
}

// hammingCandidate is one position in the primary that matches a marker
// within threshold, found during the heuristic pass.
type hammingCandidate struct {
	offset   int
	distance int
}

// hammingWindowDistance computes the byte-wise Hamming distance between
// marker and the first len(marker) bytes of window; window must be at
// least len(marker) bytes long.
func hammingWindowDistance(window, marker []byte) int {
	d := 0
	for i := range marker {
		if window[i] != marker[i] {
			d++
		}
	}
	return d
}

// findHammingCandidates slides a len(marker)-wide window across buf and
// records every position whose distance to marker is <= threshold*len(marker).
// It applies spec §4.5's backtracking rule (a later, closer candidate
// within one marker-length replaces the previous one) and its zero-distance
// skip-ahead rule (an exact match jumps the scan past the marker instead of
// re-triggering immediately inside it).
func findHammingCandidates(buf, marker []byte, threshold float64) []hammingCandidate {
	maxDist := int(threshold * float64(len(marker)))
	var candidates []hammingCandidate
	i := 0
	for i+len(marker) <= len(buf) {
		d := hammingWindowDistance(buf[i:i+len(marker)], marker)
		if d <= maxDist {
			if len(candidates) > 0 {
				last := candidates[len(candidates)-1]
				if i-last.offset <= len(marker) && d < last.distance {
					candidates[len(candidates)-1] = hammingCandidate{offset: i, distance: d}
					if d == 0 {
						i += len(marker)
						continue
					}
					i++
					continue
				}
				if i-last.offset <= len(marker) {
					// Not closer than the existing candidate within one
					// marker-length; keep the earlier one and move on.
					i++
					continue
				}
			}
			candidates = append(candidates, hammingCandidate{offset: i, distance: d})
			if d == 0 {
				i += len(marker)
				continue
			}
		}
		i++
	}
	return candidates
}

// RepairHeuristic implements spec §4.5's Hamming-heuristic repair: used
// when no usable index sidecar is available. It writes canonical marker
// bytes at every confirmed candidate position for both EntryMarker and
// FieldMarker.
//
// threshold is the fraction of a marker's length that a candidate may
// differ by and still be rewritten. Zero is a legitimate, meaningful value
// per spec law 10 ("at threshold 0, only exact marker matches are ever
// rewritten") and must not be silently replaced with the default — only a
// negative threshold, which cannot name a real Hamming-distance fraction,
// is treated as "caller left this unset".
func RepairHeuristic(primaryPath string, threshold float64) (repaired int, err error) {
	if threshold < 0 {
		threshold = defaultHammingThreshold
	}
	buf, err := os.ReadFile(primaryPath)
	if err != nil {
		return 0, errors.NewIOError("open", primaryPath, err)
	}

	entryCandidates := findHammingCandidates(buf, EntryMarker, threshold)
	fieldCandidates := findHammingCandidates(buf, FieldMarker, threshold)

	f, err := os.OpenFile(primaryPath, os.O_RDWR, 0)
	if err != nil {
		return 0, errors.NewIOError("open", primaryPath, err)
	}
	defer f.Close()

	for _, c := range entryCandidates {
		if _, err := f.WriteAt(EntryMarker, int64(c.offset)); err != nil {
			return repaired, errors.NewIOError("write", primaryPath, err)
		}
		repaired++
	}
	for _, c := range fieldCandidates {
		if _, err := f.WriteAt(FieldMarker, int64(c.offset)); err != nil {
			return repaired, errors.NewIOError("write", primaryPath, err)
		}
		repaired++
	}
	return repaired, nil
}
