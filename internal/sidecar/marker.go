package sidecar

import "bytes"

// EntryMarker frames the start of each ECC entry in the primary sidecar.
// Grounded verbatim on pyFileFixity/repair_ecc.py's hard-coded entrymarker:
// chosen to be long and irregular enough to be vanishingly unlikely to
// appear by accident inside arbitrary file data or ECC bytes.
var EntryMarker = []byte{0xFE, 0xFF, 0xFE, 0xFF, 0xFE, 0xFF, 0xFE, 0xFF, 0xFE, 0xFF}

// FieldMarker separates the four metadata fields within one entry
// (relative_path, filesize, relative_path_ecc, filesize_ecc).
var FieldMarker = []byte{0xFA, 0xFF, 0xFA, 0xFF, 0xFA}

// headerEnd scans buf for the first EntryMarker occurrence, returning its
// byte offset or -1 if not present. Used to skip the primary sidecar's
// human-readable header during a check/repair pass.
func headerEnd(buf []byte) int {
	return bytes.Index(buf, EntryMarker)
}

// canonicalMarker returns the canonical bytes for an index record type: 1
// for an entry marker, 2 for a field marker.
func canonicalMarker(recordType byte) []byte {
	switch recordType {
	case 1:
		return EntryMarker
	case 2:
		return FieldMarker
	default:
		return nil
	}
}
