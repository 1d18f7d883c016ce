package sidecar

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"fixity/internal/ecc"
	"fixity/internal/errors"
	"fixity/internal/log"
)

// parsedEntry is one primary-sidecar entry after its four metadata fields
// have been split out, per spec §6.1's normative layout.
type parsedEntry struct {
	relPath  string
	filesize int64
	pathECC  []byte
	sizeECC  []byte
	body     []byte
}

// parseEntries scans buf (the primary sidecar, header already stripped)
// for entry_marker occurrences and splits each entry's four leading
// fields on field_marker, per spec §4.5 decode steps 1-2. The body ECC
// stream for entry i is everything between its fourth field separator and
// the start of the next entry_marker (or EOF).
func parseEntries(buf []byte) []parsedEntry {
	var entries []parsedEntry
	starts := markerPositions(buf, EntryMarker)
	for i, start := range starts {
		entryStart := start + len(EntryMarker)
		entryEnd := len(buf)
		if i+1 < len(starts) {
			entryEnd = starts[i+1]
		}
		entries = append(entries, parseOneEntry(buf[entryStart:entryEnd]))
	}
	return entries
}

func markerPositions(buf, marker []byte) []int {
	var positions []int
	offset := 0
	for {
		idx := bytes.Index(buf[offset:], marker)
		if idx < 0 {
			break
		}
		positions = append(positions, offset+idx)
		offset += idx + len(marker)
	}
	return positions
}

func parseOneEntry(buf []byte) parsedEntry {
	var e parsedEntry
	fields := splitOnFieldMarker(buf, 4)
	if len(fields) < 4 {
		return e
	}
	e.relPath = string(fields[0])
	e.filesize, _ = strconv.ParseInt(string(fields[1]), 10, 64)
	e.pathECC = fields[2]
	e.sizeECC = fields[3]
	if len(fields) == 5 {
		e.body = fields[4]
	}
	return e
}

// splitOnFieldMarker splits buf on up to maxFields occurrences of
// FieldMarker, returning maxFields+1 pieces when a remainder exists (the
// body ECC stream is everything after the last requested split).
func splitOnFieldMarker(buf []byte, maxFields int) [][]byte {
	var pieces [][]byte
	rest := buf
	for i := 0; i < maxFields; i++ {
		idx := bytes.Index(rest, FieldMarker)
		if idx < 0 {
			pieces = append(pieces, rest)
			return pieces
		}
		pieces = append(pieces, rest[:idx])
		rest = rest[idx+len(FieldMarker):]
	}
	pieces = append(pieces, rest)
	return pieces
}

// Check runs the decode/check pass of spec §4.5 over the primary sidecar,
// verifying and repairing each file under inputRoot into outputRoot.
// outputRoot may equal inputRoot's parent structure; callers typically
// point it at a fresh directory so originals are never overwritten
// in place.
func (e *Engine) Check(inputRoot, outputRoot string) (VerifyReport, error) {
	raw, err := os.ReadFile(e.cfg.SidecarPath)
	if err != nil {
		return VerifyReport{}, errors.NewIOError("open", e.cfg.SidecarPath, err)
	}

	start := headerEnd(raw)
	if start < 0 {
		return VerifyReport{}, errors.ErrCorruptHeader
	}

	entries := parseEntries(raw[start:])
	report := VerifyReport{}
	for _, pe := range entries {
		fr, err := e.checkEntry(pe, inputRoot, outputRoot)
		if err != nil {
			return report, err
		}
		report.Files = append(report.Files, fr)
	}
	return report, nil
}

// verifyIdentity re-derives relative_path+0xFF+filesize_decimal and checks
// it against the stored intra-field ECC (pathECC ⟂ sizeECC), per spec
// §4.5 step 3. A mismatch is logged but never aborts the pass: the
// locally-parsed path/size are still used to resolve the file, since
// recovering them losslessly only helps when the primary's framing is
// otherwise intact.
func (e *Engine) verifyIdentity(pe parsedEntry) bool {
	sizeStr := strconv.FormatInt(pe.filesize, 10)
	message := make([]byte, 0, len(pe.relPath)+1+len(sizeStr))
	message = append(message, pe.relPath...)
	message = append(message, 0xFF)
	message = append(message, sizeStr...)

	k, _, err := ecc.ParamsForRate(e.cfg.MaxBlockSize, intraFieldRate)
	if err != nil || len(message) > k {
		return false
	}
	combinedECC := append(append([]byte{}, pe.pathECC...), pe.sizeECC...)
	_, _, err = e.mgr.Decode(message, combinedECC, k, ecc.DecodeOptions{})
	return err == nil
}

func (e *Engine) checkEntry(pe parsedEntry, inputRoot, outputRoot string) (FileReport, error) {
	fr := FileReport{Path: pe.relPath}
	if !e.verifyIdentity(pe) {
		log.Warn("entry identity (path+size) failed its intra-field ECC check",
			log.Path("path", pe.relPath))
	}

	inPath := filepath.Join(inputRoot, filepath.FromSlash(pe.relPath))
	outPath := filepath.Join(outputRoot, filepath.FromSlash(pe.relPath))

	in, err := os.Open(inPath)
	if err != nil {
		return fr, errors.NewIOError("open", inPath, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fr, errors.NewIOError("mkdir", filepath.Dir(outPath), err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fr, errors.NewIOError("create", outPath, err)
	}
	defer out.Close()

	producer := NewBlockProducer(in, e.plan, pe.filesize)
	defer producer.Close()
	bodyOff := 0
	hashLen := e.cfg.Hasher.Len()

	for {
		block, err := producer.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fr, errors.NewIOError("read", inPath, err)
		}
		fr.Blocks++

		eccSize := e.cfg.MaxBlockSize - block.K
		want := hashLen + eccSize
		if bodyOff+want > len(pe.body) {
			// The body ECC stream itself is truncated; the remaining
			// blocks cannot be verified. Pass them through unchanged.
			if _, err := out.Write(block.Data); err != nil {
				return fr, errors.NewIOError("write", outPath, err)
			}
			fr.Unrecoverable++
			fr.PartiallyRepaired = true
			continue
		}
		storedHash := pe.body[bodyOff : bodyOff+hashLen]
		storedECC := pe.body[bodyOff+hashLen : bodyOff+want]
		bodyOff += want

		data := block.Data
		if hashLen == 0 || bytes.Equal(e.cfg.Hasher.Sum(data), storedHash) {
			if _, err := out.Write(data); err != nil {
				return fr, errors.NewIOError("write", outPath, err)
			}
			continue
		}

		repaired, _, decErr := e.mgr.Decode(data, storedECC, block.K, ecc.DecodeOptions{})
		if decErr == nil && (hashLen == 0 || bytes.Equal(e.cfg.Hasher.Sum(repaired), storedHash)) {
			if _, err := out.Write(repaired); err != nil {
				return fr, errors.NewIOError("write", outPath, err)
			}
			fr.Corrected++
			continue
		}

		if _, err := out.Write(data); err != nil {
			return fr, errors.NewIOError("write", outPath, err)
		}
		fr.Unrecoverable++
		fr.PartiallyRepaired = true
	}

	return fr, nil
}
