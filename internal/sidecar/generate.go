package sidecar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"fixity/internal/ecc"
	"fixity/internal/errors"
	"fixity/internal/gf"
	"fixity/internal/hasher"
	"fixity/internal/rs"
	"fixity/internal/walk"
)

// toolVersion is embedded in every sidecar header as a comment line
// recording which tool wrote it; check and repair do not read it back.
const toolVersion = "fixity/1"

// intraFieldRate is the fixed, high resilience rate spec §4.5 step 3 calls
// for on the intra-field ECC (file identification must survive even when
// the body ECC does not).
const intraFieldRate = 0.5

// Config configures one generate pass.
type Config struct {
	InputRoot    string
	SidecarPath  string
	IndexPath    string
	HeaderSize   int64
	Rates        [3]float64 // header, stage1, stage2
	MaxBlockSize int        // n, shared by every region
	Hasher       hasher.Hasher
	Tables       *gf.Tables // defaults to gf.Standard
	FCR          byte       // defaults to 1
}

// Engine ties together a RatePlan, one ECC manager (used both for body
// blocks and, at the fixed intraFieldRate, for the intra-field ECC), and
// the index codec, so a single value can drive both the encode and
// decode/check passes with identical parameters.
type Engine struct {
	cfg     Config
	plan    RatePlan
	mgr     *ecc.Manager
	idx     *IndexCodec
	version string
}

// NewEngine validates cfg and builds the codecs a generate/check pass needs.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Tables == nil {
		cfg.Tables = gf.Standard
	}
	if cfg.FCR == 0 {
		cfg.FCR = 1
	}
	if cfg.Hasher == nil {
		cfg.Hasher = hasher.SHA256{}
	}
	plan := RatePlan{HeaderSize: cfg.HeaderSize, Rates: cfg.Rates, MaxBlockSize: cfg.MaxBlockSize}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	codec, err := rs.NewCodec(cfg.MaxBlockSize, cfg.FCR, cfg.Tables)
	if err != nil {
		return nil, err
	}
	idx, err := NewIndexCodec()
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		plan:    plan,
		mgr:     ecc.NewManager(codec),
		idx:     idx,
		version: toolVersion,
	}, nil
}

// primaryWriter wraps the sidecar output stream, tracking the absolute
// byte offset of every marker it writes so those offsets can be mirrored
// into the index sidecar (spec §4.5: "For every marker written to the
// primary, append to the index sidecar a record (type, offset)").
type primaryWriter struct {
	w       *bufio.Writer
	offset  int64
	records []IndexRecord
}

func (pw *primaryWriter) writeRaw(p []byte) error {
	n, err := pw.w.Write(p)
	pw.offset += int64(n)
	return err
}

func (pw *primaryWriter) writeEntryMarker() error {
	pw.records = append(pw.records, IndexRecord{Offset: pw.offset, RecordType: 1})
	return pw.writeRaw(EntryMarker)
}

func (pw *primaryWriter) writeFieldMarker() error {
	pw.records = append(pw.records, IndexRecord{Offset: pw.offset, RecordType: 2})
	return pw.writeRaw(FieldMarker)
}

// writeHeader emits the sidecar's human-readable comment header, per spec
// §6.3: tool version, n, header_size, resilience_rates, hasher name, and
// the codec description string.
func (e *Engine) writeHeader(pw *primaryWriter) error {
	t := e.mgr.Codec.Tables()
	lines := []string{
		fmt.Sprintf("# %s", e.version),
		fmt.Sprintf("# generated %s", time.Now().UTC().Format(time.RFC3339)),
		fmt.Sprintf("# n=%d", e.cfg.MaxBlockSize),
		fmt.Sprintf("# header_size=%d", e.cfg.HeaderSize),
		fmt.Sprintf("# resilience_rates=%g,%g,%g", e.cfg.Rates[0], e.cfg.Rates[1], e.cfg.Rates[2]),
		fmt.Sprintf("# hasher=%s", e.cfg.Hasher.Name()),
		fmt.Sprintf("# fcr=%d generator=%d prim=0x%x", t.FCR, t.Generator, t.Prim),
		fmt.Sprintf("# %s", e.mgr.Description()),
	}
	for _, l := range lines {
		if err := pw.writeRaw([]byte(l + "\n")); err != nil {
			return err
		}
	}
	return nil
}

// encodeIntraField computes the compact, high-resilience ECC over
// relative_path + 0xFF + filesize_decimal (spec §4.5 step 3), and splits
// the resulting ECC bytes in half so they can be emitted as the two
// separate relative_path_ecc / filesize_ecc fields the normative format
// (spec §6.1) names. The split point carries no semantic meaning beyond
// layout — a decode pass re-concatenates both fields before decoding.
func (e *Engine) encodeIntraField(relPath string, size int64) (pathECC, sizeECC []byte, err error) {
	sizeStr := strconv.FormatInt(size, 10)
	message := make([]byte, 0, len(relPath)+1+len(sizeStr))
	message = append(message, relPath...)
	message = append(message, 0xFF)
	message = append(message, sizeStr...)

	n := e.cfg.MaxBlockSize
	k, _, err := ecc.ParamsForRate(n, intraFieldRate)
	if err != nil {
		return nil, nil, err
	}
	if len(message) > k {
		return nil, nil, errors.NewParameterError("relative_path", "combined path+size too long for intra-field ECC block size")
	}
	full, err := e.mgr.Encode(message, k)
	if err != nil {
		return nil, nil, err
	}
	half := len(full) / 2
	return full[:half], full[half:], nil
}

// Generate runs the encode pass of spec §4.5 over cfg.InputRoot, writing
// the primary sidecar and its index sidecar. Entries are emitted in the
// sorted traversal order internal/walk guarantees.
func (e *Engine) Generate() error {
	entries, err := walk.Walk(e.cfg.InputRoot)
	if err != nil {
		return err
	}

	out, err := os.Create(e.cfg.SidecarPath)
	if err != nil {
		return errors.NewIOError("create", e.cfg.SidecarPath, err)
	}
	defer out.Close()

	pw := &primaryWriter{w: bufio.NewWriter(out)}
	if err := e.writeHeader(pw); err != nil {
		return errors.NewIOError("write", e.cfg.SidecarPath, err)
	}

	for _, entry := range entries {
		if err := e.writeEntry(pw, entry); err != nil {
			return err
		}
	}
	if err := pw.w.Flush(); err != nil {
		return errors.NewIOError("write", e.cfg.SidecarPath, err)
	}

	return e.writeIndex(pw.records)
}

func (e *Engine) writeEntry(pw *primaryWriter, entry walk.Entry) error {
	if err := pw.writeEntryMarker(); err != nil {
		return errors.NewIOError("write", e.cfg.SidecarPath, err)
	}
	if err := pw.writeRaw([]byte(entry.RelPath)); err != nil {
		return errors.NewIOError("write", e.cfg.SidecarPath, err)
	}
	if err := pw.writeFieldMarker(); err != nil {
		return errors.NewIOError("write", e.cfg.SidecarPath, err)
	}

	sizeStr := strconv.FormatInt(entry.Size, 10)
	if err := pw.writeRaw([]byte(sizeStr)); err != nil {
		return errors.NewIOError("write", e.cfg.SidecarPath, err)
	}
	if err := pw.writeFieldMarker(); err != nil {
		return errors.NewIOError("write", e.cfg.SidecarPath, err)
	}

	pathECC, sizeECC, err := e.encodeIntraField(entry.RelPath, entry.Size)
	if err != nil {
		return err
	}
	if err := pw.writeRaw(pathECC); err != nil {
		return errors.NewIOError("write", e.cfg.SidecarPath, err)
	}
	if err := pw.writeFieldMarker(); err != nil {
		return errors.NewIOError("write", e.cfg.SidecarPath, err)
	}
	if err := pw.writeRaw(sizeECC); err != nil {
		return errors.NewIOError("write", e.cfg.SidecarPath, err)
	}
	if err := pw.writeFieldMarker(); err != nil {
		return errors.NewIOError("write", e.cfg.SidecarPath, err)
	}

	return e.writeBody(pw, entry)
}

// writeBody emits the body ECC stream for one file: per spec §4.5 step 4,
// consecutive blocks sized by the region rate plan, each stored as
// hash ⟂ ecc with no further framing.
func (e *Engine) writeBody(pw *primaryWriter, entry walk.Entry) error {
	f, err := os.Open(entry.AbsPath)
	if err != nil {
		return errors.NewIOError("open", entry.AbsPath, err)
	}
	defer f.Close()

	producer := NewBlockProducer(f, e.plan, entry.Size)
	defer producer.Close()
	for {
		block, err := producer.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.NewIOError("read", entry.AbsPath, err)
		}
		digest := e.cfg.Hasher.Sum(block.Data)
		eccBytes, err := e.mgr.Encode(block.Data, block.K)
		if err != nil {
			return err
		}
		if err := pw.writeRaw(digest); err != nil {
			return errors.NewIOError("write", e.cfg.SidecarPath, err)
		}
		if err := pw.writeRaw(eccBytes); err != nil {
			return errors.NewIOError("write", e.cfg.SidecarPath, err)
		}
	}
	return nil
}

func (e *Engine) writeIndex(records []IndexRecord) error {
	f, err := os.Create(e.cfg.IndexPath)
	if err != nil {
		return errors.NewIOError("create", e.cfg.IndexPath, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, rec := range records {
		block, err := e.idx.Encode(rec)
		if err != nil {
			return err
		}
		if _, err := w.Write(block); err != nil {
			return errors.NewIOError("write", e.cfg.IndexPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.NewIOError("write", e.cfg.IndexPath, err)
	}
	return nil
}
