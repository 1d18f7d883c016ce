package sidecar

import (
	"fixity/internal/ecc"
	"fixity/internal/errors"
)

// Region identifies which of the three resilience rates covers a given
// byte range of a file.
type Region int

const (
	RegionHeader Region = iota
	RegionStage1
	RegionStage2
)

// RatePlan is spec §3.1's per-file region rate plan: a fixed header size
// and three resilience rates, one per region. Stage1 covers the first half
// of the body after the header, stage2 the remainder.
type RatePlan struct {
	HeaderSize   int64
	Rates        [3]float64 // [header, stage1, stage2]
	MaxBlockSize int        // n, shared by every region
}

// boundaries returns the [stage1Start, stage2Start) byte offsets for a file
// of the given size under this plan.
func (p RatePlan) boundaries(filesize int64) (stage1Start, stage2Start int64) {
	stage1Start = p.HeaderSize
	if stage1Start > filesize {
		stage1Start = filesize
	}
	remaining := filesize - stage1Start
	if remaining < 0 {
		remaining = 0
	}
	stage2Start = stage1Start + remaining/2
	return stage1Start, stage2Start
}

// RegionAt reports which region covers byte offset within a file of the
// given total size.
func (p RatePlan) RegionAt(offset, filesize int64) Region {
	stage1Start, stage2Start := p.boundaries(filesize)
	switch {
	case offset < stage1Start:
		return RegionHeader
	case offset < stage2Start:
		return RegionStage1
	default:
		return RegionStage2
	}
}

// Params returns (k, eccSize) for the region at offset, for a file of the
// given total size.
func (p RatePlan) Params(offset, filesize int64) (k, eccSize int, err error) {
	region := p.RegionAt(offset, filesize)
	rate := p.Rates[region]
	return ecc.ParamsForRate(p.MaxBlockSize, rate)
}

// Validate checks that every rate is in (0, 1] and the header size is
// non-negative, per spec §3.1.
func (p RatePlan) Validate() error {
	if p.HeaderSize < 0 {
		return errors.NewParameterError("header_size", "must be non-negative")
	}
	for i, r := range p.Rates {
		if r <= 0 || r > 1 {
			return errors.NewParameterError("rate", "must be in (0, 1]")
		}
		_ = i
	}
	if p.MaxBlockSize < 2 || p.MaxBlockSize > 255 {
		return errors.NewParameterError("max_block_size", "must be in [2, 255]")
	}
	return nil
}
