// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"fmt"

	"github.com/pkg/errors"
)

// VotesPerTokenBase is the fixed-point denominator of Params.VotesPerToken (basis points).
const VotesPerTokenBase = uint64(10_000)

var ErrInvalidParams = errors.New("invalid pos params")

// OffsetKind selects which window a forward-looking write waits for.
type OffsetKind uint8

const (
	// PipelineOffset delays a change by the pipeline length. Used for changes that affect the validator set.
	PipelineOffset OffsetKind = iota
	// UnbondingOffset delays a change by the unbonding length. Used for stake accounting.
	UnbondingOffset
)

func (k OffsetKind) String() string {
	switch k {
	case PipelineOffset:
		return "pipeline"
	case UnbondingOffset:
		return "unbonding"
	default:
		return fmt.Sprintf("offset(%d)", uint8(k))
	}
}

// Params are the proof-of-stake system parameters.
type Params struct {
	PipelineLength      uint64 // epochs a consensus-affecting change waits before it takes effect
	UnbondingLength     uint64 // epochs a historical value stays queryable
	MaxActiveValidators uint64 // size cap of the active validator set
	VotesPerToken       uint64 // voting power per token, in VotesPerTokenBase units
}

// DefaultParams returns the parameters used when a genesis document does not override them.
func DefaultParams() *Params {
	return &Params{
		PipelineLength:      2,
		UnbondingLength:     6,
		MaxActiveValidators: 128,
		VotesPerToken:       VotesPerTokenBase,
	}
}

// Validate checks unbonding_length >= pipeline_length >= 1 and the remaining bounds.
func (p *Params) Validate() error {
	if p.PipelineLength < 1 {
		return errors.Wrap(ErrInvalidParams, "pipeline length must be at least 1")
	}
	if p.UnbondingLength < p.PipelineLength {
		return errors.Wrapf(ErrInvalidParams, "unbonding length %d is shorter than pipeline length %d",
			p.UnbondingLength, p.PipelineLength)
	}
	if p.MaxActiveValidators < 1 {
		return errors.Wrap(ErrInvalidParams, "max active validators must be at least 1")
	}
	if p.VotesPerToken < VotesPerTokenBase {
		return errors.Wrapf(ErrInvalidParams, "votes per token %d is below %d", p.VotesPerToken, VotesPerTokenBase)
	}
	return nil
}

// Offset returns the length of the window selected by kind.
func (p *Params) Offset(kind OffsetKind) uint64 {
	if kind == UnbondingOffset {
		return p.UnbondingLength
	}
	return p.PipelineLength
}
