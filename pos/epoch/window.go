// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

// Window pairs the current epoch with the parameters every offset is derived from.
type Window struct {
	Epoch  Epoch
	Params Params
}

func NewWindow(current Epoch, params *Params) Window {
	return Window{Epoch: current, Params: *params}
}

// Horizon is the epoch a write with the given offset kind becomes visible at.
func (w Window) Horizon(kind OffsetKind) Epoch {
	return w.Epoch.Add(w.Params.Offset(kind))
}

func (w Window) Pipeline() Epoch {
	return w.Horizon(PipelineOffset)
}

func (w Window) Unbonding() Epoch {
	return w.Horizon(UnbondingOffset)
}

// Oldest is the earliest epoch still queryable from the current epoch.
func (w Window) Oldest() Epoch {
	return w.Epoch.Sub(w.Params.UnbondingLength)
}

// MaxActive is the active set cap at this epoch.
func (w Window) MaxActive() uint64 {
	return w.Params.MaxActiveValidators
}
