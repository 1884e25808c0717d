// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"math"
	"strconv"
)

// Epoch is the ordinal of a consensus round boundary. All arithmetic saturates.
type Epoch uint64

// Add returns e+n, saturating at the maximum epoch.
func (e Epoch) Add(n uint64) Epoch {
	if uint64(e) > math.MaxUint64-n {
		return Epoch(math.MaxUint64)
	}
	return e + Epoch(n)
}

// Sub returns e-n, saturating at zero.
func (e Epoch) Sub(n uint64) Epoch {
	if uint64(e) < n {
		return 0
	}
	return e - Epoch(n)
}

func (e Epoch) Next() Epoch {
	return e.Add(1)
}

func (e Epoch) Prev() Epoch {
	return e.Sub(1)
}

func (e Epoch) Uint64() uint64 {
	return uint64(e)
}

func (e Epoch) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

// Max returns the later of two epochs.
func Max(a, b Epoch) Epoch {
	if a > b {
		return a
	}
	return b
}
