// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import "github.com/pkg/errors"

var (
	ErrAlreadyValidator          = errors.New("address is already a validator")
	ErrNotValidator              = errors.New("address is not a validator")
	ErrNotInitialized            = errors.New("pos genesis was not initialized")
	ErrAlreadyInitialized        = errors.New("pos genesis was already initialized")
	ErrDuplicateGenesisValidator = errors.New("duplicate genesis validator")
)
