// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/log"
	"github.com/vechain/stakebook/pos/staker"
	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/thor"
)

var logger = log.WithContext("pkg", "genesis")

// Storage is a staker storage that can also credit initial balances.
type Storage interface {
	staker.Storage
	Mint(token, owner thor.Address, amount types.TokenAmount) error
}

// Apply credits the initial balances and initializes the staker.
func (g *Genesis) Apply(storage Storage) error {
	for _, b := range g.Balances {
		if err := storage.Mint(g.Token, b.Owner, b.Amount); err != nil {
			return errors.Wrapf(err, "genesis balance of %v", b.Owner)
		}
	}
	if err := staker.New(storage).InitGenesis(g.Params, g.Validators, g.Epoch); err != nil {
		return err
	}
	logger.Debug("genesis applied", "epoch", g.Epoch, "balances", len(g.Balances))
	return nil
}
