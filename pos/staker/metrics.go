// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakebook/metrics"
)

var (
	metricGenesisValidators   = metrics.LazyLoadGauge("pos_genesis_validators")
	metricTotalVotingPower    = metrics.LazyLoadGauge("pos_total_voting_power")
	metricBecomeValidatorCall = metrics.LazyLoadCounterVec("pos_become_validator_count", []string{"result"})
)

func countBecomeValidator(err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrAlreadyValidator):
		result = "already_validator"
	default:
		result = "error"
	}
	metricBecomeValidatorCall().AddWithLabel(1, map[string]string{"result": result})
}
