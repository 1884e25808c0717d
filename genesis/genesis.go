// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"os"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/thor"
)

var ErrInvalidDocument = errors.New("invalid genesis document")

// Document is the yaml form of a genesis.
type Document struct {
	Epoch      uint64      `yaml:"epoch"`
	Params     Params      `yaml:"params"`
	Token      string      `yaml:"token,omitempty"`
	Accounts   []Account   `yaml:"accounts,omitempty"`
	Validators []Validator `yaml:"validators"`
}

// Params overrides epoch.DefaultParams field by field.
type Params struct {
	PipelineLength      *uint64 `yaml:"pipeline_length,omitempty"`
	UnbondingLength     *uint64 `yaml:"unbonding_length,omitempty"`
	MaxActiveValidators *uint64 `yaml:"max_active_validators,omitempty"`
	VotesPerToken       *uint64 `yaml:"votes_per_token,omitempty"`
}

// Account is an initial token balance.
type Account struct {
	Address string `yaml:"address"`
	Balance uint64 `yaml:"balance"`
}

type Validator struct {
	Address       string `yaml:"address"`
	RewardAddress string `yaml:"reward_address"`
	Tokens        uint64 `yaml:"tokens"`
	ConsensusKey  string `yaml:"consensus_key"`
}

// Balance is a resolved Account.
type Balance struct {
	Owner  thor.Address
	Amount types.TokenAmount
}

// Genesis is a validated genesis document.
type Genesis struct {
	Epoch      epoch.Epoch
	Params     *epoch.Params
	Token      thor.Address
	Balances   []Balance
	Validators []types.GenesisValidator
}

// Load reads and builds the genesis document at path.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Parse decodes a yaml genesis document and builds it.
func Parse(data []byte) (*Genesis, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return doc.Build()
}

// Build validates the document and resolves addresses, keys and params.
func (d *Document) Build() (*Genesis, error) {
	params := d.Params.apply(epoch.DefaultParams())
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(d.Validators) == 0 {
		return nil, errors.Wrap(ErrInvalidDocument, "no validators")
	}

	g := &Genesis{
		Epoch:  epoch.Epoch(d.Epoch),
		Params: params,
	}

	if d.Token != "" {
		token, err := parseAddress("token", d.Token)
		if err != nil {
			return nil, err
		}
		g.Token = token
	} else if len(d.Accounts) > 0 {
		return nil, errors.Wrap(ErrInvalidDocument, "accounts without a token")
	}

	for i, a := range d.Accounts {
		owner, err := parseAddress(fmt.Sprintf("accounts[%d].address", i), a.Address)
		if err != nil {
			return nil, err
		}
		g.Balances = append(g.Balances, Balance{Owner: owner, Amount: types.TokenAmount(a.Balance)})
	}

	for i, v := range d.Validators {
		field := fmt.Sprintf("validators[%d]", i)
		address, err := parseAddress(field+".address", v.Address)
		if err != nil {
			return nil, err
		}
		reward, err := parseAddress(field+".reward_address", v.RewardAddress)
		if err != nil {
			return nil, err
		}
		key, err := ParseConsensusKey(v.ConsensusKey)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.consensus_key", field)
		}
		g.Validators = append(g.Validators, types.GenesisValidator{
			Address:              address,
			StakingRewardAddress: reward,
			Tokens:               types.TokenAmount(v.Tokens),
			ConsensusKey:         key,
		})
	}
	return g, nil
}

func (p Params) apply(params *epoch.Params) *epoch.Params {
	if p.PipelineLength != nil {
		params.PipelineLength = *p.PipelineLength
	}
	if p.UnbondingLength != nil {
		params.UnbondingLength = *p.UnbondingLength
	}
	if p.MaxActiveValidators != nil {
		params.MaxActiveValidators = *p.MaxActiveValidators
	}
	if p.VotesPerToken != nil {
		params.VotesPerToken = *p.VotesPerToken
	}
	return params
}

// ParseConsensusKey decodes a hex encoded secp256k1 public key, compressed or not,
// and returns its compressed form.
func ParseConsensusKey(s string) (types.PublicKey, error) {
	raw, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDocument, "consensus key: %v", err)
	}
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidDocument, "consensus key: %v", err)
	}
	return types.PublicKey(pub.SerializeCompressed()), nil
}

func parseAddress(field, s string) (thor.Address, error) {
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return thor.Address{}, errors.Wrapf(ErrInvalidDocument, "%s: %v", field, err)
	}
	return *addr, nil
}
