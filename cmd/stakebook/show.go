// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/pos/epoched"
	"github.com/vechain/stakebook/pos/staker"
	"github.com/vechain/stakebook/pos/store"
	"github.com/vechain/stakebook/pos/types"
	"github.com/vechain/stakebook/pos/validatorset"
	"github.com/vechain/stakebook/thor"
)

var dumper = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}

type outputFormat int

const (
	formatTable outputFormat = iota
	formatDump
	formatJSON
)

func formatOf(ctx *cli.Context) outputFormat {
	switch {
	case ctx.Bool(jsonFlag.Name):
		return formatJSON
	case ctx.Bool(dumpFlag.Name):
		return formatDump
	default:
		return formatTable
	}
}

type memberJSON struct {
	Address     thor.Address `json:"address"`
	VotingPower uint64       `json:"votingPower"`
}

type setJSON struct {
	Epoch            uint64       `json:"epoch"`
	Registered       int          `json:"registered"`
	TotalVotingPower uint64       `json:"totalVotingPower"`
	Hash             thor.Bytes32 `json:"hash"`
	Active           []memberJSON `json:"active"`
	Inactive         []memberJSON `json:"inactive"`
}

func membersJSON(list []validatorset.WeightedValidator) []memberJSON {
	members := make([]memberJSON, 0, len(list))
	for _, v := range list {
		members = append(members, memberJSON{Address: v.Address, VotingPower: uint64(v.VotingPower)})
	}
	return members
}

func showAction(ctx *cli.Context) error {
	st, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	e := epoch.Epoch(ctx.Uint64(epochFlag.Name))
	if ctx.String(addressFlag.Name) != "" {
		if ctx.Bool(jsonFlag.Name) {
			return fmt.Errorf("--%s applies to the validator set only", jsonFlag.Name)
		}
		address, err := requireAddress(ctx, addressFlag)
		if err != nil {
			return err
		}
		return showValidator(os.Stdout, st.NewStage(), address, e, ctx.Bool(dumpFlag.Name))
	}
	return showSet(os.Stdout, st, e, formatOf(ctx))
}

func showSet(w io.Writer, st *store.Store, e epoch.Epoch, format outputFormat) error {
	s := staker.New(st.NewStage())
	set, err := s.ValidatorSet(e)
	if err != nil {
		return err
	}
	total, err := s.TotalVotingPower(e)
	if err != nil {
		return err
	}
	registered, err := st.Validators()
	if err != nil {
		return err
	}

	switch format {
	case formatDump:
		dumper.Fdump(w, set.Active(), set.Inactive())
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(&setJSON{
			Epoch:            uint64(e),
			Registered:       len(registered),
			TotalVotingPower: uint64(total),
			Hash:             set.Hash(),
			Active:           membersJSON(set.Active()),
			Inactive:         membersJSON(set.Inactive()),
		})
	}

	fmt.Fprintf(w, "epoch %d, %d registered, total voting power %d, set hash %v\n",
		e, len(registered), total, set.Hash())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tVOTING POWER\tACTIVE")
	for _, v := range set.Active() {
		fmt.Fprintf(tw, "%v\t%d\tyes\n", v.Address, v.VotingPower)
	}
	for _, v := range set.Inactive() {
		fmt.Fprintf(tw, "%v\t%d\tno\n", v.Address, v.VotingPower)
	}
	return tw.Flush()
}

func showValidator(w io.Writer, stage *store.Stage, address thor.Address, e epoch.Epoch, dump bool) error {
	s := staker.New(stage)
	ok, err := s.IsValidator(address)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(staker.ErrNotValidator, "address %v", address)
	}

	if dump {
		state, err := stage.ReadValidatorState(address)
		if err != nil {
			return err
		}
		key, err := stage.ReadConsensusKey(address)
		if err != nil {
			return err
		}
		dumper.Fdump(w, state, key)
		return nil
	}

	reward, err := s.StakingRewardAddress(address)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "address\t%v\n", address)
	fmt.Fprintf(tw, "reward address\t%v\n", reward)
	fmt.Fprintf(tw, "state\t%v\n", orMissing(s.ValidatorState(address, e)))
	fmt.Fprintf(tw, "consensus key\t%v\n", orMissing(s.ConsensusKey(address, e)))
	fmt.Fprintf(tw, "voting power\t%v\n", orMissing(s.ValidatorVotingPower(address, e)))
	fmt.Fprintf(tw, "total deltas\t%v\n", orMissing(s.ValidatorTotalDeltas(address, e)))

	bond, err := s.Bond(types.SelfBond(address), e)
	fmt.Fprintf(tw, "self bond\t%v\n", orMissing(bond.Total(), err))
	return tw.Flush()
}

// orMissing renders a query result, printing epoch window errors in place of the value.
func orMissing[T any](v T, err error) string {
	switch {
	case err == nil:
		return fmt.Sprint(v)
	case errors.Is(err, epoched.ErrNoValue):
		return "-"
	case errors.Is(err, epoched.ErrStaleQuery):
		return "stale"
	default:
		return "error: " + err.Error()
	}
}
