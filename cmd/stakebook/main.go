// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakebook/genesis"
	"github.com/vechain/stakebook/log"
	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/pos/staker"
	"github.com/vechain/stakebook/pos/types"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakebook",
		Usage:     "Epoched proof-of-stake bookkeeping",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			dbEngineFlag,
			cacheFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Before: func(ctx *cli.Context) error {
			initLogger(ctx)
			return nil
		},
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "initialize the database from a genesis document",
				Flags:  []cli.Flag{genesisFlag, devnetFlag},
				Action: initAction,
			},
			{
				Name:   "become-validator",
				Usage:  "register an address as a validator",
				Flags:  []cli.Flag{addressFlag, rewardAddressFlag, consensusKeyFlag, epochFlag},
				Action: becomeValidatorAction,
			},
			{
				Name:   "transfer",
				Usage:  "move tokens between accounts",
				Flags:  []cli.Flag{tokenFlag, fromFlag, toFlag, amountFlag},
				Action: transferAction,
			},
			{
				Name:   "show",
				Usage:  "print the validator set, or one validator, at an epoch",
				Flags:  []cli.Flag{epochFlag, addressFlag, dumpFlag, jsonFlag},
				Action: showAction,
			},
			{
				Name:   "serve",
				Usage:  "expose the stake metrics over http",
				Flags:  []cli.Flag{metricsAddrFlag, epochFlag},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		return genesis.Load(path)
	}
	if n := ctx.Int(devnetFlag.Name); n > 0 {
		return genesis.Devnet(n), nil
	}
	return nil, errors.New("either --genesis or --devnet is required")
}

func initAction(ctx *cli.Context) error {
	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}

	st, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	stage := st.NewStage()
	if err := gene.Apply(stage); err != nil {
		return errors.Wrap(err, "apply genesis")
	}
	if err := stage.Commit(); err != nil {
		return err
	}

	logger.Info("database initialized",
		"dir", ctx.GlobalString(dataDirFlag.Name),
		"engine", ctx.GlobalString(dbEngineFlag.Name),
		"epoch", gene.Epoch,
		"validators", len(gene.Validators))
	return nil
}

func becomeValidatorAction(ctx *cli.Context) error {
	address, err := requireAddress(ctx, addressFlag)
	if err != nil {
		return err
	}
	reward, err := requireAddress(ctx, rewardAddressFlag)
	if err != nil {
		return err
	}
	key, err := genesis.ParseConsensusKey(ctx.String(consensusKeyFlag.Name))
	if err != nil {
		return errors.Wrapf(err, "--%s", consensusKeyFlag.Name)
	}
	current := epoch.Epoch(ctx.Uint64(epochFlag.Name))

	st, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	stage := st.NewStage()
	if err := staker.New(stage).BecomeValidator(address, reward, key, current); err != nil {
		stage.Discard()
		return err
	}
	if err := stage.Commit(); err != nil {
		return err
	}

	params, err := staker.New(st.NewStage()).Params()
	if err != nil {
		return err
	}
	logger.Info("validator registered",
		"address", address,
		"epoch", current,
		"candidate-from", current.Add(params.PipelineLength))
	return nil
}

func transferAction(ctx *cli.Context) error {
	token, err := requireAddress(ctx, tokenFlag)
	if err != nil {
		return err
	}
	from, err := requireAddress(ctx, fromFlag)
	if err != nil {
		return err
	}
	to, err := requireAddress(ctx, toFlag)
	if err != nil {
		return err
	}
	amount := types.TokenAmount(ctx.Uint64(amountFlag.Name))

	st, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	stage := st.NewStage()
	if err := stage.Transfer(token, from, to, amount); err != nil {
		return err
	}
	if err := stage.Commit(); err != nil {
		return err
	}
	logger.Info("transferred", "token", token, "from", from, "to", to, "amount", amount)
	return nil
}
