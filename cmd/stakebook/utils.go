// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakebook/kv"
	"github.com/vechain/stakebook/kv/lvldb"
	"github.com/vechain/stakebook/kv/pebbledb"
	"github.com/vechain/stakebook/log"
	"github.com/vechain/stakebook/pos/store"
	"github.com/vechain/stakebook/thor"
)

// records per megabyte of --cache kept by the store's decoded read cache
const cacheEntriesPerMB = 256

func initLogger(ctx *cli.Context) {
	level := log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name))
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		log.SetHandler(log.NewJSONHandler(os.Stderr, level))
		return
	}
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.SetHandler(log.NewTerminalHandler(os.Stderr, level, useColor))
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".stakebook")
	}
	return ".stakebook"
}

func openEngine(ctx *cli.Context) (kv.Engine, error) {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}

	switch name := ctx.GlobalString(dbEngineFlag.Name); name {
	case "leveldb":
		return lvldb.Open(filepath.Join(dataDir, "leveldb"), &lvldb.Options{
			ReadCacheMB:            normalizeCacheSize(ctx.GlobalInt(cacheFlag.Name)),
			OpenFilesCacheCapacity: suggestFDCache(),
		})
	case "pebble":
		return pebbledb.Open(filepath.Join(dataDir, "pebble"))
	default:
		return nil, fmt.Errorf("unsupported db engine %q", name)
	}
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
	} else {
		// limit to 1/4 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 4)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit", "err", err)
		return 64
	}
	return min(max(limit/4, 16), 1024)
}

// openStore opens the engine selected by the global flags. The returned func closes it.
func openStore(ctx *cli.Context) (*store.Store, func(), error) {
	engine, err := openEngine(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open database")
	}
	size := normalizeCacheSize(ctx.GlobalInt(cacheFlag.Name)) * cacheEntriesPerMB
	s, err := store.New(engine, size)
	if err != nil {
		engine.Close()
		return nil, nil, err
	}
	return s, func() {
		logger.Info("closing database...")
		if err := engine.Close(); err != nil {
			logger.Warn("failed to close database", "err", err)
		}
	}, nil
}

func requireAddress(ctx *cli.Context, flag cli.StringFlag) (thor.Address, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		return thor.Address{}, fmt.Errorf("--%s is required", flag.Name)
	}
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return thor.Address{}, errors.Wrapf(err, "--%s", flag.Name)
	}
	return *addr, nil
}
