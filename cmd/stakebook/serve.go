// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakebook/metrics"
	"github.com/vechain/stakebook/pos/epoch"
	"github.com/vechain/stakebook/pos/staker"
	"github.com/vechain/stakebook/pos/store"
)

var (
	metricSetSize    = metrics.LazyLoadGaugeVec("pos_validator_set_size", []string{"partition"})
	metricCacheStats = metrics.LazyLoadGaugeVec("store_cache_lookups", []string{"result"})
)

func newMetricsServer() *http.Server {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	return &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
}

// publishStats sets the set size and cache gauges for epoch e.
func publishStats(st *store.Store, e epoch.Epoch) error {
	s := staker.New(st.NewStage())
	set, err := s.ValidatorSet(e)
	if err != nil {
		return err
	}
	total, err := s.TotalVotingPower(e)
	if err != nil {
		return err
	}
	metricSetSize().SetWithLabel(int64(set.ActiveLen()), map[string]string{"partition": "active"})
	metricSetSize().SetWithLabel(int64(set.Len()-set.ActiveLen()), map[string]string{"partition": "inactive"})
	metrics.Gauge("pos_total_voting_power").Set(metrics.ClampInt64(uint64(total)))

	hit, miss := st.CacheStats()
	metricCacheStats().SetWithLabel(hit, map[string]string{"result": "hit"})
	metricCacheStats().SetWithLabel(miss, map[string]string{"result": "miss"})
	return nil
}

func serveAction(ctx *cli.Context) error {
	metrics.InitializePrometheusMetrics()

	st, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	e := epoch.Epoch(ctx.Uint64(epochFlag.Name))
	if err := publishStats(st, e); err != nil {
		return errors.Wrapf(err, "read epoch %d", e)
	}

	addr := ctx.String(metricsAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}
	srv := newMetricsServer()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping metrics server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("metrics server started", "url", "http://"+listener.Addr().String()+"/metrics", "epoch", e)
	return g.Wait()
}
