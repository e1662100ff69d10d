// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// xlnd is a minimal single-process demo runner, adapted from the
// teacher's cmd/solo: it wires a KvStore, a mock JAdapter/JEventSource,
// and a Clock, then drives a tick loop over a YAML scenario fixture —
// useful for exercising the end-to-end flows in spec.md §8 without a
// network stack or the REST/API surface the teacher's cmd/solo serves
// (out of scope here).
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/xlnfinance/xln-sub011/adapter"
	"github.com/xlnfinance/xln-sub011/co"
	"github.com/xlnfinance/xln-sub011/config"
	"github.com/xlnfinance/xln-sub011/entity"
	"github.com/xlnfinance/xln-sub011/kv"
	"github.com/xlnfinance/xln-sub011/runtime"
	"github.com/xlnfinance/xln-sub011/snapshot"
	"github.com/xlnfinance/xln-sub011/xlntypes"
)

var log = log15.New("pkg", "xlnd")

func main() {
	configPath := flag.String("config", "", "path to the jurisdiction/entity YAML config")
	scenarioPath := flag.String("scenario", "", "path to the scenario YAML fixture")
	dataDir := flag.String("data", "", "leveldb data directory; empty uses an in-memory store")
	ntpServer := flag.String("ntp", "", "NTP server for clock discipline; empty uses local wall time")
	verbosity := flag.Int("verbosity", int(log15.LvlInfo), "log verbosity (0-9)")
	flag.Parse()

	handler := log15.StreamHandler(os.Stderr, log15.TerminalFormat())
	log15.Root().SetHandler(log15.LvlFilterHandler(log15.Lvl(*verbosity), handler))

	if err := run(*configPath, *scenarioPath, *dataDir, *ntpServer); err != nil {
		log.Crit("xlnd exiting", "err", err, "kind", xlntypes.ClassifyOf(err))
		if xlntypes.ClassifyOf(err) == xlntypes.KindInvariant {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(configPath, scenarioPath, dataDir, ntpServer string) error {
	if configPath == "" || scenarioPath == "" {
		return errors.New("xlnd: -config and -scenario are required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	scn, err := loadScenario(scenarioPath)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(dataDir)
	if err != nil {
		return err
	}
	defer closeStore()

	var clock adapter.Clock
	if ntpServer != "" {
		ntpClock := adapter.NewNTPClock(ntpServer, 10*time.Minute)
		defer ntpClock.Close()
		clock = ntpClock
	} else {
		clock = adapter.SystemClock{}
	}

	jAdapter := adapter.NewMockJAdapter()
	if err := seedReserves(jAdapter, cfg); err != nil {
		return err
	}

	env := runtime.NewEnv(cfg.Jurisdiction.ToParams())
	if err := importReplicas(env, cfg); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Jurisdiction events are drained on a background goroutine rather than
	// polled at each tick boundary, since nothing about observing them is
	// tick-synchronous (spec.md §6); goes.Wait below lets the last
	// in-flight Next return before the process exits.
	eventsCtx, cancelEvents := context.WithCancel(context.Background())
	var goes co.Goes
	goes.Go(func() {
		for {
			ev, ok, err := jAdapter.Events().Next(eventsCtx)
			if err != nil || !ok {
				return
			}
			log.Debug("jurisdiction event observed", "kind", ev.Kind, "block", ev.BlockNumber)
		}
	})
	defer func() {
		cancelEvents()
		goes.Wait()
	}()

	snapCache := runtime.NewSnapshotCache(32)

	var height uint64
	for i, tick := range scn.Ticks {
		select {
		case <-quit:
			log.Info("interrupted, stopping before remaining ticks", "appliedTicks", i)
			return nil
		default:
		}

		input, err := tick.toRuntimeInput()
		if err != nil {
			return errors.Wrapf(err, "xlnd: scenario tick %d", i)
		}
		outcomes, err := runtime.ApplyRuntimeInput(env, input)
		if err != nil {
			return errors.Wrapf(err, "xlnd: tick %d", i)
		}
		for _, o := range outcomes {
			if o.Status == runtime.OutcomeFailed {
				log.Warn("tx outcome failed", "tick", i, "key", o.Key, "reason", o.Reason)
			}
		}

		snap, err := runtime.Snapshot(env, input, "xlnd tick")
		if err != nil {
			return errors.Wrapf(err, "xlnd: compute snapshot at tick %d", i)
		}
		if err := snapshot.PersistTick(store, input, snap); err != nil {
			return errors.Wrapf(err, "xlnd: persist tick %d", i)
		}
		snapCache.Pin(snap)
		height = env.Height
		log.Info("tick applied", "height", height, "digest", snap.Digest, "wallTime", clock.Now())
	}

	log.Info("scenario complete", "finalHeight", height, "pinnedHeights", snapCache.Heights())
	return nil
}

// seedReserves credits each entity's configured initialReserves through
// jAdapter before the first tick, standing in for deposits that happened
// on-chain prior to this process starting. Entities are credited
// concurrently via co.Parallel, since this is adapter-boundary I/O the
// spec explicitly allows off the single tick thread (the tick loop
// itself only starts once every credit has landed).
func seedReserves(jAdapter *adapter.MockJAdapter, cfg config.Config) error {
	var firstErr error
	var mu sync.Mutex
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	<-co.Parallel(func(queue chan<- func()) {
		for _, ec := range cfg.Entities {
			ec := ec
			if len(ec.InitialReserves) == 0 {
				continue
			}
			queue <- func() {
				entityId, err := xlntypes.ParseBytes32(ec.EntityId)
				if err != nil {
					setErr(errors.Wrapf(err, "xlnd: entity %s", ec.EntityId))
					return
				}
				for tokenId, amount := range ec.InitialReserves {
					jAdapter.Credit(entityId, xlntypes.TokenId(tokenId), xlntypes.U256FromUint64(amount))
				}
			}
		}
	})
	return firstErr
}

func openStore(dataDir string) (kv.Store, func(), error) {
	if dataDir == "" {
		store := kv.NewMem()
		return store, func() {}, nil
	}
	store, err := kv.OpenLevelDB(dataDir)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "xlnd: open leveldb at %s", dataDir)
	}
	return store, func() { _ = store.Close() }, nil
}

// importReplicas issues one RuntimeTxImportReplica per (entity,
// validator) pair declared in cfg, designating the proposer per
// entity.DesignatedProposer's fixed-smallest-signer rule.
func importReplicas(env *runtime.Env, cfg config.Config) error {
	var imports []runtime.RuntimeTx
	for _, ec := range cfg.Entities {
		entityId, err := xlntypes.ParseBytes32(ec.EntityId)
		if err != nil {
			return errors.Wrapf(err, "xlnd: entity %s", ec.EntityId)
		}
		vc, err := ec.Validators.ToValidatorConfig()
		if err != nil {
			return err
		}
		acctCfg := ec.DefaultAccount.ToAccountConfig(cfg.Jurisdiction.ToParams())
		proposer := entity.DesignatedProposer(vc)

		for _, signer := range vc.Validators {
			imports = append(imports, runtime.RuntimeTx{
				Kind:          runtime.RuntimeTxImportReplica,
				Key:           xlntypes.ReplicaKey{EntityId: entityId, SignerId: signer},
				Config:        vc,
				AccountConfig: acctCfg,
				IsProposer:    signer == proposer,
			})
		}
	}
	_, err := runtime.ApplyRuntimeInput(env, runtime.RuntimeInput{RuntimeTxs: imports})
	return err
}
