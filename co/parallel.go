// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Parallel runs a producer, which feeds work onto queue, fanned out across
// up to GOMAXPROCS workers, and returns a channel that closes once every
// queued func has run. cmd/xlnd uses Parallel to credit each entity's
// initial reserves through the JAdapter concurrently, before the
// single-threaded R-tick loop starts, so that concurrency never leaks
// into the tick itself.
func Parallel(producer func(queue chan<- func())) <-chan struct{} {
	done := make(chan struct{})
	queue := make(chan func())

	go func() {
		defer close(queue)
		producer(queue)
	}()

	go func() {
		defer close(done)
		g, _ := errgroup.WithContext(context.Background())
		g.SetLimit(runtime.GOMAXPROCS(0))
		for fn := range queue {
			fn := fn
			g.Go(func() error {
				fn()
				return nil
			})
		}
		_ = g.Wait()
	}()

	return done
}
