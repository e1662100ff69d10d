// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co holds the small concurrency helpers used strictly at the
// adapter boundary (JEventSource fetch, KvStore write-behind): the core
// R/E/A tick itself is single-threaded and synchronous per spec.md §5.
package co

import "sync"

// Goes runs a group of goroutines and waits for all of them to return,
// mirroring the teacher's co.Goes used to fan out Node.Run's background
// loops (houseKeeping/txStashLoop/packerLoop/backerLoop).
type Goes struct {
	wg       sync.WaitGroup
	initOnce sync.Once
	doneOnce sync.Once
	done     chan struct{}
}

func (g *Goes) init() {
	g.initOnce.Do(func() {
		g.done = make(chan struct{})
	})
}

// Go starts f in a new goroutine tracked by this group.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// Wait blocks until every goroutine started by Go has returned.
func (g *Goes) Wait() {
	g.wg.Wait()
	g.init()
	g.doneOnce.Do(func() { close(g.done) })
}

// Done returns a channel closed once Wait has observed all goroutines
// finish.
func (g *Goes) Done() <-chan struct{} {
	g.init()
	return g.done
}
