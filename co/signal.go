// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Signal is a broadcastable, re-armable condition: every Waiter created
// before the next Broadcast observes it exactly once. Used by the adapter
// package to wake a JEventSource poller when a new block range is
// available without a busy-wait loop.
type Signal struct {
	lock sync.Mutex
	ch   chan struct{}
}

// Waiter observes a single Signal.Broadcast.
type Waiter struct {
	ch <-chan struct{}
}

// C returns the channel that closes when the awaited broadcast fires.
func (w Waiter) C() <-chan struct{} { return w.ch }

func (s *Signal) chan_() chan struct{} {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// NewWaiter returns a Waiter that fires on the next Broadcast.
func (s *Signal) NewWaiter() Waiter {
	return Waiter{ch: s.chan_()}
}

// Broadcast wakes every outstanding Waiter and arms a fresh generation.
func (s *Signal) Broadcast() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	close(s.ch)
	s.ch = nil
}
