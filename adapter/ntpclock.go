// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package adapter

import (
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/inconshreveable/log15"
)

var log = log15.New("pkg", "adapter")

// NTPClock is the production Clock: local wall time corrected by a
// periodically refreshed offset against an NTP server. Falls back to
// uncorrected local time whenever the network is unreachable, so a
// flaky NTP server never blocks Now().
type NTPClock struct {
	server string
	offset atomic.Int64 // nanoseconds to add to time.Now()
	stop   chan struct{}
}

// NewNTPClock starts a clock that resyncs against server every interval,
// returning immediately — the first Now() call uses uncorrected local
// time until the first sync completes.
func NewNTPClock(server string, interval time.Duration) *NTPClock {
	c := &NTPClock{server: server, stop: make(chan struct{})}
	go c.syncLoop(interval)
	return c
}

func (c *NTPClock) syncLoop(interval time.Duration) {
	c.syncOnce()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.syncOnce()
		case <-c.stop:
			return
		}
	}
}

func (c *NTPClock) syncOnce() {
	resp, err := ntp.Query(c.server)
	if err != nil {
		log.Warn("ntp query failed, using uncorrected local time", "server", c.server, "err", err)
		c.offset.Store(0)
		return
	}
	c.offset.Store(int64(resp.ClockOffset))
}

// Now returns the current NTP-corrected Unix time in seconds.
func (c *NTPClock) Now() int64 {
	return time.Now().Add(time.Duration(c.offset.Load())).Unix()
}

// Close stops the background resync loop.
func (c *NTPClock) Close() { close(c.stop) }

// SystemClock is the uncorrected local wall clock, used when no NTP
// server is configured or reachable at all.
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }

// FixedClock is the deterministic test Clock: Now always returns the
// configured instant unless Advance is called.
type FixedClock struct {
	now atomic.Int64
}

// NewFixedClock returns a clock pinned at t.
func NewFixedClock(t int64) *FixedClock {
	c := &FixedClock{}
	c.now.Store(t)
	return c
}

func (c *FixedClock) Now() int64 { return c.now.Load() }

// Advance moves the clock forward by delta seconds.
func (c *FixedClock) Advance(delta int64) { c.now.Add(delta) }
