// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

// Entry is a plain key/value pair shared by the cache implementations in
// this package.
type Entry struct {
	Key   interface{}
	Value interface{}
}
