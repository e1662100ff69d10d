// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xlntypes

// Kind classifies an error per spec.md §7, so callers can branch on
// category without string matching.
type Kind int

const (
	// KindUser errors are recoverable and reported back to the caller.
	KindUser Kind = iota
	// KindProtocol errors cause the offending message to be dropped and
	// logged; processing continues. No count of dropped messages is kept.
	KindProtocol
	// KindAdapter marks errors from the JAdapter/KvStore boundary. No code
	// in this module assigns it, and the adapters do not retry failed calls.
	KindAdapter
	// KindInvariant errors are fatal: abort the tick, restore the shadow
	// env, log.
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindProtocol:
		return "protocol"
	case KindAdapter:
		return "adapter"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Classified is an error carrying a Kind.
type Classified struct {
	kind Kind
	err  error
}

// NewClassified wraps err with kind.
func NewClassified(kind Kind, err error) *Classified {
	return &Classified{kind: kind, err: err}
}

func (c *Classified) Error() string { return c.err.Error() }
func (c *Classified) Unwrap() error { return c.err }
func (c *Classified) Kind() Kind    { return c.kind }

// ClassifyOf extracts the Kind of err if it (or something it wraps) is a
// *Classified; defaults to KindUser otherwise.
func ClassifyOf(err error) Kind {
	type kinder interface{ Kind() Kind }
	for err != nil {
		if k, ok := err.(kinder); ok {
			return k.Kind()
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return KindUser
}
