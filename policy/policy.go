// Package policy defines the contract shared by the eviction-policy caches
// in the fifo, lru and lfu subpackages.
//
// Each implementation owns its entry map and its eviction index; there is
// no shared base state. Implementations are not safe for concurrent use,
// wrap them with package cache when goroutines share an instance.
package policy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCapacity is returned by constructors when capacity <= 0.
	ErrInvalidCapacity = errors.New("policy: capacity must be > 0")

	// ErrUnknownPolicy is returned by ParseKind for unsupported names.
	ErrUnknownPolicy = errors.New("policy: unknown eviction policy")
)

// Kind names an eviction policy.
type Kind string

const (
	// FIFO evicts the oldest inserted key regardless of access.
	FIFO Kind = "fifo"
	// LRU evicts the least recently read or written key.
	LRU Kind = "lru"
	// LFU evicts the least frequently used key, oldest first among equals.
	LFU Kind = "lfu"
)

// Kinds lists every supported policy in a stable order.
func Kinds() []Kind { return []Kind{FIFO, LRU, LFU} }

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// ParseKind maps a case-insensitive name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case FIFO, LRU, LFU:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// CheckCapacity validates a constructor capacity.
func CheckCapacity(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return nil
}

// EvictFunc is invoked once for every entry a policy evicts to stay within
// capacity. The entry is already gone from the cache when it runs.
// Explicit Remove and Purge do not trigger it.
type EvictFunc[K comparable, V any] func(k K, v V)

// Policy is the cache contract every eviction policy satisfies.
//
// Get and Put count as accesses ("touch"); Peek and Contains do not.
// A miss is reported through the boolean result, never as an error.
type Policy[K comparable, V any] interface {
	// Get returns the value for k and touches the entry on a hit.
	Get(k K) (V, bool)

	// Put inserts or replaces k→v. Replacing touches the entry; inserting
	// into a full cache first evicts exactly one victim.
	Put(k K, v V)

	// Peek returns the value for k without touching it.
	Peek(k K) (V, bool)

	// Contains reports whether k is resident without touching it.
	Contains(k K) bool

	// Remove deletes k and reports whether it was present.
	Remove(k K) bool

	// Keys returns resident keys in eviction order, next victim first.
	Keys() []K

	// Purge drops every entry.
	Purge()

	// Len returns the number of resident entries.
	Len() int

	// Cap returns the fixed capacity.
	Cap() int
}
