package collision

import "sort"

// AllowedCollisionMatrix is a symmetric sparse table of body-pair collision exemptions. A pair
// marked allowed is skipped by every collision check before its geometry is ever consulted, so
// allowed pairs never appear in contacts even when geometrically overlapping. Lookups are two
// level: an explicit override for the pair if one was set, else the matrix default. The matrix
// may be mutated at any time between queries, but not concurrently with them.
type AllowedCollisionMatrix struct {
	defaultAllowed bool
	overrides      map[allowedPair]bool
	names          map[string]bool
}

// allowedPair is an unordered pair of body names, stored in canonical order.
type allowedPair struct {
	first, second string
}

func newAllowedPair(a, b string) allowedPair {
	if b < a {
		a, b = b, a
	}
	return allowedPair{a, b}
}

// NewAllowedCollisionMatrix constructs a matrix over the given body names. defaultAllowed is the
// value reported for every pair without an explicit override: true means unlisted pairs are
// ignored by collision checks, false means they are checked.
func NewAllowedCollisionMatrix(names []string, defaultAllowed bool) *AllowedCollisionMatrix {
	nameSet := make(map[string]bool, len(names))
	for _, name := range names {
		nameSet[name] = true
	}
	return &AllowedCollisionMatrix{
		defaultAllowed: defaultAllowed,
		overrides:      make(map[allowedPair]bool),
		names:          nameSet,
	}
}

// SetEntry sets the symmetric entry for the given pair. Names not known to the matrix are
// inserted on demand.
func (acm *AllowedCollisionMatrix) SetEntry(a, b string, allowed bool) {
	acm.names[a] = true
	acm.names[b] = true
	acm.overrides[newAllowedPair(a, b)] = allowed
}

// GetEntry returns whether collisions between the given pair are allowed (ignored). Pairs with
// no explicit override, including pairs of names never seen before, fall back to the default.
func (acm *AllowedCollisionMatrix) GetEntry(a, b string) bool {
	if allowed, ok := acm.overrides[newAllowedPair(a, b)]; ok {
		return allowed
	}
	return acm.defaultAllowed
}

// RemoveEntry drops the override for the given pair so it falls back to the default.
func (acm *AllowedCollisionMatrix) RemoveEntry(a, b string) {
	delete(acm.overrides, newAllowedPair(a, b))
}

// Entries returns the number of explicit overrides in the matrix.
func (acm *AllowedCollisionMatrix) Entries() int {
	return len(acm.overrides)
}

// Names returns the sorted names known to the matrix.
func (acm *AllowedCollisionMatrix) Names() []string {
	names := make([]string, 0, len(acm.names))
	for name := range acm.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
