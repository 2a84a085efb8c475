package collision

import "github.com/golang/geo/r3"

// CollisionRequest holds the parameters of a single collision query.
type CollisionRequest struct {
	// Group restricts the check to the links of the named model group. Empty means all links.
	Group string

	// Contacts requests contact records. When false a check short-circuits on the first
	// penetration found and computes no contact positions.
	Contacts bool

	// MaxContacts caps the total number of contacts recorded across all pairs. It must be at
	// least 1 when Contacts is true; reaching the cap is normal early termination, not an error.
	MaxContacts int

	// MaxContactsPerPair caps the contacts recorded for any one body pair. Zero means 1.
	MaxContactsPerPair int
}

// validate reports malformed requests before any geometry is consulted.
func (req *CollisionRequest) validate() error {
	if req.Contacts && req.MaxContacts <= 0 {
		return newInvalidRequestError()
	}
	return nil
}

// maxPerPair returns the effective per-pair contact cap.
func (req *CollisionRequest) maxPerPair() int {
	if req.MaxContactsPerPair <= 0 {
		return 1
	}
	return req.MaxContactsPerPair
}

// Contact is a single recorded penetration between two bodies.
type Contact struct {
	// Position is the world-frame position of the penetrating surface sample.
	Position r3.Vector

	// Depth is the penetration depth, always positive.
	Depth float64

	// Normal is the world-frame surface normal of the penetrated body at the contact,
	// oriented out of the pair's second body.
	Normal r3.Vector
}

// CollisionPair is an unordered pair of body names in collision, stored in canonical order.
type CollisionPair struct {
	Name1, Name2 string
}

// NewCollisionPair returns the canonical pair for two body names.
func NewCollisionPair(a, b string) CollisionPair {
	if b < a {
		a, b = b, a
	}
	return CollisionPair{Name1: a, Name2: b}
}

// CollisionResult accumulates the outcome of a collision query. The zero value is ready to use;
// Reset returns a used result to that state so it can be reused between independent queries.
type CollisionResult struct {
	// Collision is true if any non-exempt pair of bodies penetrates.
	Collision bool

	// ContactCount is the total number of contacts recorded, clamped at the request's MaxContacts.
	ContactCount int

	// Contacts maps each colliding pair to its recorded contacts, in discovery order.
	Contacts map[CollisionPair][]Contact
}

// Reset clears the result for reuse.
func (res *CollisionResult) Reset() {
	res.Collision = false
	res.ContactCount = 0
	res.Contacts = nil
}

// pairAtCap returns whether the given pair already holds maxPerPair contacts.
func (res *CollisionResult) pairAtCap(pair CollisionPair, maxPerPair int) bool {
	return len(res.Contacts[pair]) >= maxPerPair
}

// addContact records a contact for the pair and returns whether the total contact limit has been
// reached, meaning the caller should stop enumerating.
func (res *CollisionResult) addContact(pair CollisionPair, c Contact, maxTotal int) bool {
	if res.Contacts == nil {
		res.Contacts = make(map[CollisionPair][]Contact)
	}
	res.Contacts[pair] = append(res.Contacts[pair], c)
	res.ContactCount++
	return res.ContactCount >= maxTotal
}
