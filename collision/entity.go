// Package collision implements distance-field-based collision detection for an articulated
// robot: self-collision between links and attached bodies, and collision between the robot and
// a set of named world objects, filtered through an AllowedCollisionMatrix.
package collision

import (
	"github.com/golang/geo/r3"

	"go.viam.com/collision/distancefield"
	"go.viam.com/collision/spatialmath"
)

// bodyKind tags the closed set of entities that can appear in a collision pair. The pair
// enumeration and exemption logic is identical across kinds, so bodies are a tagged variant
// rather than a type hierarchy.
type bodyKind int

const (
	bodyKindLink bodyKind = iota
	bodyKindAttached
	bodyKindWorldObject
)

// bodyPart is one geometry of a body together with its cached distance field and surface
// samples, all expressed in the body's frame.
type bodyPart struct {
	geometry spatialmath.Geometry
	field    *distancefield.SignedDistanceField
	samples  []r3.Vector
}

// collisionBody is a named entity used in collision checking: a robot link, an attached body,
// or a world object. Its frame is placed in the world by the owning link's kinematic pose for
// links and attached bodies, or by the stored object pose for world objects.
type collisionBody struct {
	name  string
	kind  bodyKind
	parts []*bodyPart

	// parentLink is the link whose kinematic pose places this body; for links it is the body's
	// own name, and for world objects it is unused.
	parentLink string

	// touchLinks names links unconditionally exempted from collision against this attached body,
	// independent of any AllowedCollisionMatrix entry. Only set for attached bodies.
	touchLinks map[string]bool
}

// newCollisionBody builds the distance fields and surface samples for each geometry of a body.
func newCollisionBody(
	name string,
	kind bodyKind,
	parentLink string,
	geometries []spatialmath.Geometry,
	resolution, maxDistance float64,
) (*collisionBody, error) {
	parts := make([]*bodyPart, 0, len(geometries))
	for _, g := range geometries {
		field, err := distancefield.NewSignedDistanceField(g, resolution, maxDistance)
		if err != nil {
			return nil, err
		}
		parts = append(parts, &bodyPart{
			geometry: g,
			field:    field,
			samples:  g.ToPoints(resolution),
		})
	}
	return &collisionBody{
		name:       name,
		kind:       kind,
		parts:      parts,
		parentLink: parentLink,
	}, nil
}

// nodeCount returns the total distance field node count across the parts of a body.
func (cb *collisionBody) nodeCount() int {
	total := 0
	for _, part := range cb.parts {
		nx, ny, nz := part.field.Size()
		total += nx * ny * nz
	}
	return total
}

// checkBodyPair samples each body's surface into the other's distance fields and accumulates
// penetrations into res. The returned bool is true when the result has reached its total contact
// limit (or found its first collision with contacts disabled) and the caller should stop
// enumerating pairs entirely.
func checkBodyPair(a, b *collisionBody, poseA, poseB spatialmath.Pose, req *CollisionRequest, res *CollisionResult) bool {
	pair := NewCollisionPair(a.name, b.name)
	if done, pairDone := sampleBodyInto(a, poseA, b, poseB, pair, req, res); done || pairDone {
		return done
	}
	done, _ := sampleBodyInto(b, poseB, a, poseA, pair, req, res)
	return done
}

// sampleBodyInto transforms src's cached surface samples into dst's frame and queries dst's
// distance fields for penetrations. It returns (done, pairDone): done means the whole query
// should stop, pairDone means only this pair's per-pair contact cap has been reached.
func sampleBodyInto(
	src *collisionBody, poseSrc spatialmath.Pose,
	dst *collisionBody, poseDst spatialmath.Pose,
	pair CollisionPair,
	req *CollisionRequest,
	res *CollisionResult,
) (bool, bool) {
	invDst := spatialmath.PoseInverse(poseDst)
	rmDst := poseDst.Orientation().RotationMatrix()
	// the recorded normal points out of the pair's second body
	flip := dst.name == pair.Name1

	for _, dstPart := range dst.parts {
		for _, srcPart := range src.parts {
			for _, sample := range srcPart.samples {
				world := spatialmath.TransformPoint(poseSrc, sample)
				dist, grad := dstPart.field.Query(spatialmath.TransformPoint(invDst, world))
				if dist >= 0 {
					continue
				}
				res.Collision = true
				if !req.Contacts {
					return true, true
				}
				normal := rmDst.Mul(grad)
				if flip {
					normal = normal.Mul(-1)
				}
				if res.addContact(pair, Contact{Position: world, Depth: -dist, Normal: normal}, req.MaxContacts) {
					return true, true
				}
				if res.pairAtCap(pair, req.maxPerPair()) {
					return false, true
				}
			}
		}
	}
	return false, false
}
