package collision

import (
	"sort"
	"time"

	"github.com/edaniels/golog"

	"go.viam.com/collision/referenceframe"
	"go.viam.com/collision/spatialmath"
)

const (
	// defaultResolution is the distance field node spacing and surface sampling spacing used
	// when a caller passes a nonpositive resolution.
	defaultResolution = 0.02

	// defaultMaxDistance is the distance at which fields saturate when a caller passes a
	// nonpositive max distance. It also pads every field's bounding volume.
	defaultMaxDistance = 0.2
)

// CollisionRobot owns a distance field per link geometry of a robot model and answers
// self-collision queries against it. Attached bodies may be registered and removed at runtime;
// doing so, like any mutation, must be serialized by the caller relative to queries. Queries
// themselves run synchronously on the caller's goroutine and are safe to issue concurrently
// against an unmutated robot.
type CollisionRobot struct {
	model       referenceframe.Model
	resolution  float64
	maxDistance float64
	logger      golog.Logger

	linkBodies map[string]*collisionBody
	attached   map[string]*collisionBody
}

// NewCollisionRobot eagerly builds distance fields for every link geometry of the model.
// Nonpositive resolution or maxDistance select defaults.
func NewCollisionRobot(
	model referenceframe.Model,
	resolution, maxDistance float64,
	logger golog.Logger,
) (*CollisionRobot, error) {
	if resolution <= 0 {
		resolution = defaultResolution
	}
	if maxDistance <= 0 {
		maxDistance = defaultMaxDistance
	}
	cr := &CollisionRobot{
		model:       model,
		resolution:  resolution,
		maxDistance: maxDistance,
		logger:      logger,
		linkBodies:  make(map[string]*collisionBody),
		attached:    make(map[string]*collisionBody),
	}
	start := time.Now()
	for _, link := range model.LinkNames() {
		geometries, err := model.LinkGeometries(link)
		if err != nil {
			return nil, err
		}
		if len(geometries) == 0 {
			// links without collision geometry never participate in checks
			continue
		}
		body, err := newCollisionBody(link, bodyKindLink, link, geometries, resolution, maxDistance)
		if err != nil {
			return nil, err
		}
		cr.linkBodies[link] = body
		logger.Debugf("built %d distance field(s) for link %q, %d nodes", len(body.parts), link, body.nodeCount())
	}
	logger.Debugf("collision robot %q ready, %d link fields in %s", model.Name(), len(cr.linkBodies), time.Since(start))
	return cr, nil
}

// AttachBody rigidly binds one or more geometries to the named link's frame under the given body
// name, building a distance field per geometry. Each geometry's own pose is its offset in the
// link frame. touchLinks names links that are exempted from self-collision against this body
// unconditionally; the parent link is not implicitly exempt. Attaching under an existing body
// name replaces the prior body outright.
func (cr *CollisionRobot) AttachBody(link, name string, geometries []spatialmath.Geometry, touchLinks []string) error {
	if !cr.knownLink(link) {
		return referenceframe.NewUnknownLinkError(link)
	}
	if _, ok := cr.linkBodies[name]; ok {
		return newDuplicateBodyError(name)
	}
	body, err := newCollisionBody(name, bodyKindAttached, link, geometries, cr.resolution, cr.maxDistance)
	if err != nil {
		return err
	}
	body.touchLinks = make(map[string]bool, len(touchLinks))
	for _, touch := range touchLinks {
		body.touchLinks[touch] = true
	}
	cr.attached[name] = body
	cr.logger.Debugf("attached body %q to link %q with %d geometries", name, link, len(geometries))
	return nil
}

// ClearAttachedBody removes the named attached body and releases its distance fields.
func (cr *CollisionRobot) ClearAttachedBody(name string) error {
	if _, ok := cr.attached[name]; !ok {
		return NewUnknownBodyError(name)
	}
	delete(cr.attached, name)
	return nil
}

// AttachedBodyNames returns the sorted names of all attached bodies.
func (cr *CollisionRobot) AttachedBodyNames() []string {
	names := make([]string, 0, len(cr.attached))
	for name := range cr.attached {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckSelfCollision checks the robot against itself in the given kinematic state: all unordered
// pairs of active links, active links against attached bodies (excepting each body's touch
// links), and attached bodies on different links against each other. Pairs the matrix marks
// allowed are skipped before their geometry is consulted. Link poses are read fresh from the
// state at the start of the check and never cached across calls.
func (cr *CollisionRobot) CheckSelfCollision(
	req *CollisionRequest,
	state referenceframe.KinematicState,
	acm *AllowedCollisionMatrix,
) (*CollisionResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	bodies, poses, err := cr.activeBodies(req.Group, state)
	if err != nil {
		return nil, err
	}

	res := &CollisionResult{}
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			if skip := skipSelfPair(a, b); skip {
				continue
			}
			if acm.GetEntry(a.name, b.name) {
				continue
			}
			if done := checkBodyPair(a, b, poses[i], poses[j], req, res); done {
				return res, nil
			}
		}
	}
	return res, nil
}

// skipSelfPair applies the structural exemptions that precede the AllowedCollisionMatrix:
// touch links for attached bodies, and attached bodies sharing a parent link.
func skipSelfPair(a, b *collisionBody) bool {
	if a.kind == bodyKindAttached && b.kind == bodyKindAttached {
		return a.parentLink == b.parentLink
	}
	if a.kind == bodyKindAttached && b.kind == bodyKindLink {
		return a.touchLinks[b.name]
	}
	if b.kind == bodyKindAttached && a.kind == bodyKindLink {
		return b.touchLinks[a.name]
	}
	return false
}

// activeBodies resolves the request's group scope into the participating bodies, paired with
// their world poses read fresh from the state. Link bodies come first in model order, then
// attached bodies on active links in name order.
func (cr *CollisionRobot) activeBodies(
	group string,
	state referenceframe.KinematicState,
) ([]*collisionBody, []spatialmath.Pose, error) {
	var links []string
	var err error
	if group == "" {
		links = cr.model.LinkNames()
	} else if links, err = cr.model.Group(group); err != nil {
		return nil, nil, err
	}

	active := make(map[string]bool, len(links))
	var bodies []*collisionBody
	var poses []spatialmath.Pose
	for _, link := range links {
		active[link] = true
		body, ok := cr.linkBodies[link]
		if !ok {
			continue
		}
		pose, err := state.LinkPose(link)
		if err != nil {
			return nil, nil, err
		}
		bodies = append(bodies, body)
		poses = append(poses, pose)
	}
	for _, name := range cr.AttachedBodyNames() {
		body := cr.attached[name]
		if !active[body.parentLink] {
			continue
		}
		pose, err := state.LinkPose(body.parentLink)
		if err != nil {
			return nil, nil, err
		}
		bodies = append(bodies, body)
		poses = append(poses, pose)
	}
	return bodies, poses, nil
}

// knownLink reports whether the model defines the named link, with or without geometry.
func (cr *CollisionRobot) knownLink(link string) bool {
	for _, name := range cr.model.LinkNames() {
		if name == link {
			return true
		}
	}
	return false
}
