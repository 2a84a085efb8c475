package collision

import (
	"sort"

	"github.com/edaniels/golog"

	"go.viam.com/collision/referenceframe"
	"go.viam.com/collision/spatialmath"
)

// CollisionWorld owns a set of named world objects, each with a distance field, and answers
// robot-vs-world collision queries. Object names share the AllowedCollisionMatrix namespace with
// link and attached body names, and exemptions apply to robot-world pairs exactly as they do to
// self-collision pairs. Mutations must be serialized by the caller relative to queries; a check
// reflects the object set as of its call.
type CollisionWorld struct {
	resolution  float64
	maxDistance float64
	logger      golog.Logger

	objects map[string]*worldObject
}

// worldObject is a named geometry placed in the world, with its field built in the object frame.
type worldObject struct {
	body *collisionBody
	pose spatialmath.Pose
}

// NewCollisionWorld returns an empty world. Nonpositive resolution or maxDistance select the
// same defaults as NewCollisionRobot.
func NewCollisionWorld(resolution, maxDistance float64, logger golog.Logger) *CollisionWorld {
	if resolution <= 0 {
		resolution = defaultResolution
	}
	if maxDistance <= 0 {
		maxDistance = defaultMaxDistance
	}
	return &CollisionWorld{
		resolution:  resolution,
		maxDistance: maxDistance,
		logger:      logger,
		objects:     make(map[string]*worldObject),
	}
}

// AddToObject inserts or replaces the named object with the given geometry at the given world
// pose, rebuilding its distance field. The geometry's own pose is its offset within the object
// frame.
func (cw *CollisionWorld) AddToObject(name string, g spatialmath.Geometry, pose spatialmath.Pose) error {
	body, err := newCollisionBody(name, bodyKindWorldObject, "", []spatialmath.Geometry{g}, cw.resolution, cw.maxDistance)
	if err != nil {
		return err
	}
	cw.objects[name] = &worldObject{body: body, pose: pose}
	cw.logger.Debugf("world object %q added, %d field nodes", name, body.nodeCount())
	return nil
}

// RemoveObject deletes the named object and its distance field. Subsequent checks behave as if
// the name never existed.
func (cw *CollisionWorld) RemoveObject(name string) error {
	if _, ok := cw.objects[name]; !ok {
		return NewUnknownBodyError(name)
	}
	delete(cw.objects, name)
	return nil
}

// ObjectNames returns the sorted names of all world objects.
func (cw *CollisionWorld) ObjectNames() []string {
	names := make([]string, 0, len(cw.objects))
	for name := range cw.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckRobotCollision checks every active robot link and attached body, resolved from the
// request's group exactly as in CheckSelfCollision, against every world object. Poses are read
// fresh from the state; pairs the matrix marks allowed are skipped before their geometry is
// consulted.
func (cw *CollisionWorld) CheckRobotCollision(
	req *CollisionRequest,
	robot *CollisionRobot,
	state referenceframe.KinematicState,
	acm *AllowedCollisionMatrix,
) (*CollisionResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	bodies, poses, err := robot.activeBodies(req.Group, state)
	if err != nil {
		return nil, err
	}

	res := &CollisionResult{}
	for _, name := range cw.ObjectNames() {
		object := cw.objects[name]
		for i, body := range bodies {
			if acm.GetEntry(body.name, name) {
				continue
			}
			if done := checkBodyPair(body, object.body, poses[i], object.pose, req, res); done {
				return res, nil
			}
		}
	}
	return res, nil
}
