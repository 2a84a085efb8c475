package referenceframe

import (
	"go.viam.com/collision/spatialmath"
)

// KinematicState supplies the current world-frame pose of every link of a robot. The collision
// engine queries it fresh at the start of every check and never caches poses across calls, so an
// implementation backed by live forward kinematics always reflects the latest joint positions.
type KinematicState interface {
	// LinkPose returns the world-frame pose of the named link.
	LinkPose(link string) (spatialmath.Pose, error)
}

// StaticState is a KinematicState backed by explicitly set poses. Links with no pose set report
// the zero pose, mirroring a robot whose joints are at their default values.
type StaticState struct {
	poses map[string]spatialmath.Pose
}

// NewStaticState returns a StaticState with no poses set.
func NewStaticState() *StaticState {
	return &StaticState{poses: make(map[string]spatialmath.Pose)}
}

// SetLinkPose sets the world-frame pose of the named link.
func (s *StaticState) SetLinkPose(link string, pose spatialmath.Pose) {
	s.poses[link] = pose
}

// LinkPose returns the world-frame pose of the named link.
func (s *StaticState) LinkPose(link string) (spatialmath.Pose, error) {
	if pose, ok := s.poses[link]; ok {
		return pose, nil
	}
	return spatialmath.NewZeroPose(), nil
}
