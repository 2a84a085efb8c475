package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/collision/utils"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
// Pose implementations should be immutable.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// pose is a rigid transform backed by a unit dual quaternion.
type pose struct {
	dq dualquat.Number
}

// NewZeroPose returns a pose at (0,0,0) with no rotation.
func NewZeroPose() Pose {
	return newPoseFromDualQuat(dualquat.Number{Real: quat.Number{Real: 1}})
}

// NewPose takes in a position and orientation and returns a Pose.
func NewPose(p r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(p)
	}
	dq := dualquat.Number{Real: o.Quaternion()}
	return newPoseFromDualQuat(setDualTranslation(dq, p))
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in reference to.
func NewPoseFromPoint(p r3.Vector) Pose {
	dq := dualquat.Number{Real: quat.Number{Real: 1}}
	return newPoseFromDualQuat(setDualTranslation(dq, p))
}

// NewPoseFromOrientation takes in an orientation and returns a Pose at the origin.
func NewPoseFromOrientation(o Orientation) Pose {
	if o == nil {
		return NewZeroPose()
	}
	return newPoseFromDualQuat(dualquat.Number{Real: o.Quaternion()})
}

func newPoseFromDualQuat(dq dualquat.Number) Pose {
	return &pose{dq}
}

// setDualTranslation returns a dual quaternion with the same rotation as the input and the
// given translation encoded in its dual part.
func setDualTranslation(dq dualquat.Number, p r3.Vector) dualquat.Number {
	t := quat.Number{Imag: p.X, Jmag: p.Y, Kmag: p.Z}
	dq.Dual = quat.Scale(0.5, quat.Mul(t, dq.Real))
	return dq
}

// Point returns the translation component of the pose.
func (p *pose) Point() r3.Vector {
	t := quat.Scale(2, quat.Mul(p.dq.Dual, quat.Conj(p.dq.Real)))
	return r3.Vector{X: t.Imag, Y: t.Jmag, Z: t.Kmag}
}

// Orientation returns the rotation component of the pose.
func (p *pose) Orientation() Orientation {
	return NewOrientationFromQuaternion(p.dq.Real)
}

// Compose treats Poses as functions A(x) and B(x), and produces a new function C(x) = A(B(x)).
// It converts the poses to dual quaternions and multiplies them together, normalizing the result.
func Compose(a, b Pose) Pose {
	result := dualquat.Mul(dualQuatFromPose(a), dualQuatFromPose(b))
	// the product of unit dual quaternions can drift away from unit length, so renormalize
	if vecLen := quat.Abs(result.Real); !utils.Float64AlmostEqual(vecLen, 1, 1e-16) {
		result.Real = quat.Scale(1/vecLen, result.Real)
	}
	return newPoseFromDualQuat(result)
}

// PoseInverse returns the inverse of the given rigid transform, such that
// Compose(PoseInverse(p), p) is the zero pose.
func PoseInverse(p Pose) Pose {
	dq := dualQuatFromPose(p)
	realInv := quat.Conj(dq.Real)
	dualInv := quat.Scale(-1, quat.Mul(quat.Mul(realInv, dq.Dual), realInv))
	return newPoseFromDualQuat(dualquat.Number{Real: realInv, Dual: dualInv})
}

// PoseBetween returns the pose of b relative to a, i.e. the transform taking a to b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// TransformPoint applies a rigid transform to a point, returning the point in the
// transform's destination frame.
func TransformPoint(p Pose, pt r3.Vector) r3.Vector {
	return Compose(p, NewPoseFromPoint(pt)).Point()
}

func dualQuatFromPose(p Pose) dualquat.Number {
	if q, ok := p.(*pose); ok {
		return q.dq
	}
	dq := dualquat.Number{Real: p.Orientation().Quaternion()}
	return setDualTranslation(dq, p.Point())
}

// PoseAlmostCoincident checks if two poses are within a small epsilon of each other in both
// position and orientation.
func PoseAlmostCoincident(a, b Pose) bool {
	return PoseAlmostCoincidentEps(a, b, 1e-6)
}

// PoseAlmostCoincidentEps checks if two poses are within the given epsilon of each other.
func PoseAlmostCoincidentEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) && OrientationAlmostEqual(a.Orientation(), b.Orientation())
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise
// differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}
