// Package spatialmath defines spatial mathematical operations, and the geometric primitives
// the collision engine builds its distance fields from.
package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Orientation is an interface used to express the different parameterizations of the orientation
// of a rigid object in 3D space.
type Orientation interface {
	// Quaternion returns the orientation as a quaternion.
	Quaternion() quat.Number

	// EulerAngles returns the orientation as ZYX euler angles.
	EulerAngles() *EulerAngles

	// RotationMatrix returns the orientation as a rotation matrix.
	RotationMatrix() *RotationMatrix
}

// NewZeroOrientation returns an orientation which signifies no rotation.
func NewZeroOrientation() Orientation {
	return &quaternion{1, 0, 0, 0}
}

// quaternion is an orientation backed directly by a gonum quaternion.
type quaternion quat.Number

// NewOrientationFromQuaternion returns an Orientation from the given quaternion, normalized.
func NewOrientationFromQuaternion(q quat.Number) Orientation {
	n := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if n == 0 {
		return NewZeroOrientation()
	}
	return &quaternion{q.Real / n, q.Imag / n, q.Jmag / n, q.Kmag / n}
}

func (q *quaternion) Quaternion() quat.Number {
	return quat.Number(*q)
}

func (q *quaternion) EulerAngles() *EulerAngles {
	return quatToEulerAngles(quat.Number(*q))
}

func (q *quaternion) RotationMatrix() *RotationMatrix {
	return quatToRotationMatrix(quat.Number(*q))
}

// EulerAngles are three angles used to represent the rotation of an object in 3D Euclidean space,
// interpreted as a rotation of Yaw about Z, then Pitch about Y, then Roll about X.
type EulerAngles struct {
	Roll  float64 // Rotation about X, radians
	Pitch float64 // Rotation about Y, radians
	Yaw   float64 // Rotation about Z, radians
}

// NewEulerAngles creates an empty EulerAngles struct.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{}
}

func (ea *EulerAngles) Quaternion() quat.Number {
	cy := math.Cos(ea.Yaw / 2)
	sy := math.Sin(ea.Yaw / 2)
	cp := math.Cos(ea.Pitch / 2)
	sp := math.Sin(ea.Pitch / 2)
	cr := math.Cos(ea.Roll / 2)
	sr := math.Sin(ea.Roll / 2)

	return quat.Number{
		Real: cy*cp*cr + sy*sp*sr,
		Imag: cy*cp*sr - sy*sp*cr,
		Jmag: sy*cp*sr + cy*sp*cr,
		Kmag: sy*cp*cr - cy*sp*sr,
	}
}

func (ea *EulerAngles) EulerAngles() *EulerAngles {
	return ea
}

func (ea *EulerAngles) RotationMatrix() *RotationMatrix {
	return quatToRotationMatrix(ea.Quaternion())
}

// quatToEulerAngles converts a quaternion to the euler angle representation.
func quatToEulerAngles(q quat.Number) *EulerAngles {
	angles := EulerAngles{}

	// roll (x-axis rotation)
	sinrCosp := 2 * (q.Real*q.Imag + q.Jmag*q.Kmag)
	cosrCosp := 1 - 2*(q.Imag*q.Imag+q.Jmag*q.Jmag)
	angles.Roll = math.Atan2(sinrCosp, cosrCosp)

	// pitch (y-axis rotation)
	sinp := 2 * (q.Real*q.Jmag - q.Kmag*q.Imag)
	if math.Abs(sinp) >= 1 {
		angles.Pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		angles.Pitch = math.Asin(sinp)
	}

	// yaw (z-axis rotation)
	sinyCosp := 2 * (q.Real*q.Kmag + q.Imag*q.Jmag)
	cosyCosp := 1 - 2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag)
	angles.Yaw = math.Atan2(sinyCosp, cosyCosp)

	return &angles
}

// OrientationAlmostEqual will return a bool describing whether 2 orientations are approximately the same.
func OrientationAlmostEqual(o1, o2 Orientation) bool {
	return QuaternionAlmostEqual(o1.Quaternion(), o2.Quaternion(), 1e-6)
}

// QuaternionAlmostEqual checks whether two quaternions represent approximately the same orientation,
// accounting for the double cover of rotation space.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	dot := a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
	return math.Abs(math.Abs(dot)-1) < tol
}
