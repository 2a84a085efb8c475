package collision

import (
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/collision/referenceframe"
	"go.viam.com/collision/spatialmath"
)

const (
	testResolution  = 0.01
	testMaxDistance = 0.05
)

var testLinkNames = []string{"base_link", "base_bellow_link", "r_gripper_palm_link", "l_gripper_palm_link"}

// makeTestModel builds a four link model, each link carrying a 0.25 cube in its own frame, plus
// a geometry-less link and two groups.
func makeTestModel(t *testing.T) *referenceframe.SimpleModel {
	t.Helper()
	model := referenceframe.NewSimpleModel("pr2_lite")
	for _, link := range testLinkNames {
		cube, err := spatialmath.NewBox(spatialmath.NewZeroPose(), r3.Vector{X: 0.25, Y: 0.25, Z: 0.25}, link)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, model.AddLink(link, cube), test.ShouldBeNil)
	}
	test.That(t, model.AddLink("imu_link"), test.ShouldBeNil)
	test.That(t, model.SetGroup("whole_body", testLinkNames), test.ShouldBeNil)
	test.That(t, model.SetGroup("right_arm", []string{"r_gripper_palm_link"}), test.ShouldBeNil)
	return model
}

func makeTestRobot(t *testing.T) *CollisionRobot {
	t.Helper()
	robot, err := NewCollisionRobot(makeTestModel(t), testResolution, testMaxDistance, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return robot
}

// spreadState places every link far enough apart that nothing collides.
func spreadState() *referenceframe.StaticState {
	state := referenceframe.NewStaticState()
	state.SetLinkPose("base_link", spatialmath.NewZeroPose())
	state.SetLinkPose("base_bellow_link", spatialmath.NewPoseFromPoint(r3.Vector{Y: 1}))
	state.SetLinkPose("r_gripper_palm_link", spatialmath.NewPoseFromPoint(r3.Vector{Y: 2}))
	state.SetLinkPose("l_gripper_palm_link", spatialmath.NewPoseFromPoint(r3.Vector{Y: 3}))
	return state
}

func TestDefaultNotInCollision(t *testing.T) {
	robot := makeTestRobot(t)
	acm := NewAllowedCollisionMatrix(testLinkNames, false)
	res, err := robot.CheckSelfCollision(&CollisionRequest{Group: "whole_body"}, spreadState(), acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeFalse)
	test.That(t, res.ContactCount, test.ShouldEqual, 0)

	// an empty group means all links
	res, err = robot.CheckSelfCollision(&CollisionRequest{}, spreadState(), acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeFalse)
}

func TestLinksInCollision(t *testing.T) {
	robot := makeTestRobot(t)
	state := spreadState()
	state.SetLinkPose("base_bellow_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 0.01}))
	req := &CollisionRequest{Group: "whole_body"}

	// with every pair exempt by default nothing is reported
	acm := NewAllowedCollisionMatrix(testLinkNames, true)
	res, err := robot.CheckSelfCollision(req, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeFalse)

	// flipping the overlapping pair to checked surfaces the collision
	acm.SetEntry("base_link", "base_bellow_link", false)
	res, err = robot.CheckSelfCollision(req, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeTrue)

	// and back again
	acm.SetEntry("base_link", "base_bellow_link", true)
	res, err = robot.CheckSelfCollision(req, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeFalse)
}

func TestContactReporting(t *testing.T) {
	robot := makeTestRobot(t)
	state := spreadState()
	state.SetLinkPose("base_bellow_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 0.01}))
	state.SetLinkPose("r_gripper_palm_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 5}))
	state.SetLinkPose("l_gripper_palm_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 5.01}))
	acm := NewAllowedCollisionMatrix(testLinkNames, true)
	acm.SetEntry("base_link", "base_bellow_link", false)
	acm.SetEntry("r_gripper_palm_link", "l_gripper_palm_link", false)

	// a total cap of one stops at the first contact
	res, err := robot.CheckSelfCollision(
		&CollisionRequest{Group: "whole_body", Contacts: true, MaxContacts: 1}, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeTrue)
	test.That(t, res.ContactCount, test.ShouldEqual, 1)
	test.That(t, len(res.Contacts), test.ShouldEqual, 1)

	// a per-pair cap of one with room in the total surfaces both colliding pairs
	res, err = robot.CheckSelfCollision(
		&CollisionRequest{Group: "whole_body", Contacts: true, MaxContacts: 10, MaxContactsPerPair: 1}, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeTrue)
	test.That(t, res.ContactCount, test.ShouldEqual, 2)
	test.That(t, len(res.Contacts), test.ShouldEqual, 2)
	for pair, contacts := range res.Contacts {
		test.That(t, len(contacts), test.ShouldEqual, 1)
		test.That(t, contacts[0].Depth, test.ShouldBeGreaterThan, 0)
		test.That(t, pair.Name1, test.ShouldBeLessThan, pair.Name2)
	}
}

func TestContactPositions(t *testing.T) {
	robot := makeTestRobot(t)
	state := spreadState()
	state.SetLinkPose("r_gripper_palm_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 5}))
	state.SetLinkPose("l_gripper_palm_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 5.01}))
	acm := NewAllowedCollisionMatrix(testLinkNames, true)
	acm.SetEntry("r_gripper_palm_link", "l_gripper_palm_link", false)

	res, err := robot.CheckSelfCollision(
		&CollisionRequest{Group: "whole_body", Contacts: true, MaxContacts: 1}, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeTrue)
	pair := NewCollisionPair("r_gripper_palm_link", "l_gripper_palm_link")
	contacts, ok := res.Contacts[pair]
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, len(contacts), test.ShouldEqual, 1)
	// the contact lies in the overlap volume around x = 5
	test.That(t, contacts[0].Position.X, test.ShouldAlmostEqual, 5, 0.2)
	test.That(t, contacts[0].Depth, test.ShouldBeGreaterThan, 0)
}

func TestContactsDisabledShortCircuit(t *testing.T) {
	robot := makeTestRobot(t)
	state := spreadState()
	state.SetLinkPose("base_bellow_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 0.01}))
	acm := NewAllowedCollisionMatrix(testLinkNames, false)
	res, err := robot.CheckSelfCollision(&CollisionRequest{Group: "whole_body"}, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeTrue)
	test.That(t, res.ContactCount, test.ShouldEqual, 0)
	test.That(t, len(res.Contacts), test.ShouldEqual, 0)
}

func TestCheckIdempotent(t *testing.T) {
	robot := makeTestRobot(t)
	state := spreadState()
	state.SetLinkPose("base_bellow_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 0.01}))
	acm := NewAllowedCollisionMatrix(testLinkNames, false)
	req := &CollisionRequest{Group: "whole_body", Contacts: true, MaxContacts: 5}
	first, err := robot.CheckSelfCollision(req, state, acm)
	test.That(t, err, test.ShouldBeNil)
	second, err := robot.CheckSelfCollision(req, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, second.Collision, test.ShouldEqual, first.Collision)
	test.That(t, second.ContactCount, test.ShouldEqual, first.ContactCount)
}

func TestRequestValidation(t *testing.T) {
	robot := makeTestRobot(t)
	acm := NewAllowedCollisionMatrix(testLinkNames, false)
	_, err := robot.CheckSelfCollision(&CollisionRequest{Contacts: true}, spreadState(), acm)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = robot.CheckSelfCollision(&CollisionRequest{Group: "no_such_group"}, spreadState(), acm)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestAttachedBodies(t *testing.T) {
	robot := makeTestRobot(t)
	state := spreadState()
	state.SetLinkPose("r_gripper_palm_link", spatialmath.NewPoseFromPoint(r3.Vector{X: 1}))
	acm := NewAllowedCollisionMatrix(testLinkNames, false)
	req := &CollisionRequest{Group: "right_arm"}

	// the group holds a single link, so on its own there is nothing to collide with
	res, err := robot.CheckSelfCollision(req, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeFalse)

	// a large box attached offset into the palm collides with it
	big, err := spatialmath.NewBox(
		spatialmath.NewPoseFromPoint(r3.Vector{X: 0.1}), r3.Vector{X: 0.25, Y: 0.25, Z: 0.25}, "box")
	test.That(t, err, test.ShouldBeNil)
	err = robot.AttachBody("r_gripper_palm_link", "box", []spatialmath.Geometry{big}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, robot.AttachedBodyNames(), test.ShouldResemble, []string{"box"})
	res, err = robot.CheckSelfCollision(req, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeTrue)

	// clearing the body clears the collision
	test.That(t, robot.ClearAttachedBody("box"), test.ShouldBeNil)
	res, err = robot.CheckSelfCollision(req, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeFalse)
	test.That(t, robot.ClearAttachedBody("box"), test.ShouldNotBeNil)

	// a small box still overlapping the palm collides until the palm is a touch link
	small, err := spatialmath.NewBox(
		spatialmath.NewPoseFromPoint(r3.Vector{X: 0.1}), r3.Vector{X: 0.1, Y: 0.1, Z: 0.1}, "box")
	test.That(t, err, test.ShouldBeNil)
	err = robot.AttachBody("r_gripper_palm_link", "box", []spatialmath.Geometry{small}, nil)
	test.That(t, err, test.ShouldBeNil)
	res, err = robot.CheckSelfCollision(req, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeTrue)

	// attaching under the same name replaces the body outright
	err = robot.AttachBody("r_gripper_palm_link", "box", []spatialmath.Geometry{small}, []string{"r_gripper_palm_link"})
	test.That(t, err, test.ShouldBeNil)
	res, err = robot.CheckSelfCollision(req, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeFalse)
}

func TestAttachBodyErrors(t *testing.T) {
	robot := makeTestRobot(t)
	g, err := spatialmath.NewBox(spatialmath.NewZeroPose(), r3.Vector{X: 0.1, Y: 0.1, Z: 0.1}, "")
	test.That(t, err, test.ShouldBeNil)
	// unknown parent link
	err = robot.AttachBody("no_such_link", "box", []spatialmath.Geometry{g}, nil)
	test.That(t, err, test.ShouldNotBeNil)
	// a body may not shadow a link name
	err = robot.AttachBody("r_gripper_palm_link", "base_link", []spatialmath.Geometry{g}, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestAttachedBodyPairsOnSameLinkSkipped(t *testing.T) {
	robot := makeTestRobot(t)
	state := spreadState()
	acm := NewAllowedCollisionMatrix(testLinkNames, false)
	g, err := spatialmath.NewBox(
		spatialmath.NewPoseFromPoint(r3.Vector{X: 0.2}), r3.Vector{X: 0.1, Y: 0.1, Z: 0.1}, "")
	test.That(t, err, test.ShouldBeNil)
	offset, err := spatialmath.NewBox(
		spatialmath.NewPoseFromPoint(r3.Vector{X: 0.22}), r3.Vector{X: 0.1, Y: 0.1, Z: 0.1}, "")
	test.That(t, err, test.ShouldBeNil)

	// two overlapping bodies attached to the same link are never checked against each other
	err = robot.AttachBody("r_gripper_palm_link", "tool", []spatialmath.Geometry{g}, []string{"r_gripper_palm_link"})
	test.That(t, err, test.ShouldBeNil)
	err = robot.AttachBody("r_gripper_palm_link", "tool_cable", []spatialmath.Geometry{offset}, []string{"r_gripper_palm_link"})
	test.That(t, err, test.ShouldBeNil)
	res, err := robot.CheckSelfCollision(&CollisionRequest{Group: "right_arm"}, state, acm)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Collision, test.ShouldBeFalse)
}
