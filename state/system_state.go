// Package state defines the physical state the filter estimates, the symmetry group element it
// carries internally and the Lie algebra elements that drive it.
package state

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/eqf-vio/msceqf/config"
	"github.com/eqf-vio/msceqf/spatialmath"
)

// SystemBlock is a clone or landmark of the system state.
type SystemBlock struct {
	Kind Kind
	// Pose is the camera pose in the world frame of a clone.
	Pose spatialmath.SE3
	// Point is the world position of a landmark.
	Point r3.Vector
}

// BlockKind returns the kind of the block.
func (b SystemBlock) BlockKind() Kind {
	return b.Kind
}

// SystemState is an element of the homogeneous space: the physical quantities being estimated.
type SystemState struct {
	// T holds orientation, velocity and position of the IMU in the world frame.
	T spatialmath.SE23
	// B is the gyro bias (W) and accelerometer bias (V).
	B spatialmath.Twist
	// S is the camera pose in the IMU frame.
	S spatialmath.SE3
	// K is the camera intrinsics.
	K spatialmath.Intrinsics
	// Gravity is the local gravity magnitude. Gravity points along -z in the world frame.
	Gravity float64
	// CalibrateIntrinsics includes the intrinsics in the tangent layout.
	CalibrateIntrinsics bool

	Blocks *Collection[SystemBlock]
}

// NewSystemState returns the system state described by the options, with no clones or landmarks.
func NewSystemState(opts *config.StateOptions) *SystemState {
	return &SystemState{
		T:       opts.OriginSE23(),
		B:       opts.OriginBias(),
		S:       opts.ExtrinsicsSE3(),
		K:       opts.IntrinsicsGroup(),
		Gravity: opts.Gravity,

		CalibrateIntrinsics: opts.CalibrateIntrinsics,
		Blocks:              NewCollection[SystemBlock](),
	}
}

// Copy returns a deep copy of xi.
func (xi *SystemState) Copy() *SystemState {
	out := *xi
	out.Blocks = xi.Blocks.Copy()
	return &out
}

// GravityVector returns the gravity vector in the world frame.
func (xi *SystemState) GravityVector() r3.Vector {
	return r3.Vector{Z: -xi.Gravity}
}

// Pose returns the IMU pose in the world frame.
func (xi *SystemState) Pose() spatialmath.SE3 {
	return xi.T.RotPos()
}

// CameraPose returns the camera pose in the world frame.
func (xi *SystemState) CameraPose() spatialmath.SE3 {
	return xi.Pose().Mul(xi.S)
}

// Clone returns the pose of the clone stored under id.
func (xi *SystemState) Clone(id ID) (spatialmath.SE3, error) {
	b, ok := xi.Blocks.Get(id)
	if !ok || b.Kind != KindClone {
		return spatialmath.SE3{}, errors.Wrapf(ErrUnknownID, "clone %d", id)
	}
	return b.Pose, nil
}

// Landmark returns the world position of the landmark stored under id.
func (xi *SystemState) Landmark(id ID) (r3.Vector, error) {
	b, ok := xi.Blocks.Get(id)
	if !ok || b.Kind != KindLandmark {
		return r3.Vector{}, errors.Wrapf(ErrUnknownID, "landmark %d", id)
	}
	return b.Point, nil
}

// Validate checks that every rotation is a unit quaternion and the intrinsics are invertible.
func (xi *SystemState) Validate() error {
	if !spatialmath.IsUnit(xi.T.Rot) {
		return NewNonUnitRotationError("T", xi.T.Rot)
	}
	if !spatialmath.IsUnit(xi.S.Rot) {
		return NewNonUnitRotationError("S", xi.S.Rot)
	}
	if xi.K.Fx <= 0 || xi.K.Fy <= 0 {
		return NewNonInvertibleError("K", min(xi.K.Fx, xi.K.Fy))
	}
	for id, b := range xi.Blocks.All() {
		if b.Kind == KindClone && !spatialmath.IsUnit(b.Pose.Rot) {
			return NewNonUnitRotationError(fmt.Sprintf("clone %d", id), b.Pose.Rot)
		}
	}
	return nil
}
