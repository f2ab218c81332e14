package state

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/eqf-vio/msceqf/spatialmath"
)

// Tangent dimensions of the fixed blocks.
const (
	DofSDB        = 15
	DofExtrinsics = 6
	DofIntrinsics = 4
)

// GroupBlock is the group element acting on one clone or landmark.
type GroupBlock struct {
	Kind Kind
	// Z acts on a clone by right multiplication.
	Z spatialmath.SE3
	// Q acts on a landmark through its camera frame.
	Q spatialmath.SOT3
}

// BlockKind returns the kind of the block.
func (b GroupBlock) BlockKind() Kind {
	return b.Kind
}

// NewGroupBlock returns the identity element for a block of the given kind.
func NewGroupBlock(kind Kind) GroupBlock {
	return GroupBlock{Kind: kind, Z: spatialmath.IdentitySE3(), Q: spatialmath.IdentitySOT3()}
}

func (b GroupBlock) mul(o GroupBlock) GroupBlock {
	return GroupBlock{Kind: b.Kind, Z: b.Z.Mul(o.Z), Q: b.Q.Mul(o.Q)}
}

func (b GroupBlock) inverse() GroupBlock {
	return GroupBlock{Kind: b.Kind, Z: b.Z.Inverse(), Q: b.Q.Inverse()}
}

// MSCEqFState is an element of the symmetry group: the composite state the filter carries.
type MSCEqFState struct {
	// D is the semi-direct bias element acting on T and the bias.
	D spatialmath.SDB
	// E acts on the camera extrinsics.
	E spatialmath.SE3
	// L acts on the camera intrinsics. It stays the identity unless intrinsics are calibrated.
	L spatialmath.Intrinsics
	// CalibrateIntrinsics includes L in the tangent layout.
	CalibrateIntrinsics bool

	Blocks *Collection[GroupBlock]
}

// NewMSCEqFState returns the identity element with no clones or landmarks.
func NewMSCEqFState(calibrateIntrinsics bool) *MSCEqFState {
	return &MSCEqFState{
		D:                   spatialmath.IdentitySDB(),
		E:                   spatialmath.IdentitySE3(),
		L:                   spatialmath.IdentityIntrinsics(),
		CalibrateIntrinsics: calibrateIntrinsics,
		Blocks:              NewCollection[GroupBlock](),
	}
}

// IdentityLike returns the identity element with the block layout of X.
func (X *MSCEqFState) IdentityLike() *MSCEqFState {
	out := NewMSCEqFState(X.CalibrateIntrinsics)
	out.Blocks, _ = Map(X.Blocks, func(_ ID, b GroupBlock) (GroupBlock, error) {
		return NewGroupBlock(b.Kind), nil
	})
	return out
}

// Copy returns a deep copy of X.
func (X *MSCEqFState) Copy() *MSCEqFState {
	out := *X
	out.Blocks = X.Blocks.Copy()
	return &out
}

// Dof returns the dimension of the tangent space at X.
func (X *MSCEqFState) Dof() int {
	n := DofSDB + DofExtrinsics + X.Blocks.Dof()
	if X.CalibrateIntrinsics {
		n += DofIntrinsics
	}
	return n
}

// Multiply returns X * o. Both must share a block layout.
func (X *MSCEqFState) Multiply(o *MSCEqFState) (*MSCEqFState, error) {
	if X.CalibrateIntrinsics != o.CalibrateIntrinsics {
		return nil, errors.Wrap(ErrBlockMismatch, "intrinsics calibration differs")
	}
	if err := SameLayout(X.Blocks, o.Blocks); err != nil {
		return nil, err
	}
	blocks, err := Map(X.Blocks, func(id ID, b GroupBlock) (GroupBlock, error) {
		ob, _ := o.Blocks.Get(id)
		return b.mul(ob), nil
	})
	if err != nil {
		return nil, err
	}
	return &MSCEqFState{
		D:                   X.D.Mul(o.D),
		E:                   X.E.Mul(o.E),
		L:                   X.L.Mul(o.L),
		CalibrateIntrinsics: X.CalibrateIntrinsics,
		Blocks:              blocks,
	}, nil
}

// Inverse returns X^-1.
func (X *MSCEqFState) Inverse() *MSCEqFState {
	blocks, _ := Map(X.Blocks, func(_ ID, b GroupBlock) (GroupBlock, error) {
		return b.inverse(), nil
	})
	return &MSCEqFState{
		D:                   X.D.Inverse(),
		E:                   X.E.Inverse(),
		L:                   X.L.Inverse(),
		CalibrateIntrinsics: X.CalibrateIntrinsics,
		Blocks:              blocks,
	}
}

// MultiplyRight returns X * exp(a).
func (X *MSCEqFState) MultiplyRight(a *Algebra) (*MSCEqFState, error) {
	e, err := Exp(a)
	if err != nil {
		return nil, err
	}
	return X.Multiply(e)
}

// MultiplyLeft returns exp(a) * X.
func (X *MSCEqFState) MultiplyLeft(a *Algebra) (*MSCEqFState, error) {
	e, err := Exp(a)
	if err != nil {
		return nil, err
	}
	return e.Multiply(X)
}

// Validate checks that every rotation is a unit quaternion and every scale is positive. NaN
// values are not rejected.
func (X *MSCEqFState) Validate() error {
	if !spatialmath.IsUnit(X.D.C.Rot) {
		return NewNonUnitRotationError("D", X.D.C.Rot)
	}
	if !spatialmath.IsUnit(X.E.Rot) {
		return NewNonUnitRotationError("E", X.E.Rot)
	}
	if X.L.Fx <= 0 || X.L.Fy <= 0 {
		return NewNonInvertibleError("L", min(X.L.Fx, X.L.Fy))
	}
	for id, b := range X.Blocks.All() {
		name := fmt.Sprintf("%s %d", b.Kind, id)
		switch b.Kind {
		case KindClone:
			if !spatialmath.IsUnit(b.Z.Rot) {
				return NewNonUnitRotationError(name, b.Z.Rot)
			}
		case KindLandmark:
			if !spatialmath.IsUnit(b.Q.Rot) {
				return NewNonUnitRotationError(name, b.Q.Rot)
			}
			if b.Q.Scale <= 0 {
				return NewNonInvertibleError(name, b.Q.Scale)
			}
		}
	}
	return nil
}
