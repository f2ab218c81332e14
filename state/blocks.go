package state

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/eqf-vio/msceqf/spatialmath"
)

// CheckLayout returns an error unless X and xi hold the same clones and landmarks in the same
// order and agree on intrinsics calibration.
func CheckLayout(X *MSCEqFState, xi *SystemState) error {
	if X.CalibrateIntrinsics != xi.CalibrateIntrinsics {
		return errors.Wrap(ErrBlockMismatch, "intrinsics calibration differs")
	}
	return SameLayout(X.Blocks, xi.Blocks)
}

// AddClone adds a clone with the given world pose to xi and the identity clone element to X.
// Nothing is changed when either already holds id.
func AddClone(X *MSCEqFState, xi *SystemState, id ID, pose spatialmath.SE3) error {
	return addBlock(X, xi, id, SystemBlock{Kind: KindClone, Pose: spatialmath.NewSE3(pose.Rot, pose.Trans)})
}

// AddLandmark adds a landmark with the given world position to xi and the identity landmark
// element to X. Nothing is changed when either already holds id.
func AddLandmark(X *MSCEqFState, xi *SystemState, id ID, point r3.Vector) error {
	return addBlock(X, xi, id, SystemBlock{Kind: KindLandmark, Point: point})
}

func addBlock(X *MSCEqFState, xi *SystemState, id ID, b SystemBlock) error {
	if X.Blocks.Has(id) || xi.Blocks.Has(id) {
		return errors.Wrapf(ErrDuplicateID, "%s %d", b.Kind, id)
	}
	if err := xi.Blocks.Insert(id, b); err != nil {
		return err
	}
	return X.Blocks.Insert(id, NewGroupBlock(b.Kind))
}

// RemoveBlock removes the clone or landmark id from both X and xi. Nothing is changed when
// either lacks id.
func RemoveBlock(X *MSCEqFState, xi *SystemState, id ID) error {
	if !X.Blocks.Has(id) || !xi.Blocks.Has(id) {
		return errors.Wrapf(ErrUnknownID, "%d", id)
	}
	X.Blocks.Remove(id)
	xi.Blocks.Remove(id)
	return nil
}
