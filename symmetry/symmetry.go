// Package symmetry implements the group action of the MSCEqF symmetry group on the system state,
// the lift of the inertial dynamics into the group's Lie algebra and the curvature correction
// applied to measurement updates.
//
// The action is a right action: Phi(X1*X2, xi) == Phi(X2, Phi(X1, xi)). The core block acts on
// the bias and extrinsics as well as on the navigation state, so that displacing the IMU frame
// also displaces the quantities expressed in it.
package symmetry

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/eqf-vio/msceqf/state"
)

// d selects the velocity column into the position column of an SE2(3) matrix.
var d = func() *mat.Dense {
	m := mat.NewDense(5, 5, nil)
	m.Set(3, 4, 1)
	return m
}()

// D returns a copy of the 5x5 matrix D, zero but for D[3][4] = 1. Right multiplying an SE2(3)
// matrix by D moves its velocity column into the position column.
func D() *mat.Dense {
	return mat.DenseCopyOf(d)
}

// Phi applies X to xi. Neither argument is modified.
func Phi(X *state.MSCEqFState, xi *state.SystemState) (*state.SystemState, error) {
	if err := X.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid group element")
	}
	if err := xi.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid system state")
	}
	if err := state.CheckLayout(X, xi); err != nil {
		return nil, err
	}

	c := X.D.C
	a := c.RotVel()
	pc := c.RotPos()
	camera := xi.CameraPose()
	cameraInv := camera.Inverse()

	blocks, err := state.Map(xi.Blocks, func(id state.ID, b state.SystemBlock) (state.SystemBlock, error) {
		g, _ := X.Blocks.Get(id)
		out := state.SystemBlock{Kind: b.Kind}
		switch b.Kind {
		case state.KindClone:
			out.Pose = b.Pose.Mul(g.Z)
		case state.KindLandmark:
			local := g.Q.Inverse().Act(cameraInv.Transform(b.Point))
			out.Point = camera.Transform(X.E.Transform(local))
		default:
			return out, errors.Errorf("unsupported block kind %s", b.Kind)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return &state.SystemState{
		T:                   xi.T.Mul(c),
		B:                   a.Inverse().AdjointTwist(xi.B.Add(X.D.Delta.Scale(-1))),
		S:                   pc.Inverse().Mul(xi.S).Mul(X.E),
		K:                   xi.K.Mul(X.L),
		Gravity:             xi.Gravity,
		CalibrateIntrinsics: xi.CalibrateIntrinsics,
		Blocks:              blocks,
	}, nil
}

// Compose returns the element whose action equals applying X2 and then X1:
// Phi(X1, Phi(X2, xi)) == Phi(Compose(X1, X2), xi). For this right action that is X2 * X1.
func Compose(X1, X2 *state.MSCEqFState) (*state.MSCEqFState, error) {
	return X2.Multiply(X1)
}
