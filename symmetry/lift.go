package symmetry

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/eqf-vio/msceqf/sensors"
	"github.com/eqf-vio/msceqf/spatialmath"
	"github.com/eqf-vio/msceqf/state"
)

// ErrDegenerateLandmark is returned when a landmark coincides with the camera centre.
var ErrDegenerateLandmark = errors.New("landmark at the camera centre")

// minLandmarkDepth2 bounds the squared camera-frame norm below which a landmark has no bearing.
const minLandmarkDepth2 = 1e-18

// Lift returns the Lie algebra element whose flow reproduces the dynamics of xi under the input
// u. Non-finite inputs produce non-finite outputs.
func Lift(xi *state.SystemState, u sensors.Imu) (*state.Algebra, error) {
	if err := xi.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid system state")
	}

	lambda := liftCore(xi, u)
	// bias generator that keeps b fixed under the semi-direct action
	bias := spatialmath.MulTwist(spatialmath.AdTwist(lambda.RotVel()), xi.B).Scale(-1)
	ext := xi.S.Inverse().AdjointTwist(lambda.RotPos())

	camera := xi.CameraPose()
	cameraInv := camera.Inverse()
	blocks, err := state.Map(xi.Blocks, func(id state.ID, b state.SystemBlock) (state.AlgebraBlock, error) {
		out := state.AlgebraBlock{Kind: b.Kind}
		if b.Kind != state.KindLandmark {
			return out, nil
		}
		q := cameraInv.Transform(b.Point)
		n2 := q.Norm2()
		if n2 < minLandmarkDepth2 {
			return out, errors.Wrapf(ErrDegenerateLandmark, "landmark %d", id)
		}
		out.Scaled = spatialmath.SOT3Tangent{
			W: ext.W.Add(q.Cross(ext.V).Mul(1 / n2)),
			S: q.Dot(ext.V) / n2,
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return &state.Algebra{
		D:                   spatialmath.SDBTangent{Lambda: lambda, Bias: bias},
		E:                   ext,
		CalibrateIntrinsics: xi.CalibrateIntrinsics,
		Blocks:              blocks,
	}, nil
}

// liftCore assembles the navigation generator
// hat(w - bw, a - ba, 0) + D - T^-1 D T + T^-1 G T with G the hat of world gravity.
func liftCore(xi *state.SystemState, u sensors.Imu) spatialmath.SE23Tangent {
	t := xi.T.Matrix()
	tInv := xi.T.Inverse().Matrix()
	conj := func(m mat.Matrix) *mat.Dense {
		var tmp, out mat.Dense
		tmp.Mul(tInv, m)
		out.Mul(&tmp, t)
		return &out
	}

	gen := spatialmath.HatSE23(spatialmath.SE23Tangent{
		W: u.Ang.Sub(xi.B.W),
		A: u.Acc.Sub(xi.B.V),
	})
	gen.Add(gen, d)
	gen.Sub(gen, conj(d))
	gen.Add(gen, conj(spatialmath.HatSE23(spatialmath.SE23Tangent{A: xi.GravityVector()})))
	return spatialmath.VeeSE23(gen)
}
