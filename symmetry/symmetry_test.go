package symmetry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/eqf-vio/msceqf/config"
	"github.com/eqf-vio/msceqf/sensors"
	"github.com/eqf-vio/msceqf/spatialmath"
	"github.com/eqf-vio/msceqf/state"
	"github.com/eqf-vio/msceqf/utils"
)

func randomVector(rng *rand.Rand, scale float64) r3.Vector {
	return r3.Vector{
		X: scale * (2*rng.Float64() - 1),
		Y: scale * (2*rng.Float64() - 1),
		Z: scale * (2*rng.Float64() - 1),
	}
}

func randomRotation(rng *rand.Rand) quat.Number {
	return spatialmath.ExpSO3(randomVector(rng, 1.5))
}

// randomPair returns an identity group element and a system state sharing a layout of two clones
// and two landmarks.
func randomPair(t *testing.T, rng *rand.Rand, calibrate bool) (*state.MSCEqFState, *state.SystemState) {
	t.Helper()
	X := state.NewMSCEqFState(calibrate)
	xi := state.NewSystemState(&config.StateOptions{
		Gravity:             config.DefaultGravity,
		Intrinsics:          []float64{450, 455, 320, 240},
		CalibrateIntrinsics: calibrate,
	})
	xi.T = spatialmath.NewSE23(randomRotation(rng), randomVector(rng, 2), randomVector(rng, 5))
	xi.B = spatialmath.Twist{W: randomVector(rng, 0.05), V: randomVector(rng, 0.2)}
	xi.S = spatialmath.NewSE3(randomRotation(rng), randomVector(rng, 0.1))

	test.That(t, state.AddClone(X, xi, 1, spatialmath.NewSE3(randomRotation(rng), randomVector(rng, 3))), test.ShouldBeNil)
	cam := xi.CameraPose()
	test.That(t, state.AddLandmark(X, xi, 2, cam.Transform(r3.Vector{X: 0.5, Y: -0.2, Z: 4})), test.ShouldBeNil)
	test.That(t, state.AddClone(X, xi, 3, spatialmath.NewSE3(randomRotation(rng), randomVector(rng, 3))), test.ShouldBeNil)
	test.That(t, state.AddLandmark(X, xi, 4, cam.Transform(r3.Vector{X: -1, Y: 0.3, Z: 7})), test.ShouldBeNil)
	return X, xi
}

func randomElement(t *testing.T, rng *rand.Rand, X *state.MSCEqFState, scale float64) *state.MSCEqFState {
	t.Helper()
	v := mat.NewVecDense(X.Dof(), nil)
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, scale*(2*rng.Float64()-1))
	}
	a, err := state.AlgebraFromVector(X, v)
	test.That(t, err, test.ShouldBeNil)
	out, err := state.Exp(a)
	test.That(t, err, test.ShouldBeNil)
	return out
}

func vectorAlmostEqual(t *testing.T, got, want r3.Vector, tol float64) {
	t.Helper()
	test.That(t, got.X, test.ShouldAlmostEqual, want.X, tol)
	test.That(t, got.Y, test.ShouldAlmostEqual, want.Y, tol)
	test.That(t, got.Z, test.ShouldAlmostEqual, want.Z, tol)
}

func rotationAlmostEqual(t *testing.T, got, want quat.Number, tol float64) {
	t.Helper()
	test.That(t, spatialmath.QuaternionAlmostEqual(got, want, tol), test.ShouldBeTrue)
}

func systemAlmostEqual(t *testing.T, got, want *state.SystemState, tol float64) {
	t.Helper()
	rotationAlmostEqual(t, got.T.Rot, want.T.Rot, tol)
	vectorAlmostEqual(t, got.T.Vel, want.T.Vel, tol)
	vectorAlmostEqual(t, got.T.Pos, want.T.Pos, tol)
	vectorAlmostEqual(t, got.B.W, want.B.W, tol)
	vectorAlmostEqual(t, got.B.V, want.B.V, tol)
	rotationAlmostEqual(t, got.S.Rot, want.S.Rot, tol)
	vectorAlmostEqual(t, got.S.Trans, want.S.Trans, tol)
	// intrinsics are in pixels
	test.That(t, got.K.Fx, test.ShouldAlmostEqual, want.K.Fx, 1e3*tol)
	test.That(t, got.K.Fy, test.ShouldAlmostEqual, want.K.Fy, 1e3*tol)
	test.That(t, got.K.Cx, test.ShouldAlmostEqual, want.K.Cx, 1e3*tol)
	test.That(t, got.K.Cy, test.ShouldAlmostEqual, want.K.Cy, 1e3*tol)
	test.That(t, state.SameLayout(got.Blocks, want.Blocks), test.ShouldBeNil)
	for id, b := range got.Blocks.All() {
		w, _ := want.Blocks.Get(id)
		if b.Kind == state.KindClone {
			rotationAlmostEqual(t, b.Pose.Rot, w.Pose.Rot, tol)
			vectorAlmostEqual(t, b.Pose.Trans, w.Pose.Trans, tol)
		} else {
			vectorAlmostEqual(t, b.Point, w.Point, tol)
		}
	}
}

func TestD(t *testing.T) {
	m := D()
	r, c := m.Dims()
	test.That(t, r, test.ShouldEqual, 5)
	test.That(t, c, test.ShouldEqual, 5)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			want := 0.
			if i == 3 && j == 4 {
				want = 1
			}
			test.That(t, m.At(i, j), test.ShouldEqual, want)
		}
	}

	// callers cannot change the shared constant
	m.Set(0, 0, 7)
	test.That(t, D().At(0, 0), test.ShouldEqual, 0.)

	// right multiplication moves velocity into the position column
	x := spatialmath.NewSE23(quat.Number{Real: 1}, r3.Vector{X: 1, Y: 2, Z: 3}, r3.Vector{})
	var moved mat.Dense
	moved.Mul(x.Matrix(), D())
	test.That(t, moved.At(0, 4), test.ShouldEqual, 1.)
	test.That(t, moved.At(2, 4), test.ShouldEqual, 3.)
	test.That(t, moved.At(3, 4), test.ShouldEqual, 1.)
}

func TestPhiIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, calibrate := range []bool{false, true} {
		X, xi := randomPair(t, rng, calibrate)
		got, err := Phi(X.IdentityLike(), xi)
		test.That(t, err, test.ShouldBeNil)
		systemAlmostEqual(t, got, xi, 1e-12)
	}
}

func TestPhiComposition(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, calibrate := range []bool{false, true} {
		X, xi := randomPair(t, rng, calibrate)
		for i := 0; i < 5; i++ {
			X1 := randomElement(t, rng, X, 0.8)
			X2 := randomElement(t, rng, X, 0.8)

			inner, err := Phi(X2, xi)
			test.That(t, err, test.ShouldBeNil)
			nested, err := Phi(X1, inner)
			test.That(t, err, test.ShouldBeNil)

			composed, err := Compose(X1, X2)
			test.That(t, err, test.ShouldBeNil)
			direct, err := Phi(composed, xi)
			test.That(t, err, test.ShouldBeNil)
			systemAlmostEqual(t, nested, direct, 1e-9)

			// the inverse undoes the action
			back, err := Phi(X1.Inverse(), nested)
			test.That(t, err, test.ShouldBeNil)
			systemAlmostEqual(t, back, inner, 1e-9)
		}
	}
}

func TestPhiDoesNotModifyInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	X, xi := randomPair(t, rng, true)
	X1 := randomElement(t, rng, X, 1)
	xiCopy, X1Copy := xi.Copy(), X1.Copy()
	_, err := Phi(X1, xi)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, xi.T, test.ShouldResemble, xiCopy.T)
	test.That(t, xi.B, test.ShouldResemble, xiCopy.B)
	test.That(t, xi.S, test.ShouldResemble, xiCopy.S)
	for id, b := range xi.Blocks.All() {
		want, _ := xiCopy.Blocks.Get(id)
		test.That(t, b, test.ShouldResemble, want)
	}
	test.That(t, X1.D, test.ShouldResemble, X1Copy.D)
	test.That(t, X1.E, test.ShouldResemble, X1Copy.E)
	for id, b := range X1.Blocks.All() {
		want, _ := X1Copy.Blocks.Get(id)
		test.That(t, b, test.ShouldResemble, want)
	}
}

func TestPureTranslation(t *testing.T) {
	xi := state.NewSystemState(&config.StateOptions{Gravity: config.DefaultGravity})
	xi.T = spatialmath.NewSE23(quat.Number{Real: 1}, r3.Vector{X: 0.5, Y: -1}, r3.Vector{X: 1, Y: 2, Z: 3})
	X := state.NewMSCEqFState(false)
	X.D.C.Pos = r3.Vector{X: 10, Y: -4, Z: 0.25}

	got, err := Phi(X, xi)
	test.That(t, err, test.ShouldBeNil)
	vectorAlmostEqual(t, got.T.Pos, r3.Vector{X: 11, Y: -2, Z: 3.25}, 1e-12)
	vectorAlmostEqual(t, got.T.Vel, xi.T.Vel, 1e-12)
	rotationAlmostEqual(t, got.T.Rot, xi.T.Rot, 1e-12)
}

func TestRotationCompositionOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	X, xi := randomPair(t, rng, false)
	r1 := spatialmath.ExpSO3(r3.Vector{X: 0.3, Y: -0.2, Z: 1.1})
	r2 := spatialmath.ExpSO3(r3.Vector{X: -0.7, Y: 0.4, Z: 0.1})
	X1 := X.IdentityLike()
	X1.D.C.Rot = r1
	X2 := X.IdentityLike()
	X2.D.C.Rot = r2

	// R1 applied first, then R2
	first, err := Phi(X1, xi)
	test.That(t, err, test.ShouldBeNil)
	sequential, err := Phi(X2, first)
	test.That(t, err, test.ShouldBeNil)

	combined := X.IdentityLike()
	combined.D.C.Rot = quat.Mul(r1, r2)
	single, err := Phi(combined, xi)
	test.That(t, err, test.ShouldBeNil)
	systemAlmostEqual(t, sequential, single, 1e-12)

	// orientation composes by right multiplication
	rotationAlmostEqual(t, single.T.Rot, quat.Mul(quat.Mul(xi.T.Rot, r1), r2), 1e-12)

	// the opposite order is a different rotation
	swapped := X.IdentityLike()
	swapped.D.C.Rot = quat.Mul(r2, r1)
	other, err := Phi(swapped, xi)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.QuaternionAlmostEqual(other.T.Rot, single.T.Rot, 1e-6), test.ShouldBeFalse)
}

func TestPhiErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	X, xi := randomPair(t, rng, false)

	t.Run("layout", func(t *testing.T) {
		other := X.Copy()
		other.Blocks.Remove(3)
		_, err := Phi(other, xi)
		test.That(t, errors.Is(err, state.ErrBlockMismatch), test.ShouldBeTrue)

		_, err = Phi(state.NewMSCEqFState(true), state.NewSystemState(&config.StateOptions{}))
		test.That(t, errors.Is(err, state.ErrBlockMismatch), test.ShouldBeTrue)
	})

	t.Run("non unit rotation", func(t *testing.T) {
		bad := X.Copy()
		bad.E.Rot = quat.Number{Real: 1, Imag: 1}
		_, err := Phi(bad, xi)
		test.That(t, errors.Is(err, state.ErrNonUnitRotation), test.ShouldBeTrue)

		badXi := xi.Copy()
		badXi.T.Rot = quat.Number{Real: 3}
		_, err = Phi(X, badXi)
		test.That(t, errors.Is(err, state.ErrNonUnitRotation), test.ShouldBeTrue)
	})

	t.Run("non invertible", func(t *testing.T) {
		bad := X.Copy()
		b, _ := bad.Blocks.Get(2)
		b.Q.Scale = -1
		test.That(t, bad.Blocks.Set(2, b), test.ShouldBeNil)
		_, err := Phi(bad, xi)
		test.That(t, errors.Is(err, state.ErrNonInvertible), test.ShouldBeTrue)
	})

	t.Run("non finite passes through", func(t *testing.T) {
		bad := X.Copy()
		bad.D.C.Pos.X = math.NaN()
		got, err := Phi(bad, xi)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, math.IsNaN(got.T.Pos.X), test.ShouldBeTrue)
	})
}

// checkLift verifies that the flow of Lift(xi, u) matches one Euler step of the inertial
// kinematics to first order.
func checkLift(t *testing.T, X *state.MSCEqFState, xi *state.SystemState, u sensors.Imu) {
	t.Helper()
	const h = 1e-7
	const tol = 1e-4

	lambda, err := Lift(xi, u)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, lambda.Dof(), test.ShouldEqual, X.Dof())
	step, err := state.Exp(lambda.Scale(h))
	test.That(t, err, test.ShouldBeNil)
	next, err := Phi(step, xi)
	test.That(t, err, test.ShouldBeNil)

	rate := func(a, b r3.Vector) r3.Vector {
		return b.Sub(a).Mul(1 / h)
	}
	w := u.Ang.Sub(xi.B.W)
	acc := spatialmath.RotateVector(xi.T.Rot, u.Acc.Sub(xi.B.V)).Add(xi.GravityVector())

	vectorAlmostEqual(t, spatialmath.LogSO3(quat.Mul(quat.Conj(xi.T.Rot), next.T.Rot)).Mul(1/h), w, tol)
	vectorAlmostEqual(t, rate(xi.T.Vel, next.T.Vel), acc, tol)
	vectorAlmostEqual(t, rate(xi.T.Pos, next.T.Pos), xi.T.Vel, tol)
	vectorAlmostEqual(t, rate(xi.B.W, next.B.W), r3.Vector{}, tol)
	vectorAlmostEqual(t, rate(xi.B.V, next.B.V), r3.Vector{}, tol)
	vectorAlmostEqual(t, rate(xi.S.Trans, next.S.Trans), r3.Vector{}, tol)
	vectorAlmostEqual(t, spatialmath.LogSO3(quat.Mul(quat.Conj(xi.S.Rot), next.S.Rot)).Mul(1/h), r3.Vector{}, tol)
	for id, b := range next.Blocks.All() {
		prev, _ := xi.Blocks.Get(id)
		if b.Kind == state.KindClone {
			vectorAlmostEqual(t, rate(prev.Pose.Trans, b.Pose.Trans), r3.Vector{}, tol)
		} else {
			vectorAlmostEqual(t, rate(prev.Point, b.Point), r3.Vector{}, tol)
		}
	}
}

func TestLiftValidity(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for _, calibrate := range []bool{false, true} {
		X, xi := randomPair(t, rng, calibrate)
		for i := 0; i < 3; i++ {
			u := sensors.Imu{Ang: randomVector(rng, 1), Acc: randomVector(rng, 10)}
			checkLift(t, X, xi, u)

			// the same holds at any state reached through the action
			moved, err := Phi(randomElement(t, rng, X, 0.5), xi)
			test.That(t, err, test.ShouldBeNil)
			checkLift(t, X, moved, u)
		}
	}
}

func TestLiftAtRest(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	_, xi := randomPair(t, rng, false)
	xi.T.Vel = r3.Vector{}
	u := sensors.Imu{
		Ang: xi.B.W,
		Acc: spatialmath.InverseRotateVector(xi.T.Rot, r3.Vector{Z: xi.Gravity}).Add(xi.B.V),
	}
	lambda, err := Lift(xi, u)
	test.That(t, err, test.ShouldBeNil)
	vectorAlmostEqual(t, lambda.D.Lambda.W, r3.Vector{}, 1e-12)
	vectorAlmostEqual(t, lambda.D.Lambda.A, r3.Vector{}, 1e-12)
	vectorAlmostEqual(t, lambda.D.Lambda.B, r3.Vector{}, 1e-12)
	vectorAlmostEqual(t, lambda.D.Bias.W, r3.Vector{}, 1e-12)
	vectorAlmostEqual(t, lambda.D.Bias.V, r3.Vector{}, 1e-12)
	for _, b := range lambda.Blocks.All() {
		vectorAlmostEqual(t, b.Twist.W, r3.Vector{}, 1e-12)
		vectorAlmostEqual(t, b.Scaled.W, r3.Vector{}, 1e-12)
		test.That(t, b.Scaled.S, test.ShouldAlmostEqual, 0., 1e-12)
	}
}

func TestLiftComponents(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	_, xi := randomPair(t, rng, true)
	u := sensors.Imu{Ang: randomVector(rng, 1), Acc: randomVector(rng, 10)}
	lambda, err := Lift(xi, u)
	test.That(t, err, test.ShouldBeNil)

	vectorAlmostEqual(t, lambda.D.Lambda.W, u.Ang.Sub(xi.B.W), 1e-12)
	vectorAlmostEqual(t, lambda.D.Lambda.A,
		u.Acc.Sub(xi.B.V).Add(spatialmath.InverseRotateVector(xi.T.Rot, xi.GravityVector())), 1e-12)
	vectorAlmostEqual(t, lambda.D.Lambda.B, spatialmath.InverseRotateVector(xi.T.Rot, xi.T.Vel), 1e-12)
	test.That(t, lambda.L, test.ShouldResemble, spatialmath.IntrinsicsTangent{})
	for _, b := range lambda.Blocks.All() {
		if b.Kind == state.KindClone {
			test.That(t, b.Twist, test.ShouldResemble, spatialmath.Twist{})
		}
	}

	t.Run("no bias gives no bias generator", func(t *testing.T) {
		xi := xi.Copy()
		xi.B = spatialmath.Twist{}
		lambda, err := Lift(xi, u)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, lambda.D.Bias, test.ShouldResemble, spatialmath.Twist{})
	})
}

func TestLiftErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	X, xi := randomPair(t, rng, false)

	t.Run("non finite input propagates", func(t *testing.T) {
		u := sensors.Imu{Ang: r3.Vector{X: math.NaN()}, Acc: r3.Vector{Z: math.Inf(1)}}
		lambda, err := Lift(xi, u)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, math.IsNaN(lambda.D.Lambda.W.X), test.ShouldBeTrue)
		test.That(t, math.IsInf(lambda.D.Lambda.A.Z, 1), test.ShouldBeTrue)
		test.That(t, utils.IsFinite(lambda.D.Bias.Slice()...), test.ShouldBeFalse)
	})

	t.Run("landmark at camera centre", func(t *testing.T) {
		X, xi := X.Copy(), xi.Copy()
		test.That(t, state.AddLandmark(X, xi, 9, xi.CameraPose().Trans), test.ShouldBeNil)
		_, err := Lift(xi, sensors.Imu{})
		test.That(t, errors.Is(err, ErrDegenerateLandmark), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "landmark 9")
	})

	t.Run("non unit rotation", func(t *testing.T) {
		xi := xi.Copy()
		xi.S.Rot = quat.Number{Imag: 2}
		_, err := Lift(xi, sensors.Imu{})
		test.That(t, errors.Is(err, state.ErrNonUnitRotation), test.ShouldBeTrue)
	})
}

func TestStationaryImu(t *testing.T) {
	opts := &config.StateOptions{Gravity: config.DefaultGravity}
	xi0 := state.NewSystemState(opts)
	xi0.T.Pos = r3.Vector{X: 1, Y: -2, Z: 0.5}
	X := state.NewMSCEqFState(false)
	test.That(t, state.AddLandmark(X, xi0, 1, r3.Vector{X: 3, Y: 1, Z: 2}), test.ShouldBeNil)
	u := sensors.Imu{Acc: r3.Vector{Z: 9.81}}

	const dt = 0.005
	for i := 0; i < 200; i++ {
		xi, err := Phi(X, xi0)
		test.That(t, err, test.ShouldBeNil)
		lambda, err := Lift(xi, u)
		test.That(t, err, test.ShouldBeNil)
		X, err = X.MultiplyRight(lambda.Scale(dt))
		test.That(t, err, test.ShouldBeNil)
	}
	xi, err := Phi(X, xi0)
	test.That(t, err, test.ShouldBeNil)
	vectorAlmostEqual(t, xi.T.Pos, xi0.T.Pos, 1e-9)
	vectorAlmostEqual(t, xi.T.Vel, r3.Vector{}, 1e-9)
	rotationAlmostEqual(t, xi.T.Rot, xi0.T.Rot, 1e-9)
}

func TestCurvatureCorrection(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	for _, calibrate := range []bool{false, true} {
		X, _ := randomPair(t, rng, calibrate)
		X = randomElement(t, rng, X, 1)
		n := X.Dof()

		gamma, err := CurvatureCorrection(X, mat.NewVecDense(n, nil))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, mat.Equal(gamma, eye(n)), test.ShouldBeTrue)

		inn := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			inn.SetVec(i, 2*rng.Float64()-1)
		}
		prev := math.Inf(1)
		for _, eps := range []float64{1, 1e-2, 1e-4, 1e-6} {
			var scaled mat.VecDense
			scaled.ScaleVec(eps, inn)
			gamma, err := CurvatureCorrection(X, &scaled)
			test.That(t, err, test.ShouldBeNil)
			var diff mat.Dense
			diff.Sub(gamma, eye(n))
			dist := mat.Norm(&diff, 2)
			test.That(t, dist, test.ShouldBeLessThan, prev)
			test.That(t, dist, test.ShouldBeLessThanOrEqualTo, eps*float64(n))
			prev = dist
		}

		gamma, err = CurvatureCorrection(X, inn)
		test.That(t, err, test.ShouldBeNil)
		a, err := state.AlgebraFromVector(X, inn)
		test.That(t, err, test.ShouldBeNil)
		blocks := []*mat.Dense{spatialmath.AdSDB(a.D), spatialmath.AdTwist(a.E)}
		if calibrate {
			blocks = append(blocks, spatialmath.AdIntrinsics(a.L))
		}
		var landmarks int
		for _, b := range a.Blocks.All() {
			if b.Kind == state.KindClone {
				blocks = append(blocks, spatialmath.AdTwist(b.Twist))
			} else {
				blocks = append(blocks, spatialmath.AdSOT3(b.Scaled))
				landmarks++
			}
		}
		test.That(t, landmarks, test.ShouldBeGreaterThan, 0)
		off := 0
		for _, adB := range blocks {
			r, _ := adB.Dims()
			checkCorrectionBlock(t, gamma.Slice(off, off+r, off, off+r), adB)
			off += r
		}
		test.That(t, off, test.ShouldEqual, n)
		// nothing couples the extrinsic block to the core block
		test.That(t, mat.Norm(gamma.Slice(0, 15, 15, n), 1), test.ShouldEqual, 0.)
		test.That(t, mat.Norm(gamma.Slice(15, n, 0, 15), 1), test.ShouldEqual, 0.)
	}

	X, _ := randomPair(t, rng, false)
	_, err := CurvatureCorrection(X, mat.NewVecDense(X.Dof()+1, nil))
	test.That(t, errors.Is(err, state.ErrDimensionMismatch), test.ShouldBeTrue)
}

// checkCorrectionBlock checks that block equals I - ad / 2.
func checkCorrectionBlock(t *testing.T, block mat.Matrix, ad mat.Matrix) {
	t.Helper()
	r, c := ad.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			want := -0.5 * ad.At(i, j)
			if i == j {
				want++
			}
			test.That(t, block.At(i, j), test.ShouldAlmostEqual, want, 1e-15)
		}
	}
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
