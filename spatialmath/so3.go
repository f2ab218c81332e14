// Package spatialmath defines the rotation and matrix Lie group operations the filter is built on.
//
// Rotations are stored as unit quaternions (gonum num/quat) and vectors as r3.Vector. Tangent
// coordinates always list the rotational part first.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// smallAngle is the angle below which series expansions replace the closed forms.
const smallAngle = 1e-2

// ExpSO3 maps an so(3) vector to a unit quaternion.
func ExpSO3(w r3.Vector) quat.Number {
	return R3ToR4(w).ToQuat()
}

// LogSO3 maps a unit quaternion to its so(3) vector.
func LogSO3(q quat.Number) r3.Vector {
	return QuatToR3AA(q)
}

// Skew returns the 3x3 skew symmetric matrix such that Skew(a)*b = a x b.
func Skew(v r3.Vector) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -v.Z, v.Y,
		v.Z, 0, -v.X,
		-v.Y, v.X, 0,
	})
}

// LeftJacobianSO3 returns the left Jacobian of SO(3) at w.
func LeftJacobianSO3(w r3.Vector) *mat.Dense {
	theta := w.Norm()
	var a, b float64
	if theta < smallAngle {
		t2 := theta * theta
		a = 0.5 - t2/24
		b = 1.0/6 - t2/120
	} else {
		t2 := theta * theta
		a = (1 - math.Cos(theta)) / t2
		b = (theta - math.Sin(theta)) / (t2 * theta)
	}
	wx := Skew(w)
	var wx2 mat.Dense
	wx2.Mul(wx, wx)

	j := eye(3)
	j.Add(j, scaled(a, wx))
	j.Add(j, scaled(b, &wx2))
	return j
}

// AngularVelocityBetween returns the constant body rate that rotates q1 into q2 in dt seconds.
func AngularVelocityBetween(q1, q2 quat.Number, dt float64) r3.Vector {
	return LogSO3(quat.Mul(quat.Conj(q1), q2)).Mul(1 / dt)
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func scaled(f float64, m mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Scale(f, m)
	return &out
}

// setBlock copies src into dst with its top left corner at (i, j).
func setBlock(dst *mat.Dense, i, j int, src mat.Matrix) {
	r, c := src.Dims()
	dst.Slice(i, i+r, j, j+c).(*mat.Dense).Copy(src)
}

func mulVec3(m mat.Matrix, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}

// VectorFromSlice builds an r3.Vector from the first three entries of s.
func VectorFromSlice(s []float64) r3.Vector {
	return r3.Vector{X: s[0], Y: s[1], Z: s[2]}
}

// VectorToSlice appends the components of v to dst.
func VectorToSlice(dst []float64, v r3.Vector) []float64 {
	return append(dst, v.X, v.Y, v.Z)
}
