package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// IntrinsicsTangent is an element of the camera intrinsics algebra, ordered (a, b, c, d) with
// a and b the log focal rates and c and d the principal point rates.
type IntrinsicsTangent struct {
	A, B, C, D float64
}

// Slice returns the tangent as (a, b, c, d).
func (t IntrinsicsTangent) Slice() []float64 {
	return []float64{t.A, t.B, t.C, t.D}
}

// IntrinsicsTangentFromSlice reads a tangent from the first four entries of s.
func IntrinsicsTangentFromSlice(s []float64) IntrinsicsTangent {
	return IntrinsicsTangent{A: s[0], B: s[1], C: s[2], D: s[3]}
}

// AdIntrinsics returns the 4x4 matrix of ad_t.
func AdIntrinsics(t IntrinsicsTangent) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		0, 0, 0, 0,
		0, 0, 0, 0,
		-t.C, 0, t.A, 0,
		0, -t.D, 0, t.B,
	})
}

// Intrinsics is a pinhole camera intrinsic matrix [[Fx 0 Cx] [0 Fy Cy] [0 0 1]]. Focal lengths are positive.
type Intrinsics struct {
	Fx, Fy, Cx, Cy float64
}

// IdentityIntrinsics returns the identity element.
func IdentityIntrinsics() Intrinsics {
	return Intrinsics{Fx: 1, Fy: 1}
}

// Mul returns k * o.
func (k Intrinsics) Mul(o Intrinsics) Intrinsics {
	return Intrinsics{
		Fx: k.Fx * o.Fx,
		Fy: k.Fy * o.Fy,
		Cx: k.Fx*o.Cx + k.Cx,
		Cy: k.Fy*o.Cy + k.Cy,
	}
}

// Inverse returns k^-1.
func (k Intrinsics) Inverse() Intrinsics {
	return Intrinsics{Fx: 1 / k.Fx, Fy: 1 / k.Fy, Cx: -k.Cx / k.Fx, Cy: -k.Cy / k.Fy}
}

// Matrix returns the 3x3 intrinsic matrix.
func (k Intrinsics) Matrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		k.Fx, 0, k.Cx,
		0, k.Fy, k.Cy,
		0, 0, 1,
	})
}

// Adjoint returns the 4x4 adjoint matrix of k.
func (k Intrinsics) Adjoint() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		-k.Cx, 0, k.Fx, 0,
		0, -k.Cy, 0, k.Fy,
	})
}

// ExpIntrinsics maps an algebra element to the intrinsics group.
func ExpIntrinsics(t IntrinsicsTangent) Intrinsics {
	return Intrinsics{
		Fx: math.Exp(t.A),
		Fy: math.Exp(t.B),
		Cx: t.C * expm1Ratio(t.A),
		Cy: t.D * expm1Ratio(t.B),
	}
}

// LogIntrinsics is the inverse of ExpIntrinsics.
func LogIntrinsics(k Intrinsics) IntrinsicsTangent {
	a, b := math.Log(k.Fx), math.Log(k.Fy)
	return IntrinsicsTangent{A: a, B: b, C: k.Cx / expm1Ratio(a), D: k.Cy / expm1Ratio(b)}
}

// expm1Ratio returns (e^x - 1) / x, continuous at zero.
func expm1Ratio(x float64) float64 {
	if math.Abs(x) < 1e-8 {
		return 1 + x/2
	}
	return math.Expm1(x) / x
}
