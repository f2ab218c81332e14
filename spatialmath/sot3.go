package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// SOT3Tangent is an sot(3) element: rotational rate W and log-scale rate S.
type SOT3Tangent struct {
	W r3.Vector
	S float64
}

// SOT3TangentFromSlice reads a tangent from the first four entries of s.
func SOT3TangentFromSlice(s []float64) SOT3Tangent {
	return SOT3Tangent{W: VectorFromSlice(s[0:3]), S: s[3]}
}

// Slice returns the tangent as (w, s).
func (t SOT3Tangent) Slice() []float64 {
	return append(VectorToSlice(make([]float64, 0, 4), t.W), t.S)
}

// AdSOT3 returns the 4x4 matrix of ad_t.
func AdSOT3(t SOT3Tangent) *mat.Dense {
	ad := mat.NewDense(4, 4, nil)
	setBlock(ad, 0, 0, Skew(t.W))
	return ad
}

// SOT3 is a scaled rotation x -> Scale * Rot * x. Scale must be positive.
type SOT3 struct {
	Rot   quat.Number
	Scale float64
}

// NewSOT3 returns a scaled rotation with a normalized rotation.
func NewSOT3(rot quat.Number, scale float64) SOT3 {
	return SOT3{Rot: Normalize(rot), Scale: scale}
}

// IdentitySOT3 returns the identity scaled rotation.
func IdentitySOT3() SOT3 {
	return SOT3{Rot: quat.Number{Real: 1}, Scale: 1}
}

// Mul returns q * o.
func (q SOT3) Mul(o SOT3) SOT3 {
	return SOT3{Rot: Normalize(quat.Mul(q.Rot, o.Rot)), Scale: q.Scale * o.Scale}
}

// Inverse returns q^-1.
func (q SOT3) Inverse() SOT3 {
	return SOT3{Rot: quat.Conj(q.Rot), Scale: 1 / q.Scale}
}

// Act applies q to x.
func (q SOT3) Act(x r3.Vector) r3.Vector {
	return RotateVector(q.Rot, x).Mul(q.Scale)
}

// Matrix returns the 4x4 matrix representation of q.
func (q SOT3) Matrix() *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	setBlock(m, 0, 0, QuatToRotationMatrix(q.Rot))
	m.Set(3, 3, q.Scale)
	return m
}

// Adjoint returns the 4x4 adjoint matrix of q.
func (q SOT3) Adjoint() *mat.Dense {
	ad := eye(4)
	setBlock(ad, 0, 0, QuatToRotationMatrix(q.Rot))
	return ad
}

// ExpSOT3 maps an sot(3) tangent to SOT(3).
func ExpSOT3(t SOT3Tangent) SOT3 {
	return SOT3{Rot: ExpSO3(t.W), Scale: math.Exp(t.S)}
}

// LogSOT3 maps a scaled rotation to its tangent.
func LogSOT3(q SOT3) SOT3Tangent {
	return SOT3Tangent{W: LogSO3(q.Rot), S: math.Log(q.Scale)}
}
