package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// SE23Tangent is an se2(3) element: rotational rate W, velocity-part A and position-part B.
type SE23Tangent struct {
	W r3.Vector
	A r3.Vector
	B r3.Vector
}

// SE23TangentFromSlice reads a tangent from the first nine entries of s.
func SE23TangentFromSlice(s []float64) SE23Tangent {
	return SE23Tangent{W: VectorFromSlice(s[0:3]), A: VectorFromSlice(s[3:6]), B: VectorFromSlice(s[6:9])}
}

// Slice returns the tangent as (w, a, b).
func (t SE23Tangent) Slice() []float64 {
	out := make([]float64, 0, 9)
	out = VectorToSlice(out, t.W)
	out = VectorToSlice(out, t.A)
	return VectorToSlice(out, t.B)
}

// Scale returns f * t.
func (t SE23Tangent) Scale(f float64) SE23Tangent {
	return SE23Tangent{W: t.W.Mul(f), A: t.A.Mul(f), B: t.B.Mul(f)}
}

// RotVel returns the (w, a) twist acting on the rotation-velocity subgroup.
func (t SE23Tangent) RotVel() Twist {
	return Twist{W: t.W, V: t.A}
}

// RotPos returns the (w, b) twist acting on the rotation-position subgroup.
func (t SE23Tangent) RotPos() Twist {
	return Twist{W: t.W, V: t.B}
}

// HatSE23 returns the 5x5 matrix representation of t.
func HatSE23(t SE23Tangent) *mat.Dense {
	m := mat.NewDense(5, 5, nil)
	setBlock(m, 0, 0, Skew(t.W))
	for i, v := range []float64{t.A.X, t.A.Y, t.A.Z} {
		m.Set(i, 3, v)
	}
	for i, v := range []float64{t.B.X, t.B.Y, t.B.Z} {
		m.Set(i, 4, v)
	}
	return m
}

// VeeSE23 is the inverse of HatSE23. Entries outside the algebra pattern are ignored.
func VeeSE23(m mat.Matrix) SE23Tangent {
	return SE23Tangent{
		W: r3.Vector{X: m.At(2, 1), Y: m.At(0, 2), Z: m.At(1, 0)},
		A: r3.Vector{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)},
		B: r3.Vector{X: m.At(0, 4), Y: m.At(1, 4), Z: m.At(2, 4)},
	}
}

// AdSE23 returns the 9x9 matrix of ad_t.
func AdSE23(t SE23Tangent) *mat.Dense {
	ad := mat.NewDense(9, 9, nil)
	wx := Skew(t.W)
	setBlock(ad, 0, 0, wx)
	setBlock(ad, 3, 0, Skew(t.A))
	setBlock(ad, 3, 3, wx)
	setBlock(ad, 6, 0, Skew(t.B))
	setBlock(ad, 6, 6, wx)
	return ad
}

// SE23 is an extended pose: orientation Rot, velocity Vel and position Pos.
type SE23 struct {
	Rot quat.Number
	Vel r3.Vector
	Pos r3.Vector
}

// NewSE23 returns an extended pose with a normalized rotation.
func NewSE23(rot quat.Number, vel, pos r3.Vector) SE23 {
	return SE23{Rot: Normalize(rot), Vel: vel, Pos: pos}
}

// IdentitySE23 returns the identity extended pose.
func IdentitySE23() SE23 {
	return SE23{Rot: quat.Number{Real: 1}}
}

// Mul returns x * o.
func (x SE23) Mul(o SE23) SE23 {
	return SE23{
		Rot: Normalize(quat.Mul(x.Rot, o.Rot)),
		Vel: x.Vel.Add(RotateVector(x.Rot, o.Vel)),
		Pos: x.Pos.Add(RotateVector(x.Rot, o.Pos)),
	}
}

// Inverse returns x^-1.
func (x SE23) Inverse() SE23 {
	inv := quat.Conj(x.Rot)
	return SE23{
		Rot: inv,
		Vel: RotateVector(inv, x.Vel).Mul(-1),
		Pos: RotateVector(inv, x.Pos).Mul(-1),
	}
}

// RotVel returns the rotation-velocity part as an SE(3) element.
func (x SE23) RotVel() SE3 {
	return SE3{Rot: x.Rot, Trans: x.Vel}
}

// RotPos returns the rotation-position part as an SE(3) element.
func (x SE23) RotPos() SE3 {
	return SE3{Rot: x.Rot, Trans: x.Pos}
}

// Matrix returns the 5x5 matrix representation of x.
func (x SE23) Matrix() *mat.Dense {
	m := eye(5)
	setBlock(m, 0, 0, QuatToRotationMatrix(x.Rot))
	for i, v := range []float64{x.Vel.X, x.Vel.Y, x.Vel.Z} {
		m.Set(i, 3, v)
	}
	for i, v := range []float64{x.Pos.X, x.Pos.Y, x.Pos.Z} {
		m.Set(i, 4, v)
	}
	return m
}

// Adjoint returns the 9x9 adjoint matrix of x.
func (x SE23) Adjoint() *mat.Dense {
	r := QuatToRotationMatrix(x.Rot)
	var vr, pr mat.Dense
	vr.Mul(Skew(x.Vel), r)
	pr.Mul(Skew(x.Pos), r)
	ad := mat.NewDense(9, 9, nil)
	setBlock(ad, 0, 0, r)
	setBlock(ad, 3, 0, &vr)
	setBlock(ad, 3, 3, r)
	setBlock(ad, 6, 0, &pr)
	setBlock(ad, 6, 6, r)
	return ad
}

// ExpSE23 maps an se2(3) tangent to SE2(3).
func ExpSE23(t SE23Tangent) SE23 {
	j := LeftJacobianSO3(t.W)
	return SE23{Rot: ExpSO3(t.W), Vel: mulVec3(j, t.A), Pos: mulVec3(j, t.B)}
}

// LogSE23 maps an extended pose to its tangent.
func LogSE23(x SE23) SE23Tangent {
	w := LogSO3(x.Rot)
	var jinv mat.Dense
	if err := jinv.Inverse(LeftJacobianSO3(w)); err != nil {
		panic(err)
	}
	return SE23Tangent{W: w, A: mulVec3(&jinv, x.Vel), B: mulVec3(&jinv, x.Pos)}
}
