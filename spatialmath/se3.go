package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Twist is an se(3) element, rotational part first.
type Twist struct {
	W r3.Vector
	V r3.Vector
}

// TwistFromSlice reads a twist from the first six entries of s.
func TwistFromSlice(s []float64) Twist {
	return Twist{W: VectorFromSlice(s[0:3]), V: VectorFromSlice(s[3:6])}
}

// Slice returns the twist as (w, v).
func (tw Twist) Slice() []float64 {
	return VectorToSlice(VectorToSlice(make([]float64, 0, 6), tw.W), tw.V)
}

// Add returns tw + o.
func (tw Twist) Add(o Twist) Twist {
	return Twist{W: tw.W.Add(o.W), V: tw.V.Add(o.V)}
}

// Scale returns f * tw.
func (tw Twist) Scale(f float64) Twist {
	return Twist{W: tw.W.Mul(f), V: tw.V.Mul(f)}
}

// AdTwist returns the 6x6 matrix of ad_tw.
func AdTwist(tw Twist) *mat.Dense {
	ad := mat.NewDense(6, 6, nil)
	wx := Skew(tw.W)
	setBlock(ad, 0, 0, wx)
	setBlock(ad, 3, 0, Skew(tw.V))
	setBlock(ad, 3, 3, wx)
	return ad
}

// MulTwist returns m * tw for a 6x6 matrix m.
func MulTwist(m mat.Matrix, tw Twist) Twist {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(6, tw.Slice()))
	return TwistFromSlice(out.RawVector().Data)
}

// SE3 is a rigid body transform: rotation Rot followed by translation Trans.
type SE3 struct {
	Rot   quat.Number
	Trans r3.Vector
}

// NewSE3 returns a transform with a normalized rotation.
func NewSE3(rot quat.Number, trans r3.Vector) SE3 {
	return SE3{Rot: Normalize(rot), Trans: trans}
}

// IdentitySE3 returns the identity transform.
func IdentitySE3() SE3 {
	return SE3{Rot: quat.Number{Real: 1}}
}

// Mul returns e * o, composed as unit dual quaternions.
func (e SE3) Mul(o SE3) SE3 {
	return NewSE3FromDualQuaternion(dualquat.Mul(e.DualQuaternion(), o.DualQuaternion()))
}

// Inverse returns e^-1.
func (e SE3) Inverse() SE3 {
	inv := quat.Conj(e.Rot)
	return SE3{Rot: inv, Trans: RotateVector(inv, e.Trans).Mul(-1)}
}

// Transform applies e to the point p.
func (e SE3) Transform(p r3.Vector) r3.Vector {
	return RotateVector(e.Rot, p).Add(e.Trans)
}

// Matrix returns the 4x4 homogeneous matrix of e.
func (e SE3) Matrix() *mat.Dense {
	m := eye(4)
	setBlock(m, 0, 0, QuatToRotationMatrix(e.Rot))
	m.Set(0, 3, e.Trans.X)
	m.Set(1, 3, e.Trans.Y)
	m.Set(2, 3, e.Trans.Z)
	return m
}

// Adjoint returns the 6x6 adjoint matrix of e acting on (w, v) twists.
func (e SE3) Adjoint() *mat.Dense {
	r := QuatToRotationMatrix(e.Rot)
	var tr mat.Dense
	tr.Mul(Skew(e.Trans), r)
	ad := mat.NewDense(6, 6, nil)
	setBlock(ad, 0, 0, r)
	setBlock(ad, 3, 0, &tr)
	setBlock(ad, 3, 3, r)
	return ad
}

// AdjointTwist returns Ad_e(tw) without building the matrix.
func (e SE3) AdjointTwist(tw Twist) Twist {
	w := RotateVector(e.Rot, tw.W)
	return Twist{W: w, V: e.Trans.Cross(w).Add(RotateVector(e.Rot, tw.V))}
}

// ExpSE3 maps a twist to SE(3).
func ExpSE3(tw Twist) SE3 {
	return SE3{Rot: ExpSO3(tw.W), Trans: mulVec3(LeftJacobianSO3(tw.W), tw.V)}
}

// LogSE3 maps a transform to its twist.
func LogSE3(e SE3) Twist {
	w := LogSO3(e.Rot)
	var jinv mat.Dense
	if err := jinv.Inverse(LeftJacobianSO3(w)); err != nil {
		// the left Jacobian is singular only at |w| = 2*pi, outside the range of LogSO3
		panic(err)
	}
	return Twist{W: w, V: mulVec3(&jinv, e.Trans)}
}

// LeftJacobianSE3 returns the 6x6 left Jacobian of SE(3) at tw, sum of ad_tw^k / (k+1)!.
func LeftJacobianSE3(tw Twist) *mat.Dense {
	theta := tw.W.Norm()
	var c1, c2, c3 float64
	if theta < smallAngle {
		t2 := theta * theta
		c1 = 1.0/6 - t2/120
		c2 = 1.0/24 - t2/720
		c3 = 1.0/120 - t2/2520
	} else {
		t2 := theta * theta
		s, c := math.Sin(theta), math.Cos(theta)
		c1 = (theta - s) / (t2 * theta)
		c2 = (t2 + 2*c - 2) / (2 * t2 * t2)
		c3 = (2*theta - 3*s + theta*c) / (2 * t2 * t2 * theta)
	}

	wx := Skew(tw.W)
	vx := Skew(tw.V)
	prod := func(ms ...mat.Matrix) *mat.Dense {
		out := mat.DenseCopyOf(ms[0])
		for _, m := range ms[1:] {
			var tmp mat.Dense
			tmp.Mul(out, m)
			out = &tmp
		}
		return out
	}

	q := scaled(0.5, vx)
	t1 := prod(wx, vx)
	t1.Add(t1, prod(vx, wx))
	t1.Add(t1, prod(wx, vx, wx))
	q.Add(q, scaled(c1, t1))

	t2 := prod(wx, wx, vx)
	t2.Add(t2, prod(vx, wx, wx))
	t2.Add(t2, scaled(-3, prod(wx, vx, wx)))
	q.Add(q, scaled(c2, t2))

	t3 := prod(wx, vx, wx, wx)
	t3.Add(t3, prod(wx, wx, vx, wx))
	q.Add(q, scaled(c3, t3))

	jw := LeftJacobianSO3(tw.W)
	j := mat.NewDense(6, 6, nil)
	setBlock(j, 0, 0, jw)
	setBlock(j, 3, 0, q)
	setBlock(j, 3, 3, jw)
	return j
}
