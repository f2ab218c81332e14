package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// DualQuaternion returns e as a unit dual quaternion, real part the rotation and dual part
// half the translation multiplied by the rotation.
func (e SE3) DualQuaternion() dualquat.Number {
	t := quat.Number{Imag: e.Trans.X / 2, Jmag: e.Trans.Y / 2, Kmag: e.Trans.Z / 2}
	return dualquat.Number{Real: e.Rot, Dual: quat.Mul(t, e.Rot)}
}

// NewSE3FromDualQuaternion converts a dual quaternion to a transform. The real part is normalized
// first; a zero real part maps to the identity rotation.
func NewSE3FromDualQuaternion(d dualquat.Number) SE3 {
	n := quat.Abs(d.Real)
	if n == 0 {
		return SE3{Rot: quat.Number{Real: 1}}
	}
	if n != 1 {
		d.Real = quat.Scale(1/n, d.Real)
		d.Dual = quat.Scale(1/n, d.Dual)
	}
	t := quat.Scale(2, quat.Mul(d.Dual, quat.Conj(d.Real)))
	return SE3{Rot: d.Real, Trans: r3.Vector{X: t.Imag, Y: t.Jmag, Z: t.Kmag}}
}
