package state

import (
	"gonum.org/v1/gonum/mat"

	"github.com/eqf-vio/msceqf/spatialmath"
)

// AlgebraBlock is the Lie algebra element of one clone or landmark.
type AlgebraBlock struct {
	Kind Kind
	// Twist is the se(3) element of a clone.
	Twist spatialmath.Twist
	// Scaled is the sot(3) element of a landmark.
	Scaled spatialmath.SOT3Tangent
}

// BlockKind returns the kind of the block.
func (b AlgebraBlock) BlockKind() Kind {
	return b.Kind
}

func (b AlgebraBlock) slice() []float64 {
	if b.Kind == KindClone {
		return b.Twist.Slice()
	}
	return b.Scaled.Slice()
}

// Algebra is a Lie algebra element with the block layout of an MSCEqFState.
type Algebra struct {
	D spatialmath.SDBTangent
	E spatialmath.Twist
	L spatialmath.IntrinsicsTangent
	// CalibrateIntrinsics includes L in the vector layout.
	CalibrateIntrinsics bool

	Blocks *Collection[AlgebraBlock]
}

// NewAlgebra returns the zero algebra element with the block layout of X.
func NewAlgebra(X *MSCEqFState) *Algebra {
	blocks, _ := Map(X.Blocks, func(_ ID, b GroupBlock) (AlgebraBlock, error) {
		return AlgebraBlock{Kind: b.Kind}, nil
	})
	return &Algebra{CalibrateIntrinsics: X.CalibrateIntrinsics, Blocks: blocks}
}

// AlgebraFromVector reads an algebra element laid out like X from v.
func AlgebraFromVector(X *MSCEqFState, v mat.Vector) (*Algebra, error) {
	if v.Len() != X.Dof() {
		return nil, NewDimensionMismatchError(v.Len(), X.Dof())
	}
	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	a := &Algebra{CalibrateIntrinsics: X.CalibrateIntrinsics}
	a.D = spatialmath.SDBTangentFromSlice(data[0:DofSDB])
	off := DofSDB
	a.E = spatialmath.TwistFromSlice(data[off : off+DofExtrinsics])
	off += DofExtrinsics
	if X.CalibrateIntrinsics {
		a.L = spatialmath.IntrinsicsTangentFromSlice(data[off : off+DofIntrinsics])
		off += DofIntrinsics
	}
	blocks, err := Map(X.Blocks, func(_ ID, b GroupBlock) (AlgebraBlock, error) {
		out := AlgebraBlock{Kind: b.Kind}
		if b.Kind == KindClone {
			out.Twist = spatialmath.TwistFromSlice(data[off : off+6])
		} else {
			out.Scaled = spatialmath.SOT3TangentFromSlice(data[off : off+4])
		}
		off += b.Kind.Dof()
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	a.Blocks = blocks
	return a, nil
}

// Dof returns the dimension of the vector layout.
func (a *Algebra) Dof() int {
	n := DofSDB + DofExtrinsics + a.Blocks.Dof()
	if a.CalibrateIntrinsics {
		n += DofIntrinsics
	}
	return n
}

// Vector flattens a in the order D, E, L (when calibrated), then blocks in collection order.
func (a *Algebra) Vector() *mat.VecDense {
	data := make([]float64, 0, a.Dof())
	data = append(data, a.D.Slice()...)
	data = append(data, a.E.Slice()...)
	if a.CalibrateIntrinsics {
		data = append(data, a.L.Slice()...)
	}
	for _, b := range a.Blocks.All() {
		data = append(data, b.slice()...)
	}
	return mat.NewVecDense(len(data), data)
}

// Scale returns f * a.
func (a *Algebra) Scale(f float64) *Algebra {
	blocks, _ := Map(a.Blocks, func(_ ID, b AlgebraBlock) (AlgebraBlock, error) {
		return AlgebraBlock{
			Kind:   b.Kind,
			Twist:  b.Twist.Scale(f),
			Scaled: spatialmath.SOT3Tangent{W: b.Scaled.W.Mul(f), S: b.Scaled.S * f},
		}, nil
	})
	return &Algebra{
		D:                   spatialmath.SDBTangent{Lambda: a.D.Lambda.Scale(f), Bias: a.D.Bias.Scale(f)},
		E:                   a.E.Scale(f),
		L:                   spatialmath.IntrinsicsTangent{A: a.L.A * f, B: a.L.B * f, C: a.L.C * f, D: a.L.D * f},
		CalibrateIntrinsics: a.CalibrateIntrinsics,
		Blocks:              blocks,
	}
}

// Exp maps an algebra element to the group element with the same layout.
func Exp(a *Algebra) (*MSCEqFState, error) {
	blocks, err := Map(a.Blocks, func(_ ID, b AlgebraBlock) (GroupBlock, error) {
		out := NewGroupBlock(b.Kind)
		if b.Kind == KindClone {
			out.Z = spatialmath.ExpSE3(b.Twist)
		} else {
			out.Q = spatialmath.ExpSOT3(b.Scaled)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	l := spatialmath.IdentityIntrinsics()
	if a.CalibrateIntrinsics {
		l = spatialmath.ExpIntrinsics(a.L)
	}
	return &MSCEqFState{
		D:                   spatialmath.ExpSDB(a.D),
		E:                   spatialmath.ExpSE3(a.E),
		L:                   l,
		CalibrateIntrinsics: a.CalibrateIntrinsics,
		Blocks:              blocks,
	}, nil
}
