package symmetry

import (
	"gonum.org/v1/gonum/mat"

	"github.com/eqf-vio/msceqf/spatialmath"
	"github.com/eqf-vio/msceqf/state"
)

// CurvatureCorrection returns Gamma = I - ad_inn / 2 for an innovation inn given in the algebra
// coordinates of X. Gamma is block diagonal with the layout of X.
// Callers map measurement residuals onto algebra coordinates before calling, so D does not
// appear here.
func CurvatureCorrection(X *state.MSCEqFState, inn mat.Vector) (*mat.Dense, error) {
	a, err := state.AlgebraFromVector(X, inn)
	if err != nil {
		return nil, err
	}

	n := X.Dof()
	ad := mat.NewDense(n, n, nil)
	off := 0
	place := func(m *mat.Dense) {
		r, _ := m.Dims()
		ad.Slice(off, off+r, off, off+r).(*mat.Dense).Copy(m)
		off += r
	}
	place(spatialmath.AdSDB(a.D))
	place(spatialmath.AdTwist(a.E))
	if X.CalibrateIntrinsics {
		place(spatialmath.AdIntrinsics(a.L))
	}
	for _, b := range a.Blocks.All() {
		if b.Kind == state.KindClone {
			place(spatialmath.AdTwist(b.Twist))
		} else {
			place(spatialmath.AdSOT3(b.Scaled))
		}
	}

	gamma := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		gamma.Set(i, i, 1)
	}
	ad.Scale(0.5, ad)
	gamma.Sub(gamma, ad)
	return gamma, nil
}
