package spatialmath

import (
	"gonum.org/v1/gonum/mat"
)

// SDBTangent is an element of the semi-direct bias algebra: an se2(3) part and an se(3) bias part.
type SDBTangent struct {
	Lambda SE23Tangent
	Bias   Twist
}

// SDBTangentFromSlice reads a tangent from the first fifteen entries of s.
func SDBTangentFromSlice(s []float64) SDBTangent {
	return SDBTangent{Lambda: SE23TangentFromSlice(s[0:9]), Bias: TwistFromSlice(s[9:15])}
}

// Slice returns the tangent as (Lambda, Bias).
func (t SDBTangent) Slice() []float64 {
	return append(t.Lambda.Slice(), t.Bias.Slice()...)
}

// AdSDB returns the 15x15 matrix of ad_t.
func AdSDB(t SDBTangent) *mat.Dense {
	ad := mat.NewDense(15, 15, nil)
	setBlock(ad, 0, 0, AdSE23(t.Lambda))
	setBlock(ad, 9, 0, AdTwist(t.Bias))
	setBlock(ad, 9, 9, AdTwist(t.Lambda.RotVel()))
	return ad
}

// SDB is the semi-direct product of SE2(3) with se(3). The bias part is acted on through the
// rotation-velocity subgroup of C.
type SDB struct {
	C     SE23
	Delta Twist
}

// IdentitySDB returns the identity element.
func IdentitySDB() SDB {
	return SDB{C: IdentitySE23()}
}

// Mul returns d * o.
func (d SDB) Mul(o SDB) SDB {
	return SDB{
		C:     d.C.Mul(o.C),
		Delta: d.Delta.Add(d.C.RotVel().AdjointTwist(o.Delta)),
	}
}

// Inverse returns d^-1.
func (d SDB) Inverse() SDB {
	return SDB{
		C:     d.C.Inverse(),
		Delta: d.C.RotVel().Inverse().AdjointTwist(d.Delta).Scale(-1),
	}
}

// ExpSDB maps an algebra element to the group.
func ExpSDB(t SDBTangent) SDB {
	return SDB{
		C:     ExpSE23(t.Lambda),
		Delta: MulTwist(LeftJacobianSE3(t.Lambda.RotVel()), t.Bias),
	}
}

// LogSDB is the inverse of ExpSDB.
func LogSDB(d SDB) SDBTangent {
	lambda := LogSE23(d.C)
	var jinv mat.Dense
	if err := jinv.Inverse(LeftJacobianSE3(lambda.RotVel())); err != nil {
		panic(err)
	}
	return SDBTangent{Lambda: lambda, Bias: MulTwist(&jinv, d.Delta)}
}
