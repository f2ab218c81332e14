package state

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/num/quat"
)

var (
	// ErrBlockMismatch is returned when two states do not share the same block layout.
	ErrBlockMismatch = errors.New("block layout mismatch")
	// ErrNonUnitRotation is returned when a rotation is not a unit quaternion.
	ErrNonUnitRotation = errors.New("rotation is not a unit quaternion")
	// ErrNonInvertible is returned when a group element has a non-positive scale.
	ErrNonInvertible = errors.New("group element is not invertible")
	// ErrDuplicateID is returned when inserting an identifier that is already present.
	ErrDuplicateID = errors.New("block identifier already present")
	// ErrUnknownID is returned when an identifier is not present.
	ErrUnknownID = errors.New("block identifier not found")
	// ErrDimensionMismatch is returned when a vector does not match the tangent dimension of a state.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// NewBlockMismatchError is used when the identifiers of two block collections differ.
func NewBlockMismatchError(got, want []ID) error {
	onlyGot, onlyWant := lo.Difference(got, want)
	if len(onlyGot) == 0 && len(onlyWant) == 0 {
		return errors.Wrapf(ErrBlockMismatch, "same identifiers in a different order or kind: %v vs %v", got, want)
	}
	return errors.Wrapf(ErrBlockMismatch, "%d vs %d blocks, unmatched %v and %v", len(got), len(want), onlyGot, onlyWant)
}

// NewNonUnitRotationError is used when a block holds a rotation that is not a unit quaternion.
func NewNonUnitRotationError(block string, q quat.Number) error {
	return errors.Wrapf(ErrNonUnitRotation, "%s: |q| = %g", block, quat.Abs(q))
}

// NewNonInvertibleError is used when a block holds a non-positive scale.
func NewNonInvertibleError(block string, scale float64) error {
	return errors.Wrapf(ErrNonInvertible, "%s: scale %g", block, scale)
}

// NewDimensionMismatchError is used when a vector length does not match the expected dimension.
func NewDimensionMismatchError(got, want int) error {
	return errors.Wrapf(ErrDimensionMismatch, "got %d, want %d", got, want)
}
