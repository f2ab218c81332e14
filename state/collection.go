package state

import (
	"fmt"
	"iter"

	"github.com/pkg/errors"
)

// ID identifies a clone or landmark block. Identifiers are stable for the lifetime of the block.
type ID uint64

// Kind is the kind of a clone or landmark block.
type Kind int

const (
	// KindClone is a historical camera pose.
	KindClone Kind = iota
	// KindLandmark is an anchored 3-D feature.
	KindLandmark
)

func (k Kind) String() string {
	switch k {
	case KindClone:
		return "clone"
	case KindLandmark:
		return "landmark"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Dof returns the number of tangent coordinates of a block of this kind.
func (k Kind) Dof() int {
	if k == KindClone {
		return 6
	}
	return 4
}

// Block is a value stored in a Collection.
type Block interface {
	BlockKind() Kind
}

type slot[T Block] struct {
	id    ID
	value T
	live  bool
}

// Collection is an insertion ordered set of blocks keyed by ID. Slots live in a flat arena;
// removal leaves a tombstone and the arena is compacted once half of it is dead, so insert and
// remove are O(1) amortized while iteration stays a flat ordered scan.
type Collection[T Block] struct {
	slots []slot[T]
	index map[ID]int
	dead  int
}

// NewCollection returns an empty collection.
func NewCollection[T Block]() *Collection[T] {
	return &Collection[T]{index: map[ID]int{}}
}

// Len returns the number of live blocks.
func (c *Collection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.index)
}

// Has reports whether id is present.
func (c *Collection[T]) Has(id ID) bool {
	_, ok := c.index[id]
	return ok
}

// Get returns the block stored under id.
func (c *Collection[T]) Get(id ID) (T, bool) {
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.slots[i].value, true
}

// Insert appends a block. Inserting an existing id is an error.
func (c *Collection[T]) Insert(id ID, value T) error {
	if c.index == nil {
		c.index = map[ID]int{}
	}
	if _, ok := c.index[id]; ok {
		return errors.Wrapf(ErrDuplicateID, "%s %d", value.BlockKind(), id)
	}
	c.index[id] = len(c.slots)
	c.slots = append(c.slots, slot[T]{id: id, value: value, live: true})
	return nil
}

// Set replaces the block stored under id, keeping its position.
func (c *Collection[T]) Set(id ID, value T) error {
	i, ok := c.index[id]
	if !ok {
		return errors.Wrapf(ErrUnknownID, "%d", id)
	}
	c.slots[i].value = value
	return nil
}

// Remove deletes the block stored under id and reports whether it was present.
func (c *Collection[T]) Remove(id ID) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	delete(c.index, id)
	var zero T
	c.slots[i] = slot[T]{id: id, value: zero}
	c.dead++
	if c.dead > len(c.slots)/2 {
		c.compact()
	}
	return true
}

func (c *Collection[T]) compact() {
	live := make([]slot[T], 0, len(c.index))
	for _, s := range c.slots {
		if s.live {
			c.index[s.id] = len(live)
			live = append(live, s)
		}
	}
	c.slots = live
	c.dead = 0
}

// All iterates over the live blocks in insertion order.
func (c *Collection[T]) All() iter.Seq2[ID, T] {
	return func(yield func(ID, T) bool) {
		if c == nil {
			return
		}
		for _, s := range c.slots {
			if s.live && !yield(s.id, s.value) {
				return
			}
		}
	}
}

// IDs returns the live identifiers in insertion order.
func (c *Collection[T]) IDs() []ID {
	ids := make([]ID, 0, c.Len())
	for id := range c.All() {
		ids = append(ids, id)
	}
	return ids
}

// Kinds returns the kinds of the live blocks in insertion order.
func (c *Collection[T]) Kinds() []Kind {
	kinds := make([]Kind, 0, c.Len())
	for _, v := range c.All() {
		kinds = append(kinds, v.BlockKind())
	}
	return kinds
}

// Dof returns the summed tangent dimension of the live blocks.
func (c *Collection[T]) Dof() int {
	n := 0
	for _, v := range c.All() {
		n += v.BlockKind().Dof()
	}
	return n
}

// Copy returns a compacted deep copy.
func (c *Collection[T]) Copy() *Collection[T] {
	out := &Collection[T]{slots: make([]slot[T], 0, c.Len()), index: make(map[ID]int, c.Len())}
	for id, v := range c.All() {
		out.index[id] = len(out.slots)
		out.slots = append(out.slots, slot[T]{id: id, value: v, live: true})
	}
	return out
}

// Map builds a collection with the same identifiers and order by applying fn to every block.
func Map[T, U Block](c *Collection[T], fn func(id ID, v T) (U, error)) (*Collection[U], error) {
	out := &Collection[U]{slots: make([]slot[U], 0, c.Len()), index: make(map[ID]int, c.Len())}
	for id, v := range c.All() {
		u, err := fn(id, v)
		if err != nil {
			return nil, err
		}
		out.index[id] = len(out.slots)
		out.slots = append(out.slots, slot[U]{id: id, value: u, live: true})
	}
	return out, nil
}

// SameLayout returns an error unless a and b hold the same identifiers, in the same order, with
// matching kinds.
func SameLayout[A, B Block](a *Collection[A], b *Collection[B]) error {
	idsA, idsB := a.IDs(), b.IDs()
	if len(idsA) != len(idsB) {
		return NewBlockMismatchError(idsA, idsB)
	}
	kindsA, kindsB := a.Kinds(), b.Kinds()
	for i := range idsA {
		if idsA[i] != idsB[i] || kindsA[i] != kindsB[i] {
			return NewBlockMismatchError(idsA, idsB)
		}
	}
	return nil
}
