// Package tensornet holds the reshaping helpers used to look at a state
// vector as a tensor network: merging and splitting axes of a row-major
// complex tensor, and checking the canonical form of matrix product state
// sites.
package tensornet

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrAxisRange is returned for an axis outside [0, rank).
	ErrAxisRange = errors.New("axis out of range")
	// ErrAxesNotAdjacent is returned when merging axes that are not neighbours.
	ErrAxesNotAdjacent = errors.New("axes must be adjacent")
	// ErrShape is returned when a reshape would change the number of entries.
	ErrShape = errors.New("shape mismatch")
)

// Tensor is a dense complex tensor stored in row-major order: the last axis
// varies fastest.
type Tensor struct {
	Shape []int
	Data  []complex128
}

// New returns the zero tensor of the given shape.
func New(shape ...int) (Tensor, error) {
	size := 1
	for i, d := range shape {
		if d <= 0 {
			return Tensor{}, fmt.Errorf("dimension %d of axis %d: %w", d, i, ErrShape)
		}
		size *= d
	}
	return Tensor{Shape: slices.Clone(shape), Data: make([]complex128, size)}, nil
}

// FromState views the amplitudes of an n-qubit state as a rank-n tensor of
// shape (2, …, 2). Axis k is qubit k; the data is shared.
func FromState(amps []complex128, n int) (Tensor, error) {
	if n < 0 || len(amps) != 1<<n {
		return Tensor{}, fmt.Errorf("%d amplitudes for %d qubits: %w", len(amps), n, ErrShape)
	}
	shape := make([]int, n)
	for i := range shape {
		shape[i] = 2
	}
	return Tensor{Shape: shape, Data: amps}, nil
}

// Rank returns the number of axes.
func (t Tensor) Rank() int { return len(t.Shape) }

// Size returns the number of entries.
func (t Tensor) Size() int { return len(t.Data) }

// At returns the entry at the given multi-index.
func (t Tensor) At(idx ...int) complex128 {
	return t.Data[t.offset(idx)]
}

// Set assigns the entry at the given multi-index.
func (t Tensor) Set(v complex128, idx ...int) {
	t.Data[t.offset(idx)] = v
}

func (t Tensor) offset(idx []int) int {
	if len(idx) != len(t.Shape) {
		panic(fmt.Sprintf("tensornet: %d indices for rank %d", len(idx), len(t.Shape)))
	}
	off := 0
	for i, k := range idx {
		if k < 0 || k >= t.Shape[i] {
			panic(fmt.Sprintf("tensornet: index %d out of range for axis %d of size %d", k, i, t.Shape[i]))
		}
		off = off*t.Shape[i] + k
	}
	return off
}

// MergeAxes returns t with the neighbouring axes ax1 and ax2 fused into one
// axis of their combined size. The order of ax1 and ax2 does not matter. The
// result shares t's data.
func MergeAxes(t Tensor, ax1, ax2 int) (Tensor, error) {
	if ax1 > ax2 {
		ax1, ax2 = ax2, ax1
	}
	if ax1 < 0 || ax2 >= t.Rank() {
		return Tensor{}, fmt.Errorf("merge axes %d and %d of rank %d tensor: %w", ax1, ax2, t.Rank(), ErrAxisRange)
	}
	if ax2 != ax1+1 {
		return Tensor{}, fmt.Errorf("merge axes %d and %d: %w", ax1, ax2, ErrAxesNotAdjacent)
	}
	shape := make([]int, 0, t.Rank()-1)
	shape = append(shape, t.Shape[:ax1]...)
	shape = append(shape, t.Shape[ax1]*t.Shape[ax2])
	shape = append(shape, t.Shape[ax2+1:]...)
	return Tensor{Shape: shape, Data: t.Data}, nil
}

// SplitAxis returns t with axis ax replaced by two axes of sizes dim1 and
// dim2, dim1 being the slower-varying one. The result shares t's data.
func SplitAxis(t Tensor, ax, dim1, dim2 int) (Tensor, error) {
	if ax < 0 || ax >= t.Rank() {
		return Tensor{}, fmt.Errorf("split axis %d of rank %d tensor: %w", ax, t.Rank(), ErrAxisRange)
	}
	if dim1 <= 0 || dim2 <= 0 || dim1*dim2 != t.Shape[ax] {
		return Tensor{}, fmt.Errorf("split axis %d of size %d into %d×%d: %w", ax, t.Shape[ax], dim1, dim2, ErrShape)
	}
	shape := make([]int, 0, t.Rank()+1)
	shape = append(shape, t.Shape[:ax]...)
	shape = append(shape, dim1, dim2)
	shape = append(shape, t.Shape[ax+1:]...)
	return Tensor{Shape: shape, Data: t.Data}, nil
}

// Reshape returns t viewed with a new shape holding the same number of
// entries. The result shares t's data.
func Reshape(t Tensor, shape ...int) (Tensor, error) {
	size := 1
	for _, d := range shape {
		if d <= 0 {
			return Tensor{}, fmt.Errorf("reshape %v to %v: %w", t.Shape, shape, ErrShape)
		}
		size *= d
	}
	if size != t.Size() {
		return Tensor{}, fmt.Errorf("reshape %v to %v: %w", t.Shape, shape, ErrShape)
	}
	return Tensor{Shape: slices.Clone(shape), Data: t.Data}, nil
}
