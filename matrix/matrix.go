// Package matrix provides the small dense complex linear algebra the
// simulator needs: square matrices, Kronecker products and matrix-vector
// products.
package matrix

import (
	"fmt"
	"math/cmplx"
)

// Matrix is a dense, row-major, square complex matrix.
type Matrix struct {
	n    int
	data []complex128
}

// New returns the n×n zero matrix.
func New(n int) Matrix {
	return Matrix{n: n, data: make([]complex128, n*n)}
}

// Identity returns the n×n identity matrix.
func Identity(n int) Matrix {
	m := New(n)
	for i := range n {
		m.data[i*n+i] = 1
	}
	return m
}

// FromRows builds a matrix from its rows. It panics if the rows do not form
// a square matrix, since callers only use it for literal gate tables.
func FromRows(rows [][]complex128) Matrix {
	n := len(rows)
	m := New(n)
	for i, row := range rows {
		if len(row) != n {
			panic(fmt.Sprintf("matrix: row %d has %d entries, want %d", i, len(row), n))
		}
		copy(m.data[i*n:(i+1)*n], row)
	}
	return m
}

// Diag returns the diagonal matrix with the given entries.
func Diag(entries ...complex128) Matrix {
	m := New(len(entries))
	for i, e := range entries {
		m.data[i*m.n+i] = e
	}
	return m
}

// Size returns the dimension of the matrix.
func (m Matrix) Size() int { return m.n }

// At returns the entry at row i, column j.
func (m Matrix) At(i, j int) complex128 { return m.data[i*m.n+j] }

// Set assigns the entry at row i, column j.
func (m Matrix) Set(i, j int, v complex128) { m.data[i*m.n+j] = v }

// Rows returns a copy of the matrix as nested rows.
func (m Matrix) Rows() [][]complex128 {
	rows := make([][]complex128, m.n)
	for i := range m.n {
		rows[i] = make([]complex128, m.n)
		copy(rows[i], m.data[i*m.n:(i+1)*m.n])
	}
	return rows
}

// Mul returns the product m·b.
func (m Matrix) Mul(b Matrix) Matrix {
	if m.n != b.n {
		panic(fmt.Sprintf("matrix: size mismatch %d×%d · %d×%d", m.n, m.n, b.n, b.n))
	}
	n := m.n
	out := New(n)
	for i := range n {
		for k := range n {
			a := m.data[i*n+k]
			if a == 0 {
				continue
			}
			for j := range n {
				out.data[i*n+j] += a * b.data[k*n+j]
			}
		}
	}
	return out
}

// Kron returns the Kronecker (tensor) product m ⊗ b.
func (m Matrix) Kron(b Matrix) Matrix {
	n := m.n * b.n
	out := New(n)
	for i := range m.n {
		for j := range m.n {
			a := m.data[i*m.n+j]
			if a == 0 {
				continue
			}
			for k := range b.n {
				row := (i*b.n + k) * n
				for l := range b.n {
					out.data[row+j*b.n+l] = a * b.data[k*b.n+l]
				}
			}
		}
	}
	return out
}

// MulVec returns the matrix-vector product m·v as a new slice.
func (m Matrix) MulVec(v []complex128) []complex128 {
	if len(v) != m.n {
		panic(fmt.Sprintf("matrix: vector length %d, want %d", len(v), m.n))
	}
	out := make([]complex128, m.n)
	for i := range m.n {
		var sum complex128
		row := m.data[i*m.n : (i+1)*m.n]
		for j, a := range row {
			if a != 0 {
				sum += a * v[j]
			}
		}
		out[i] = sum
	}
	return out
}

// Dagger returns the conjugate transpose of m.
func (m Matrix) Dagger() Matrix {
	out := New(m.n)
	for i := range m.n {
		for j := range m.n {
			out.data[j*m.n+i] = cmplx.Conj(m.data[i*m.n+j])
		}
	}
	return out
}

// Scale returns c·m.
func (m Matrix) Scale(c complex128) Matrix {
	out := New(m.n)
	for i, v := range m.data {
		out.data[i] = c * v
	}
	return out
}

// Add returns m+b. It panics if the sizes differ.
func (m Matrix) Add(b Matrix) Matrix {
	if m.n != b.n {
		panic(fmt.Sprintf("matrix: size mismatch %d×%d + %d×%d", m.n, m.n, b.n, b.n))
	}
	out := New(m.n)
	for i := range m.data {
		out.data[i] = m.data[i] + b.data[i]
	}
	return out
}

// ApproxEqual reports whether every entry of m and b differs by at most tol.
func (m Matrix) ApproxEqual(b Matrix, tol float64) bool {
	if m.n != b.n {
		return false
	}
	for i := range m.data {
		if cmplx.Abs(m.data[i]-b.data[i]) > tol {
			return false
		}
	}
	return true
}

// IsUnitary reports whether m†·m is the identity within tol.
func (m Matrix) IsUnitary(tol float64) bool {
	return m.Dagger().Mul(m).ApproxEqual(Identity(m.n), tol)
}

// String formats the matrix one row per line.
func (m Matrix) String() string {
	s := ""
	for i := range m.n {
		s += fmt.Sprint(m.data[i*m.n : (i+1)*m.n])
		if i < m.n-1 {
			s += "\n"
		}
	}
	return s
}
