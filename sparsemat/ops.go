// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparsemat

// Transpose returns Aᵀ as a compressed-sparse-column matrix. Because
// a CSC matrix and a CSR matrix share the same layout with rows and
// columns swapped, Transpose also doubles as the row-wise mirror of m
// required by algorithms that need row access to A.
func (m *Matrix) Transpose() *Matrix {
	nnz := m.NNZ()
	t := &Matrix{
		NRows: m.NCols,
		NCols: m.NRows,
		Ptr:   make([]int, m.NRows+1),
		Row:   make([]int, nnz),
		Val:   make([]float64, nnz),
	}

	count := m.NNZPerRow() // becomes column counts of t
	for i := 0; i < m.NRows; i++ {
		t.Ptr[i+1] = t.Ptr[i] + count[i]
	}

	cursor := append([]int(nil), t.Ptr[:m.NRows]...)
	for j := 0; j < m.NCols; j++ {
		for k := m.Ptr[j]; k < m.Ptr[j+1]; k++ {
			r := m.Row[k]
			pos := cursor[r]
			t.Row[pos] = j
			t.Val[pos] = m.Val[k]
			cursor[r]++
		}
	}
	return t
}

// MulVec computes dst = A*x. dst must have length NRows, x length
// NCols; dst is not zeroed by callers who want accumulation semantics,
// but this implementation zeroes dst first to compute a plain product.
func (m *Matrix) MulVec(dst, x []float64) {
	for i := range dst {
		dst[i] = 0
	}
	m.MulVecAdd(dst, x)
}

// MulVecAdd computes dst += A*x without clearing dst first, used when
// accumulating A*x into an existing residual.
func (m *Matrix) MulVecAdd(dst, x []float64) {
	for j := 0; j < m.NCols; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		for k := m.Ptr[j]; k < m.Ptr[j+1]; k++ {
			dst[m.Row[k]] += m.Val[k] * xj
		}
	}
}

// MulVecT computes dst = Aᵀ*y. dst must have length NCols, y length
// NRows.
func (m *Matrix) MulVecT(dst, y []float64) {
	for j := 0; j < m.NCols; j++ {
		sum := 0.0
		for k := m.Ptr[j]; k < m.Ptr[j+1]; k++ {
			sum += m.Val[k] * y[m.Row[k]]
		}
		dst[j] = sum
	}
}

// Dense returns m as a row-major dense slice-of-slices, for use only
// in tests and by the reference gonum-backed linear solver, which
// materialises small/medium systems.
func (m *Matrix) Dense() [][]float64 {
	d := make([][]float64, m.NRows)
	for i := range d {
		d[i] = make([]float64, m.NCols)
	}
	for j := 0; j < m.NCols; j++ {
		for k := m.Ptr[j]; k < m.Ptr[j+1]; k++ {
			d[m.Row[k]][j] = m.Val[k]
		}
	}
	return d
}
