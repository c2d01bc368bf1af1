// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsolve

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ipmcore/ipm/sparsemat"
)

// conditionLimit is the LU condition-number ceiling past which
// DenseGonum reports a factor failure rather than returning a
// numerically meaningless direction.
const conditionLimit = 1e15

// DenseGonum is the reference linsolve.Solver: it materialises both
// the augmented KKT block and the normal-equation matrix as dense
// gonum matrices and factors them with mat.LU / mat.Cholesky. It
// targets correctness and small/medium problem sizes, as
// sparsemat.Matrix.Dense documents; a sparse factorization back end
// would implement the same interface for production-scale problems.
type DenseGonum struct {
	m, n  int
	valid bool

	lu   mat.LU
	augN int

	chol mat.Cholesky
	neN  int

	flops float64
	nnz   int
}

// NewDenseGonum returns an unconfigured DenseGonum; call Setup first.
func NewDenseGonum() *DenseGonum {
	return &DenseGonum{}
}

// Setup records the problem dimensions. DenseGonum does no symbolic
// analysis of its own since it always factors a fully dense matrix.
func (s *DenseGonum) Setup(a *sparsemat.Matrix, opts Options) Status {
	s.m, s.n = a.NRows, a.NCols
	s.valid = false
	return OK
}

// FactorAS factors the symmetric indefinite KKT block
// [ −Θ⁻¹  Aᵀ ; A  0 ] via LU with partial pivoting.
func (s *DenseGonum) FactorAS(a *sparsemat.Matrix, thetaInv []float64) Status {
	s.valid = false
	m, n := a.NRows, a.NCols
	dim := m + n

	data := make([]float64, dim*dim)
	dense := mat.NewDense(dim, dim, data)
	for j := 0; j < n; j++ {
		dense.Set(j, j, -thetaInv[j])
	}
	ad := a.Dense()
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			v := ad[i][j]
			if v == 0 {
				continue
			}
			dense.Set(n+i, j, v)
			dense.Set(j, n+i, v)
		}
	}

	s.lu.Factorize(dense)
	s.augN = dim
	cond := s.lu.Cond()
	if math.IsInf(cond, 1) || math.IsNaN(cond) || cond > conditionLimit {
		return ErrFactor
	}
	s.flops = 2.0 / 3.0 * float64(dim) * float64(dim) * float64(dim)
	s.nnz = dim * dim
	s.valid = true
	return OK
}

// SolveAS solves the augmented system factored by FactorAS.
func (s *DenseGonum) SolveAS(rhsX, rhsY []float64) (lhsX, lhsY []float64, status Status) {
	if !s.valid {
		return nil, nil, ErrSolve
	}
	n, m := len(rhsX), len(rhsY)
	b := make([]float64, n+m)
	copy(b[:n], rhsX)
	copy(b[n:], rhsY)

	var xv mat.VecDense
	if err := s.lu.SolveVecTo(&xv, false, mat.NewVecDense(n+m, b)); err != nil {
		return nil, nil, ErrSolve
	}

	lhsX = make([]float64, n)
	lhsY = make([]float64, m)
	for i := 0; i < n; i++ {
		lhsX[i] = xv.AtVec(i)
	}
	for i := 0; i < m; i++ {
		lhsY[i] = xv.AtVec(n + i)
	}
	return lhsX, lhsY, OK
}

// FactorNE factors S = A·Θ·Aᵀ via Cholesky, taking Θ⁻¹ and delegating
// assembly to AssembleNE.
func (s *DenseGonum) FactorNE(a *sparsemat.Matrix, thetaInv []float64) Status {
	s.valid = false
	ne := AssembleNE(a, thetaInv)
	m := ne.NRows

	data := make([]float64, m*m)
	for j := 0; j < m; j++ {
		for k := ne.Ptr[j]; k < ne.Ptr[j+1]; k++ {
			i := ne.Row[k]
			v := ne.Val[k]
			data[i*m+j] = v
			data[j*m+i] = v
		}
	}
	sym := mat.NewSymDense(m, data)

	if ok := s.chol.Factorize(sym); !ok {
		return ErrFactor
	}
	s.neN = m
	s.nnz = ne.NNZ()
	s.flops = float64(m) * float64(m) * float64(m) / 3.0
	s.valid = true
	return OK
}

// SolveNE solves the normal-equation system factored by FactorNE.
func (s *DenseGonum) SolveNE(rhs []float64) (lhs []float64, status Status) {
	if !s.valid {
		return nil, ErrSolve
	}
	b := append([]float64(nil), rhs...)
	var xv mat.VecDense
	if err := s.chol.SolveVecTo(&xv, mat.NewVecDense(len(b), b)); err != nil {
		return nil, ErrSolve
	}
	lhs = make([]float64, len(rhs))
	for i := range lhs {
		lhs[i] = xv.AtVec(i)
	}
	return lhs, OK
}

// Clear invalidates the current factorization without releasing the
// underlying scratch matrices, so a subsequent factor call can reuse
// their backing storage.
func (s *DenseGonum) Clear() { s.valid = false }

// Finalise releases the factorizations held by s.
func (s *DenseGonum) Finalise() {
	s.lu = mat.LU{}
	s.chol = mat.Cholesky{}
	s.valid = false
}

// Valid reports whether a factorization succeeded and solveAS/solveNE
// may be called.
func (s *DenseGonum) Valid() bool { return s.valid }

// Flops implements FlopsReporter with an O(dim³) estimate of the last
// factorization performed.
func (s *DenseGonum) Flops() float64 { return s.flops }

// NNZ implements NNZReporter, reporting the last factored matrix's
// dense element count (or the normal-equation matrix's stored nonzero
// count, whichever was factored most recently).
func (s *DenseGonum) NNZ() int { return s.nnz }
