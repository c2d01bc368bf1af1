// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package crscale computes Curtis-Reid power-of-two row/column scaling
// of a sparse matrix: the least-squares exponents are found by
// preconditioned conjugate gradient on the (m+n)x(m+n) diagonal-plus-
// incidence normal-equation system.
package crscale

import (
	"errors"
	"math"

	"github.com/ipmcore/ipm/cgsolve"
	"github.com/ipmcore/ipm/sparsemat"
)

// ErrDegenerateRowOrCol is returned when A has a row or column with no
// nonzero entries: the Curtis-Reid system's diagonal has a zero and CG
// cannot solve it. Callers (package model) fall back to unscaled data,
// per scenario 5.
var ErrDegenerateRowOrCol = errors.New("crscale: matrix has an all-zero row or column")

// Tolerance and iteration cap mandated by .
const (
	Tolerance  = 1e-6
	MaxCGIters = 1000
	// ExponentClamp bounds the produced exponents, per .
	ExponentClamp = 1024
)

// Exponents holds the per-row and per-column power-of-two scaling
// exponents produced by Compute.
type Exponents struct {
	Row []int
	Col []int
}

// Compute returns the Curtis-Reid row/column exponents for A.
func Compute(a *sparsemat.Matrix) (Exponents, error) {
	m, n := a.NRows, a.NCols

	type entry struct {
		row, col int
		log2Abs  float64
	}
	entries := make([]entry, 0, a.NNZ())
	for j := 0; j < a.NCols; j++ {
		for k := a.Ptr[j]; k < a.Ptr[j+1]; k++ {
			v := a.Val[k]
			if v == 0 {
				continue
			}
			entries = append(entries, entry{row: a.Row[k], col: j, log2Abs: math.Log2(math.Abs(v))})
		}
	}

	rowCount := make([]int, m)
	colCount := make([]int, n)
	sigmaRow := make([]float64, m)
	sigmaCol := make([]float64, n)
	for _, e := range entries {
		rowCount[e.row]++
		colCount[e.col]++
		sigmaRow[e.row] += e.log2Abs
		sigmaCol[e.col] += e.log2Abs
	}
	for i := 0; i < m; i++ {
		if rowCount[i] == 0 {
			return Exponents{}, ErrDegenerateRowOrCol
		}
	}
	for j := 0; j < n; j++ {
		if colCount[j] == 0 {
			return Exponents{}, ErrDegenerateRowOrCol
		}
	}

	diag := make([]float64, m+n)
	for i := 0; i < m; i++ {
		diag[i] = float64(rowCount[i])
	}
	for j := 0; j < n; j++ {
		diag[m+j] = float64(colCount[j])
	}

	apply := func(dst, src []float64) {
		rho, gamma := src[:m], src[m:]
		dRho, dGamma := dst[:m], dst[m:]
		for i := 0; i < m; i++ {
			dRho[i] = diag[i] * rho[i]
		}
		for j := 0; j < n; j++ {
			dGamma[j] = diag[m+j] * gamma[j]
		}
		for _, e := range entries {
			dRho[e.row] += gamma[e.col]
			dGamma[e.col] += rho[e.row]
		}
	}

	rhs := make([]float64, m+n)
	copy(rhs[:m], sigmaRow)
	copy(rhs[m:], sigmaCol)

	solver := cgsolve.Solver{
		Apply:        apply,
		Precondition: cgsolve.DiagonalPreconditioner(diag),
		Tol:          Tolerance,
		MaxIter:      MaxCGIters,
	}

	sol := make([]float64, m+n)
	if _, err := solver.Solve(sol, rhs); err != nil {
		return Exponents{}, err
	}

	exp := Exponents{Row: make([]int, m), Col: make([]int, n)}
	for i := 0; i < m; i++ {
		exp.Row[i] = clampExponent(-math.Round(sol[i]))
	}
	for j := 0; j < n; j++ {
		exp.Col[j] = clampExponent(-math.Round(sol[m+j]))
	}
	return exp, nil
}

func clampExponent(v float64) int {
	if v > ExponentClamp {
		return ExponentClamp
	}
	if v < -ExponentClamp {
		return -ExponentClamp
	}
	return int(v)
}

// Apply2 multiplies v by 2^k using math.Ldexp, touching only the
// exponent bits so mantissas survive a round trip exactly.
func Apply2(v float64, k int) float64 {
	return math.Ldexp(v, k)
}
