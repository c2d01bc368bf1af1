// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsolve

import (
	"runtime"
	"sort"
	"sync"

	"github.com/ipmcore/ipm/sparsemat"
)

// PrimalReg is the small static primal regularizer ε_p added to Θ⁻¹
// before assembling the normal-equation matrix, so a variable pinned
// exactly at zero curvature never produces a zero (dense) column.
const PrimalReg = 1e-10

// AssembleNE builds the lower triangle of S = A·Θ·Aᵀ (m×m, symmetric
// positive-definite once regularized) as a compressed-sparse-column
// matrix, where Θ[j] = 1/(thetaInv[j]+ε_p). Column i is filled by a
// two-hop scatter over the neighbours reachable via one step of Aᵀ
// then A, following . Rows are parallelised across
// GOMAXPROCS workers since each column of S is assembled
// independently of the others.
func AssembleNE(a *sparsemat.Matrix, thetaInv []float64) *sparsemat.Matrix {
	m, n := a.NRows, a.NCols
	theta := make([]float64, n)
	for j := 0; j < n; j++ {
		theta[j] = 1 / (thetaInv[j] + PrimalReg)
	}

	at := a.Transpose() // column i of at == row i of a

	rowsOut := make([][]int, m)
	valsOut := make([][]float64, m)

	workers := runtime.GOMAXPROCS(0)
	if workers > m {
		workers = m
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	chunk := (m + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > m {
			hi = m
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			assembleColumns(a, at, theta, lo, hi, rowsOut, valsOut)
		}(lo, hi)
	}
	wg.Wait()

	ptr := make([]int, m+1)
	nnz := 0
	for i := 0; i < m; i++ {
		nnz += len(rowsOut[i])
	}
	row := make([]int, 0, nnz)
	val := make([]float64, 0, nnz)
	for i := 0; i < m; i++ {
		ptr[i] = len(row)
		row = append(row, rowsOut[i]...)
		val = append(val, valsOut[i]...)
	}
	ptr[m] = len(row)

	return &sparsemat.Matrix{NRows: m, NCols: m, Ptr: ptr, Row: row, Val: val}
}

// assembleColumns fills S's columns [lo,hi) in place, keyed by row
// index scatter over a private scratch buffer per worker.
func assembleColumns(a, at *sparsemat.Matrix, theta []float64, lo, hi int, rowsOut [][]int, valsOut [][]float64) {
	m := a.NRows
	mark := make([]int, m)
	scatter := make([]float64, m)
	touched := make([]int, 0, 32)
	gen := 0

	for i := lo; i < hi; i++ {
		gen++
		touched = touched[:0]

		js, ajis := at.Column(i)
		for idx, j := range js {
			aij := ajis[idx]
			if aij == 0 {
				continue
			}
			tj := theta[j]
			ks, akjs := a.Column(j)
			for kdx, k := range ks {
				if k < i {
					continue // lower triangle only: keep rows k >= col i
				}
				contrib := aij * tj * akjs[kdx]
				if contrib == 0 {
					continue
				}
				if mark[k] != gen {
					mark[k] = gen
					scatter[k] = 0
					touched = append(touched, k)
				}
				scatter[k] += contrib
			}
		}

		sort.Ints(touched)
		rows := make([]int, 0, len(touched))
		vals := make([]float64, 0, len(touched))
		for _, k := range touched {
			if v := scatter[k]; v != 0 {
				rows = append(rows, k)
				vals = append(vals, v)
			}
		}
		rowsOut[i] = rows
		valsOut[i] = vals
	}
}
