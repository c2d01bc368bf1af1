// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cgsolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spdApply applies the SPD matrix [[4,1],[1,3]].
func spdApply(dst, src []float64) {
	dst[0] = 4*src[0] + 1*src[1]
	dst[1] = 1*src[0] + 3*src[1]
}

func TestSolveConverges(t *testing.T) {
	s := Solver{Apply: spdApply, Tol: 1e-10, MaxIter: 100}
	x := make([]float64, 2)
	rhs := []float64{1, 2}
	iters, err := s.Solve(x, rhs)
	require.NoError(t, err)
	assert.Greater(t, iters, 0)

	check := make([]float64, 2)
	spdApply(check, x)
	assert.InDelta(t, rhs[0], check[0], 1e-6)
	assert.InDelta(t, rhs[1], check[1], 1e-6)
}

func TestSolveZeroRHS(t *testing.T) {
	s := Solver{Apply: spdApply}
	x := []float64{5, 5}
	iters, err := s.Solve(x, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, iters)
	assert.Equal(t, []float64{0, 0}, x)
}

func TestSolveWithPreconditioner(t *testing.T) {
	s := Solver{
		Apply:        spdApply,
		Precondition: DiagonalPreconditioner([]float64{4, 3}),
		Tol:          1e-10,
		MaxIter:      100,
	}
	x := make([]float64, 2)
	rhs := []float64{1, 2}
	_, err := s.Solve(x, rhs)
	require.NoError(t, err)
	check := make([]float64, 2)
	spdApply(check, x)
	assert.InDelta(t, rhs[0], check[0], 1e-6)
	assert.InDelta(t, rhs[1], check[1], 1e-6)
}

func TestSolveReturnsNegativeIterOnFailure(t *testing.T) {
	// A non-progressing operator: apply always returns zero, so pap==0.
	zeroOp := func(dst, src []float64) {
		for i := range dst {
			dst[i] = 0
		}
	}
	s := Solver{Apply: zeroOp, MaxIter: 5}
	x := make([]float64, 2)
	iters, err := s.Solve(x, []float64{1, 1})
	require.Error(t, err)
	assert.Less(t, iters, 0)
}
