// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipmcore/ipm/sparsemat"
)

// testMatrix builds scenario 1's 2×4 matrix
// [[1,1,1,0],[1,-1,0,1]].
func testMatrix(t *testing.T) *sparsemat.Matrix {
	t.Helper()
	rows := []int{0, 1, 0, 1, 0, 1}
	cols := []int{0, 0, 1, 1, 2, 3}
	vals := []float64{1, 1, 1, -1, 1, 1}
	a, err := sparsemat.NewFromTriplets(2, 4, rows, cols, vals)
	require.NoError(t, err)
	return a
}

func TestAssembleNEMatchesDenseProduct(t *testing.T) {
	a := testMatrix(t)
	thetaInv := []float64{1, 1, 1, 1}

	ne := AssembleNE(a, thetaInv)
	assert.Equal(t, a.NRows, ne.NRows)
	assert.Equal(t, a.NRows, ne.NCols)

	dense := a.Dense()
	theta := make([]float64, a.NCols)
	for j := range theta {
		theta[j] = 1 / (thetaInv[j] + PrimalReg)
	}
	// Reference S[i][k] = sum_j A[i][j]*theta[j]*A[k][j].
	want := make([][]float64, a.NRows)
	for i := range want {
		want[i] = make([]float64, a.NRows)
		for k := range want[i] {
			var s float64
			for j := 0; j < a.NCols; j++ {
				s += dense[i][j] * theta[j] * dense[k][j]
			}
			want[i][k] = s
		}
	}

	for i := 0; i < ne.NCols; i++ {
		for k := ne.Ptr[i]; k < ne.Ptr[i+1]; k++ {
			row := ne.Row[k]
			assert.GreaterOrEqual(t, row, i, "only the lower triangle (row>=col) should be stored")
			assert.InDelta(t, want[row][i], ne.Val[k], 1e-9)
		}
	}
}

func TestDenseGonumAugmentedSystemScenario1(t *testing.T) {
	a := testMatrix(t)
	thetaInv := []float64{1, 1, 1, 1}
	xStar := []float64{1, 1, 1, 1}
	yStar := []float64{1, 1}

	// rhs_x = -Theta^-1*x* + A^T*y*; rhs_y = A*x*.
	at := make([]float64, a.NCols)
	a.MulVecT(at, yStar)
	rhsX := make([]float64, a.NCols)
	for j := range rhsX {
		rhsX[j] = -thetaInv[j]*xStar[j] + at[j]
	}
	rhsY := make([]float64, a.NRows)
	a.MulVec(rhsY, xStar)

	s := NewDenseGonum()
	require.Equal(t, OK, s.Setup(a, Options{NLA: Augmented}))
	require.Equal(t, OK, s.FactorAS(a, thetaInv))
	require.True(t, s.Valid())

	lhsX, lhsY, status := s.SolveAS(rhsX, rhsY)
	require.Equal(t, OK, status)
	for j := range xStar {
		assert.InDelta(t, xStar[j], lhsX[j], 1e-6)
	}
	for i := range yStar {
		assert.InDelta(t, yStar[i], lhsY[i], 1e-6)
	}
}

func TestDenseGonumNormalEquationScenario2(t *testing.T) {
	a := testMatrix(t)
	thetaInv := []float64{1, 1, 1, 1}
	xStar := []float64{1, 1, 1, 1}
	yStar := []float64{1, 1}

	t7 := make([]float64, a.NCols)
	aty := make([]float64, a.NCols)
	a.MulVecT(aty, yStar)
	for j := range t7 {
		t7[j] = -thetaInv[j]*xStar[j] + aty[j]
	}
	theta := make([]float64, a.NCols)
	for j := range theta {
		theta[j] = 1 / (thetaInv[j] + PrimalReg)
		t7[j] *= theta[j]
	}
	rhs := make([]float64, a.NRows)
	a.MulVec(rhs, xStar)
	athetat := make([]float64, a.NRows)
	a.MulVec(athetat, t7)
	for i := range rhs {
		rhs[i] += athetat[i]
	}

	s := NewDenseGonum()
	require.Equal(t, OK, s.Setup(a, Options{NLA: NormEq}))
	require.Equal(t, OK, s.FactorNE(a, thetaInv))
	require.True(t, s.Valid())

	lhs, status := s.SolveNE(rhs)
	require.Equal(t, OK, status)
	for i := range yStar {
		assert.InDelta(t, yStar[i], lhs[i], 1e-6)
	}
}

func TestSolveASFailsBeforeFactor(t *testing.T) {
	s := NewDenseGonum()
	_, _, status := s.SolveAS([]float64{1}, []float64{1})
	assert.Equal(t, ErrSolve, status)
}

func TestSolveNEFailsBeforeFactor(t *testing.T) {
	s := NewDenseGonum()
	_, status := s.SolveNE([]float64{1})
	assert.Equal(t, ErrSolve, status)
}

func TestClearInvalidatesFactorization(t *testing.T) {
	a := testMatrix(t)
	thetaInv := []float64{1, 1, 1, 1}
	s := NewDenseGonum()
	require.Equal(t, OK, s.FactorNE(a, thetaInv))
	require.True(t, s.Valid())
	s.Clear()
	assert.False(t, s.Valid())
	_, status := s.SolveNE([]float64{1, 1})
	assert.Equal(t, ErrSolve, status)
}

func TestFlopsAndNNZReporters(t *testing.T) {
	a := testMatrix(t)
	thetaInv := []float64{1, 1, 1, 1}
	s := NewDenseGonum()
	require.Equal(t, OK, s.FactorNE(a, thetaInv))

	var flopser FlopsReporter = s
	var nnzer NNZReporter = s
	assert.Greater(t, flopser.Flops(), 0.0)
	assert.Greater(t, nnzer.NNZ(), 0)
}
