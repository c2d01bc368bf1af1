// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparsemat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testMatrix builds the 2x4 matrix from scenario 1:
// [[1,1,1,0],[1,-1,0,1]]
func testMatrix(t *testing.T) *Matrix {
	t.Helper()
	rows := []int{0, 1, 0, 1, 0, 1}
	cols := []int{0, 0, 1, 1, 2, 3}
	vals := []float64{1, 1, 1, -1, 1, 1}
	m, err := NewFromTriplets(2, 4, rows, cols, vals)
	require.NoError(t, err)
	return m
}

func TestNewFromTripletsAndValidate(t *testing.T) {
	m := testMatrix(t)
	require.NoError(t, m.Validate())
	assert.Equal(t, 6, m.NNZ())
	assert.Equal(t, [][]float64{
		{1, 1, 1, 0},
		{1, -1, 0, 1},
	}, m.Dense())
}

func TestNewFromTripletsMergesDuplicates(t *testing.T) {
	m, err := NewFromTriplets(1, 1, []int{0, 0}, []int{0, 0}, []float64{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, m.Val)
}

func TestTransposeRoundTrip(t *testing.T) {
	m := testMatrix(t)
	tr := m.Transpose()
	require.NoError(t, tr.Validate())
	assert.Equal(t, m.NRows, tr.NCols)
	assert.Equal(t, m.NCols, tr.NRows)

	trDense := tr.Dense()
	mDense := m.Dense()
	for i := range mDense {
		for j := range mDense[i] {
			assert.Equal(t, mDense[i][j], trDense[j][i])
		}
	}
}

func TestMulVecAndMulVecT(t *testing.T) {
	m := testMatrix(t)
	x := []float64{1, 1, 1, 1}
	dst := make([]float64, m.NRows)
	m.MulVec(dst, x)
	assert.Equal(t, []float64{3, 1}, dst)

	y := []float64{1, 1}
	dstT := make([]float64, m.NCols)
	m.MulVecT(dstT, y)
	assert.Equal(t, []float64{2, 0, 1, 1}, dstT)
}

func TestAppendColumn(t *testing.T) {
	m := testMatrix(t)
	idx, err := m.AppendColumn([]int{1}, []float64{5})
	require.NoError(t, err)
	assert.Equal(t, 4, idx)
	assert.Equal(t, 5, m.NCols)
	rows, vals := m.Column(4)
	assert.Equal(t, []int{1}, rows)
	assert.Equal(t, []float64{5}, vals)
	require.NoError(t, m.Validate())
}

func TestAppendColumnRejectsOutOfRangeRow(t *testing.T) {
	m := testMatrix(t)
	_, err := m.AppendColumn([]int{9}, []float64{1})
	assert.Error(t, err)
}

func TestValidateRejectsNonFinite(t *testing.T) {
	m := testMatrix(t)
	m.Val[0] = math.NaN()
	assert.Error(t, m.Validate())
}
