// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// equalityOnlyRaw builds min x0+x1 s.t. x0+x1=1, 0<=x<=1.
func equalityOnlyRaw() Raw {
	return Raw{
		NumVar: 2, NumCon: 1,
		Obj:   []float64{1, 1},
		Rhs:   []float64{1},
		Lower: []float64{0, 0},
		Upper: []float64{1, 1},
		Ptr:   []int{0, 1, 2},
		Row:   []int{0, 0},
		Val:   []float64{1, 1},
		Sense: []Sense{EQ},
	}
}

func TestNewEqualityOnlyNoReformulation(t *testing.T) {
	m, err := New(equalityOnlyRaw())
	require.NoError(t, err)
	assert.Equal(t, 2, m.N)
	assert.Equal(t, 1, m.M)
	assert.Equal(t, 2, m.NumOrigVar)
}

func TestNewInequalityAddsSlack(t *testing.T) {
	raw := equalityOnlyRaw()
	raw.Sense = []Sense{LE}
	m, err := New(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, m.N) // one slack column added
	assert.Equal(t, 2, m.NumOrigVar)
	assert.True(t, m.HasLower(2))
	assert.False(t, m.HasUpper(2))
}

func TestNewGERowUsesNegativeSlack(t *testing.T) {
	raw := equalityOnlyRaw()
	raw.Sense = []Sense{GE}
	m, err := New(raw)
	require.NoError(t, err)
	rows, vals := m.A.Column(2)
	assert.Equal(t, []int{0}, rows)
	assert.Equal(t, []float64{-1}, vals)
}

func TestNewRejectsBadBounds(t *testing.T) {
	raw := equalityOnlyRaw()
	raw.Lower[0] = 5
	raw.Upper[0] = 1
	_, err := New(raw)
	assert.Error(t, err)
}

func TestNewRejectsMismatchedLengths(t *testing.T) {
	raw := equalityOnlyRaw()
	raw.Rhs = []float64{1, 2}
	_, err := New(raw)
	assert.Error(t, err)
}

func TestNewRejectsNonFiniteCost(t *testing.T) {
	raw := equalityOnlyRaw()
	raw.Obj[0] = math.Inf(1)
	_, err := New(raw)
	assert.Error(t, err)
}

func TestNewFallsBackToUnscaledOnZeroColumn(t *testing.T) {
	// Column 1 has no nonzero entries anywhere in A.
	raw := Raw{
		NumVar: 2, NumCon: 1,
		Obj:   []float64{1, 1},
		Rhs:   []float64{1},
		Lower: []float64{0, 0},
		Upper: []float64{1, 1},
		Ptr:   []int{0, 1, 1},
		Row:   []int{0},
		Val:   []float64{1},
		Sense: []Sense{EQ},
	}
	m, err := New(raw)
	require.NoError(t, err)
	assert.False(t, m.Scaled)
	for _, e := range m.RowExp {
		assert.Equal(t, 0, e)
	}
	for _, e := range m.ColExp {
		assert.Equal(t, 0, e)
	}
}

func TestScalingRoundTripsBounds(t *testing.T) {
	raw := Raw{
		NumVar: 2, NumCon: 2,
		Obj:   []float64{1e6, 1},
		Rhs:   []float64{1e-3, 5},
		Lower: []float64{0, 0},
		Upper: []float64{10, math.Inf(1)},
		Ptr:   []int{0, 2, 4},
		Row:   []int{0, 1, 0, 1},
		Val:   []float64{1e6, 1e-6, 2e-3, 3e3},
		Sense: []Sense{EQ, EQ},
	}
	m, err := New(raw)
	require.NoError(t, err)
	if !m.Scaled {
		t.Skip("scaling not triggered for this matrix pattern")
	}
	origUpper := 10.0
	unscaled := m.UnscaleX(0, m.U[0], false)
	assert.InDelta(t, origUpper, unscaled, 1e-9)
}
