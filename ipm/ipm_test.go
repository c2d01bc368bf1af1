// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipmcore/ipm/linsolve"
	"github.com/ipmcore/ipm/model"
)

// equalityOnlyLP builds min x0+x1 s.t. x0+x1=1, 0<=x<=1, a trivially
// feasible LP with only equality constraints.
func equalityOnlyLP(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.New(model.Raw{
		NumVar: 2, NumCon: 1,
		Obj:   []float64{1, 1},
		Rhs:   []float64{1},
		Lower: []float64{0, 0},
		Upper: []float64{1, 1},
		Ptr:   []int{0, 1, 2},
		Row:   []int{0, 0},
		Val:   []float64{1, 1},
		Sense: []model.Sense{model.EQ},
	})
	require.NoError(t, err)
	return m
}

func TestEqualityOnlyLPConverges(t *testing.T) {
	mdl := equalityOnlyLP(t)
	driver, err := NewDriver(mdl, linsolve.NewDenseGonum(), Options{NLA: linsolve.Augmented})
	require.NoError(t, err)

	result := driver.Solve()
	assert.Equal(t, StatusOptimal, result.Status)
	assert.LessOrEqual(t, result.Iter, 50)
	assert.InDelta(t, 1.0, result.X[0]+result.X[1], 1e-6)
}

func TestEqualityOnlyLPConvergesNormalEquationPath(t *testing.T) {
	mdl := equalityOnlyLP(t)
	driver, err := NewDriver(mdl, linsolve.NewDenseGonum(), Options{NLA: linsolve.NormEq})
	require.NoError(t, err)

	result := driver.Solve()
	assert.Equal(t, StatusOptimal, result.Status)
	assert.InDelta(t, 1.0, result.X[0]+result.X[1], 1e-6)
}

// freeVariableLP has one bounded variable and one free (no bounds)
// variable, exercising scenario 4.
func freeVariableLP(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.New(model.Raw{
		NumVar: 2, NumCon: 2,
		Obj:   []float64{1, 1},
		Rhs:   []float64{2, 1},
		Lower: []float64{0, math.Inf(-1)},
		Upper: []float64{5, math.Inf(1)},
		Ptr:   []int{0, 2, 4},
		Row:   []int{0, 1, 0, 1},
		Val:   []float64{1, 1, 1, -1},
		Sense: []model.Sense{model.LE, model.LE},
	})
	require.NoError(t, err)
	return m
}

func TestFreeVariablesIgnoreBoundSlacks(t *testing.T) {
	mdl := freeVariableLP(t)
	assert.True(t, mdl.HasLower(0))
	assert.True(t, mdl.HasUpper(0))
	assert.False(t, mdl.HasLower(1))
	assert.False(t, mdl.HasUpper(1))

	driver, err := NewDriver(mdl, linsolve.NewDenseGonum(), Options{NLA: linsolve.Augmented})
	require.NoError(t, err)
	result := driver.Solve()

	require.NotNil(t, result.X, "status=%s message=%s", result.Status, result.Message)
	// The free variable's slacks and duals report the +Inf/0 sentinel
	// of output contract.
	assert.True(t, math.IsInf(result.XL[1], 1))
	assert.True(t, math.IsInf(result.XU[1], 1))
	assert.Equal(t, 0.0, result.ZL[1])
	assert.Equal(t, 0.0, result.ZU[1])
}

func TestZeroRowFallsBackToUnscaled(t *testing.T) {
	// Row 1 of A is entirely zero (b[1] must then be 0 for feasibility).
	mdl, err := model.New(model.Raw{
		NumVar: 2, NumCon: 2,
		Obj:   []float64{1, 1},
		Rhs:   []float64{1, 0},
		Lower: []float64{0, 0},
		Upper: []float64{1, 1},
		Ptr:   []int{0, 1, 2},
		Row:   []int{0, 0},
		Val:   []float64{1, 1},
		Sense: []model.Sense{model.EQ, model.EQ},
	})
	require.NoError(t, err)
	assert.False(t, mdl.Scaled)

	driver, err := NewDriver(mdl, linsolve.NewDenseGonum(), Options{NLA: linsolve.Augmented})
	require.NoError(t, err)
	result := driver.Solve()
	assert.NotEqual(t, StatusError, result.Status)
}

func TestCorrectorCapRespectsConfiguredBound(t *testing.T) {
	mdl := equalityOnlyLP(t)
	driver, err := NewDriver(mdl, linsolve.NewDenseGonum(), Options{NLA: linsolve.Augmented, MaxCorrectors: 3})
	require.NoError(t, err)
	assert.LessOrEqual(t, driver.maxCorrectors, 3)
	assert.GreaterOrEqual(t, driver.maxCorrectors, 1)

	result := driver.Solve()
	for _, r := range result.Diagnostics.Records {
		assert.LessOrEqual(t, r.Correctors, 3)
	}
}

func TestOptionsValidateAppliesDefaults(t *testing.T) {
	opts, err := Options{}.Validate()
	require.NoError(t, err)
	assert.Equal(t, 100, opts.MaxIter)
	assert.Equal(t, 8, opts.MaxCorrectors)
	assert.Equal(t, 1e-8, opts.Tol)
}

func TestOptionsValidateRejectsNegativeTol(t *testing.T) {
	_, err := Options{Tol: -1}.Validate()
	assert.Error(t, err)
}

func TestNewDriverRejectsNilSolver(t *testing.T) {
	mdl := equalityOnlyLP(t)
	_, err := NewDriver(mdl, nil, Options{})
	assert.Error(t, err)
}

func TestStartingPointIsFeasibleAndCentred(t *testing.T) {
	mdl := equalityOnlyLP(t)
	it, err := startingPoint(mdl)
	require.NoError(t, err)
	for j := 0; j < mdl.N; j++ {
		if mdl.HasLower(j) {
			assert.Greater(t, it.XL[j], 0.0)
			assert.Greater(t, it.ZL[j], 0.0)
		}
		if mdl.HasUpper(j) {
			assert.Greater(t, it.XU[j], 0.0)
			assert.Greater(t, it.ZU[j], 0.0)
		}
	}
}

func TestIterateMuZeroForZeroIterate(t *testing.T) {
	mdl := freeVariableLP(t)
	it := newIterate(mdl.N, mdl.M)
	assert.Equal(t, 0.0, it.Mu(mdl))
}

func TestDirectionResetZeroesAllBlocks(t *testing.T) {
	dir := newDirection(3, 2)
	for i := range dir.DX {
		dir.DX[i] = 1
	}
	dir.reset()
	for _, v := range dir.DX {
		assert.Equal(t, 0.0, v)
	}
}
