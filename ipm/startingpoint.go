// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import (
	"fmt"
	"math"

	"github.com/ipmcore/ipm/cgsolve"
	"github.com/ipmcore/ipm/model"
	"github.com/ipmcore/ipm/vecops"
)

const (
	startingPointCGTol     = 1e-10
	startingPointCGMaxIter = 500
)

// solveNormalAAT solves A·Aᵀ·u = rhs by CG on the abstract SPD
// operator, independent of the driver's configured NLA path: CG needs
// no factorization setup for this one-off use.
func solveNormalAAT(mdl *model.Model, rhs []float64) ([]float64, error) {
	tmp := make([]float64, mdl.N)
	apply := func(dst, src []float64) {
		mdl.A.MulVecT(tmp, src)
		mdl.A.MulVec(dst, tmp)
	}
	solver := cgsolve.Solver{Apply: apply, Tol: startingPointCGTol, MaxIter: startingPointCGMaxIter}
	u := make([]float64, mdl.M)
	if _, err := solver.Solve(u, rhs); err != nil {
		return nil, fmt.Errorf("ipm: starting point: %w", err)
	}
	return u, nil
}

// startingPoint builds a feasible, reasonably centred initial iterate,
// following four steps.
func startingPoint(mdl *model.Model) (*Iterate, error) {
	n, m := mdl.N, mdl.M
	it := newIterate(n, m)

	// Step 1: x = clip(0, l, u), then a least-norm correction toward
	// A·x = b: solve A·Aᵀ·Δy = b−A·x, recover Δx = Aᵀ·Δy.
	for j := range it.X {
		it.X[j] = vecops.Clip(0, mdl.L[j], mdl.U[j])
	}
	r1 := make([]float64, m)
	mdl.A.MulVec(r1, it.X)
	for i := range r1 {
		r1[i] = mdl.B[i] - r1[i]
	}
	dy, err := solveNormalAAT(mdl, r1)
	if err != nil {
		return nil, err
	}
	dx := make([]float64, n)
	mdl.A.MulVecT(dx, dy)
	vecops.AXPY(it.X, 1, dx)

	// Step 2: xl, xu measured against x, shifted uniformly to be
	// strictly positive on present-bound components only, so components
	// with no bound stay exact zeros.
	var minVal float64
	for j := 0; j < n; j++ {
		if mdl.HasLower(j) {
			it.XL[j] = it.X[j] - mdl.L[j]
			minVal = math.Min(minVal, it.XL[j])
		}
		if mdl.HasUpper(j) {
			it.XU[j] = mdl.U[j] - it.X[j]
			minVal = math.Min(minVal, it.XU[j])
		}
	}
	shift := 1 + math.Max(0, -1.5*minVal)
	for j := 0; j < n; j++ {
		if mdl.HasLower(j) {
			it.XL[j] += shift
		}
		if mdl.HasUpper(j) {
			it.XU[j] += shift
		}
	}

	// Step 3: y solves A·Aᵀ·y = A·c; split c−Aᵀy between zl and zu,
	// then shift to be strictly positive on present components only.
	ac := make([]float64, m)
	mdl.A.MulVec(ac, mdl.C)
	y, err := solveNormalAAT(mdl, ac)
	if err != nil {
		return nil, err
	}
	copy(it.Y, y)

	aty := make([]float64, n)
	mdl.A.MulVecT(aty, it.Y)
	minVal = 0
	for j := 0; j < n; j++ {
		v := mdl.C[j] - aty[j]
		switch {
		case mdl.HasLower(j) && mdl.HasUpper(j):
			it.ZL[j] = 0.5 * v
			it.ZU[j] = -0.5 * v
		case mdl.HasLower(j):
			it.ZL[j] = v
		case mdl.HasUpper(j):
			it.ZU[j] = -v
		}
		if mdl.HasLower(j) {
			minVal = math.Min(minVal, it.ZL[j])
		}
		if mdl.HasUpper(j) {
			minVal = math.Min(minVal, it.ZU[j])
		}
	}
	shift = 1 + math.Max(0, -1.5*minVal)
	for j := 0; j < n; j++ {
		if mdl.HasLower(j) {
			it.ZL[j] += shift
		}
		if mdl.HasUpper(j) {
			it.ZU[j] += shift
		}
	}

	// Step 4: centrality adjustment, applied only to present-bound
	// components (says so explicitly, unlike the
	// original's unconditional xl/xu shift — see DESIGN.md).
	xsum, zsum, mu0 := 1.0, 1.0, 1.0
	for j := 0; j < n; j++ {
		if mdl.HasLower(j) {
			xsum += it.XL[j]
			zsum += it.ZL[j]
			mu0 += it.XL[j] * it.ZL[j]
		}
		if mdl.HasUpper(j) {
			xsum += it.XU[j]
			zsum += it.ZU[j]
			mu0 += it.XU[j] * it.ZU[j]
		}
	}
	dxAdj := 0.5 * mu0 / zsum
	dzAdj := 0.5 * mu0 / xsum
	for j := 0; j < n; j++ {
		if mdl.HasLower(j) {
			it.XL[j] += dxAdj
			it.ZL[j] += dzAdj
		}
		if mdl.HasUpper(j) {
			it.XU[j] += dxAdj
			it.ZU[j] += dzAdj
		}
	}

	return it, nil
}
