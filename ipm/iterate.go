// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import (
	"math"

	"github.com/ipmcore/ipm/model"
)

// Iterate holds the primal-dual point (x, xl, xu, y, zl, zu) mutated
// in place across the driver's iterations. Components
// with no corresponding finite bound are exact zeros and are skipped
// by every consumer, never divided into.
type Iterate struct {
	X, XL, XU []float64
	Y         []float64
	ZL, ZU    []float64
}

func newIterate(n, m int) *Iterate {
	return &Iterate{
		X: make([]float64, n), XL: make([]float64, n), XU: make([]float64, n),
		Y:  make([]float64, m),
		ZL: make([]float64, n), ZU: make([]float64, n),
	}
}

// Mu returns the average complementarity (Σxl·zl + Σxu·zu)/count over
// components with a finite bound.
func (it *Iterate) Mu(mdl *model.Model) float64 {
	var sum float64
	var count int
	for j := range it.X {
		if mdl.HasLower(j) {
			sum += it.XL[j] * it.ZL[j]
			count++
		}
		if mdl.HasUpper(j) {
			sum += it.XU[j] * it.ZU[j]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// valid reports whether every component is finite and every
// present-bound component is non-negative (iteration
// step 1).
func (it *Iterate) valid(mdl *model.Model) bool {
	for _, v := range it.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, v := range it.Y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for j := range it.XL {
		if mdl.HasLower(j) {
			if v := it.XL[j]; math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return false
			}
			if v := it.ZL[j]; math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return false
			}
		}
		if mdl.HasUpper(j) {
			if v := it.XU[j]; math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return false
			}
			if v := it.ZU[j]; math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return false
			}
		}
	}
	return true
}

// pobj returns cᵀx.
func (it *Iterate) pobj(mdl *model.Model) float64 {
	var s float64
	for j, c := range mdl.C {
		s += c * it.X[j]
	}
	return s
}

// dobj returns bᵀy + Σ(l·zl over finite l) − Σ(u·zu over finite u),
// the dual objective consistent with r4=0 forcing
// pobj−dobj = Σxl·zl + Σxu·zu ≥ 0 (derived from the model's KKT
// stationarity condition c = Aᵀy + zl − zu).
func (it *Iterate) dobj(mdl *model.Model) float64 {
	var s float64
	for i, y := range it.Y {
		s += mdl.B[i] * y
	}
	for j := range mdl.C {
		if mdl.HasLower(j) {
			s += mdl.L[j] * it.ZL[j]
		}
		if mdl.HasUpper(j) {
			s -= mdl.U[j] * it.ZU[j]
		}
	}
	return s
}
