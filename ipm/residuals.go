// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import "github.com/ipmcore/ipm/model"

// Residuals holds the six residual blocks of , reset every
// iteration by the driver.
type Residuals struct {
	R1         []float64 // length m: b − A·x
	R2, R3     []float64 // length n: l − x + xl, u − x − xu
	R4         []float64 // length n: c − Aᵀy − zl + zu
	R5, R6     []float64 // length n: σµe − Xl·Zl·e, σµe − Xu·Zu·e
}

func newResiduals(n, m int) *Residuals {
	return &Residuals{
		R1: make([]float64, m),
		R2: make([]float64, n), R3: make([]float64, n),
		R4: make([]float64, n),
		R5: make([]float64, n), R6: make([]float64, n),
	}
}

// primalDual fills r1–r4 from the model and the current iterate.
func (r *Residuals) primalDual(mdl *model.Model, it *Iterate) {
	mdl.A.MulVec(r.R1, it.X)
	for i := range r.R1 {
		r.R1[i] = mdl.B[i] - r.R1[i]
	}

	for j := range r.R2 {
		if mdl.HasLower(j) {
			r.R2[j] = mdl.L[j] - it.X[j] + it.XL[j]
		} else {
			r.R2[j] = 0
		}
		if mdl.HasUpper(j) {
			r.R3[j] = mdl.U[j] - it.X[j] - it.XU[j]
		} else {
			r.R3[j] = 0
		}
	}

	mdl.A.MulVecT(r.R4, it.Y)
	for j := range r.R4 {
		var zl, zu float64
		if mdl.HasLower(j) {
			zl = it.ZL[j]
		}
		if mdl.HasUpper(j) {
			zu = it.ZU[j]
		}
		r.R4[j] = mdl.C[j] - r.R4[j] - zl + zu
	}
}

// centrality fills r5, r6 for a target complementarity of sigmaMu on
// every present-bound component.
func (r *Residuals) centrality(mdl *model.Model, it *Iterate, sigmaMu float64) {
	for j := range r.R5 {
		if mdl.HasLower(j) {
			r.R5[j] = sigmaMu - it.XL[j]*it.ZL[j]
		} else {
			r.R5[j] = 0
		}
		if mdl.HasUpper(j) {
			r.R6[j] = sigmaMu - it.XU[j]*it.ZU[j]
		} else {
			r.R6[j] = 0
		}
	}
}
