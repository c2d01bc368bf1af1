// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import (
	"math"

	"github.com/ipmcore/ipm/model"
)

// Result is the outcome of a Solve call, in the caller's original
// (unscaled) units.
type Result struct {
	Status  Status
	Iter    int
	Message string

	X           []float64
	XL, XU      []float64
	ZL, ZU      []float64
	Y           []float64
	Slack       []float64
	Diagnostics Diagnostics
}

// newResult unscales the driver's internal iterate and applies the
// output contract's +∞/0 sentinel for variables with no corresponding
// finite bound. it may be nil if the driver failed before
// a starting point was ever built.
func newResult(mdl *model.Model, it *Iterate, status Status, iter int, diag Diagnostics) *Result {
	r := &Result{Status: status, Iter: iter, Diagnostics: diag}
	if it == nil {
		return r
	}

	n, m := mdl.N, mdl.M
	r.X = make([]float64, n)
	r.XL = make([]float64, n)
	r.XU = make([]float64, n)
	r.ZL = make([]float64, n)
	r.ZU = make([]float64, n)
	r.Y = make([]float64, m)

	for j := 0; j < n; j++ {
		r.X[j] = mdl.UnscaleX(j, it.X[j], false)
		if mdl.HasLower(j) {
			r.XL[j] = mdl.UnscaleX(j, it.XL[j], false)
			r.ZL[j] = mdl.UnscaleX(j, it.ZL[j], true)
		} else {
			r.XL[j] = math.Inf(1)
			r.ZL[j] = 0
		}
		if mdl.HasUpper(j) {
			r.XU[j] = mdl.UnscaleX(j, it.XU[j], false)
			r.ZU[j] = mdl.UnscaleX(j, it.ZU[j], true)
		} else {
			r.XU[j] = math.Inf(1)
			r.ZU[j] = 0
		}
	}
	for i := 0; i < m; i++ {
		r.Y[i] = mdl.UnscaleY(i, it.Y[i])
	}

	r.Slack = make([]float64, len(mdl.OrigSense))
	for i := range mdl.OrigSense {
		if col, ok := mdl.SlackColumn(i); ok {
			sign := 1.0
			if mdl.OrigSense[i] == model.GE {
				sign = -1.0
			}
			r.Slack[i] = sign * r.X[col]
		}
	}

	return r
}
