// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import (
	"math"

	"github.com/ipmcore/ipm/model"
)

// thetaGuard is the underflow floor of : values of Θ⁻¹ below
// this are replaced by √(thetaGuard·Θ⁻¹) rather than left to collapse
// the normal-equation/augmented system toward singularity.
const thetaGuard = 1e-12

// computeThetaInv fills dst[j] = zl[j]/xl[j] + zu[j]/xu[j] over
// present bounds, applying the underflow guard.
func computeThetaInv(mdl *model.Model, it *Iterate, dst []float64) {
	for j := range dst {
		var v float64
		if mdl.HasLower(j) {
			v += it.ZL[j] / it.XL[j]
		}
		if mdl.HasUpper(j) {
			v += it.ZU[j] / it.XU[j]
		}
		if v < thetaGuard {
			v = math.Sqrt(thetaGuard * v)
		}
		dst[j] = v
	}
}
