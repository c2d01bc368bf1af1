// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

// Direction holds the six blocks of a Newton step,
// reused across predictor and corrector solves.
type Direction struct {
	DX, DXL, DXU []float64
	DY           []float64
	DZL, DZU     []float64
}

func newDirection(n, m int) *Direction {
	return &Direction{
		DX: make([]float64, n), DXL: make([]float64, n), DXU: make([]float64, n),
		DY:  make([]float64, m),
		DZL: make([]float64, n), DZU: make([]float64, n),
	}
}

func (d *Direction) reset() {
	for _, v := range [][]float64{d.DX, d.DXL, d.DXU, d.DY, d.DZL, d.DZU} {
		for i := range v {
			v[i] = 0
		}
	}
}
