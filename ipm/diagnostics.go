// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

// Record is one iteration's worth of progress data, corresponding to
// a single row of the original source's ExperimentData collector.
type Record struct {
	Iter                     int
	PObj, DObj               float64
	PrimalInfeas, DualInfeas float64
	Gap                      float64
	Mu                       float64
	AlphaPrimal, AlphaDual   float64
	Correctors               int
}

// Diagnostics is an owned collector value passed by reference through
// the driver — explicitly asks for the source's
// process-wide "data collector" singleton to become this instead.
// A Driver appends one Record per iteration; format FormatMinimal
// keeps only the most recent one.
type Diagnostics struct {
	Records []Record
}

func (d *Diagnostics) append(r Record, format Format) {
	if format == FormatMinimal {
		d.Records = d.Records[:0]
	}
	d.Records = append(d.Records, r)
}
