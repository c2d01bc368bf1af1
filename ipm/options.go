// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import (
	"errors"
	"math"

	"github.com/ipmcore/ipm/linsolve"
)

// SigmaSchedule selects which of the two centering-parameter schedules
// the source's mcc_ flag toggled between. The predictor always uses
// sigma=0.01 for the affine-scaling direction under either schedule;
// the choice only sets the corrector loop's sigma from the previous
// step sizes: SigmaMehrotra by a five-band table, SigmaGondzio by a
// continuous rule.
type SigmaSchedule int

const (
	SigmaMehrotra SigmaSchedule = iota
	SigmaGondzio
)

// Format controls how much per-iteration history Result.Diagnostics
// retains.
type Format int

const (
	// FormatFull keeps one Record per iteration.
	FormatFull Format = iota
	// FormatMinimal keeps only the most recent Record.
	FormatMinimal
)

// Options configures a Driver. NewDriver calls Validate, which applies
// defaults for zero-valued numeric fields, so the zero value selects
// every default.
type Options struct {
	NLA           linsolve.NLA
	Fact          string
	Format        Format
	Crossover     bool
	Logger        Logger
	SigmaSchedule SigmaSchedule

	// MaxIter caps the iteration count (: MaxIter when iter
	// >= 100). Zero selects the default of 100.
	MaxIter int
	// MaxCorrectors caps the multiple-centrality-corrector count
	//. Zero selects the default of 8.
	MaxCorrectors int
	// Tol is the termination tolerance for primal/dual infeasibility
	// and relative gap. Zero selects 1e-8.
	Tol float64
}

// Validate checks Options and returns a copy with defaults applied
// for any zero-valued numeric field, in the validation-chain style of
// slsqp.Problem.New / lbfgsb.Problem.New.
func (o Options) Validate() (Options, error) {
	var err error
	switch {
	case o.MaxIter < 0:
		err = errors.New("ipm: MaxIter must not be negative")
	case o.MaxCorrectors < 0:
		err = errors.New("ipm: MaxCorrectors must not be negative")
	case o.Tol < 0 || math.IsNaN(o.Tol):
		err = errors.New("ipm: Tol must be a non-negative number")
	case o.SigmaSchedule != SigmaMehrotra && o.SigmaSchedule != SigmaGondzio:
		err = errors.New("ipm: unknown SigmaSchedule")
	}
	if err != nil {
		return Options{}, err
	}

	if o.MaxIter == 0 {
		o.MaxIter = 100
	}
	if o.MaxCorrectors == 0 {
		o.MaxCorrectors = 8
	}
	if o.Tol == 0 {
		o.Tol = 1e-8
	}
	return o, nil
}
