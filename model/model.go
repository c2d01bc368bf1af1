// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model ingests raw LP arrays, validates them, reformulates
// inequalities into equalities via slack columns, and applies
// Curtis-Reid scaling.
package model

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ipmcore/ipm/crscale"
	"github.com/ipmcore/ipm/sparsemat"
)

// Sense is the constraint type of a row before reformulation.
type Sense int

const (
	LE Sense = iota
	EQ
	GE
)

func (s Sense) String() string {
	switch s {
	case LE:
		return "LE"
	case EQ:
		return "EQ"
	case GE:
		return "GE"
	default:
		return "unknown"
	}
}

// Raw is the external input contract: raw arrays as they arrive from
// a model/MPS reader (out of scope here).
type Raw struct {
	NumVar, NumCon int
	Obj            []float64
	Rhs            []float64
	Lower, Upper   []float64
	// A in compressed-column form: Ptr has length NumVar+1.
	Ptr, Row []int
	Val      []float64
	Sense    []Sense
}

// Model is the immutable, post-reformulation LP: N variables (including
// added slacks), M constraints, every row an equality.
type Model struct {
	N, M int
	// NumOrigVar is the number of variables present before slack
	// columns were appended.
	NumOrigVar int
	C, B       []float64
	L, U       []float64
	A          *sparsemat.Matrix
	// OrigSense records the pre-reformulation constraint type per row,
	// kept so the driver can report a "slack" value in the original
	// sense's units.
	OrigSense []Sense

	// RowExp, ColExp are the Curtis-Reid power-of-two scaling exponents
	// actually applied to A/B/L/U/C. Both are all-zero when scaling was
	// skipped (degenerate row/column, scenario 5).
	RowExp, ColExp []int
	// CostExp, RhsExp are uniform log2-magnitude exponents recorded for
	// diagnostics describing the typical scale of the cost
	// and rhs vectors before Curtis-Reid scaling is applied. They are
	// metadata only and are never applied arithmetically, so unscaling
	// never needs to invert them.
	CostExp, RhsExp int
	// Scaled records whether Curtis-Reid scaling was actually applied.
	Scaled bool
}

// New validates raw, reformulates inequalities into equalities via
// slack columns, and applies Curtis-Reid scaling (falling back to no
// scaling if A has a degenerate row or column).
func New(raw Raw) (*Model, error) {
	if err := validateRaw(raw); err != nil {
		return nil, err
	}

	a := &sparsemat.Matrix{
		NRows: raw.NumCon,
		NCols: raw.NumVar,
		Ptr:   append([]int(nil), raw.Ptr...),
		Row:   append([]int(nil), raw.Row...),
		Val:   append([]float64(nil), raw.Val...),
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	c := append([]float64(nil), raw.Obj...)
	b := append([]float64(nil), raw.Rhs...)
	l := append([]float64(nil), raw.Lower...)
	u := append([]float64(nil), raw.Upper...)
	origSense := append([]Sense(nil), raw.Sense...)

	for i, s := range raw.Sense {
		switch s {
		case EQ:
			continue
		case LE:
			if _, err := a.AppendColumn([]int{i}, []float64{1}); err != nil {
				return nil, fmt.Errorf("model: reformulating row %d: %w", i, err)
			}
		case GE:
			if _, err := a.AppendColumn([]int{i}, []float64{-1}); err != nil {
				return nil, fmt.Errorf("model: reformulating row %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("model: row %d has unknown sense %d", i, s)
		}
		c = append(c, 0)
		l = append(l, 0)
		u = append(u, math.Inf(1))
	}

	m := &Model{
		N: a.NCols, M: a.NRows,
		NumOrigVar: raw.NumVar,
		C:          c, B: b, L: l, U: u, A: a,
		OrigSense: origSense,
		RowExp:    make([]int, a.NRows),
		ColExp:    make([]int, a.NCols),
	}

	m.CostExp = computeUniformExponent(m.C)
	m.RhsExp = computeUniformExponent(m.B)

	exp, err := crscale.Compute(a)
	if err == nil {
		m.RowExp, m.ColExp = exp.Row, exp.Col
		m.Scaled = true
		m.applyScaling()
	} else if !errors.Is(err, crscale.ErrDegenerateRowOrCol) {
		return nil, fmt.Errorf("model: computing scaling: %w", err)
	}
	// else: degenerate row/column — keep the zero exponents already
	// stored and solve unscaled.

	return m, nil
}

func validateRaw(raw Raw) error {
	switch {
	case raw.NumVar <= 0:
		return errors.New("model: NumVar must be positive")
	case raw.NumCon <= 0:
		return errors.New("model: NumCon must be positive")
	case len(raw.Obj) != raw.NumVar:
		return fmt.Errorf("model: len(Obj)=%d, want %d", len(raw.Obj), raw.NumVar)
	case len(raw.Rhs) != raw.NumCon:
		return fmt.Errorf("model: len(Rhs)=%d, want %d", len(raw.Rhs), raw.NumCon)
	case len(raw.Lower) != raw.NumVar || len(raw.Upper) != raw.NumVar:
		return fmt.Errorf("model: bound arrays must have length %d", raw.NumVar)
	case len(raw.Sense) != raw.NumCon:
		return fmt.Errorf("model: len(Sense)=%d, want %d", len(raw.Sense), raw.NumCon)
	case len(raw.Ptr) != raw.NumVar+1:
		return fmt.Errorf("model: len(Ptr)=%d, want %d", len(raw.Ptr), raw.NumVar+1)
	case raw.Ptr[0] != 0:
		return errors.New("model: Ptr[0] must be 0")
	case len(raw.Row) != len(raw.Val):
		return errors.New("model: Row and Val must have equal length")
	}
	for i, v := range raw.Obj {
		if !isFinite(v) {
			return fmt.Errorf("model: Obj[%d] is not finite", i)
		}
	}
	for i, v := range raw.Rhs {
		if !isFinite(v) {
			return fmt.Errorf("model: Rhs[%d] is not finite", i)
		}
	}
	for i := range raw.Lower {
		l, u := raw.Lower[i], raw.Upper[i]
		if math.IsNaN(l) || math.IsNaN(u) {
			return fmt.Errorf("model: bound %d is NaN", i)
		}
		if l > u {
			return fmt.Errorf("model: Lower[%d]=%g > Upper[%d]=%g", i, l, i, u)
		}
	}
	for j := 0; j < raw.NumVar; j++ {
		if raw.Ptr[j+1] < raw.Ptr[j] {
			return fmt.Errorf("model: Ptr not non-decreasing at column %d", j)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (m *Model) applyScaling() {
	for j := 0; j < m.N; j++ {
		cj := m.ColExp[j]
		m.C[j] = crscale.Apply2(m.C[j], cj)
		m.L[j] = crscale.Apply2(m.L[j], -cj)
		m.U[j] = crscale.Apply2(m.U[j], -cj)
	}
	for i := 0; i < m.M; i++ {
		m.B[i] = crscale.Apply2(m.B[i], m.RowExp[i])
	}
	for j := 0; j < m.A.NCols; j++ {
		for k := m.A.Ptr[j]; k < m.A.Ptr[j+1]; k++ {
			i := m.A.Row[k]
			m.A.Val[k] = crscale.Apply2(m.A.Val[k], m.RowExp[i]+m.ColExp[j])
		}
	}
}

// UnscaleX maps a variable-space vector (x, xl, xu, zl or zu) computed
// in scaled space back to the user's original units for column j.
// dual selects whether j indexes a primal-type quantity (x, xl, xu:
// scaled the same way as bounds) or a dual-type quantity (zl, zu:
// scaled inversely).
func (m *Model) UnscaleX(j int, v float64, dual bool) float64 {
	if dual {
		return crscale.Apply2(v, -m.ColExp[j])
	}
	return crscale.Apply2(v, m.ColExp[j])
}

// UnscaleY maps a dual (row) vector entry back to original units.
func (m *Model) UnscaleY(i int, v float64) float64 {
	return crscale.Apply2(v, m.RowExp[i])
}

// HasLower/HasUpper report whether variable j carries a finite bound.
func (m *Model) HasLower(j int) bool { return !math.IsInf(m.L[j], -1) }
func (m *Model) HasUpper(j int) bool { return !math.IsInf(m.U[j], 1) }

// SlackColumn returns the column index of the slack variable appended
// for original row i's inequality, and false for an EQ row (no slack
// was appended). Slack columns were appended in row order immediately
// after the NumOrigVar original columns, one per LE/GE row.
func (m *Model) SlackColumn(i int) (col int, ok bool) {
	if m.OrigSense[i] == EQ {
		return 0, false
	}
	col = m.NumOrigVar
	for k := 0; k < i; k++ {
		if m.OrigSense[k] != EQ {
			col++
		}
	}
	return col, true
}

// computeUniformExponent returns -round(median(log2|nonzero v_i|)),
// the exponent that would bring the typical magnitude of v to order 1;
// used only as reporting metadata (see Model.CostExp/RhsExp).
func computeUniformExponent(v []float64) int {
	mags := make([]float64, 0, len(v))
	for _, x := range v {
		if x != 0 {
			mags = append(mags, math.Log2(math.Abs(x)))
		}
	}
	if len(mags) == 0 {
		return 0
	}
	sort.Float64s(mags)
	median := mags[len(mags)/2]
	if len(mags)%2 == 0 {
		median = 0.5 * (mags[len(mags)/2-1] + mags[len(mags)/2])
	}
	return -int(math.Round(median))
}
