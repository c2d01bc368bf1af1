// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ipm

import (
	"fmt"
	"io"
)

// LogLevel controls the amount of detail the driver reports while
// solving, in the style of lbfgsb.Logger.
type LogLevel int

const (
	// LogNoop emits nothing.
	LogNoop LogLevel = iota
	// LogSummary emits one line when the solve terminates.
	LogSummary
	// LogIteration emits one line per iteration: objective,
	// infeasibilities, mu, step sizes.
	LogIteration
	// LogVerbose emits the same lines as LogIteration; the driver has
	// no output specific to this level.
	LogVerbose
)

// Logger writes driver progress to Out. The zero value discards all
// output (Out is nil and every write is a no-op).
type Logger struct {
	Level LogLevel
	Out   io.Writer
}

func (l *Logger) enable(level LogLevel) bool {
	return l.Out != nil && l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	if l.Out == nil {
		return
	}
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Out, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Out, format)
	}
}
