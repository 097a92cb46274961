// Package stats reduces differences between simulation tables to per-column
// summary statistics and checks them against tolerance profiles.
package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/computacionparalela/tiny-md/internal/table"
)

// ErrShapeMismatch is the kind wrapped by every ShapeMismatchError.
var ErrShapeMismatch = errors.New("table shape mismatch")

// ShapeMismatchError reports two tables that cannot be compared elementwise.
// Column width is fixed by the table type, so only row counts can disagree.
type ShapeMismatchError struct {
	ARows, BRows int
}

func (e *ShapeMismatchError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %d rows vs %d rows", ErrShapeMismatch.Error(), e.ARows, e.BRows)
}

func (e *ShapeMismatchError) Unwrap() error { return ErrShapeMismatch }

// DiffVector holds, per column, the mean and population standard deviation of
// the absolute elementwise differences between two equal-shaped tables.
type DiffVector struct {
	Mean [table.ColumnCount]float64
	Std  [table.ColumnCount]float64
}

// Diff computes the DiffVector of a and b.
//
// It is pure and symmetric; Diff(t, t) is all zeros. Tables of different row
// counts fail with ShapeMismatchError, never a silent numeric result.
func Diff(a, b table.Table) (DiffVector, error) {
	if a.NumRows() != b.NumRows() {
		return DiffVector{}, &ShapeMismatchError{ARows: a.NumRows(), BRows: b.NumRows()}
	}
	var d DiffVector
	buf := make([]float64, a.NumRows())
	for c := 0; c < table.ColumnCount; c++ {
		for i := range buf {
			buf[i] = math.Abs(a.At(i, c) - b.At(i, c))
		}
		d.Mean[c] = stat.Mean(buf, nil)
		d.Std[c] = stat.PopStdDev(buf, nil)
	}
	return d, nil
}

// EpsilonProfile is the per-column tolerance bounds a run's DiffVector is
// checked against. Supplied as configuration or derived by calibration.
type EpsilonProfile struct {
	Mean []float64 `yaml:"mean"`
	Std  []float64 `yaml:"std"`
}

// Validate rejects profiles of the wrong arity or with negative bounds.
func (p EpsilonProfile) Validate() error {
	if len(p.Mean) != table.ColumnCount {
		return fmt.Errorf("mean epsilon: got %d values, want %d", len(p.Mean), table.ColumnCount)
	}
	if len(p.Std) != table.ColumnCount {
		return fmt.Errorf("std epsilon: got %d values, want %d", len(p.Std), table.ColumnCount)
	}
	for c := 0; c < table.ColumnCount; c++ {
		if p.Mean[c] < 0 || p.Std[c] < 0 {
			return fmt.Errorf("epsilon for column %s is negative", table.ColumnNames[c])
		}
	}
	return nil
}

// Violation records one column statistic that exceeded its bound.
type Violation struct {
	Column   int
	Name     string
	Stat     string // "mean" or "std"
	Observed float64
	Bound    float64
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s difference %g exceeds epsilon %g", v.Name, v.Stat, v.Observed, v.Bound)
}

// Check returns every bound d exceeds, in column order with mean before std.
// Bounds are inclusive: an observation exactly at the bound is not a
// violation. An empty result means the run is accepted.
func (p EpsilonProfile) Check(d DiffVector) []Violation {
	var out []Violation
	for c := 0; c < table.ColumnCount; c++ {
		if d.Mean[c] > p.Mean[c] {
			out = append(out, Violation{
				Column: c, Name: table.ColumnNames[c], Stat: "mean",
				Observed: d.Mean[c], Bound: p.Mean[c],
			})
		}
		if d.Std[c] > p.Std[c] {
			out = append(out, Violation{
				Column: c, Name: table.ColumnNames[c], Stat: "std",
				Observed: d.Std[c], Bound: p.Std[c],
			})
		}
	}
	return out
}
