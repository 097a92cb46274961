package stats

import (
	"errors"

	"gonum.org/v1/gonum/stat"

	"github.com/computacionparalela/tiny-md/internal/table"
)

// MeanTable computes the elementwise mean across equal-shaped tables.
// Diagnostic output only; threshold derivation never consumes it.
func MeanTable(tables []table.Table) (table.Table, error) {
	if len(tables) == 0 {
		return table.Table{}, errors.New("mean table: no tables")
	}
	rows := tables[0].NumRows()
	for _, t := range tables[1:] {
		if t.NumRows() != rows {
			return table.Table{}, &ShapeMismatchError{ARows: rows, BRows: t.NumRows()}
		}
	}
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, table.ColumnCount)
		for c := 0; c < table.ColumnCount; c++ {
			sum := 0.0
			for _, t := range tables {
				sum += t.At(i, c)
			}
			row[c] = sum / float64(len(tables))
		}
		out[i] = row
	}
	return table.New(out)
}

// CalibrationStats aggregates pairwise DiffVectors: per column, the mean and
// population standard deviation across the pair mean components, and the same
// across the pair std components.
type CalibrationStats struct {
	MeanOfMeans [table.ColumnCount]float64
	StdOfMeans  [table.ColumnCount]float64
	MeanOfStds  [table.ColumnCount]float64
	StdOfStds   [table.ColumnCount]float64
	Pairs       int
}

// Aggregate reduces the C(n,2) pairwise DiffVectors of a calibration run.
func Aggregate(diffs []DiffVector) CalibrationStats {
	s := CalibrationStats{Pairs: len(diffs)}
	means := make([]float64, len(diffs))
	stds := make([]float64, len(diffs))
	for c := 0; c < table.ColumnCount; c++ {
		for i, d := range diffs {
			means[i] = d.Mean[c]
			stds[i] = d.Std[c]
		}
		s.MeanOfMeans[c] = stat.Mean(means, nil)
		s.StdOfMeans[c] = stat.PopStdDev(means, nil)
		s.MeanOfStds[c] = stat.Mean(stds, nil)
		s.StdOfStds[c] = stat.PopStdDev(stds, nil)
	}
	return s
}

// Recommend derives an epsilon profile as mean + k·std per column.
//
// The default k of 2 covers roughly 95% of runs under the approximation that
// run-to-run differences are normally distributed.
func (s CalibrationStats) Recommend(k float64) EpsilonProfile {
	p := EpsilonProfile{
		Mean: make([]float64, table.ColumnCount),
		Std:  make([]float64, table.ColumnCount),
	}
	for c := 0; c < table.ColumnCount; c++ {
		p.Mean[c] = s.MeanOfMeans[c] + k*s.StdOfMeans[c]
		p.Std[c] = s.MeanOfStds[c] + k*s.StdOfStds[c]
	}
	return p
}
