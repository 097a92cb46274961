package harness

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/computacionparalela/tiny-md/internal/stats"
	"github.com/computacionparalela/tiny-md/internal/table"
)

func defaultProfile() stats.EpsilonProfile {
	return stats.EpsilonProfile{
		Mean: []float64{0, 0, 17, 0.3},
		Std:  []float64{0, 0, 25, 0.2},
	}
}

// scriptedSampler replays one canned output per run, cycling when exhausted.
func scriptedSampler(outputs ...[]byte) (*Sampler, *int) {
	calls := 0
	s := NewSampler(func(context.Context) ([]byte, error) {
		out := outputs[calls%len(outputs)]
		calls++
		return out, nil
	})
	return s, &calls
}

func TestAcceptance_AllRunsIdenticalPasses(t *testing.T) {
	baseline, err := table.Parse("1.0 2.0 3.0 4.0\n1.0 2.0 3.0 4.0\n1.0 2.0 3.0 4.0\n")
	require.NoError(t, err)
	sampler, _ := scriptedSampler(fakeOutput(
		[]float64{1, 2, 3, 4},
		[]float64{1, 2, 3, 4},
		[]float64{1, 2, 3, 4},
	))

	var out bytes.Buffer
	a := &Acceptance{
		Baseline:  baseline,
		Profile:   defaultProfile(),
		Runs:      5,
		Threshold: 0.9,
		Out:       &out,
	}
	report, err := a.Evaluate(context.Background(), sampler)
	require.NoError(t, err)

	assert.Equal(t, 5, report.Accepted)
	assert.Equal(t, 1.0, report.SuccessRate)
	assert.True(t, report.Passed, "every run identical to the baseline must pass")
	assert.Equal(t, 5, strings.Count(out.String(), "OK"))
}

func TestAcceptance_BoundsAreInclusive(t *testing.T) {
	// Column 2 differs by exactly its epsilon of 17.
	baseline, err := table.Parse("1 1 1 1\n")
	require.NoError(t, err)
	sampler, _ := scriptedSampler(fakeOutput([]float64{1, 1, 18, 1}))

	a := &Acceptance{
		Baseline:  baseline,
		Profile:   defaultProfile(),
		Runs:      1,
		Threshold: 1.0,
	}
	report, err := a.Evaluate(context.Background(), sampler)
	require.NoError(t, err)
	assert.True(t, report.Outcomes[0].Accepted)
	assert.True(t, report.Passed)
}

func TestAcceptance_RejectionContinuesLoop(t *testing.T) {
	baseline, err := table.Parse("1 1 1 1\n")
	require.NoError(t, err)
	// Runs 1, 3, 4, 5 match; run 2 exceeds column 2's mean epsilon.
	sampler, calls := scriptedSampler(
		fakeOutput([]float64{1, 1, 1, 1}),
		fakeOutput([]float64{1, 1, 30, 1}),
		fakeOutput([]float64{1, 1, 1, 1}),
		fakeOutput([]float64{1, 1, 1, 1}),
		fakeOutput([]float64{1, 1, 1, 1}),
	)

	var out bytes.Buffer
	a := &Acceptance{
		Baseline:  baseline,
		Profile:   defaultProfile(),
		Runs:      5,
		Threshold: 0.8,
		Out:       &out,
	}
	report, err := a.Evaluate(context.Background(), sampler)
	require.NoError(t, err)

	assert.Equal(t, 5, *calls, "a rejected run must not abort the loop")
	assert.Equal(t, 4, report.Accepted)
	assert.InDelta(t, 0.8, report.SuccessRate, 1e-12)
	assert.True(t, report.Passed, "success rate equal to the threshold passes")

	require.False(t, report.Outcomes[1].Accepted)
	require.Len(t, report.Outcomes[1].Violations, 1)
	v := report.Outcomes[1].Violations[0]
	assert.Equal(t, "energia_potencial_media", v.Name)
	assert.Equal(t, "mean", v.Stat)
	assert.InDelta(t, 29, v.Observed, 1e-12)
	assert.Contains(t, out.String(), "REJECTED")
	assert.Contains(t, out.String(), "exceeds epsilon")
}

func TestAcceptance_BelowThresholdFails(t *testing.T) {
	baseline, err := table.Parse("1 1 1 1\n")
	require.NoError(t, err)
	sampler, _ := scriptedSampler(
		fakeOutput([]float64{1, 1, 1, 1}),
		fakeOutput([]float64{1, 1, 30, 1}),
	)

	a := &Acceptance{
		Baseline:  baseline,
		Profile:   defaultProfile(),
		Runs:      2,
		Threshold: 0.9,
	}
	report, err := a.Evaluate(context.Background(), sampler)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, report.SuccessRate, 1e-12)
	assert.False(t, report.Passed)
}

func TestAcceptance_ExecutionErrorAborts(t *testing.T) {
	baseline, err := table.Parse("1 1 1 1\n")
	require.NoError(t, err)

	calls := 0
	sampler := NewSampler(func(context.Context) ([]byte, error) {
		calls++
		if calls == 2 {
			return nil, &ExecutionError{Program: "./tiny_md", ExitCode: 1}
		}
		return fakeOutput([]float64{1, 1, 1, 1}), nil
	})

	a := &Acceptance{
		Baseline:  baseline,
		Profile:   defaultProfile(),
		Runs:      5,
		Threshold: 0.9,
	}
	report, err := a.Evaluate(context.Background(), sampler)
	require.ErrorIs(t, err, ErrExecution)
	assert.Nil(t, report, "no partial report after an execution failure")
	assert.Equal(t, 2, calls)
}

func TestAcceptance_ShapeMismatchAborts(t *testing.T) {
	baseline, err := table.Parse("1 1 1 1\n1 1 1 1\n")
	require.NoError(t, err)
	sampler, _ := scriptedSampler(fakeOutput([]float64{1, 1, 1, 1}))

	a := &Acceptance{
		Baseline:  baseline,
		Profile:   defaultProfile(),
		Runs:      1,
		Threshold: 0.9,
	}
	_, err = a.Evaluate(context.Background(), sampler)
	require.ErrorIs(t, err, stats.ErrShapeMismatch)
}

func TestAcceptance_EvaluatorRunsOnce(t *testing.T) {
	baseline, err := table.Parse("1 1 1 1\n")
	require.NoError(t, err)
	sampler, _ := scriptedSampler(fakeOutput([]float64{1, 1, 1, 1}))

	a := &Acceptance{
		Baseline:  baseline,
		Profile:   defaultProfile(),
		Runs:      1,
		Threshold: 0.9,
	}
	_, err = a.Evaluate(context.Background(), sampler)
	require.NoError(t, err)

	_, err = a.Evaluate(context.Background(), sampler)
	require.Error(t, err)
}

func TestAcceptance_InvalidProfileRejectedBeforeRunning(t *testing.T) {
	baseline, err := table.Parse("1 1 1 1\n")
	require.NoError(t, err)

	calls := 0
	sampler := NewSampler(func(context.Context) ([]byte, error) {
		calls++
		return fakeOutput([]float64{1, 1, 1, 1}), nil
	})

	a := &Acceptance{
		Baseline:  baseline,
		Profile:   stats.EpsilonProfile{Mean: []float64{0}, Std: []float64{0}},
		Runs:      3,
		Threshold: 0.9,
	}
	_, err = a.Evaluate(context.Background(), sampler)
	require.Error(t, err)
	assert.Zero(t, calls)
}
