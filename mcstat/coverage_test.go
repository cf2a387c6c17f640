package mcstat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestValid(t *testing.T) {
	sorted, invalid := Valid([]float64{3, math.NaN(), 1, math.Inf(1), 2, math.Inf(-1)})
	assert.Equal(t, 3, invalid)
	assert.Equal(t, []float64{1, 2, 3}, sorted)
}

func TestCDF(t *testing.T) {
	sorted, cum := CDF([]float64{3, 1, 2})
	assert.Equal(t, []float64{1, 2, 3}, sorted)
	assert.Equal(t, []float64{0, 0.5, 1}, cum)

	t.Run("input is not mutated", func(t *testing.T) {
		in := []float64{2, 1}
		CDF(in)
		assert.Equal(t, []float64{2, 1}, in)
	})
}

func TestShortestCoverage(t *testing.T) {
	t.Run("picks the densest window", func(t *testing.T) {
		sorted := []float64{1, 2, 3, 4, 5, 100}

		lower, upper, err := ShortestCoverage(sorted, 0.5)
		require.NoError(t, err)
		assert.Equal(t, 1.0, lower)
		assert.Equal(t, 3.0, upper)
	})

	t.Run("full coverage spans the range", func(t *testing.T) {
		sorted := []float64{1, 2, 3, 4, 5}

		lower, upper, err := ShortestCoverage(sorted, 1)
		require.NoError(t, err)
		assert.Equal(t, 1.0, lower)
		assert.Equal(t, 5.0, upper)
	})

	t.Run("normal samples recover the known interval", func(t *testing.T) {
		dist := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(1)}
		samples := make([]float64, 100000)
		for i := range samples {
			samples[i] = dist.Rand()
		}
		sorted, invalid := Valid(samples)
		require.Zero(t, invalid)

		lower, upper, err := ShortestCoverage(sorted, OneSigma)
		require.NoError(t, err)
		assert.InDelta(t, -1.0, lower, 0.05)
		assert.InDelta(t, 1.0, upper, 0.05)

		wLower, wUpper, err := ShortestCoverage(sorted, 0.95)
		require.NoError(t, err)
		assert.Greater(t, wUpper-wLower, upper-lower)
	})

	t.Run("coverage out of range", func(t *testing.T) {
		_, _, err := ShortestCoverage([]float64{1, 2, 3}, 0)
		require.Error(t, err)

		_, _, err = ShortestCoverage([]float64{1, 2, 3}, 1.1)
		require.Error(t, err)
	})

	t.Run("too few samples", func(t *testing.T) {
		_, _, err := ShortestCoverage([]float64{1}, 0.5)
		require.ErrorIs(t, err, ErrInsufficientSamples)
	})
}

func TestMostProbable(t *testing.T) {
	t.Run("cluster wins", func(t *testing.T) {
		sorted := []float64{0, 0.1, 0.11, 0.12, 0.13, 0.9}
		mode := MostProbable(sorted, 0, 0.9)
		assert.Less(t, mode, 0.3)
	})

	t.Run("degenerate interval", func(t *testing.T) {
		sorted := []float64{5, 5, 5}
		assert.Equal(t, 5.0, MostProbable(sorted, 5, 5))
	})

	t.Run("stays inside the interval", func(t *testing.T) {
		sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
		mode := MostProbable(sorted, 3, 7)
		assert.GreaterOrEqual(t, mode, 3.0)
		assert.LessOrEqual(t, mode, 7.0)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("sentinels are reported, not fatal", func(t *testing.T) {
		samples := []float64{1, 2, 3, 4, math.NaN(), math.Inf(1), 5, 6, 7, 8}

		sum, err := Summarize(samples, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 10, sum.Trials)
		assert.Equal(t, 8, sum.Valid)
		assert.InDelta(t, 0.2, sum.InvalidFraction, 1e-12)
		assert.InDelta(t, 4.5, sum.Mean, 1e-12)
		assert.Equal(t, 1.0, sum.Lower)
		assert.Equal(t, 8.0, sum.Upper)
	})

	t.Run("below the valid minimum", func(t *testing.T) {
		samples := []float64{1, 2, 3, math.NaN()}

		_, err := Summarize(samples, 0.95, 100)
		require.ErrorIs(t, err, ErrInsufficientSamples)
	})

	t.Run("all invalid", func(t *testing.T) {
		samples := []float64{math.NaN(), math.Inf(-1)}

		_, err := Summarize(samples, 0.95, 2)
		require.ErrorIs(t, err, ErrInsufficientSamples)
	})
}
