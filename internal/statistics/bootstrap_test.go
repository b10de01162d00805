package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapCITooFewPoints(t *testing.T) {
	ci := BootstrapCI(nil, 0.95)
	assert.Equal(t, 0, ci.NumBootstraps)
	assert.Equal(t, 0.0, ci.Mean)

	ci = BootstrapCI([]float64{7}, 0.95)
	assert.Equal(t, 0, ci.NumBootstraps)
	assert.Equal(t, 7.0, ci.Lower)
	assert.Equal(t, 7.0, ci.Upper)
	assert.Equal(t, 7.0, ci.Mean)
}

func TestBootstrapCIBoundsContainMean(t *testing.T) {
	values := []float64{10, 12, 11, 13, 9, 10, 12, 11}
	ci := BootstrapCIWithSeed(values, 0.95, 42)

	require.Equal(t, DefaultBootstrapIterations, ci.NumBootstraps)
	assert.LessOrEqual(t, ci.Lower, ci.Mean)
	assert.GreaterOrEqual(t, ci.Upper, ci.Mean)
	assert.InDelta(t, 11.0, ci.Mean, 0.5)
}

func TestBootstrapCIDeterministicUnderSeed(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	a := BootstrapCIWithSeed(values, 0.90, 7)
	b := BootstrapCIWithSeed(values, 0.90, 7)
	assert.Equal(t, a, b)
}

func TestBootstrapCIConstantData(t *testing.T) {
	values := []float64{4, 4, 4, 4}
	ci := BootstrapCIWithSeed(values, 0.95, 1)
	assert.Equal(t, 4.0, ci.Lower)
	assert.Equal(t, 4.0, ci.Upper)
}

func TestIsSignificant(t *testing.T) {
	assert.True(t, IsSignificant(ConfidenceInterval{Lower: 1, Upper: 3}))
	assert.True(t, IsSignificant(ConfidenceInterval{Lower: -3, Upper: -1}))
	assert.False(t, IsSignificant(ConfidenceInterval{Lower: -1, Upper: 1}))
	assert.False(t, IsSignificant(ConfidenceInterval{Lower: 0, Upper: 1}))
}
