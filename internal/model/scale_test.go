package model_test

import (
	"testing"

	"github.com/piwi3910/cutstock/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeScale(t *testing.T) {
	scale, d, err := model.ComputeScale([]string{"100.5", "30.25", "1000"})
	require.NoError(t, err)
	assert.Equal(t, 2, d) // max frac digits = 2, int digits <= 4, 4+2=6 fits
	assert.Equal(t, int64(100), scale)
}

func TestComputeScaleCapsDecimalPlaces(t *testing.T) {
	// integer digits 6 (100000) leaves no room for any fractional digits.
	scale, d, err := model.ComputeScale([]string{"100000", "1.23"})
	require.NoError(t, err)
	assert.Equal(t, 0, d)
	assert.Equal(t, int64(1), scale)
}

func TestComputeScaleRejectsOversizedIntegerPart(t *testing.T) {
	_, _, err := model.ComputeScale([]string{"1000000"})
	assert.ErrorIs(t, err, model.ErrInvalidDimension)
}

func TestScaleUnscaleRoundTrip(t *testing.T) {
	scale, d, err := model.ComputeScale([]string{"123.456", "10"})
	require.NoError(t, err)

	v, err := model.ScaleValue("123.456", d)
	require.NoError(t, err)
	assert.InDelta(t, 123.456, model.Unscale(v, scale), 1e-9)

	v2, err := model.ScaleValue("10", d)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, model.Unscale(v2, scale), 1e-9)
}

func TestScaleValueRoundsHalfUp(t *testing.T) {
	v, err := model.ScaleValue("1.25", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(13), v) // 1.25 -> keep "2", round digit "5" -> 13
}

func TestScaleValueRejectsGarbage(t *testing.T) {
	_, _, err := model.ComputeScale([]string{"abc"})
	assert.ErrorIs(t, err, model.ErrInvalidDimension)
}
