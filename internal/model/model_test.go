package model_test

import (
	"testing"

	"github.com/piwi3910/cutstock/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTileDimensionsRejectsNonPositive(t *testing.T) {
	_, err := model.NewTileDimensions("t1", 0, 10, "", model.OrientationRotatable, "")
	assert.Error(t, err)
}

func TestTileDimensionsIsSquare(t *testing.T) {
	sq, err := model.NewTileDimensions("t1", 10, 10, "", model.OrientationRotatable, "")
	require.NoError(t, err)
	assert.True(t, sq.IsSquare())
	assert.False(t, sq.CanRotate(model.GrainNone))
}

func TestCanPlaceWithGrain(t *testing.T) {
	assert.True(t, model.CanPlaceWithGrain(model.GrainNone, model.GrainNone, true))
	assert.False(t, model.CanPlaceWithGrain(model.GrainHorizontal, model.GrainNone, true))
	assert.False(t, model.CanPlaceWithGrain(model.GrainNone, model.GrainVertical, true))
	assert.True(t, model.CanPlaceWithGrain(model.GrainHorizontal, model.GrainNone, false))
}

func TestExpandPartsQuantity(t *testing.T) {
	p := model.NewPart("shelf", 50, 30, 3)
	tiles, err := model.ExpandParts([]model.Part{p}, 10)
	require.NoError(t, err)
	require.Len(t, tiles, 3)
	assert.Equal(t, int64(500), tiles[0].Width)
	assert.Equal(t, int64(300), tiles[0].Height)
}

func TestExpandPartsSkipsDisabled(t *testing.T) {
	p := model.NewPart("shelf", 50, 30, 1)
	p.Enabled = false
	tiles, err := model.ExpandParts([]model.Part{p}, 10)
	require.NoError(t, err)
	assert.Empty(t, tiles)
}

func TestCutSettingsValidate(t *testing.T) {
	s := model.DefaultSettings()
	assert.NoError(t, s.Validate())

	s.KerfWidth = -1
	err := s.Validate()
	require.Error(t, err)
	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, model.CodeInvalidConfiguration, verr.Code)
}

func TestEdgeBanding(t *testing.T) {
	eb := model.EdgeBanding{Top: true, Left: true}
	assert.True(t, eb.HasAny())
	assert.Equal(t, 2, eb.EdgeCount())
	assert.Equal(t, 80.0, eb.LinearLength(50, 30)) // top=50 + left=30
	assert.Equal(t, "T+L", eb.String())
}
