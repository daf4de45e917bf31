package validate_test

import (
	"errors"
	"testing"

	"github.com/piwi3910/cutstock/internal/calcapi"
	"github.com/piwi3910/cutstock/internal/model"
	"github.com/piwi3910/cutstock/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRequest() calcapi.CalculationRequest {
	return calcapi.CalculationRequest{
		Client: calcapi.ClientInfo{ID: "client-1"},
		Config: calcapi.ConfigRequest{AccuracyFactor: 50},
		Parts: []calcapi.PartRequest{
			{Width: "400", Height: "300", Quantity: 2, Material: "ply", Enabled: true},
		},
		Stocks: []calcapi.StockRequest{
			{Width: "1000", Height: "600", Quantity: 1, Material: "ply"},
		},
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	result, err := validate.Validate(baseRequest())
	require.NoError(t, err)
	assert.Len(t, result.Parts, 2)
	assert.Len(t, result.Stocks, 1)
	assert.Empty(t, result.NoMaterial)
}

func TestValidateRejectsEmptyClientID(t *testing.T) {
	req := baseRequest()
	req.Client.ID = ""
	_, err := validate.Validate(req)
	require.Error(t, err)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, model.CodeInvalidInput, ve.Code)
}

func TestValidateRejectsOutOfRangeConfig(t *testing.T) {
	req := baseRequest()
	req.Config.KerfWidth = -1
	_, err := validate.Validate(req)
	require.Error(t, err)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, model.CodeInvalidConfiguration, ve.Code)
}

func TestValidateRejectsEmptyPartList(t *testing.T) {
	req := baseRequest()
	req.Parts = nil
	_, err := validate.Validate(req)
	require.Error(t, err)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, model.CodeInvalidTiles, ve.Code)
}

func TestValidateSplitsOutNoMaterialParts(t *testing.T) {
	req := baseRequest()
	req.Parts = append(req.Parts, calcapi.PartRequest{
		Width: "100", Height: "100", Quantity: 1, Material: "aluminum", Enabled: true,
	})
	result, err := validate.Validate(req)
	require.NoError(t, err)
	assert.Len(t, result.Parts, 2)
	require.Len(t, result.NoMaterial, 1)
	assert.Equal(t, "aluminum", result.NoMaterial[0].Material)
}

func TestValidateRejectsDimensionOutOfRange(t *testing.T) {
	req := baseRequest()
	req.Parts[0].Width = "200000"
	_, err := validate.Validate(req)
	require.Error(t, err)
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, model.CodeInvalidTiles, ve.Code)
}
