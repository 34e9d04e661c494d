package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HO1806/reeltrack/internal/domain"
	domainerrors "github.com/HO1806/reeltrack/internal/errors"
	"github.com/HO1806/reeltrack/internal/validation"
)

type addRequest struct {
	Title  string             `json:"title" validate:"required,max=500"`
	Type   domain.MediaType   `json:"type" validate:"mediatype"`
	Year   int                `json:"year" validate:"gte=0,lte=3000"`
	Status domain.WatchStatus `json:"status,omitempty" validate:"omitempty,watchstatus"`
}

func TestValidator_Valid(t *testing.T) {
	v := validation.New()

	err := v.Validate(addRequest{Title: "Heat", Type: domain.MediaMovie, Year: 1995})
	assert.NoError(t, err)
}

func TestValidator_Errors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       addRequest
		wantField string
		wantMsg   string
	}{
		{"missing title", addRequest{Type: domain.MediaMovie}, "title", "is required"},
		{"bad type", addRequest{Title: "x", Type: "book"}, "type", "must be movie or series"},
		{"bad status", addRequest{Title: "x", Type: domain.MediaSeries, Status: "binged"}, "status", "must be one of: want_to_watch watching watched dropped"},
		{"negative year", addRequest{Title: "x", Type: domain.MediaMovie, Year: -1}, "year", "must be greater than or equal to 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_StremioImportPaths(t *testing.T) {
	v := validation.New()

	payload := domain.StremioImport{
		Items: []domain.StremioItem{
			{Title: "Heat", Type: domain.MediaMovie},
			{Title: "", Type: "anime"},
		},
	}

	err := v.Validate(payload)
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	details := domainErr.Details.(map[string]string)
	assert.Equal(t, "is required", details["items[1].title"])
	assert.Contains(t, details, "items[1].type")
	assert.NotContains(t, details, "items[0].title")
}

func TestValidator_EmptyImportItems(t *testing.T) {
	err := validation.New().Validate(domain.StremioImport{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
