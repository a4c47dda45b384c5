package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chawketodeh/eventy-events-platform/internal/models"
)

func validEvent() models.EventRequest {
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	return models.EventRequest{
		Title:         "Go meetup",
		ImageURL:      "https://cdn.example.com/a.png",
		StartDateTime: start,
		EndDateTime:   start.Add(2 * time.Hour),
		Price:         10,
	}
}

func TestValidatorEventRequest(t *testing.T) {
	v := NewValidator()

	req := validEvent()
	require.NoError(t, v.Struct(&req))

	req.EndDateTime = req.StartDateTime.Add(-time.Minute)
	err := v.Struct(&req)
	require.Error(t, err)
	assert.Contains(t, Describe(err), "EndDateTime failed gtefield=StartDateTime")

	req = validEvent()
	req.Title = ""
	req.Price = -1
	err = v.Struct(&req)
	require.Error(t, err)
	msg := Describe(err)
	assert.Contains(t, msg, "Title failed required")
	assert.Contains(t, msg, "Price failed gte=0")
}

func TestValidatorSupportedImage(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Var("image/png", "supported_image"))
	assert.Error(t, v.Var("application/pdf", "supported_image"))
}
