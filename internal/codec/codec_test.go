package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/businesscard-service/internal/model"
)

// sampleCards returns two fully populated business cards.
func sampleCards() []model.BusinessCard {
	return []model.BusinessCard{
		{
			Id:          11,
			Name:        "Erika Mustermann",
			Gender:      "Female",
			Phone:       "+49 0815 4711",
			DateOfBirth: model.NewDate(1969, time.March, 2),
			Email:       model.Optional("erika@example.com"),
			Address:     model.Optional("Heidestraße 17, Köln"),
			PhotoBase64: model.Optional("iVBORw0KGgo="),
		},
		{
			Id:          12,
			Name:        "Rudi Völler",
			Gender:      "Male",
			Phone:       "+49 1234567890",
			DateOfBirth: model.NewDate(1960, time.April, 13),
			Email:       model.Optional("rudi@example.com"),
			Address:     model.Optional("Am Stadion 1, Leverkusen"),
			PhotoBase64: model.Optional("R0lGODdh"),
		},
	}
}

// assertSameContact compares the fields that every codec carries over.
func assertSameContact(t *testing.T, want model.BusinessCard, got model.BusinessCard) {
	t.Helper()
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Gender, got.Gender)
	assert.Equal(t, want.Phone, got.Phone)
	assert.Equal(t, want.DateOfBirth, got.DateOfBirth)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, want.Address, got.Address)
	assert.Equal(t, int64(0), got.Id)
}

// blankPNG returns a white PNG image without any QR code on it.
func blankPNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
