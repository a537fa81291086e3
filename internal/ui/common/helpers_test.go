package common

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/bingo-client/internal/card"
	"github.com/palemoky/bingo-client/internal/host"
)

func TestTruncateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short name within limit", "Alice", 10, "Alice"},
		{"exact length", "HelloWorld", 10, "HelloWorld"},
		{"long name truncated", "VeryLongPlayerName", 10, "VeryLongP…"},
		{"amharic name truncated", "አበበ ቢቂላ", 4, "አበበ…"},
		{"empty name", "", 10, ""},
		{"single char limit", "Hello", 1, "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, TruncateName(tt.input, tt.maxLen))
		})
	}
}

func TestBallLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		variant card.Variant
		want    string
	}{
		{1, card.Variant75, "B-1"},
		{15, card.Variant75, "B-15"},
		{16, card.Variant75, "I-16"},
		{42, card.Variant75, "N-42"},
		{75, card.Variant75, "O-75"},
		{88, card.Variant90, "88"},
		{7, card.Variant90, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, BallLabel(tt.n, tt.variant))
		})
	}
}

func TestBallRange(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 75, BallRange(card.Variant75))
	assert.Equal(t, 90, BallRange(card.Variant90))
	assert.Equal(t, 75, BallRange(""))
}

func TestQRCode(t *testing.T) {
	t.Parallel()

	assert.Empty(t, QRCode(""))

	qr := QRCode("ROOM1")
	assert.NotEmpty(t, qr)
	assert.Greater(t, len(qr), 100)
}

func TestNewStyles_SchemeAware(t *testing.T) {
	t.Parallel()

	light := NewStyles(host.SchemeLight)
	dark := NewStyles(host.SchemeDark)

	assert.Equal(t, host.SchemeLight, light.Scheme)
	assert.Equal(t, host.SchemeDark, dark.Scheme)
	assert.NotEqual(t, light.Cell.GetBackground(), dark.Cell.GetBackground())
}
