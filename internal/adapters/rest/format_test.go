package rest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$1,250.00", FormatPrice(1250))
	assert.Equal(t, "$49.99", FormatPrice(49.99))
	assert.Equal(t, "$0.00", FormatPrice(0))
	assert.Equal(t, "$1,234,567.50", FormatPrice(1234567.5))
}

func TestFormatPostedDate(t *testing.T) {
	assert.Equal(t, "03/07/2024", FormatPostedDate(time.Date(2024, 3, 7, 23, 59, 0, 0, time.UTC)))
}

func TestFormatPhone(t *testing.T) {
	cases := map[string]string{
		"5551234567":      "(555) 123-4567",
		"555-123-4567":    "(555) 123-4567",
		"+1 555 123 4567": "(555) 123-4567",
		" 12345 ":         "12345",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPhone(in), in)
	}
}
