package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLicenseEvidence(t *testing.T) {
	tests := []struct {
		name        string
		reason      string
		wantNumber  string
		wantCountry string
		wantOK      bool
	}{
		{
			name:        "canonical shape",
			reason:      "License: VET-9, Country: US",
			wantNumber:  "VET-9",
			wantCountry: "US",
			wantOK:      true,
		},
		{
			name:        "case insensitive with extra spacing",
			reason:      "license:  ABC123 , country: DE",
			wantNumber:  "ABC123",
			wantCountry: "DE",
			wantOK:      true,
		},
		{
			name:        "embedded in longer text",
			reason:      "Practicing since 2011. License: TX-44821, Country: US",
			wantNumber:  "TX-44821",
			wantCountry: "US",
			wantOK:      true,
		},
		{name: "free text without evidence", reason: "trust me, I am a vet", wantOK: false},
		{name: "empty", reason: "", wantOK: false},
		{name: "missing country", reason: "License: VET-9", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, country, ok := ParseLicenseEvidence(tt.reason)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantNumber, number)
				assert.Equal(t, tt.wantCountry, country)
			}
		})
	}
}

func TestFormatLicenseEvidence_RoundTrip(t *testing.T) {
	formatted := FormatLicenseEvidence("VET-9", "US")
	number, country, ok := ParseLicenseEvidence(formatted)

	require.True(t, ok)
	assert.Equal(t, "VET-9", number)
	assert.Equal(t, "US", country)
}
