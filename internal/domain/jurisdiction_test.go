package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJurisdictionValid(t *testing.T) {
	assert.True(t, ON.Valid())
	assert.True(t, Jurisdiction("QC").Valid() == false) // Quebec is explicitly out of scope
	assert.False(t, Jurisdiction("XX").Valid())
}

func TestParseJurisdiction(t *testing.T) {
	j, err := ParseJurisdiction("AB")
	require.NoError(t, err)
	assert.Equal(t, AB, j)

	_, err = ParseJurisdiction("QC")
	assert.Error(t, err)
}

func TestJurisdictionsCoversAllTwelve(t *testing.T) {
	assert.Len(t, Jurisdictions, 12)
}

func TestPeriodsPerYear(t *testing.T) {
	assert.Equal(t, 52, Weekly.PeriodsPerYear())
	assert.Equal(t, 26, BiWeekly.PeriodsPerYear())
	assert.Equal(t, 24, SemiMonthly.PeriodsPerYear())
	assert.Equal(t, 12, Monthly.PeriodsPerYear())
	assert.Equal(t, 0, PayPeriodFrequency("invalid").PeriodsPerYear())
}

func TestFrequencyValid(t *testing.T) {
	assert.True(t, Weekly.Valid())
	assert.False(t, PayPeriodFrequency("invalid").Valid())
}

func TestEditionValid(t *testing.T) {
	assert.True(t, EditionJan.Valid())
	assert.True(t, EditionJul.Valid())
	assert.False(t, Edition("oct").Valid())
}

func TestEditionKeyString(t *testing.T) {
	k := EditionKey{Year: 2025, Edition: EditionJul, Jurisdiction: ON}
	assert.Equal(t, "2025-jul-ON", k.String())
}
