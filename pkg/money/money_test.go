package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRoundCentsHalfAwayFromZero(t *testing.T) {
	m, err := NewFromString("10.005")
	require.NoError(t, err)
	assert.Equal(t, "10.01", m.RoundCents().String())

	m, err = NewFromString("-10.005")
	require.NoError(t, err)
	assert.Equal(t, "-10.01", m.RoundCents().String())

	m, err = NewFromString("10.004")
	require.NoError(t, err)
	assert.Equal(t, "10.00", m.RoundCents().String())
}

func TestAnnualAndPerPeriod(t *testing.T) {
	m, err := NewFromString("1000.00")
	require.NoError(t, err)

	assert.Equal(t, "26000.00", m.Annual(26).String())

	annual, err := NewFromString("52000.00")
	require.NoError(t, err)
	assert.Equal(t, "2000.00", annual.PerPeriod(26).String())
}

func TestArithmetic(t *testing.T) {
	a, _ := NewFromString("100.50")
	b, _ := NewFromString("25.25")

	assert.Equal(t, "125.75", a.Add(b).String())
	assert.Equal(t, "75.25", a.Sub(b).String())
	assert.Equal(t, "201.00", a.Mul(decimal.NewFromInt(2)).String())
	assert.Equal(t, "50.25", a.Div(decimal.NewFromInt(2)).String())
}

func TestComparisons(t *testing.T) {
	a, _ := NewFromString("10.00")
	b, _ := NewFromString("20.00")

	assert.True(t, b.GreaterThan(a))
	assert.True(t, a.LessThan(b))
	assert.True(t, a.LessThanOrEqual(a))
	assert.True(t, a.GreaterThanOrEqual(a))
	assert.True(t, a.Equal(a))
	assert.True(t, Zero().IsZero())
	assert.True(t, a.IsPositive())
	assert.False(t, a.IsNegative())
}

func TestMinMaxFloor0(t *testing.T) {
	a, _ := NewFromString("10.00")
	b, _ := NewFromString("20.00")
	neg, _ := NewFromString("-5.00")

	assert.Equal(t, a, Min(a, b))
	assert.Equal(t, b, Max(a, b))
	assert.True(t, Floor0(neg).IsZero())
	assert.Equal(t, a, Floor0(a))
}

func TestJSONRoundTrip(t *testing.T) {
	m, err := NewFromString("1234.5")
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"1234.50"`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.RoundCents().Equal(decoded))
}

func TestJSONUnmarshalNull(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte("null"), &m))
	assert.True(t, m.IsZero())
}

func TestYAMLRoundTrip(t *testing.T) {
	m, err := NewFromString("71300.00")
	require.NoError(t, err)

	out, err := yaml.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.True(t, m.Equal(decoded))
}

func TestYAMLUnmarshalEmptyString(t *testing.T) {
	var m Money
	require.NoError(t, yaml.Unmarshal([]byte(`""`), &m))
	assert.True(t, m.IsZero())
}
