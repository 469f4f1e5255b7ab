package engine

import (
	"testing"
	"time"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/internal/params"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "../../config/tax_tables"

func loadedStore(t *testing.T) *params.YAMLStore {
	t.Helper()
	store := params.NewYAMLStore()
	require.NoError(t, store.Load(fixtureDir))
	return store
}

func baseInput(jurisdiction domain.Jurisdiction, payDate time.Time, gross money.Money, frequency domain.PayPeriodFrequency) domain.CalculationInput {
	return domain.CalculationInput{
		EmployeeID:   uuid.New(),
		Jurisdiction: jurisdiction,
		Frequency:    frequency,
		PayDate:      payDate,
		GrossPay:     gross,
	}
}

func TestEngineCalculateBalancesGrossAgainstNetAndDeductions(t *testing.T) {
	e := New(loadedStore(t), nil)
	input := baseInput(domain.ON, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), money.New(2000.00), domain.BiWeekly)

	result, err := e.Calculate(input)
	require.NoError(t, err)

	sum := result.TotalDeductions.Add(result.NetPay)
	require.True(t, sum.Equal(result.GrossPay))
}

func TestEngineCalculateUsesJanuaryEditionBeforeJuly(t *testing.T) {
	e := New(loadedStore(t), nil)
	input := baseInput(domain.ON, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), money.New(2000.00), domain.BiWeekly)

	result, err := e.Calculate(input)
	require.NoError(t, err)
	require.Equal(t, domain.EditionJan, result.EditionUsed)
}

func TestEngineCalculateUsesJulyEditionOnAndAfterJuly(t *testing.T) {
	e := New(loadedStore(t), nil)
	input := baseInput(domain.ON, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), money.New(2000.00), domain.BiWeekly)

	result, err := e.Calculate(input)
	require.NoError(t, err)
	require.Equal(t, domain.EditionJul, result.EditionUsed)
}

func TestEngineCalculateAdvancesYTDAccumulator(t *testing.T) {
	e := New(loadedStore(t), nil)
	payDate := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	input := baseInput(domain.AB, payDate, money.New(2000.00), domain.BiWeekly)
	input.YTDBefore = domain.YTDAccumulator{
		Year:                2025,
		PensionableEarnings: money.New(10000.00),
		CPPContribution:     money.New(500.00),
	}

	result, err := e.Calculate(input)
	require.NoError(t, err)

	require.True(t, result.YTDAfter.PensionableEarnings.GreaterThan(input.YTDBefore.PensionableEarnings))
	require.True(t, result.YTDAfter.CPPContribution.GreaterThanOrEqual(input.YTDBefore.CPPContribution))
}

func TestEngineCalculateEmployerCPPMatchesTotalContribution(t *testing.T) {
	e := New(loadedStore(t), nil)
	input := baseInput(domain.SK, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), money.New(3000.00), domain.BiWeekly)

	result, err := e.Calculate(input)
	require.NoError(t, err)
	require.True(t, result.EmployerCPP.Equal(result.CPPContribution.Add(result.CPP2Contribution)))
}

func TestEngineCalculateAllTwelveJurisdictionsProduceNonNegativeNetPay(t *testing.T) {
	store := loadedStore(t)
	e := New(store, nil)

	for _, j := range domain.Jurisdictions {
		input := baseInput(j, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), money.New(2500.00), domain.BiWeekly)
		result, err := e.Calculate(input)
		require.NoError(t, err, "jurisdiction %s", j)
		require.True(t, result.NetPay.IsPositive() || result.NetPay.IsZero(), "jurisdiction %s produced negative net pay", j)
	}
}

func TestEngineCalculateMonthlyAlbertaProducesProvincialTax(t *testing.T) {
	e := New(loadedStore(t), nil)
	input := baseInput(domain.AB, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), money.New(6000.00), domain.Monthly)

	result, err := e.Calculate(input)
	require.NoError(t, err)
	require.True(t, result.ProvincialTax.IsPositive())
}

func TestEngineCalculateMissingYearReturnsError(t *testing.T) {
	e := New(loadedStore(t), nil)
	input := baseInput(domain.ON, time.Date(1999, 3, 15, 0, 0, 0, 0, time.UTC), money.New(2000.00), domain.BiWeekly)

	_, err := e.Calculate(input)
	require.Error(t, err)
}
